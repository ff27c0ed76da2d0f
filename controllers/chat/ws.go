package chatControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/middleware"
	"github.com/souqly/souqly-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[uint]map[*websocket.Conn]bool) // session id -> conns
)

// GET /chat/sessions/:id/ws
//
// Attaches the caller to the session's live feed; sent messages are pushed
// to every attached connection.
func SessionSocket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		session, _, err := loadSession(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		wsMu.Lock()
		if wsClients[session.ID] == nil {
			wsClients[session.ID] = make(map[*websocket.Conn]bool)
		}
		wsClients[session.ID][conn] = true
		wsMu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wsMu.Lock()
				delete(wsClients[session.ID], conn)
				wsMu.Unlock()
				break
			}
		}
	}
}

// Broadcast pushes a message to every connection attached to the session.
func Broadcast(sessionID uint, message models.ChatMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	wsMu.Lock()
	defer wsMu.Unlock()
	for client := range wsClients[sessionID] {
		client.WriteMessage(websocket.TextMessage, data)
	}
}
