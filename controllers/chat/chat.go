package chatControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/middleware"
	"github.com/souqly/souqly-api/models"
)

type OpenSessionInput struct {
	SellerID string `json:"seller_id" binding:"required"`
}

type SendMessageInput struct {
	Content string `json:"content" binding:"required"`
}

// senderRole decides which side of the session the caller is on.
func senderRole(session *models.ChatSession, userID string) (models.SenderRole, bool) {
	switch userID {
	case session.BuyerID:
		return models.SenderBuyer, true
	case session.SellerID:
		return models.SenderSeller, true
	}
	return "", false
}

// loadSession fetches a session only when the caller participates in it.
func loadSession(db *gorm.DB, sessionID string, userID string) (*models.ChatSession, models.SenderRole, error) {
	var session models.ChatSession
	if err := db.First(&session, "id = ?", sessionID).Error; err != nil {
		return nil, "", err
	}
	role, ok := senderRole(&session, userID)
	if !ok {
		return nil, "", gorm.ErrRecordNotFound
	}
	return &session, role, nil
}

// POST /chat/sessions
//
// At most one session exists per (buyer, seller) pair; reopening returns
// the existing one.
func OpenSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input OpenSessionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seller_id is required"})
			return
		}
		if input.SellerID == buyerID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open a chat with yourself"})
			return
		}

		var seller models.User
		if err := db.First(&seller, "id = ? AND role = ?", input.SellerID, models.RoleSeller).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Seller not found"})
			return
		}

		var session models.ChatSession
		err := db.Where(models.ChatSession{BuyerID: buyerID, SellerID: input.SellerID}).
			FirstOrCreate(&session).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open session"})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// GET /chat/sessions
//
// The caller's sessions (either side) with their unread counts: messages
// authored by the opposite role and not yet read.
func ListSessions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var sessions []models.ChatSession
		if err := db.Where("buyer_id = ? OR seller_id = ?", userID, userID).
			Order("updated_at DESC").
			Find(&sessions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
			return
		}

		type sessionWithUnread struct {
			models.ChatSession
			Unread int64 `json:"unread"`
		}
		out := make([]sessionWithUnread, 0, len(sessions))
		for _, s := range sessions {
			opposite := models.SenderSeller
			if s.SellerID == userID {
				opposite = models.SenderBuyer
			}
			var unread int64
			if err := db.Model(&models.ChatMessage{}).
				Where("session_id = ? AND sender = ? AND is_read = ?", s.ID, opposite, false).
				Count(&unread).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread messages"})
				return
			}
			out = append(out, sessionWithUnread{ChatSession: s, Unread: unread})
		}

		c.JSON(http.StatusOK, gin.H{"sessions": out})
	}
}

// GET /chat/sessions/:id/messages
func ListMessages(db *gorm.DB) gin.HandlerFunc {
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

		var messages []models.ChatMessage
		if err := db.Where("session_id = ?", session.ID).
			Order("created_at ASC").
			Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

// POST /chat/sessions/:id/messages
//
// The new message starts unread from the opposite role's perspective.
func SendMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		session, role, err := loadSession(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}

		var input SendMessageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		message := models.ChatMessage{
			SessionID: session.ID,
			Sender:    role,
			Content:   input.Content,
			IsRead:    false,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&message).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
			return
		}
		db.Model(session).Update("updated_at", time.Now())

		Broadcast(session.ID, message)

		c.JSON(http.StatusCreated, message)
	}
}

// POST /chat/sessions/:id/read
//
// Marks messages authored by the opposite role as read.
func MarkRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		session, role, err := loadSession(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}

		opposite := models.SenderBuyer
		if role == models.SenderBuyer {
			opposite = models.SenderSeller
		}

		result := db.Model(&models.ChatMessage{}).
			Where("session_id = ? AND sender = ? AND is_read = ?", session.ID, opposite, false).
			Update("is_read", true)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages read"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"marked": result.RowsAffected})
	}
}
