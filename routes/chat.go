package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	chatControllers "github.com/souqly/souqly-api/controllers/chat"
	"github.com/souqly/souqly-api/middleware"
)

func SetupChatRoutes(r *gin.Engine, db *gorm.DB) {
	chat := r.Group("/chat")
	chat.Use(middleware.ValidateToken)
	{
		chat.POST("/sessions", chatControllers.OpenSession(db))
		chat.GET("/sessions", chatControllers.ListSessions(db))
		chat.GET("/sessions/:id/messages", chatControllers.ListMessages(db))
		chat.POST("/sessions/:id/messages", chatControllers.SendMessage(db))
		chat.POST("/sessions/:id/read", chatControllers.MarkRead(db))
		chat.POST("/sessions/:id/bot", chatControllers.AskBot(db))
		chat.GET("/sessions/:id/ws", chatControllers.SessionSocket(db))
	}
}
