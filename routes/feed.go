package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	eventControllers "github.com/souqly/souqly-api/controllers/events"
	"github.com/souqly/souqly-api/middleware"
)

func SetupFeedRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	events := r.Group("/events")
	events.Use(middleware.ValidateToken)
	{
		events.POST("/view", eventControllers.RecordView(db))
		events.POST("/cart", eventControllers.RecordCartEvent(db))
	}

	r.GET("/feed/trending", eventControllers.Trending(db, deps.Redis))

	feed := r.Group("/feed")
	feed.Use(middleware.ValidateToken)
	{
		feed.GET("/", eventControllers.PersonalFeed(db, deps.Redis))
	}
}
