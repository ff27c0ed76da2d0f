package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	chatControllers "github.com/souqly/souqly-api/controllers/chat"
	productControllers "github.com/souqly/souqly-api/controllers/product"
	"github.com/souqly/souqly-api/middleware"
)

// SetupOpsRoutes registers operational content-management endpoints,
// guarded by a shared API key.
func SetupOpsRoutes(r *gin.Engine, db *gorm.DB) {
	ops := r.Group("/ops")
	ops.Use(middleware.ValidateAPIKey)
	{
		ops.POST("/categories", productControllers.CreateCategory(db))
		ops.DELETE("/categories/:id", productControllers.DeleteCategory(db))

		ops.POST("/brands", productControllers.CreateBrand(db))
		ops.DELETE("/brands/:id", productControllers.DeleteBrand(db))

		ops.POST("/faqs", chatControllers.CreateFAQ(db))
		ops.GET("/faqs", chatControllers.ListFAQs(db))
		ops.DELETE("/faqs/:id", chatControllers.DeleteFAQ(db))
	}
}
