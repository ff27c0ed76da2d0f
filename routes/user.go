package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/souqly/souqly-api/controllers/cart"
	checkoutControllers "github.com/souqly/souqly-api/controllers/checkout"
	userControllers "github.com/souqly/souqly-api/controllers/user"
	"github.com/souqly/souqly-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints plus checkout. Requires
// JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/", userControllers.GetUser(db))
		userGroup.PUT("/", userControllers.UpdateUser(db))

		userGroup.POST("/addresses", userControllers.CreateAddress(db))
		userGroup.PUT("/addresses/:id", userControllers.UpdateAddress(db))
		userGroup.DELETE("/addresses/:id", userControllers.DeleteAddress(db))

		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.ListLines(db))
			cartGroup.POST("/", cartControllers.AddLine(db))
			cartGroup.PUT("/:id", cartControllers.UpdateLine(db))
			cartGroup.DELETE("/", cartControllers.RemoveLine(db)) // ?id=
		}
	}

	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.ValidateToken)
	{
		checkoutGroup.POST("/validate", checkoutControllers.Validate(db))
		checkoutGroup.POST("/complete", checkoutControllers.Complete(db))
	}
}
