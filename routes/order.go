package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/souqly/souqly-api/controllers/order"
	"github.com/souqly/souqly-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		orders.GET("/user", orderControllers.ListUserOrders(db))
		orders.GET("/:orderID", orderControllers.GetOrder(db))
	}

	seller := r.Group("/seller")
	seller.Use(middleware.ValidateToken, middleware.RequireSeller)
	{
		seller.GET("/orders", orderControllers.ListSellerItems(db))
		// Per-item fulfillment transition; sellers drive these.
		seller.PUT("/orders/:orderID/items/:itemID/status", orderControllers.UpdateItemStatus(db))
	}
}
