package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/souqly/souqly-api/controllers/payment"
	"github.com/souqly/souqly-api/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, deps Deps) {
	payment := r.Group("/payment")
	payment.Use(middleware.ValidateToken)
	{
		payment.POST("/create-session", paymentControllers.CreateSession(deps.Gateway))
		payment.POST("/confirm", paymentControllers.ConfirmSession(deps.Gateway))
	}
}
