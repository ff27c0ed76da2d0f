package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/auth"
	"github.com/souqly/souqly-api/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints. Credential endpoints
// are rate limited per client IP.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit(rate.Limit(5), 10))
	{
		authGroup.POST("/register", auth.RegisterHandler(db))
		authGroup.POST("/login", auth.LoginHandler(db))
		authGroup.POST("/password-reset", auth.RequestPasswordResetHandler(db, deps.Mailer))
		authGroup.POST("/password-reset/confirm", auth.ConfirmPasswordResetHandler(db))

		if deps.Verifier != nil {
			authGroup.POST("/provider", auth.ProviderLoginHandler(db, deps.Verifier, "google"))
		}
	}

	me := r.Group("/auth")
	me.Use(middleware.ValidateToken)
	{
		me.GET("/me", auth.MeHandler(db))
	}
}
