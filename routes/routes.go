package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/auth"
	"github.com/souqly/souqly-api/mail"
	"github.com/souqly/souqly-api/payment"
)

// Deps carries the external capabilities handlers depend on.
type Deps struct {
	Gateway  payment.Gateway
	Mailer   mail.Mailer
	Verifier auth.TokenVerifier
	Redis    *redis.Client // nil disables the trending cache
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	SetupAuthRoutes(r, db, deps)

	SetupUserRoutes(r, db)

	SetupCatalogRoutes(r, db)

	SetupSellerRoutes(r, db)

	SetupOrderRoutes(r, db)

	SetupPaymentRoutes(r, deps)

	SetupChatRoutes(r, db)

	SetupFeedRoutes(r, db, deps)

	SetupOpsRoutes(r, db)
}
