package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/models"
)

// Identity is what the external identity provider vouches for after
// verifying an ID token.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier validates a provider-issued ID token. The concrete provider
// SDK lives behind this capability; tests use a fake.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// POST /auth/provider
//
// Fetch-or-create on first external login, refresh profile fields on
// subsequent ones.
func ProviderLoginHandler(db *gorm.DB, verifier TokenVerifier, provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"id_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		ident, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
			return
		}

		var user models.User
		err = db.Where("id = ?", ident.Subject).First(&user).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			user = models.User{
				ID:       ident.Subject,
				Email:    ident.Email,
				Name:     ident.Name,
				Picture:  ident.Picture,
				Provider: provider,
				Role:     models.RoleBuyer,
			}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		case err == nil:
			db.Model(&user).Updates(models.User{Name: ident.Name, Picture: ident.Picture})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user":  user,
			"token": IssueJWT(user.ID, user.Role),
		})
	}
}
