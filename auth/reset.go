package auth

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/mail"
	"github.com/souqly/souqly-api/models"
)

const resetTokenTTL = 30 * time.Minute

// POST /auth/password-reset
//
// The response is identical whether or not the email is registered, so the
// endpoint cannot be used to probe for accounts.
func RequestPasswordResetHandler(db *gorm.DB, mailer mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err == nil {
			token := models.PasswordResetToken{
				Token:     uuid.NewString(),
				UserID:    user.ID,
				ExpiresAt: time.Now().Add(resetTokenTTL),
			}
			if err := db.Create(&token).Error; err == nil {
				link := fmt.Sprintf("%s/reset-password?token=%s", os.Getenv("FRONTEND_URL"), token.Token)
				if err := mailer.Send(user.Email, "Reset your password", "Reset link: "+link); err != nil {
					log.Printf("failed to send reset mail to %s: %v", user.Email, err)
				}
			}
		} else {
			log.Printf("password reset requested for unknown email")
		}

		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
	}
}

// POST /auth/password-reset/confirm
func ConfirmPasswordResetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Token       string `json:"token" binding:"required"`
			NewPassword string `json:"new_password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var token models.PasswordResetToken
		if err := db.First(&token, "token = ?", input.Token).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		if !token.Valid(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).
				Update("password_hash", string(hash)).Error; err != nil {
				return err
			}
			return tx.Model(&models.PasswordResetToken{}).Where("token = ?", token.Token).
				Update("used", true).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
