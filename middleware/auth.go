package middleware

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/souqly/souqly-api/models"
)

// ValidateToken resolves the caller's identity from the Authorization header
// and puts user_id and role into the request context. Every protected
// handler reads identity from there instead of re-resolving it.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return
	}
	role, _ := claims["role"].(string)

	c.Set("user_id", userID)
	c.Set("role", role)
	c.Next()
}

// RequireSeller gates seller-management endpoints. Runs after ValidateToken.
func RequireSeller(c *gin.Context) {
	role, _ := c.Get("role")
	if role != string(models.RoleSeller) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Seller account required"})
		c.Abort()
		return
	}
	c.Next()
}

// CurrentUserID reads the identity set by ValidateToken. The bool is false
// when the middleware did not run (unauthenticated route misuse).
func CurrentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
