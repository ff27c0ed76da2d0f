package paymentControllers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/souqly/souqly-api/payment"
)

type CreateSessionInput struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	SuccessURL string  `json:"success_url"`
	CancelURL  string  `json:"cancel_url"`
}

type ConfirmInput struct {
	SessionID string `json:"session_id" binding:"required"`
}

// POST /payment/create-session
func CreateSession(gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateSessionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required and must be positive"})
			return
		}

		successURL := input.SuccessURL
		if successURL == "" {
			successURL = os.Getenv("PAYMENT_SUCCESS_URL")
		}
		cancelURL := input.CancelURL
		if cancelURL == "" {
			cancelURL = os.Getenv("PAYMENT_CANCEL_URL")
		}

		sessionID, redirectURL, err := gw.CreateSession(input.Amount, successURL, cancelURL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id":   sessionID,
			"redirect_url": redirectURL,
		})
	}
}

// POST /payment/confirm
//
// A pure pass-through query to the processor: no local state is written
// whether the session is paid or still pending.
func ConfirmSession(gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ConfirmInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
			return
		}

		if err := gw.ConfirmSession(input.SessionID); err != nil {
			if errors.Is(err, payment.ErrPending) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment not completed yet"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
