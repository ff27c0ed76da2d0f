package chatControllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/middleware"
	"github.com/souqly/souqly-api/models"
)

const botFallback = "Sorry, I don't have an answer for that. A seller will get back to you."

type AskBotInput struct {
	Question string `json:"question" binding:"required"`
}

// matchFAQ picks the FAQ whose keywords overlap the question the most.
func matchFAQ(faqs []models.FAQ, question string) *models.FAQ {
	q := strings.ToLower(question)
	var best *models.FAQ
	bestScore := 0
	for i := range faqs {
		score := 0
		for _, kw := range strings.Split(faqs[i].Keywords, ",") {
			kw = strings.TrimSpace(strings.ToLower(kw))
			if kw != "" && strings.Contains(q, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = &faqs[i]
		}
	}
	return best
}

// POST /chat/sessions/:id/bot
//
// Records the buyer's question as a normal message, then the chatbot's
// answer. Chatbot messages are created already read: there is nobody on the
// other side whose unread count should grow.
func AskBot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		session, role, err := loadSession(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}

		var input AskBotInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
			return
		}

		var faqs []models.FAQ
		if err := db.Find(&faqs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load FAQ entries"})
			return
		}

		answer := botFallback
		if faq := matchFAQ(faqs, input.Question); faq != nil {
			answer = faq.Answer
		}

		question := models.ChatMessage{
			SessionID: session.ID,
			Sender:    role,
			Content:   input.Question,
			IsRead:    false,
			CreatedAt: time.Now(),
		}
		reply := models.ChatMessage{
			SessionID: session.ID,
			Sender:    models.SenderChatbot,
			Content:   answer,
			IsRead:    true,
			CreatedAt: time.Now(),
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			return tx.Create(&reply).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record conversation"})
			return
		}

		Broadcast(session.ID, question)
		Broadcast(session.ID, reply)

		c.JSON(http.StatusOK, reply)
	}
}

type FAQInput struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Keywords string `json:"keywords"`
}

// POST /ops/faqs
func CreateFAQ(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input FAQInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		faq := models.FAQ{Question: input.Question, Answer: input.Answer, Keywords: input.Keywords}
		if err := db.Create(&faq).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create FAQ"})
			return
		}
		c.JSON(http.StatusCreated, faq)
	}
}

// GET /ops/faqs
func ListFAQs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var faqs []models.FAQ
		if err := db.Find(&faqs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch FAQs"})
			return
		}
		c.JSON(http.StatusOK, faqs)
	}
}

// DELETE /ops/faqs/:id
func DeleteFAQ(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("id")).Delete(&models.FAQ{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete FAQ"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "FAQ not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "FAQ deleted"})
	}
}
