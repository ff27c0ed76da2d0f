package checkoutControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/middleware"
	"github.com/souqly/souqly-api/models"
)

type CheckoutItem struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type ValidateInput struct {
	Items []CheckoutItem `json:"items" binding:"required,min=1,dive"`
}

// stockError carries enough structure for the caller to render an
// actionable message.
type stockError struct {
	ProductID      uint  `json:"product_id"`
	VariantID      *uint `json:"variant_id,omitempty"`
	AvailableStock int   `json:"available_stock"`
	Requested      int   `json:"requested_quantity"`
}

// POST /checkout/validate
//
// Re-verifies stock for each proposed line in order and stops at the first
// failure. The result is advisory: nothing is reserved, stock can still
// change before payment confirmation.
func Validate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ValidateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		for _, item := range input.Items {
			var product models.Product
			if err := db.Preload("Variants").First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "product_id": item.ProductID})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
				return
			}

			available, found := product.AvailableStock(item.VariantID)
			if !found {
				c.JSON(http.StatusNotFound, gin.H{
					"error":      "Variant not found",
					"product_id": item.ProductID,
					"variant_id": item.VariantID,
				})
				return
			}

			if item.Quantity > available {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Insufficient stock",
					"details": stockError{
						ProductID:      item.ProductID,
						VariantID:      item.VariantID,
						AvailableStock: available,
						Requested:      item.Quantity,
					},
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// checkoutError marks failures the buyer can act on (stale cart lines);
// anything else coming out of the transaction is a store error.
type checkoutError struct {
	msg string
}

func (e checkoutError) Error() string { return e.msg }

// POST /checkout/complete
//
// Runs after ConfirmSession reports the payment as paid: deducts stock,
// turns the caller's cart into an order, and clears the cart, all in one
// transaction guarded by conditional stock decrements.
func Complete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var items []models.CartItem
		if err := db.Where("user_id = ?", userID).Order("added_at DESC").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}

		var order models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			var total float64
			var orderItems []models.OrderItem

			for _, item := range items {
				var product models.Product
				if err := tx.Preload("Variants").First(&product, "id = ?", item.ProductID).Error; err != nil {
					return err
				}

				// Stock is deducted with a conditional decrement so a
				// concurrent checkout cannot drive it negative; zero rows
				// affected means someone else got there first.
				if item.VariantID != 0 {
					if _, found := product.AvailableStock(&item.VariantID); !found {
						return checkoutError{"variant no longer exists for product: " + product.Name}
					}
					result := tx.Model(&models.Variant{}).
						Where("id = ? AND stock >= ?", item.VariantID, item.Quantity).
						Update("stock", gorm.Expr("stock - ?", item.Quantity))
					if result.Error != nil {
						return result.Error
					}
					if result.RowsAffected == 0 {
						return checkoutError{"insufficient stock for product: " + product.Name}
					}
					if err := models.SyncAggregateStock(tx, product.ID); err != nil {
						return err
					}
				} else {
					result := tx.Model(&models.Product{}).
						Where("id = ? AND stock >= ?", product.ID, item.Quantity).
						Update("stock", gorm.Expr("stock - ?", item.Quantity))
					if result.Error != nil {
						return result.Error
					}
					if result.RowsAffected == 0 {
						return checkoutError{"insufficient stock for product: " + product.Name}
					}
				}

				total += item.PriceSnap * float64(item.Quantity)
				orderItems = append(orderItems, models.OrderItem{
					ProductID:   item.ProductID,
					VariantID:   item.VariantID,
					ProductName: product.Name,
					Image:       item.ImageSnap,
					SellerID:    item.SellerID,
					SellerName:  item.SellerName,
					Price:       item.PriceSnap,
					Quantity:    item.Quantity,
					Attributes:  item.Attributes,
					Status:      models.ItemStatusProcessing,
				})
			}

			order = models.Order{
				OrderRef:      time.Now().Format("20060102150405") + "-" + uuid.NewString(),
				UserID:        userID,
				Items:         orderItems,
				TotalAmount:   total,
				PaymentStatus: models.PaymentStatusPaid,
				CreatedAt:     time.Now(),
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
		})
		if err != nil {
			var ce checkoutError
			if errors.As(err, &ce) {
				c.JSON(http.StatusBadRequest, gin.H{"error": ce.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete checkout"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
