package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/middleware"
	"github.com/souqly/souqly-api/models"
)

type UpdateItemStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// PUT /orders/:orderID/items/:itemID/status
//
// Mutates exactly one item's fulfillment status, scoped to the calling
// seller. After the write the sibling items are re-read to compute whether
// the whole order is delivered; the aggregate is reported but not persisted
// on the order, leaving order-level completion as a later extension point.
func UpdateItemStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		orderID := c.Param("orderID")
		itemID := c.Param("itemID")
		if orderID == "" || itemID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID and itemID are required"})
			return
		}

		var input UpdateItemStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		status, ok := models.ParseItemStatus(input.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		result := db.Model(&models.OrderItem{}).
			Where("id = ? AND order_id = ? AND seller_id = ?", itemID, orderID, sellerID).
			Update("status", status)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update item status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order item not found"})
			return
		}

		var item models.OrderItem
		if err := db.First(&item, "id = ?", itemID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch item"})
			return
		}

		var siblings []models.OrderItem
		if err := db.Where("order_id = ?", orderID).Find(&siblings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order items"})
			return
		}
		allDelivered := len(siblings) > 0
		for _, s := range siblings {
			if s.Status != models.ItemStatusDelivered {
				allDelivered = false
				break
			}
		}
		if allDelivered {
			log.Printf("order %s: all items delivered", orderID)
		}

		c.JSON(http.StatusOK, gin.H{
			"item":          item,
			"all_delivered": allDelivered,
		})
	}
}

// GET /orders/user
func ListUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID
//
// The path segment is either the numeric order id or the order ref. Refs
// never parse as integers, so the lookup column is picked up front rather
// than binding a text ref against the integer id column.
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ref := c.Param("orderID")
		query := db.Preload("Items").Where("user_id = ?", userID)
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("order_ref = ?", ref)
		}

		var order models.Order
		err := query.First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /seller/orders
//
// Items for the calling seller across all orders, newest first. Sellers see
// and fulfill their own items, not whole multi-seller orders.
func ListSellerItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var items []models.OrderItem
		if err := db.Where("seller_id = ?", sellerID).
			Order("id DESC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}
