package cartControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/souqly/souqly-api/middleware"
	"github.com/souqly/souqly-api/models"
)

type AddLineInput struct {
	ProductID  uint              `json:"product_id" binding:"required"`
	VariantID  *uint             `json:"variant_id"`
	Attributes map[string]string `json:"attributes"`
	Quantity   int               `json:"quantity" binding:"required,min=1"`
	Price      float64           `json:"price"`
	Image      string            `json:"image"`
	SellerID   string            `json:"seller_id"`
	SellerName string            `json:"seller_name"`
}

type UpdateLineInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// POST /user/cart
//
// Adding the same (product, variant, attributes) combination again increments
// the existing line instead of creating a duplicate. The dedup is enforced by
// the store's unique index plus an upsert, so two concurrent adds cannot both
// insert.
func AddLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate product"
			if err == gorm.ErrRecordNotFound {
				status = http.StatusNotFound
				errMsg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		// Snapshot fields default to live product data when the client
		// does not supply them.
		price := input.Price
		if price == 0 {
			price = product.Price
		}
		image := input.Image
		if image == "" {
			image = product.Images
		}
		sellerID := input.SellerID
		if sellerID == "" {
			sellerID = product.SellerID
		}

		var variantID uint
		if input.VariantID != nil {
			variantID = *input.VariantID
		}

		item := models.CartItem{
			UserID:     userID,
			ProductID:  input.ProductID,
			VariantID:  variantID,
			Attributes: models.CanonicalAttributes(input.Attributes),
			Quantity:   input.Quantity,
			PriceSnap:  price,
			ImageSnap:  image,
			SellerID:   sellerID,
			SellerName: input.SellerName,
			AddedAt:    time.Now(),
		}

		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "product_id"}, {Name: "variant_id"}, {Name: "attributes"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
				"added_at": time.Now(),
			}),
		}).Create(&item).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		// Re-read so the conflict path returns the accumulated quantity.
		var line models.CartItem
		if err := db.Where(
			"user_id = ? AND product_id = ? AND variant_id = ? AND attributes = ?",
			userID, item.ProductID, item.VariantID, item.Attributes,
		).First(&line).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		c.JSON(http.StatusOK, line)
	}
}

// PUT /user/cart/:id
//
// Fully replaces the line's quantity. Ownership is folded into the UPDATE's
// WHERE clause so there is no check-then-act window; zero rows affected means
// the line is missing or not the caller's.
func UpdateLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		lineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart line id"})
			return
		}

		var input UpdateLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a positive integer"})
			return
		}

		result := db.Model(&models.CartItem{}).
			Where("id = ? AND user_id = ?", lineID, userID).
			Update("quantity", input.Quantity)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		var line models.CartItem
		if err := db.First(&line, lineID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

// DELETE /user/cart?id=
func RemoveLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		idParam := c.Query("id")
		if idParam == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}
		lineID, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart line id"})
			return
		}

		result := db.Where("id = ? AND user_id = ?", lineID, userID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// CartLine is a stored line joined with live catalog data.
type CartLine struct {
	models.CartItem
	Product *models.Product `json:"product,omitempty"`
	Variant *models.Variant `json:"variant,omitempty"`
}

// GET /user/cart
func ListLines(db *gorm.DB) gin.HandlerFunc {
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

		productIDs := make([]uint, 0, len(items))
		for _, it := range items {
			productIDs = append(productIDs, it.ProductID)
		}

		products := make(map[uint]*models.Product)
		if len(productIDs) > 0 {
			var rows []models.Product
			if err := db.Preload("Variants").Preload("Seller").
				Where("id IN ?", productIDs).Find(&rows).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart products"})
				return
			}
			for i := range rows {
				products[rows[i].ID] = &rows[i]
			}
		}

		lines := make([]CartLine, 0, len(items))
		for _, it := range items {
			line := CartLine{CartItem: it, Product: products[it.ProductID]}
			if line.Product != nil && it.VariantID != 0 {
				for j := range line.Product.Variants {
					if line.Product.Variants[j].ID == it.VariantID {
						line.Variant = &line.Product.Variants[j]
						break
					}
				}
			}
			lines = append(lines, line)
		}

		c.JSON(http.StatusOK, gin.H{"items": lines})
	}
}
