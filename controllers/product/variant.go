package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/middleware"
	"github.com/souqly/souqly-api/models"
)

type VariantInput struct {
	SKU        string  `json:"sku"`
	Price      float64 `json:"price" binding:"required,gt=0"`
	Stock      int     `json:"stock" binding:"min=0"`
	Attributes string  `json:"attributes"`
}

// ownedProduct loads a product only when it belongs to the calling seller.
func ownedProduct(db *gorm.DB, productID, sellerID string) (*models.Product, error) {
	var product models.Product
	err := db.Where("id = ? AND seller_id = ?", productID, sellerID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// POST /seller/products/:id/variants
//
// Every variant write recomputes the parent's aggregate stock in the same
// transaction, keeping product.stock = sum of variant stocks.
func CreateVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		product, err := ownedProduct(db, c.Param("id"), sellerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input VariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		variant := models.Variant{
			ProductID:  product.ID,
			SKU:        input.SKU,
			Price:      input.Price,
			Stock:      input.Stock,
			Attributes: input.Attributes,
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			return models.SyncAggregateStock(tx, product.ID)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create variant"})
			return
		}
		c.JSON(http.StatusCreated, variant)
	}
}

// PUT /seller/products/:id/variants/:variantID
func UpdateVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		product, err := ownedProduct(db, c.Param("id"), sellerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input VariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.Variant{}).
				Where("id = ? AND product_id = ?", c.Param("variantID"), product.ID).
				Updates(map[string]interface{}{
					"sku":        input.SKU,
					"price":      input.Price,
					"stock":      input.Stock,
					"attributes": input.Attributes,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return models.SyncAggregateStock(tx, product.ID)
		})
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update variant"})
			return
		}

		var variant models.Variant
		if err := db.First(&variant, "id = ?", c.Param("variantID")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch variant"})
			return
		}
		c.JSON(http.StatusOK, variant)
	}
}

// DELETE /seller/products/:id/variants/:variantID
func DeleteVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		product, err := ownedProduct(db, c.Param("id"), sellerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			result := tx.Where("id = ? AND product_id = ?", c.Param("variantID"), product.ID).
				Delete(&models.Variant{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return models.SyncAggregateStock(tx, product.ID)
		})
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete variant"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Variant deleted"})
	}
}
