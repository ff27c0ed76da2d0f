package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/souqly/souqly-api/controllers/product"
	"github.com/souqly/souqly-api/middleware"
)

// SetupCatalogRoutes registers public browsing endpoints.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productControllers.ListProducts(db))
	r.GET("/products/:id", productControllers.GetProduct(db))
	r.GET("/categories", productControllers.ListCategories(db))
	r.GET("/brands", productControllers.ListBrands(db))
}

// SetupSellerRoutes registers seller-management endpoints (JWT + seller role).
func SetupSellerRoutes(r *gin.Engine, db *gorm.DB) {
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken, middleware.RequireSeller)
	{
		sellerGroup.POST("/products", productControllers.CreateProduct(db))
		sellerGroup.PUT("/products/:id", productControllers.UpdateProduct(db))
		sellerGroup.DELETE("/products/:id", productControllers.DeleteProduct(db))
		sellerGroup.GET("/products/export", productControllers.ExportProducts(db))
		sellerGroup.POST("/products/upload-image", productControllers.UploadImage())

		sellerGroup.POST("/products/:id/variants", productControllers.CreateVariant(db))
		sellerGroup.PUT("/products/:id/variants/:variantID", productControllers.UpdateVariant(db))
		sellerGroup.DELETE("/products/:id/variants/:variantID", productControllers.DeleteVariant(db))
	}
}
