package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `gorm:"default:0" json:"stock"`
	Tags        string  `json:"tags"`       // comma-separated
	Images      string  `json:"images"`     // JSON array of URLs
	Attributes  string  `json:"attributes"` // free-form JSON object

	SellerID   string `gorm:"index;not null" json:"seller_id"`
	Seller     User   `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CategoryID uint   `gorm:"index" json:"category_id"`
	BrandID    *uint  `gorm:"index" json:"brand_id,omitempty"`

	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Variant struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	SKU        string    `json:"sku"`
	Price      float64   `json:"price"`
	Stock      int       `gorm:"default:0" json:"stock"`
	Attributes string    `json:"attributes"` // free-form JSON object (e.g. size/color)
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AvailableStock returns the purchasable stock for a requested variant of the
// product, or the product's own stock when no variant is requested. The bool
// reports whether the requested variant belongs to this product.
func (p *Product) AvailableStock(variantID *uint) (int, bool) {
	if variantID == nil {
		return p.Stock, true
	}
	for i := range p.Variants {
		if p.Variants[i].ID == *variantID {
			return p.Variants[i].Stock, true
		}
	}
	return 0, false
}

// SyncAggregateStock recomputes product.stock as the sum of its variant
// stocks. Callers run it inside the same transaction as the variant write;
// a product with no variants keeps its own stock untouched.
func SyncAggregateStock(tx *gorm.DB, productID uint) error {
	var count int64
	if err := tx.Model(&Variant{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return tx.Model(&Product{}).Where("id = ?", productID).
		Update("stock", tx.Model(&Variant{}).Select("COALESCE(SUM(stock), 0)").Where("product_id = ?", productID)).Error
}

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	Image    string    `json:"image"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

type Brand struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
	Logo string `json:"logo"`
}
