package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// CartItem is one cart line: a user's chosen product/variant/attribute
// combination. VariantID is 0 when no variant was selected so the composite
// unique index treats "no variant" as a single value rather than distinct
// NULLs. Price, image and seller fields are snapshots taken at add time.
type CartItem struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string `gorm:"not null;uniqueIndex:idx_cart_line,priority:1" json:"user_id"`
	ProductID  uint   `gorm:"not null;uniqueIndex:idx_cart_line,priority:2" json:"product_id"`
	VariantID  uint   `gorm:"not null;default:0;uniqueIndex:idx_cart_line,priority:3" json:"variant_id"`
	Attributes string `gorm:"not null;default:'';uniqueIndex:idx_cart_line,priority:4" json:"attributes"`

	Quantity   int       `gorm:"not null" json:"quantity"`
	PriceSnap  float64   `json:"price"`
	ImageSnap  string    `json:"image"`
	SellerID   string    `json:"seller_id"`
	SellerName string    `json:"seller_name"`
	AddedAt    time.Time `json:"added_at"`
}

// CanonicalAttributes normalizes a selected-options map into an
// order-independent fingerprint, so {"size":"M","color":"red"} and
// {"color":"red","size":"M"} collide into the same cart line. Empty input
// maps to the empty string.
func CanonicalAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(attrs[k])
		b.Write(kb)
		b.WriteByte('=')
		b.Write(vb)
	}
	return b.String()
}
