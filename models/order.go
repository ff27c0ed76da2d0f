package models

import "time"

type ItemStatus string

const (
	// Per-item fulfillment lifecycle. Statuses live on the item, not only
	// the order, because one order can span sellers who ship independently.
	ItemStatusProcessing ItemStatus = "processing"
	ItemStatusShipped    ItemStatus = "shipped"
	ItemStatusDelivered  ItemStatus = "delivered"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Order struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRef      string        `gorm:"uniqueIndex" json:"order_ref"`
	UserID        string        `gorm:"index;not null" json:"user_id"`
	User          User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64       `json:"total_amount"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	// Order-level completion is intentionally not derived from item
	// statuses yet; see the fulfillment handler.
	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint       `gorm:"index;not null" json:"order_id"`
	ProductID   uint       `json:"product_id"`
	VariantID   uint       `json:"variant_id"`
	ProductName string     `json:"product_name"`
	Image       string     `json:"image"`
	SellerID    string     `gorm:"index" json:"seller_id"`
	SellerName  string     `json:"seller_name"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	Attributes  string     `json:"attributes"`
	Status      ItemStatus `gorm:"type:VARCHAR(20);default:'processing'" json:"status"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ParseItemStatus validates a client-supplied fulfillment status.
func ParseItemStatus(s string) (ItemStatus, bool) {
	switch ItemStatus(s) {
	case ItemStatusProcessing, ItemStatusShipped, ItemStatusDelivered:
		return ItemStatus(s), true
	}
	return "", false
}
