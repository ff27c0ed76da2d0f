package models

import "time"

type EventType string

const (
	EventView EventType = "view"
	EventCart EventType = "cart"
)

// EventLog is append-only: rows are inserted and scanned for trending
// aggregation, never updated.
type EventLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	EventType EventType `gorm:"type:VARCHAR(10);not null" json:"event_type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// ProductStat and SellerStat are aggregate counters kept in lockstep with
// EventLog inserts inside one transaction.
type ProductStat struct {
	ProductID uint  `gorm:"primaryKey" json:"product_id"`
	Views     int64 `gorm:"default:0" json:"views"`
	CartAdds  int64 `gorm:"default:0" json:"cart_adds"`
}

type SellerStat struct {
	SellerID string `gorm:"primaryKey" json:"seller_id"`
	Views    int64  `gorm:"default:0" json:"views"`
}
