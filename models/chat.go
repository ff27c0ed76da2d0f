package models

import "time"

type SenderRole string

const (
	SenderBuyer   SenderRole = "buyer"
	SenderSeller  SenderRole = "seller"
	SenderChatbot SenderRole = "chatbot"
)

// ChatSession is the single conversation between one buyer and one seller.
// The composite unique index keeps it to at most one session per pair.
type ChatSession struct {
	ID        uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID   string        `gorm:"not null;uniqueIndex:idx_chat_pair,priority:1" json:"buyer_id"`
	SellerID  string        `gorm:"not null;uniqueIndex:idx_chat_pair,priority:2" json:"seller_id"`
	Messages  []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ChatMessage carries an IsRead flag scoped to the opposite role: a
// buyer-authored message is unread from the seller's side and vice versa.
// Chatbot messages are created already read.
type ChatMessage struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uint       `gorm:"index;not null" json:"session_id"`
	Sender    SenderRole `gorm:"type:VARCHAR(10);not null" json:"sender"`
	Content   string     `gorm:"not null" json:"content"`
	IsRead    bool       `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

// FAQ rows feed the keyword-matching chatbot.
type FAQ struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Question string `gorm:"not null" json:"question"`
	Answer   string `gorm:"not null" json:"answer"`
	Keywords string `json:"keywords"` // comma-separated match terms
}
