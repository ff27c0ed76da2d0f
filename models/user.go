package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

type User struct {
	ID              string `gorm:"primaryKey" json:"id"`
	Email           string `gorm:"unique;not null" json:"email"`
	PasswordHash    string `json:"-"`
	Provider        string `json:"provider"` // "local" or external provider name
	Role            Role   `gorm:"type:VARCHAR(10);default:'buyer'" json:"role"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Picture         string `json:"picture"`
	ProfileComplete bool   `json:"profile_complete"`
	Interests       string `json:"interests"` // comma-separated tags, e.g. "shoes,electronics"

	Addresses []Address  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CartItems []CartItem `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order    `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InterestTags splits the stored interest string into clean tags.
func (u *User) InterestTags() []string {
	if u.Interests == "" {
		return nil
	}
	var tags []string
	for _, tok := range strings.Split(u.Interests, ",") {
		if tag := strings.TrimSpace(tok); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

type Address struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	Label      string    `json:"label"` // e.g. "home", "office"
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
