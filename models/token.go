package models

import "time"

type PasswordResetToken struct {
	Token     string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"index;not null" json:"-"`
	ExpiresAt time.Time `json:"-"`
	Used      bool      `gorm:"default:false" json:"-"`
	CreatedAt time.Time `json:"-"`
}

func (t *PasswordResetToken) Valid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
