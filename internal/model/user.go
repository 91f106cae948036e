package model

import (
	"strconv"
	"time"
)

// User stores Telegram user metadata. Each user owns one isolated hub.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	ChatID     int64
	FirstName  string
	LastName   string
	Username   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Scope is the key-value store namespace for the user's data.
func (u User) Scope() string {
	return ScopeFor(u.TelegramID)
}

func ScopeFor(telegramID int64) string {
	return strconv.FormatInt(telegramID, 10)
}
