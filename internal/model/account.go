package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a credential pair known to the auth provider.
type Account struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:320"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// DeviceLogin remembers which account last signed in from a device so the
// session survives a restart. The device key is the Telegram chat ID.
type DeviceLogin struct {
	DeviceID  string `gorm:"primaryKey"`
	AccountID string `gorm:"index;size:36"`
	CreatedAt time.Time
}
