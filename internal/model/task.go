package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a single planner entry. It is either due once (DueAt) or repeats on
// the weekdays listed in RecurringDays starting from StartAt.
type Task struct {
	ID            string   `gorm:"primaryKey;size:36"`
	OwnerID       string   `gorm:"index;size:36"`
	Title         string   `gorm:"not null"`
	Category      Category `gorm:"size:32"`
	DueAt         *time.Time
	RecurringDays []string `gorm:"serializer:json"`
	StartAt       *time.Time
	Completed     bool `gorm:"default:false"`
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BeforeCreate assigns the opaque key when the caller left it empty.
func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t Task) IsRecurring() bool {
	return len(t.RecurringDays) > 0
}

// Expired reports whether the due instant has passed without completion.
// Recurring tasks never expire.
func (t Task) Expired(now time.Time) bool {
	return t.DueAt != nil && !t.Completed && t.DueAt.Before(now)
}
