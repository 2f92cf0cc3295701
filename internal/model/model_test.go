package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
		ok   bool
	}{
		{"", CategoryNone, true},
		{"  ", CategoryNone, true},
		{"assignment", CategoryAssignment, true},
		{" REVISION ", CategoryRevision, true},
		{"Practice", CategoryPractice, true},
		{"Homework", CategoryNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"Monday", "Monday", true},
		{"wed", "Wednesday", true},
		{" SUNDAY ", "Sunday", true},
		{"mo", "", false},
		{"Funday", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
	assert.Equal(t, "Monday", Weekdays[0])
	assert.Len(t, Weekdays, 7)
}

func TestTaskExpired(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, Task{DueAt: &past}.Expired(now))
	assert.False(t, Task{DueAt: &past, Completed: true}.Expired(now))
	assert.False(t, Task{DueAt: &future}.Expired(now))
	assert.False(t, Task{RecurringDays: []string{"Monday"}}.Expired(now))
}

func TestTaskBeforeCreateKeepsID(t *testing.T) {
	task := Task{ID: "fixed"}
	assert.NoError(t, task.BeforeCreate(nil))
	assert.Equal(t, "fixed", task.ID)

	var fresh Task
	assert.NoError(t, fresh.BeforeCreate(nil))
	assert.Len(t, fresh.ID, 36)
	assert.False(t, fresh.IsRecurring())
}
