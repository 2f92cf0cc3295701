package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	at := func(d int) time.Time { return time.Date(2025, 3, d, 9, 0, 0, 0, time.UTC) }

	assert.Equal(t, 0, Streak(nil, now))
	assert.Equal(t, 3, Streak([]time.Time{at(10), at(9), at(8), at(6)}, now))
	assert.Equal(t, 2, Streak([]time.Time{at(9), at(8), at(8)}, now), "today still open")
	assert.Equal(t, 0, Streak([]time.Time{at(7)}, now))
}

func TestProfileStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := NewSession(f.auth.Client("1"))
	defer session.Close()
	require.NoError(t, session.Register(ctx, "sam@example.com", "secret1"))
	identity, _ := session.Current()

	due := time.Now().Add(48 * time.Hour)
	for _, title := range []string{"a", "b", "c"} {
		task, err := f.tasks.Create(ctx, identity.ID, TaskInput{Title: title, DueAt: &due})
		require.NoError(t, err)
		if title != "c" {
			_, err = f.tasks.ToggleCompletion(ctx, identity.ID, task.ID)
			require.NoError(t, err)
		}
	}

	stats, err := NewProfileService(f.auth, f.tasks).Stats(ctx, identity, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", stats.Email)
	assert.Equal(t, 2, stats.TasksCompleted)
	assert.Equal(t, 1, stats.StreakDays)
	assert.False(t, stats.MemberSince.IsZero())
}

func TestDailySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	today := now.Add(10 * time.Hour)
	yesterday := now.Add(-20 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	_, err := f.tasks.Create(ctx, "o", TaskInput{Title: "Essay", Category: "Assignment", DueAt: &today})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, "o", TaskInput{Title: "Drill", RecurringDays: []string{"Monday"}})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, "o", TaskInput{Title: "Late <lab>", DueAt: &yesterday})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, "o", TaskInput{Title: "Later", DueAt: &tomorrow})
	require.NoError(t, err)

	text, err := NewAgendaService(f.tasks).DailySummary(ctx, "o", now)
	require.NoError(t, err)

	assert.Contains(t, text, "Essay <i>(Assignment)</i>")
	assert.Contains(t, text, "♻️ Drill")
	assert.Contains(t, text, "Overdue")
	assert.Contains(t, text, "Late &lt;lab&gt;")
	assert.False(t, strings.Contains(text, "Later"))
}
