package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := day(2025, 3, 10)

	cases := []struct {
		name  string
		input TaskInput
		field string
	}{
		{"empty title", TaskInput{Title: "", DueAt: &due}, "title"},
		{"blank title", TaskInput{Title: "   ", DueAt: &due}, "title"},
		{"no schedule", TaskInput{Title: "Essay"}, "schedule"},
		{"both modes", TaskInput{Title: "Essay", DueAt: &due, RecurringDays: []string{"Monday"}}, "schedule"},
		{"unknown weekday", TaskInput{Title: "Drill", RecurringDays: []string{"Funday"}}, "recurringDays"},
		{"unknown category", TaskInput{Title: "Essay", DueAt: &due, Category: "Chores"}, "category"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.tasks.Create(ctx, "owner", tc.input)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	tasks, err := f.tasks.List(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, tasks, "validation failures must not write")
}

func TestCreate_SingleOccurrence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := day(2025, 3, 10)

	task, err := f.tasks.Create(ctx, "owner", TaskInput{Title: "  Essay ", Category: "assignment", DueAt: &due})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Essay", task.Title)
	assert.Equal(t, model.CategoryAssignment, task.Category)
	assert.False(t, task.Completed)
	assert.False(t, task.IsRecurring())
	assert.Nil(t, task.StartAt)
}

func TestCreate_RecurringNormalizesDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := day(2025, 3, 3)

	task, err := f.tasks.Create(ctx, "owner", TaskInput{
		Title:         "Drill",
		RecurringDays: []string{"fri", "Monday", "mon"},
		StartAt:       &start,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Monday", "Friday"}, task.RecurringDays)
	assert.Nil(t, task.DueAt)
	require.NotNil(t, task.StartAt)
	assert.True(t, task.StartAt.Equal(start))
}

func TestToggleCompletion_TwiceRestores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := day(2025, 3, 10)

	task, err := f.tasks.Create(ctx, "owner", TaskInput{Title: "Essay", DueAt: &due})
	require.NoError(t, err)

	toggled, err := f.tasks.ToggleCompletion(ctx, "owner", task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.NotNil(t, toggled.CompletedAt)

	restored, err := f.tasks.ToggleCompletion(ctx, "owner", task.ID)
	require.NoError(t, err)
	assert.False(t, restored.Completed)
	assert.Nil(t, restored.CompletedAt)

	stored, err := f.tasks.Get(ctx, "owner", task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestToggleCompletion_Missing(t *testing.T) {
	f := newFixture(t)

	_, err := f.tasks.ToggleCompletion(context.Background(), "owner", "missing")
	var serr *StoreError
	require.True(t, errors.As(err, &serr))
	assert.True(t, IsNotFound(err))
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := day(2025, 3, 10)

	task, err := f.tasks.Create(ctx, "owner", TaskInput{Title: "Essay", DueAt: &due})
	require.NoError(t, err)

	_, err = f.tasks.Update(ctx, "owner", task.ID, " ", "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = f.tasks.Update(ctx, "owner", task.ID, "Essay v2", "Homework")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "category", verr.Field)

	updated, err := f.tasks.Update(ctx, "owner", task.ID, "Essay v2", "Revision")
	require.NoError(t, err)
	assert.Equal(t, "Essay v2", updated.Title)
	assert.Equal(t, model.CategoryRevision, updated.Category)

	stored, err := f.tasks.Get(ctx, "owner", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Essay v2", stored.Title)
	require.NotNil(t, stored.DueAt, "edit keeps the schedule")
}

func TestDelete_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := day(2025, 3, 10)

	task, err := f.tasks.Create(ctx, "owner", TaskInput{Title: "Essay", DueAt: &due})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, "owner", task.ID))
	require.NoError(t, f.tasks.Delete(ctx, "owner", task.ID))

	_, err = f.tasks.Get(ctx, "owner", task.ID)
	assert.True(t, IsNotFound(err))
}

func TestSubscribe_DeliversSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := day(2025, 3, 10)

	var snapshots [][]model.Task
	cancel, err := f.tasks.Subscribe(ctx, "owner", func(tasks []model.Task) {
		snapshots = append(snapshots, tasks)
	})
	require.NoError(t, err)
	require.Len(t, snapshots, 1, "initial snapshot")
	assert.Empty(t, snapshots[0])

	task, err := f.tasks.Create(ctx, "owner", TaskInput{Title: "Essay", DueAt: &due})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	require.Len(t, snapshots[1], 1)

	_, err = f.tasks.ToggleCompletion(ctx, "owner", task.ID)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[2][0].Completed, "full snapshot, not a delta")

	// Another owner's writes are not delivered.
	_, err = f.tasks.Create(ctx, "someone-else", TaskInput{Title: "Other", DueAt: &due})
	require.NoError(t, err)
	assert.Len(t, snapshots, 3)

	cancel()
	cancel()
	assert.Equal(t, 0, f.tasks.Feed().Subscribers("owner"))

	require.NoError(t, f.tasks.Delete(ctx, "owner", task.ID))
	assert.Len(t, snapshots, 3, "no delivery after cancel")
}

func TestSubscribe_Independent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := day(2025, 3, 10)

	var first, second int
	cancelFirst, err := f.tasks.Subscribe(ctx, "owner", func([]model.Task) { first++ })
	require.NoError(t, err)
	cancelSecond, err := f.tasks.Subscribe(ctx, "owner", func([]model.Task) { second++ })
	require.NoError(t, err)
	defer cancelSecond()
	assert.Equal(t, 2, f.tasks.Feed().Subscribers("owner"))

	cancelFirst()
	_, err = f.tasks.Create(ctx, "owner", TaskInput{Title: "Essay", DueAt: &due})
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}
