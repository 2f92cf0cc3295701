package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"study-planner/internal/model"
	"study-planner/internal/repository"
)

// TaskInput represents data required to create a task. Exactly one of
// DueAt and RecurringDays must be set.
type TaskInput struct {
	Title         string
	Category      string
	DueAt         *time.Time
	RecurringDays []string
	StartAt       *time.Time
}

// TaskService wraps task-related business logic and the live feed.
type TaskService struct {
	taskRepo *repository.TaskRepository
	feed     *TaskFeed
	now      func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	s := &TaskService{taskRepo: taskRepo, now: time.Now}
	s.feed = newTaskFeed(taskRepo.ListByOwner)
	return s
}

func (s *TaskService) Create(ctx context.Context, ownerID string, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title", "Please enter a task title.")
	}

	category, ok := model.ParseCategory(input.Category)
	if !ok {
		return nil, invalid("category", "Unknown category %q.", input.Category)
	}

	days, err := normalizeDays(input.RecurringDays)
	if err != nil {
		return nil, err
	}

	switch {
	case input.DueAt != nil && len(days) > 0:
		return nil, invalid("schedule", "A task is either due once or recurring, not both.")
	case input.DueAt == nil && len(days) == 0:
		return nil, invalid("schedule", "Pick a due date or at least one weekday.")
	}

	task := model.Task{
		OwnerID:  ownerID,
		Title:    title,
		Category: category,
	}
	if input.DueAt != nil {
		due := *input.DueAt
		task.DueAt = &due
	} else {
		task.RecurringDays = days
		if input.StartAt != nil {
			start := *input.StartAt
			task.StartAt = &start
		}
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, storeErr("add task", err)
	}
	s.feed.Publish(ctx, ownerID)
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, storeErr("get task", err)
	}
	return task, nil
}

// Subscribe streams full snapshots of the owner's tasks. The caller must call
// the returned func once the snapshots are no longer displayed.
func (s *TaskService) Subscribe(ctx context.Context, ownerID string, handler SnapshotHandler) (func(), error) {
	return s.feed.Subscribe(ctx, ownerID, handler)
}

// Feed exposes the live feed, mainly for subscriber accounting.
func (s *TaskService) Feed() *TaskFeed {
	return s.feed
}

// ToggleCompletion flips the completed flag of a task.
func (s *TaskService) ToggleCompletion(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, storeErr("update task", err)
	}

	task.Completed = !task.Completed
	if task.Completed {
		now := s.now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.taskRepo.SetCompleted(ctx, task); err != nil {
		return nil, storeErr("update task", err)
	}
	s.feed.Publish(ctx, ownerID)
	return task, nil
}

// Update changes the title and category of a task.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID, title, category string) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "Please enter a task title.")
	}
	parsed, ok := model.ParseCategory(category)
	if !ok {
		return nil, invalid("category", "Unknown category %q.", category)
	}

	task, err := s.taskRepo.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, storeErr("update task", err)
	}
	task.Title = title
	task.Category = parsed

	if err := s.taskRepo.UpdateDetails(ctx, task); err != nil {
		return nil, storeErr("update task", err)
	}
	s.feed.Publish(ctx, ownerID)
	return task, nil
}

// Delete removes a task completely. Deleting an absent task succeeds.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := s.taskRepo.Delete(ctx, ownerID, taskID); err != nil {
		return storeErr("delete task", err)
	}
	s.feed.Publish(ctx, ownerID)
	return nil
}

// IsNotFound reports whether err means the task does not exist for the owner.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func normalizeDays(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		day, ok := model.ParseWeekday(r)
		if !ok {
			return nil, invalid("recurringDays", "Unknown weekday %q.", r)
		}
		seen[day] = true
	}
	days := make([]string, 0, len(seen))
	for _, day := range model.Weekdays {
		if seen[day] {
			days = append(days, day)
		}
	}
	return days, nil
}
