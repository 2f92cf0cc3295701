package service

import (
	"context"
	"time"

	"study-planner/internal/agenda"
)

// ProfileStats summarises the signed-in user's progress.
type ProfileStats struct {
	Email          string
	MemberSince    time.Time
	TasksCompleted int
	StreakDays     int
}

type ProfileService struct {
	auth  *AuthService
	tasks *TaskService
}

func NewProfileService(auth *AuthService, tasks *TaskService) *ProfileService {
	return &ProfileService{auth: auth, tasks: tasks}
}

func (s *ProfileService) Stats(ctx context.Context, identity Identity, now time.Time) (ProfileStats, error) {
	stats := ProfileStats{Email: identity.Email}

	account, err := s.auth.Account(ctx, identity.ID)
	if err != nil {
		return stats, err
	}
	stats.MemberSince = account.CreatedAt

	tasks, err := s.tasks.List(ctx, identity.ID)
	if err != nil {
		return stats, err
	}

	var completions []time.Time
	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		stats.TasksCompleted++
		if task.CompletedAt != nil {
			completions = append(completions, task.CompletedAt.In(now.Location()))
		}
	}
	stats.StreakDays = Streak(completions, now)
	return stats, nil
}

// Streak counts consecutive calendar days with at least one completion,
// ending today. A streak that ended yesterday still counts, since today is
// not over yet.
func Streak(completions []time.Time, now time.Time) int {
	days := make(map[time.Time]bool, len(completions))
	for _, c := range completions {
		days[agenda.StartOfDay(c.In(now.Location()))] = true
	}
	if len(days) == 0 {
		return 0
	}

	cursor := agenda.StartOfDay(now)
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for days[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
