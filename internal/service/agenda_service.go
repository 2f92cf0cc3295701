package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"study-planner/internal/agenda"
	"study-planner/internal/model"
)

// AgendaService builds the daily agenda message.
type AgendaService struct {
	tasks *TaskService
}

func NewAgendaService(tasks *TaskService) *AgendaService {
	return &AgendaService{tasks: tasks}
}

// DailySummary lists the tasks scheduled for now's calendar day and every
// single-occurrence task that expired before it.
func (s *AgendaService) DailySummary(ctx context.Context, ownerID string, now time.Time) (string, error) {
	tasks, err := s.tasks.List(ctx, ownerID)
	if err != nil {
		return "", err
	}

	today := agenda.ForDay(tasks, now)
	startOfToday := agenda.StartOfDay(now)
	var overdue []model.Task
	for _, task := range tasks {
		if task.Expired(startOfToday) {
			overdue = append(overdue, task)
		}
	}

	var b strings.Builder
	b.WriteString("📋 <b>Today's plan</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Monday, January 2")))

	if len(today) == 0 {
		b.WriteString("— nothing scheduled today\n")
	}
	for _, task := range today {
		b.WriteString(SummaryLine(task, now))
	}

	if len(overdue) > 0 {
		b.WriteString("\n⚠️ <b>Overdue</b>\n")
		for _, task := range overdue {
			b.WriteString(fmt.Sprintf("• %s · due %s\n", html.EscapeString(task.Title), task.DueAt.In(now.Location()).Format("Jan 02")))
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// SummaryLine renders one task with its status icon.
func SummaryLine(task model.Task, now time.Time) string {
	icon := "⬜️"
	switch {
	case task.Completed:
		icon = "✅"
	case task.Expired(now):
		icon = "⏰"
	case task.IsRecurring():
		icon = "♻️"
	}
	line := fmt.Sprintf("%s %s", icon, html.EscapeString(task.Title))
	if task.Category != model.CategoryNone {
		line += fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(string(task.Category)))
	}
	return line + "\n"
}
