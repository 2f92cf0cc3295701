// Package agenda decides which tasks belong to a calendar day.
//
// A task due once belongs to the day its due instant falls on. A recurring
// task belongs to every day whose weekday is in its recurrence set, starting
// with the calendar day of its start instant. Days are compared in the
// location of the target day, time of day is ignored.
package agenda

import (
	"time"

	"study-planner/internal/model"
)

// Matches reports whether task should be shown on day.
func Matches(task model.Task, day time.Time) bool {
	switch {
	case task.DueAt != nil:
		return SameDay(task.DueAt.In(day.Location()), day)
	case task.IsRecurring():
		if !containsDay(task.RecurringDays, day.Weekday().String()) {
			return false
		}
		if task.StartAt != nil && StartOfDay(day).Before(StartOfDay(task.StartAt.In(day.Location()))) {
			return false
		}
		return true
	default:
		return false
	}
}

// ForDay keeps the tasks matching day, preserving input order.
func ForDay(tasks []model.Task, day time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if Matches(task, day) {
			out = append(out, task)
		}
	}
	return out
}

// CountByDay returns, for each day, the number of matching tasks.
func CountByDay(tasks []model.Task, days []time.Time) []int {
	counts := make([]int, len(days))
	for i, day := range days {
		for _, task := range tasks {
			if Matches(task, day) {
				counts[i]++
			}
		}
	}
	return counts
}

// DateRange returns the start of each day from before days ahead of center
// to after days past it, inclusive.
func DateRange(center time.Time, before, after int) []time.Time {
	base := StartOfDay(center)
	days := make([]time.Time, 0, before+after+1)
	for i := -before; i <= after; i++ {
		days = append(days, base.AddDate(0, 0, i))
	}
	return days
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func containsDay(days []string, name string) bool {
	for _, d := range days {
		if d == name {
			return true
		}
	}
	return false
}
