package model

import (
	"strings"
	"time"
)

// Weekdays lists weekday names Monday first, the order used by pickers.
var Weekdays = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

// ParseWeekday accepts a full or three-letter weekday name in any case and
// returns the canonical name.
func ParseWeekday(raw string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if len(value) < 3 {
		return "", false
	}
	for _, day := range Weekdays {
		lower := strings.ToLower(day)
		if value == lower || value == lower[:3] {
			return day, true
		}
	}
	return "", false
}
