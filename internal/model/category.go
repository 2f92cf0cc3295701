package model

import "strings"

// Category labels a task. The set is closed; the zero value means "none".
type Category string

const (
	CategoryNone       Category = ""
	CategoryAssignment Category = "Assignment"
	CategoryRevision   Category = "Revision"
	CategoryPractice   Category = "Practice"
)

// Categories returns the selectable categories in display order.
func Categories() []Category {
	return []Category{CategoryAssignment, CategoryRevision, CategoryPractice}
}

// ParseCategory matches raw case-insensitively against the closed set.
// An empty string parses to CategoryNone.
func ParseCategory(raw string) (Category, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return CategoryNone, true
	}
	for _, c := range Categories() {
		if strings.EqualFold(value, string(c)) {
			return c, true
		}
	}
	return CategoryNone, false
}
