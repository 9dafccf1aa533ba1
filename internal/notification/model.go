package notification

import (
	"fmt"

	"university_portal_backend/internal/seed"
)

// Category classifies a notification. CategoryAll is only meaningful as a filter.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryAcademic  Category = "academic"
	CategoryFinancial Category = "financial"
	CategoryEvents    Category = "events"
	CategorySystem    Category = "system"
)

// Tabs lists the filter tabs in display order.
var Tabs = []struct {
	Category Category
	Label    string
}{
	{CategoryAll, "All"},
	{CategoryAcademic, "Academic"},
	{CategoryFinancial, "Financial"},
	{CategoryEvents, "Events"},
	{CategorySystem, "System"},
}

// ParseCategory accepts a tab key, including "all".
func ParseCategory(s string) (Category, bool) {
	for _, t := range Tabs {
		if string(t.Category) == s {
			return t.Category, true
		}
	}
	return "", false
}

// Priority is optional; the zero value means none was given.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is one entry on a session's board.
type Notification struct {
	ID             int      `json:"id"`
	Category       Category `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	TimestampLabel string   `json:"time"`
	IsRead         bool     `json:"read"`
	Priority       Priority `json:"priority,omitempty"`
}

// Urgent reports whether the notification carries the high-priority badge.
func (n Notification) Urgent() bool {
	return n.Priority == PriorityHigh
}

// FromSeed converts and validates seed rows. Ids must be unique.
func FromSeed(rows []seed.Notification) ([]Notification, error) {
	out := make([]Notification, 0, len(rows))
	seen := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		cat, ok := ParseCategory(row.Category)
		if !ok || cat == CategoryAll {
			return nil, fmt.Errorf("notification %d: unknown category %q", row.ID, row.Category)
		}
		prio := Priority(row.Priority)
		switch prio {
		case PriorityNone, PriorityNormal, PriorityHigh:
		default:
			return nil, fmt.Errorf("notification %d: unknown priority %q", row.ID, row.Priority)
		}
		if _, dup := seen[row.ID]; dup {
			return nil, fmt.Errorf("notification id %d is not unique", row.ID)
		}
		seen[row.ID] = struct{}{}
		out = append(out, Notification{
			ID:             row.ID,
			Category:       cat,
			Title:          row.Title,
			Description:    row.Description,
			TimestampLabel: row.Time,
			IsRead:         row.Read,
			Priority:       prio,
		})
	}
	return out, nil
}
