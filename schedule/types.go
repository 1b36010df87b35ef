// Package schedule models calendar events and expands their recurrence
// rules into concrete occurrences.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/itervo/librecur/recurrence"
)

// Event is a calendar entry. A recurring event stores the master start/end
// plus a recurrence rule; its concrete occurrences are derived, never stored.
type Event struct {
	ID          uuid.UUID
	CalendarID  string
	Title       string
	Description string
	Location    string

	// StartsAt anchors the series; EndsAt is the end of the master
	// occurrence and fixes the duration applied to every occurrence.
	StartsAt time.Time
	EndsAt   time.Time
	AllDay   bool

	Recurrence *recurrence.Rule

	// Exceptions lists calendar dates whose occurrence is skipped.
	// Matching is date-level; the stored time-of-day is ignored.
	Exceptions []time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRecurring reports whether the event carries a repeating rule.
func (e *Event) IsRecurring() bool {
	return !e.Recurrence.IsNone()
}

// Duration is the length of a single occurrence.
func (e *Event) Duration() time.Duration {
	return e.EndsAt.Sub(e.StartsAt)
}

// Occurrence is one concrete instance of an event.
type Occurrence struct {
	EventID uuid.UUID
	Start   time.Time
	End     time.Time
}

// isExcepted reports whether t falls on one of the exception dates.
// Comparison is by calendar date, each side read in its own location.
func isExcepted(t time.Time, exceptions []time.Time) bool {
	for _, ex := range exceptions {
		if t.Year() == ex.Year() && t.Month() == ex.Month() && t.Day() == ex.Day() {
			return true
		}
	}
	return false
}
