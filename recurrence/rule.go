// Package recurrence implements the repeating-schedule rules used by the
// planner backend: expansion of a rule into concrete occurrence dates,
// human-readable formatting, validation, and the flat wire representation
// exchanged with (and stored by) the backend.
package recurrence

import "time"

// Kind identifies the frequency unit of a recurrence rule.
type Kind string

const (
	KindNone    Kind = "none"
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
	KindYearly  Kind = "yearly"
)

// Valid reports whether k is one of the known frequency kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindNone, KindDaily, KindWeekly, KindMonthly, KindYearly:
		return true
	}
	return false
}

// Interval bounds enforced by Validate.
const (
	MinInterval = 1
	MaxInterval = 999
)

// Rule describes a repeating schedule. The zero value is not meaningful;
// a nil *Rule (or Kind == KindNone) means "does not repeat" and is what
// every storage and wire boundary normalizes to.
type Rule struct {
	Kind Kind

	// Interval is the step count in the rule's unit, e.g. every 2 weeks.
	// Valid rules keep it within [MinInterval, MaxInterval].
	Interval int

	// DaysOfWeek is meaningful for weekly rules only. time.Weekday matches
	// the backend's numbering exactly (0=Sunday .. 6=Saturday).
	DaysOfWeek []time.Weekday

	// EndDate is the inclusive calendar-date upper bound for occurrences.
	// Its time-of-day is ignored everywhere.
	EndDate *time.Time

	// Count caps the total number of occurrences. The flat wire fields do
	// not carry it; it only travels through RRULE conversion.
	Count int
}

// IsNone reports whether r means "does not repeat". Both nil rules and
// rules with an unset or none kind count.
func (r *Rule) IsNone() bool {
	return r == nil || r.Kind == KindNone || r.Kind == ""
}
