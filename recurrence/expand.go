package recurrence

import "time"

// DefaultLimit is the expansion cap used when a caller passes no explicit
// limit. It matches the preview length the planner UI shows.
const DefaultLimit = 10

// DateOf strips the time-of-day from t, keeping its location. All expansion
// arithmetic happens on dates produced this way.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Expand materializes up to limit occurrence dates for rule, starting at the
// anchor date itself. Occurrences are midnight timestamps in anchor's
// location, strictly increasing. A nil rule, a none kind, an unknown kind or
// a non-positive limit all yield nil. The rule's EndDate bounds the series
// inclusively: an occurrence landing exactly on it is kept, anything after
// it stops the expansion even when limit is not yet reached.
func Expand(anchor time.Time, rule *Rule, limit int) []time.Time {
	if rule.IsNone() || !rule.Kind.Valid() || limit <= 0 {
		return nil
	}

	interval := rule.Interval
	if interval < MinInterval {
		interval = MinInterval
	}

	current := DateOf(anchor)

	// The end bound is a calendar date; re-anchor it in the anchor's
	// location so comparing midnights is exact.
	var end time.Time
	hasEnd := false
	if rule.EndDate != nil {
		end = time.Date(rule.EndDate.Year(), rule.EndDate.Month(), rule.EndDate.Day(),
			0, 0, 0, 0, anchor.Location())
		hasEnd = true
	}

	var dates []time.Time
	for len(dates) < limit {
		if hasEnd && current.After(end) {
			break
		}
		dates = append(dates, current)
		current = step(current, rule.Kind, interval)
	}
	return dates
}

// ExpandDefault is Expand with the preview limit the planner UI uses.
func ExpandDefault(anchor time.Time, rule *Rule) []time.Time {
	return Expand(anchor, rule, DefaultLimit)
}

// step advances a date by one rule period. Month and year steps lean on
// time.AddDate's normalization, so Jan 31 + 1 month lands on Mar 2/3 rather
// than clamping to the end of February.
func step(t time.Time, kind Kind, interval int) time.Time {
	switch kind {
	case KindDaily:
		return t.AddDate(0, 0, interval)
	case KindWeekly:
		return t.AddDate(0, 0, 7*interval)
	case KindMonthly:
		return t.AddDate(0, interval, 0)
	case KindYearly:
		return t.AddDate(interval, 0, 0)
	}
	return t
}
