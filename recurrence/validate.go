package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// Validation failures. Validate returns the first one that applies, wrapped
// with the offending value, so callers can match with errors.Is.
var (
	ErrIntervalOutOfRange = errors.New("interval out of range")
	ErrNoWeekdaysSelected = errors.New("at least one weekday required")
	ErrWeekdayOutOfRange  = errors.New("weekday out of range")
	ErrEndDateNotFuture   = errors.New("end date must be in the future")
)

// Validate checks rule for use at time now. A nil rule or a none kind is
// always valid. Checks run in a fixed order and stop at the first failure:
// interval bounds, weekday selection (weekly rules only), end date.
func Validate(rule *Rule, now time.Time) error {
	if rule.IsNone() {
		return nil
	}
	if rule.Interval < MinInterval || rule.Interval > MaxInterval {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrIntervalOutOfRange, rule.Interval, MinInterval, MaxInterval)
	}
	if rule.Kind == KindWeekly {
		if len(rule.DaysOfWeek) == 0 {
			return ErrNoWeekdaysSelected
		}
		for _, day := range rule.DaysOfWeek {
			if day < time.Sunday || day > time.Saturday {
				return fmt.Errorf("%w: %d", ErrWeekdayOutOfRange, int(day))
			}
		}
	}
	if rule.EndDate != nil && !rule.EndDate.After(now) {
		return fmt.Errorf("%w: %s", ErrEndDateNotFuture, rule.EndDate.Format(WireDateLayout))
	}
	return nil
}
