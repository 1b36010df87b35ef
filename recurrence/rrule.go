package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// ErrUnsupportedRRule marks RRULE content the Rule type cannot carry, such
// as sub-daily frequencies or nth-weekday BYDAY parts.
var ErrUnsupportedRRule = errors.New("rrule not representable as a rule")

// rruleWeekdays indexes rrule-go's Monday-first weekday constants by
// time.Weekday (Sunday-first).
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// RRule converts rule into its RFC 5545 equivalent anchored at anchor.
// EndDate maps to UNTIL at end of day UTC so the inclusive date bound
// survives the conversion; Count maps to COUNT.
func RRule(anchor time.Time, rule *Rule) (*rrule.RRule, error) {
	opt, err := roption(anchor, rule)
	if err != nil {
		return nil, err
	}
	return rrule.NewRRule(opt)
}

// RRuleString renders rule as the value of an iCalendar RRULE property,
// without the DTSTART line.
func RRuleString(anchor time.Time, rule *Rule) (string, error) {
	opt, err := roption(anchor, rule)
	if err != nil {
		return "", err
	}
	if _, err := rrule.NewRRule(opt); err != nil {
		return "", fmt.Errorf("invalid rrule options: %w", err)
	}
	return opt.RRuleString(), nil
}

func roption(anchor time.Time, rule *Rule) (rrule.ROption, error) {
	if rule.IsNone() {
		return rrule.ROption{}, errors.New("rule does not repeat")
	}

	opt := rrule.ROption{Dtstart: anchor}
	switch rule.Kind {
	case KindDaily:
		opt.Freq = rrule.DAILY
	case KindWeekly:
		opt.Freq = rrule.WEEKLY
		for _, day := range rule.DaysOfWeek {
			if day >= time.Sunday && day <= time.Saturday {
				opt.Byweekday = append(opt.Byweekday, rruleWeekdays[day])
			}
		}
	case KindMonthly:
		opt.Freq = rrule.MONTHLY
	case KindYearly:
		opt.Freq = rrule.YEARLY
	default:
		return rrule.ROption{}, fmt.Errorf("kind %q has no rrule equivalent", rule.Kind)
	}
	if rule.Interval > 1 {
		opt.Interval = rule.Interval
	}
	if rule.Count > 0 {
		opt.Count = rule.Count
	}
	if rule.EndDate != nil {
		end := rule.EndDate
		opt.Until = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
	}
	return opt, nil
}

// FromRRule converts parsed RRULE options back into a Rule. Weekly rules
// without a BYDAY part fall back to the DTSTART weekday, matching RFC 5545.
func FromRRule(opt rrule.ROption) (*Rule, error) {
	rule := &Rule{Interval: opt.Interval}
	if rule.Interval == 0 {
		rule.Interval = 1
	}

	switch opt.Freq {
	case rrule.DAILY:
		rule.Kind = KindDaily
	case rrule.WEEKLY:
		rule.Kind = KindWeekly
	case rrule.MONTHLY:
		rule.Kind = KindMonthly
	case rrule.YEARLY:
		rule.Kind = KindYearly
	default:
		return nil, fmt.Errorf("%w: frequency %v", ErrUnsupportedRRule, opt.Freq)
	}

	if len(opt.Bysetpos) > 0 || len(opt.Bymonthday) > 0 || len(opt.Byyearday) > 0 ||
		len(opt.Byweekno) > 0 || len(opt.Bymonth) > 0 || len(opt.Byeaster) > 0 {
		return nil, fmt.Errorf("%w: by-part filters", ErrUnsupportedRRule)
	}

	for _, day := range opt.Byweekday {
		if day.N() != 0 {
			return nil, fmt.Errorf("%w: nth-weekday BYDAY", ErrUnsupportedRRule)
		}
		rule.DaysOfWeek = append(rule.DaysOfWeek, time.Weekday((day.Day()+1)%7))
	}
	if rule.Kind == KindWeekly && len(rule.DaysOfWeek) == 0 && !opt.Dtstart.IsZero() {
		rule.DaysOfWeek = []time.Weekday{opt.Dtstart.Weekday()}
	}

	if !opt.Until.IsZero() {
		end := DateOf(opt.Until)
		rule.EndDate = &end
	}
	if opt.Count > 0 {
		rule.Count = opt.Count
	}
	return rule, nil
}

// ParseRRule converts the value of an RRULE property into a Rule.
func ParseRRule(value string) (*Rule, error) {
	r, err := rrule.StrToRRule(value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule %q: %w", value, err)
	}
	return FromRRule(r.OrigOptions)
}
