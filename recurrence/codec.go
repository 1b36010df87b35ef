package recurrence

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// WireDateLayout is the calendar-date format of recurrence_end_date.
const WireDateLayout = "2006-01-02"

// Fields is the backend's flat recurrence representation. It is the sole
// external contract: the REST client produces it, the server consumes it,
// and the sqlite backend stores it column-per-field.
type Fields struct {
	Type       string `json:"recurrence_type" db:"recurrence_type"`
	Interval   int    `json:"recurrence_interval" db:"recurrence_interval"`
	EndDate    string `json:"recurrence_end_date,omitempty" db:"recurrence_end_date"`
	DaysOfWeek string `json:"recurrence_days_of_week,omitempty" db:"recurrence_days_of_week"`
}

// Marshal flattens rule into wire fields. Nil and none rules both produce
// the canonical none form {type: "none", interval: 1} with the optional
// fields left empty. DaysOfWeek keeps the rule's insertion order.
func Marshal(rule *Rule) Fields {
	if rule.IsNone() {
		return Fields{Type: string(KindNone), Interval: 1}
	}

	f := Fields{Type: string(rule.Kind), Interval: rule.Interval}
	if rule.EndDate != nil {
		f.EndDate = rule.EndDate.Format(WireDateLayout)
	}
	if len(rule.DaysOfWeek) > 0 {
		tokens := make([]string, len(rule.DaysOfWeek))
		for i, day := range rule.DaysOfWeek {
			tokens[i] = strconv.Itoa(int(day))
		}
		f.DaysOfWeek = strings.Join(tokens, ",")
	}
	return f
}

// Unmarshal rebuilds a rule from wire fields. A missing or none type yields
// nil. Parsing is lenient: weekday tokens that fail to parse or fall outside
// [0,6] are dropped, as is an end date that does not match WireDateLayout.
// A missing interval defaults to 1.
func Unmarshal(f Fields) *Rule {
	kind := Kind(f.Type)
	if kind == "" || kind == KindNone {
		return nil
	}

	rule := &Rule{Kind: kind, Interval: f.Interval}
	if rule.Interval == 0 {
		rule.Interval = 1
	}
	if end, ok := parseWireDate(f.EndDate).Get(); ok {
		rule.EndDate = &end
	}
	rule.DaysOfWeek = parseWireDays(f.DaysOfWeek)
	return rule
}

func parseWireDate(s string) mo.Option[time.Time] {
	if s == "" {
		return mo.None[time.Time]()
	}
	t, err := time.Parse(WireDateLayout, s)
	if err != nil {
		return mo.None[time.Time]()
	}
	return mo.Some(t)
}

func parseWireDays(s string) []time.Weekday {
	if s == "" {
		return nil
	}
	var days []time.Weekday
	for _, token := range strings.Split(s, ",") {
		if day, ok := parseWeekday(token).Get(); ok {
			days = append(days, day)
		}
	}
	return days
}

func parseWeekday(token string) mo.Option[time.Weekday] {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || n < 0 || n > 6 {
		return mo.None[time.Weekday]()
	}
	return mo.Some(time.Weekday(n))
}
