package recurrence

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Translator resolves a message key to a localized phrase. Keys for phrases
// that embed values resolve to fmt.Sprintf templates. Unknown keys should be
// returned as-is so missing catalog entries stay visible.
type Translator func(key string) string

// Message keys understood by Format. A catalog maps each of these to a
// phrase; the *_every keys take the interval as %d, MsgOnDays takes the
// joined weekday list as %s, MsgUntil takes the formatted date as %s, and
// MsgDateLayout resolves to a Go time layout for the end date.
const (
	MsgNone        = "recurrence.none"
	MsgDaily       = "recurrence.daily"
	MsgWeekly      = "recurrence.weekly"
	MsgMonthly     = "recurrence.monthly"
	MsgYearly      = "recurrence.yearly"
	MsgEveryDays   = "recurrence.every_days"
	MsgEveryWeeks  = "recurrence.every_weeks"
	MsgEveryMonths = "recurrence.every_months"
	MsgEveryYears  = "recurrence.every_years"
	MsgOnDays      = "recurrence.on_days"
	MsgUntil       = "recurrence.until"
	MsgListAnd     = "recurrence.list_and"
	MsgDateLayout  = "recurrence.date_layout"

	MsgSunday    = "weekday.sunday"
	MsgMonday    = "weekday.monday"
	MsgTuesday   = "weekday.tuesday"
	MsgWednesday = "weekday.wednesday"
	MsgThursday  = "weekday.thursday"
	MsgFriday    = "weekday.friday"
	MsgSaturday  = "weekday.saturday"
)

// weekdayKeys indexes message keys by time.Weekday (Sunday = 0).
var weekdayKeys = [7]string{
	MsgSunday, MsgMonday, MsgTuesday, MsgWednesday,
	MsgThursday, MsgFriday, MsgSaturday,
}

var english = map[string]string{
	MsgNone:        "Does not repeat",
	MsgDaily:       "Daily",
	MsgWeekly:      "Weekly",
	MsgMonthly:     "Monthly",
	MsgYearly:      "Yearly",
	MsgEveryDays:   "Every %d days",
	MsgEveryWeeks:  "Every %d weeks",
	MsgEveryMonths: "Every %d months",
	MsgEveryYears:  "Every %d years",
	MsgOnDays:      "on %s",
	MsgUntil:       "until %s",
	MsgListAnd:     "and",
	MsgDateLayout:  "Jan 2, 2006",

	MsgSunday:    "Sunday",
	MsgMonday:    "Monday",
	MsgTuesday:   "Tuesday",
	MsgWednesday: "Wednesday",
	MsgThursday:  "Thursday",
	MsgFriday:    "Friday",
	MsgSaturday:  "Saturday",
}

// DefaultTranslator is the built-in English catalog. Keys without an entry
// come back unchanged.
func DefaultTranslator(key string) string {
	if phrase, ok := english[key]; ok {
		return phrase
	}
	return key
}

// Format renders rule as a human-readable summary such as
// "Every 2 weeks on Monday and Friday until Mar 1, 2026". A nil translator
// falls back to DefaultTranslator; a nil or none rule yields the localized
// "does not repeat" phrase. Format never mutates rule.
func Format(rule *Rule, t Translator) string {
	if t == nil {
		t = DefaultTranslator
	}
	if rule.IsNone() || !rule.Kind.Valid() {
		return t(MsgNone)
	}

	parts := []string{frequencyPhrase(rule.Kind, rule.Interval, t)}
	if rule.Kind == KindWeekly {
		if list := weekdayList(rule.DaysOfWeek, t); list != "" {
			parts = append(parts, fmt.Sprintf(t(MsgOnDays), list))
		}
	}
	if rule.EndDate != nil {
		parts = append(parts, fmt.Sprintf(t(MsgUntil), rule.EndDate.Format(t(MsgDateLayout))))
	}
	return strings.Join(parts, " ")
}

func frequencyPhrase(kind Kind, interval int, t Translator) string {
	type phrase struct{ one, many string }
	keys := map[Kind]phrase{
		KindDaily:   {MsgDaily, MsgEveryDays},
		KindWeekly:  {MsgWeekly, MsgEveryWeeks},
		KindMonthly: {MsgMonthly, MsgEveryMonths},
		KindYearly:  {MsgYearly, MsgEveryYears},
	}
	p := keys[kind]
	if interval <= 1 {
		return t(p.one)
	}
	return fmt.Sprintf(t(p.many), interval)
}

// weekdayList renders days as a conjunctive list ("Monday", "Monday and
// Friday", "Monday, Wednesday and Friday"), Sunday-first ascending. Days
// outside [Sunday, Saturday] are skipped.
func weekdayList(days []time.Weekday, t Translator) string {
	sorted := make([]time.Weekday, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	names := make([]string, 0, len(sorted))
	for _, day := range sorted {
		if day < time.Sunday || day > time.Saturday {
			continue
		}
		names = append(names, t(weekdayKeys[day]))
	}

	and := t(MsgListAnd)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " " + and + " " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " " + and + " " + names[len(names)-1]
	}
}
