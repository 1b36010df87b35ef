package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRRuleString(t *testing.T) {
	anchor := date(2025, time.June, 2)

	tests := []struct {
		name     string
		rule     *Rule
		expected string
	}{
		{
			name:     "Daily",
			rule:     &Rule{Kind: KindDaily, Interval: 1},
			expected: "FREQ=DAILY",
		},
		{
			name:     "Daily with interval",
			rule:     &Rule{Kind: KindDaily, Interval: 2},
			expected: "FREQ=DAILY;INTERVAL=2",
		},
		{
			name:     "Weekly with days",
			rule:     &Rule{Kind: KindWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday, time.Friday}},
			expected: "FREQ=WEEKLY;BYDAY=MO,FR",
		},
		{
			name:     "Monthly with count",
			rule:     &Rule{Kind: KindMonthly, Interval: 1, Count: 12},
			expected: "FREQ=MONTHLY;COUNT=12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RRuleString(anchor, tt.rule)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRRuleString_EndDateBecomesUntil(t *testing.T) {
	rule := &Rule{Kind: KindDaily, Interval: 1, EndDate: datePtr(2026, time.March, 1)}

	got, err := RRuleString(date(2025, time.June, 2), rule)

	require.NoError(t, err)
	assert.Contains(t, got, "UNTIL=20260301T235959Z")
}

func TestRRuleString_Errors(t *testing.T) {
	_, err := RRuleString(date(2025, time.June, 2), nil)
	assert.Error(t, err)

	_, err = RRuleString(date(2025, time.June, 2), &Rule{Kind: KindNone})
	assert.Error(t, err)

	_, err = RRuleString(date(2025, time.June, 2), &Rule{Kind: Kind("hourly"), Interval: 1})
	assert.Error(t, err)
}

func TestRRule_ExpandsLikeExpand(t *testing.T) {
	// The RFC rendering and the native expansion must describe the same
	// series for the rule shapes both sides support.
	anchor := date(2025, time.June, 2) // a Monday
	rule := &Rule{Kind: KindWeekly, Interval: 2, DaysOfWeek: []time.Weekday{time.Monday}}

	r, err := RRule(anchor, rule)
	require.NoError(t, err)

	native := Expand(anchor, rule, 5)
	viaRFC := r.Between(anchor.AddDate(0, 0, -1), anchor.AddDate(0, 0, 9*7), true)

	require.Len(t, viaRFC, len(native))
	for i := range native {
		assert.True(t, native[i].Equal(viaRFC[i]),
			"occurrence %d: native %s != rfc %s", i, native[i], viaRFC[i])
	}
}

func TestParseRRule(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected *Rule
	}{
		{
			name:     "Daily",
			value:    "FREQ=DAILY",
			expected: &Rule{Kind: KindDaily, Interval: 1},
		},
		{
			name:     "Weekly with days and interval",
			value:    "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR",
			expected: &Rule{Kind: KindWeekly, Interval: 2, DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		},
		{
			name:     "Sunday maps to weekday zero",
			value:    "FREQ=WEEKLY;BYDAY=SU",
			expected: &Rule{Kind: KindWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Sunday}},
		},
		{
			name:     "Until becomes the end date",
			value:    "FREQ=MONTHLY;UNTIL=20260301T235959Z",
			expected: &Rule{Kind: KindMonthly, Interval: 1, EndDate: datePtr(2026, time.March, 1)},
		},
		{
			name:     "Count carried through",
			value:    "FREQ=YEARLY;COUNT=5",
			expected: &Rule{Kind: KindYearly, Interval: 1, Count: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRRule(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseRRule_Unsupported(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "Sub-daily frequency", value: "FREQ=HOURLY"},
		{name: "Nth weekday", value: "FREQ=MONTHLY;BYDAY=2TU"},
		{name: "By month day", value: "FREQ=MONTHLY;BYMONTHDAY=15"},
		{name: "By set position", value: "FREQ=MONTHLY;BYDAY=MO;BYSETPOS=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRRule(tt.value)
			assert.ErrorIs(t, err, ErrUnsupportedRRule)
		})
	}
}

func TestParseRRule_Malformed(t *testing.T) {
	_, err := ParseRRule("FREQ=SOMETIMES")
	assert.Error(t, err)
}
