package recurrence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name     string
		rule     *Rule
		expected Fields
	}{
		{
			name:     "Nil rule produces the canonical none form",
			rule:     nil,
			expected: Fields{Type: "none", Interval: 1},
		},
		{
			name:     "None kind produces the canonical none form",
			rule:     &Rule{Kind: KindNone, Interval: 7},
			expected: Fields{Type: "none", Interval: 1},
		},
		{
			name:     "Daily with interval",
			rule:     &Rule{Kind: KindDaily, Interval: 3},
			expected: Fields{Type: "daily", Interval: 3},
		},
		{
			name:     "Weekly keeps weekday insertion order",
			rule:     &Rule{Kind: KindWeekly, Interval: 2, DaysOfWeek: []time.Weekday{time.Friday, time.Monday, time.Wednesday}},
			expected: Fields{Type: "weekly", Interval: 2, DaysOfWeek: "5,1,3"},
		},
		{
			name:     "End date rendered as a calendar date",
			rule:     &Rule{Kind: KindMonthly, Interval: 1, EndDate: datePtr(2026, time.March, 1)},
			expected: Fields{Type: "monthly", Interval: 1, EndDate: "2026-03-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Marshal(tt.rule))
		})
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		fields   Fields
		expected *Rule
	}{
		{
			name:     "None type yields nil",
			fields:   Fields{Type: "none", Interval: 1},
			expected: nil,
		},
		{
			name:     "Missing type yields nil",
			fields:   Fields{Interval: 4, DaysOfWeek: "1,2"},
			expected: nil,
		},
		{
			name:     "Weekly with weekday list",
			fields:   Fields{Type: "weekly", Interval: 1, DaysOfWeek: "1,3,5"},
			expected: &Rule{Kind: KindWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		},
		{
			name:     "Missing interval defaults to one",
			fields:   Fields{Type: "daily"},
			expected: &Rule{Kind: KindDaily, Interval: 1},
		},
		{
			name:     "Unparseable weekday tokens are dropped",
			fields:   Fields{Type: "weekly", Interval: 1, DaysOfWeek: "1,x,9,-2,3,"},
			expected: &Rule{Kind: KindWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday}},
		},
		{
			name:     "Weekday tokens tolerate whitespace",
			fields:   Fields{Type: "weekly", Interval: 1, DaysOfWeek: " 0 , 6 "},
			expected: &Rule{Kind: KindWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Sunday, time.Saturday}},
		},
		{
			name:     "End date parsed into the rule",
			fields:   Fields{Type: "daily", Interval: 2, EndDate: "2026-03-01"},
			expected: &Rule{Kind: KindDaily, Interval: 2, EndDate: datePtr(2026, time.March, 1)},
		},
		{
			name:     "Unparseable end date is dropped",
			fields:   Fields{Type: "daily", Interval: 2, EndDate: "03/01/2026"},
			expected: &Rule{Kind: KindDaily, Interval: 2},
		},
		{
			name:     "Unknown type is preserved for validation to reject",
			fields:   Fields{Type: "hourly", Interval: 1},
			expected: &Rule{Kind: Kind("hourly"), Interval: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Unmarshal(tt.fields))
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	rules := []*Rule{
		{Kind: KindDaily, Interval: 1},
		{Kind: KindDaily, Interval: 999},
		{Kind: KindWeekly, Interval: 2, DaysOfWeek: []time.Weekday{time.Friday, time.Monday}},
		{Kind: KindMonthly, Interval: 6, EndDate: datePtr(2027, time.January, 31)},
		{Kind: KindYearly, Interval: 1, EndDate: datePtr(2030, time.December, 25)},
	}

	for _, rule := range rules {
		got := Unmarshal(Marshal(rule))
		assert.Equal(t, rule, got, "round trip changed rule %+v", rule)
	}
}

func TestFields_JSONNames(t *testing.T) {
	// The JSON shape is the backend contract; field names must not drift.
	raw, err := json.Marshal(Fields{Type: "weekly", Interval: 2, EndDate: "2026-03-01", DaysOfWeek: "1,5"})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"recurrence_type": "weekly",
		"recurrence_interval": 2,
		"recurrence_end_date": "2026-03-01",
		"recurrence_days_of_week": "1,5"
	}`, string(raw))

	// Optional fields stay off the wire when empty.
	raw, err = json.Marshal(Fields{Type: "none", Interval: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"recurrence_type": "none", "recurrence_interval": 1}`, string(raw))

	var decoded Fields
	require.NoError(t, json.Unmarshal([]byte(`{"recurrence_type":"daily","recurrence_interval":3}`), &decoded))
	assert.Equal(t, Fields{Type: "daily", Interval: 3}, decoded)
}
