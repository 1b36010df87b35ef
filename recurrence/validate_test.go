package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rule    *Rule
		wantErr error
	}{
		{
			name:    "Nil rule is valid",
			rule:    nil,
			wantErr: nil,
		},
		{
			name:    "None kind is valid regardless of other fields",
			rule:    &Rule{Kind: KindNone, Interval: -5},
			wantErr: nil,
		},
		{
			name:    "Simple daily rule",
			rule:    &Rule{Kind: KindDaily, Interval: 1},
			wantErr: nil,
		},
		{
			name:    "Interval at the upper bound",
			rule:    &Rule{Kind: KindDaily, Interval: 999},
			wantErr: nil,
		},
		{
			name:    "Zero interval",
			rule:    &Rule{Kind: KindDaily, Interval: 0},
			wantErr: ErrIntervalOutOfRange,
		},
		{
			name:    "Interval above the upper bound",
			rule:    &Rule{Kind: KindDaily, Interval: 1000},
			wantErr: ErrIntervalOutOfRange,
		},
		{
			name:    "Weekly with weekdays",
			rule:    &Rule{Kind: KindWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday, time.Friday}},
			wantErr: nil,
		},
		{
			name:    "Weekly without weekdays",
			rule:    &Rule{Kind: KindWeekly, Interval: 1},
			wantErr: ErrNoWeekdaysSelected,
		},
		{
			name:    "Weekly with a weekday above Saturday",
			rule:    &Rule{Kind: KindWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday, time.Weekday(7)}},
			wantErr: ErrWeekdayOutOfRange,
		},
		{
			name:    "Weekly with a negative weekday",
			rule:    &Rule{Kind: KindWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Weekday(-1)}},
			wantErr: ErrWeekdayOutOfRange,
		},
		{
			name:    "Daily rules ignore weekday bounds",
			rule:    &Rule{Kind: KindDaily, Interval: 1, DaysOfWeek: []time.Weekday{time.Weekday(42)}},
			wantErr: nil,
		},
		{
			name:    "End date in the future",
			rule:    &Rule{Kind: KindDaily, Interval: 1, EndDate: datePtr(2025, time.June, 2)},
			wantErr: nil,
		},
		{
			name:    "End date in the past",
			rule:    &Rule{Kind: KindDaily, Interval: 1, EndDate: datePtr(2025, time.May, 1)},
			wantErr: ErrEndDateNotFuture,
		},
		{
			name:    "End date exactly now is not future",
			rule:    &Rule{Kind: KindDaily, Interval: 1, EndDate: &now},
			wantErr: ErrEndDateNotFuture,
		},
		{
			name: "Interval violation reported before weekday violation",
			rule: &Rule{Kind: KindWeekly, Interval: 0},
			// both the interval and the empty weekday set are wrong; the
			// interval check runs first
			wantErr: ErrIntervalOutOfRange,
		},
		{
			name: "Weekday violation reported before end date violation",
			rule: &Rule{Kind: KindWeekly, Interval: 1, EndDate: datePtr(2020, time.January, 1)},
			wantErr: ErrNoWeekdaysSelected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rule, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
