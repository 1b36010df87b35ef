// Package feed renders calendars and their events as iCalendar data,
// the read-only subscription format most calendar apps accept.
package feed

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/itervo/librecur/recurrence"
	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/storage"
)

const (
	prodID = "-//librecur//NONSGML v1.0//EN"

	dateLayout     = "20060102"
	dateTimeLayout = "20060102T150405Z"
)

// Calendar builds a VCALENDAR for cal with one VEVENT per event. Events
// are emitted sorted by start time so the same inputs always produce the
// same document.
func Calendar(cal *storage.Calendar, events []*schedule.Event) (*ical.Calendar, error) {
	out := ical.NewCalendar()
	out.Props.SetText(ical.PropProductID, prodID)
	out.Props.SetText(ical.PropVersion, "2.0")
	if cal != nil && cal.Name != "" {
		out.Props.SetText(ical.PropName, cal.Name)
		out.Props.SetText("X-WR-CALNAME", cal.Name)
	}

	sorted := append([]*schedule.Event(nil), events...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].StartsAt.Equal(sorted[j].StartsAt) {
			return sorted[i].StartsAt.Before(sorted[j].StartsAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	for _, ev := range sorted {
		comp, err := component(ev)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		out.Children = append(out.Children, comp)
	}
	return out, nil
}

// Encode writes the VCALENDAR for cal and events to w.
func Encode(w io.Writer, cal *storage.Calendar, events []*schedule.Event) error {
	out, err := Calendar(cal, events)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func component(ev *schedule.Event) (*ical.Component, error) {
	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetText(ical.PropUID, ev.ID.String())
	comp.Props.SetDateTime(ical.PropDateTimeStamp, stamp(ev))
	comp.Props.SetText(ical.PropSummary, ev.Title)
	if ev.Description != "" {
		comp.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		comp.Props.SetText(ical.PropLocation, ev.Location)
	}

	if ev.AllDay {
		// DTEND is exclusive for DATE values, so a one-day event ends
		// on the following date.
		setDate(comp, ical.PropDateTimeStart, recurrence.DateOf(ev.StartsAt))
		setDate(comp, ical.PropDateTimeEnd, recurrence.DateOf(ev.EndsAt).AddDate(0, 0, 1))
	} else {
		comp.Props.SetDateTime(ical.PropDateTimeStart, ev.StartsAt)
		comp.Props.SetDateTime(ical.PropDateTimeEnd, ev.EndsAt)
	}

	if ev.IsRecurring() {
		value, err := recurrence.RRuleString(ev.StartsAt, ev.Recurrence)
		if err != nil {
			return nil, err
		}
		comp.Props.SetText(ical.PropRecurrenceRule, value)
	}

	if len(ev.Exceptions) > 0 {
		comp.Props.Set(exceptionDates(ev))
	}
	return comp, nil
}

// stamp picks a DTSTAMP that does not change between exports of the same
// event.
func stamp(ev *schedule.Event) time.Time {
	switch {
	case !ev.UpdatedAt.IsZero():
		return ev.UpdatedAt
	case !ev.CreatedAt.IsZero():
		return ev.CreatedAt
	default:
		return ev.StartsAt
	}
}

func setDate(comp *ical.Component, name string, day time.Time) {
	prop := ical.NewProp(name)
	prop.SetValueType(ical.ValueDate)
	prop.Value = day.Format(dateLayout)
	comp.Props.Set(prop)
}

// exceptionDates renders the skipped dates as one EXDATE property. Timed
// events name the full occurrence start the way the expansion rebuilds
// it; all-day events use DATE values.
func exceptionDates(ev *schedule.Event) *ical.Prop {
	days := append([]time.Time(nil), ev.Exceptions...)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	prop := ical.NewProp(ical.PropExceptionDates)
	parts := make([]string, 0, len(days))
	if ev.AllDay {
		prop.SetValueType(ical.ValueDate)
		for _, day := range days {
			parts = append(parts, day.Format(dateLayout))
		}
	} else {
		clock := ev.StartsAt
		for _, day := range days {
			start := time.Date(day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, clock.Location())
			parts = append(parts, start.UTC().Format(dateTimeLayout))
		}
	}
	prop.Value = strings.Join(parts, ",")
	return prop
}
