package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itervo/librecur/recurrence"
	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/storage"
)

// timeLayout stores instants with their UTC offset; exception entries use
// the wire calendar-date layout.
const timeLayout = time.RFC3339Nano

type calendarRow struct {
	ID          string `db:"id"`
	OwnerID     string `db:"owner_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Color       string `db:"color"`
	TimeZone    string `db:"timezone"`
	CreatedAt   string `db:"created_at"`
	ModifiedAt  string `db:"modified_at"`
}

func newCalendarRow(cal *storage.Calendar) calendarRow {
	return calendarRow{
		ID:          cal.ID,
		OwnerID:     cal.OwnerID,
		Name:        cal.Name,
		Description: cal.Description,
		Color:       cal.Color,
		TimeZone:    cal.TimeZone,
		CreatedAt:   cal.Created.Format(timeLayout),
		ModifiedAt:  cal.Modified.Format(timeLayout),
	}
}

func (r calendarRow) Convert() (*storage.Calendar, error) {
	created, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("calendar %s: bad created_at: %w", r.ID, err)
	}
	modified, err := time.Parse(timeLayout, r.ModifiedAt)
	if err != nil {
		return nil, fmt.Errorf("calendar %s: bad modified_at: %w", r.ID, err)
	}
	return &storage.Calendar{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		TimeZone:    r.TimeZone,
		Created:     created,
		Modified:    modified,
	}, nil
}

type eventRow struct {
	ID          string `db:"id"`
	CalendarID  string `db:"calendar_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Location    string `db:"location"`
	StartsAt    string `db:"starts_at"`
	EndsAt      string `db:"ends_at"`
	AllDay      bool   `db:"all_day"`

	// The recurrence rule is stored as the flat wire fields, one column
	// per field, so rows stay readable and queryable.
	RecurrenceType       string `db:"recurrence_type"`
	RecurrenceInterval   int    `db:"recurrence_interval"`
	RecurrenceEndDate    string `db:"recurrence_end_date"`
	RecurrenceDaysOfWeek string `db:"recurrence_days_of_week"`

	Exceptions string `db:"exceptions"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

func newEventRow(ev *schedule.Event) eventRow {
	fields := recurrence.Marshal(ev.Recurrence)

	exceptions := make([]string, len(ev.Exceptions))
	for i, ex := range ev.Exceptions {
		exceptions[i] = ex.Format(recurrence.WireDateLayout)
	}

	return eventRow{
		ID:          ev.ID.String(),
		CalendarID:  ev.CalendarID,
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		StartsAt:    ev.StartsAt.Format(timeLayout),
		EndsAt:      ev.EndsAt.Format(timeLayout),
		AllDay:      ev.AllDay,

		RecurrenceType:       fields.Type,
		RecurrenceInterval:   fields.Interval,
		RecurrenceEndDate:    fields.EndDate,
		RecurrenceDaysOfWeek: fields.DaysOfWeek,

		Exceptions: strings.Join(exceptions, ","),
		CreatedAt:  ev.CreatedAt.Format(timeLayout),
		UpdatedAt:  ev.UpdatedAt.Format(timeLayout),
	}
}

func (r eventRow) Convert() (*schedule.Event, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad id: %w", r.ID, err)
	}
	startsAt, err := time.Parse(timeLayout, r.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad starts_at: %w", r.ID, err)
	}
	endsAt, err := time.Parse(timeLayout, r.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad ends_at: %w", r.ID, err)
	}
	createdAt, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad created_at: %w", r.ID, err)
	}
	updatedAt, err := time.Parse(timeLayout, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad updated_at: %w", r.ID, err)
	}

	var exceptions []time.Time
	for _, token := range strings.Split(r.Exceptions, ",") {
		if token == "" {
			continue
		}
		ex, err := time.Parse(recurrence.WireDateLayout, token)
		if err != nil {
			continue // skip unreadable entries, same stance as the wire codec
		}
		exceptions = append(exceptions, ex)
	}

	return &schedule.Event{
		ID:          id,
		CalendarID:  r.CalendarID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		AllDay:      r.AllDay,
		Recurrence: recurrence.Unmarshal(recurrence.Fields{
			Type:       r.RecurrenceType,
			Interval:   r.RecurrenceInterval,
			EndDate:    r.RecurrenceEndDate,
			DaysOfWeek: r.RecurrenceDaysOfWeek,
		}),
		Exceptions: exceptions,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}
