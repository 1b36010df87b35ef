// Package api defines the JSON wire representation shared by the HTTP
// server and the typed client. Recurrence travels as the flat fields of
// the backend contract, embedded in the event payload.
package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/itervo/librecur/recurrence"
	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/storage"
)

// Error is the body of every non-2xx response.
type Error struct {
	Message string `json:"error"`
}

// Calendar is the wire form of storage.Calendar.
type Calendar struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	TimeZone    string    `json:"timezone,omitempty"`
	Created     time.Time `json:"created_at"`
	Modified    time.Time `json:"modified_at"`
}

// NewCalendar converts a stored calendar to its wire form.
func NewCalendar(cal *storage.Calendar) Calendar {
	return Calendar{
		ID:          cal.ID,
		OwnerID:     cal.OwnerID,
		Name:        cal.Name,
		Description: cal.Description,
		Color:       cal.Color,
		TimeZone:    cal.TimeZone,
		Created:     cal.Created,
		Modified:    cal.Modified,
	}
}

// Convert turns the wire form back into a stored calendar.
func (c Calendar) Convert() *storage.Calendar {
	return &storage.Calendar{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		TimeZone:    c.TimeZone,
		Created:     c.Created,
		Modified:    c.Modified,
	}
}

// Event is the wire form of schedule.Event. The embedded recurrence
// fields flatten into the payload, so a weekly rule reads as
// {"recurrence_type": "weekly", "recurrence_days_of_week": "1,3", ...}.
type Event struct {
	ID          string    `json:"id,omitempty"`
	CalendarID  string    `json:"calendar_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	AllDay      bool      `json:"all_day,omitempty"`

	recurrence.Fields

	Exceptions []string  `json:"exceptions,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewEvent converts a domain event to its wire form. A nil id stays
// empty so creates leave assignment to the server.
func NewEvent(ev *schedule.Event) Event {
	out := Event{
		CalendarID:  ev.CalendarID,
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		StartsAt:    ev.StartsAt,
		EndsAt:      ev.EndsAt,
		AllDay:      ev.AllDay,
		Fields:      recurrence.Marshal(ev.Recurrence),
		CreatedAt:   ev.CreatedAt,
		UpdatedAt:   ev.UpdatedAt,
	}
	if ev.ID != uuid.Nil {
		out.ID = ev.ID.String()
	}
	for _, day := range ev.Exceptions {
		out.Exceptions = append(out.Exceptions, day.Format(recurrence.WireDateLayout))
	}
	return out
}

// Convert turns the wire form back into a domain event. A missing id
// maps to uuid.Nil so creates can leave it to the server. Exception
// dates that do not parse are dropped, the same stance the recurrence
// codec takes on its fields.
func (e Event) Convert() (*schedule.Event, error) {
	ev := &schedule.Event{
		CalendarID:  e.CalendarID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		AllDay:      e.AllDay,
		Recurrence:  recurrence.Unmarshal(e.Fields),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.ID != "" {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid event id %q: %w", e.ID, err)
		}
		ev.ID = id
	}
	for _, token := range e.Exceptions {
		day, err := time.Parse(recurrence.WireDateLayout, token)
		if err != nil {
			continue
		}
		ev.Exceptions = append(ev.Exceptions, day)
	}
	return ev, nil
}

// Occurrence is the wire form of schedule.Occurrence.
type Occurrence struct {
	EventID string    `json:"event_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// NewOccurrence converts an expanded occurrence to its wire form.
func NewOccurrence(occ schedule.Occurrence) Occurrence {
	return Occurrence{EventID: occ.EventID.String(), Start: occ.Start, End: occ.End}
}

// Convert turns the wire form back into a domain occurrence.
func (o Occurrence) Convert() (schedule.Occurrence, error) {
	id, err := uuid.Parse(o.EventID)
	if err != nil {
		return schedule.Occurrence{}, fmt.Errorf("invalid event id %q: %w", o.EventID, err)
	}
	return schedule.Occurrence{EventID: id, Start: o.Start, End: o.End}, nil
}
