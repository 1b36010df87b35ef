package client

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/itervo/librecur/internal/api"
	"github.com/itervo/librecur/schedule"
)

// ListEvents fetches every event of a calendar.
func (c *plannerClient) ListEvents(calendarID string) ([]*schedule.Event, error) {
	var payload []api.Event
	if err := c.httpClient.DoGET(eventsPath(calendarID), &payload); err != nil {
		return nil, mapError(err)
	}

	events := make([]*schedule.Event, 0, len(payload))
	for _, item := range payload {
		ev, err := item.Convert()
		if err != nil {
			return nil, fmt.Errorf("failed to read event payload: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// GetEvent fetches one event.
func (c *plannerClient) GetEvent(calendarID string, eventID uuid.UUID) (*schedule.Event, error) {
	var payload api.Event
	if err := c.httpClient.DoGET(eventPath(calendarID, eventID), &payload); err != nil {
		return nil, mapError(err)
	}

	ev, err := payload.Convert()
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return ev, nil
}

// CreateEvent stores a new event and returns it as the backend recorded
// it, id and timestamps included.
func (c *plannerClient) CreateEvent(ev *schedule.Event) (*schedule.Event, error) {
	var payload api.Event
	if err := c.httpClient.DoPOST(eventsPath(ev.CalendarID), api.NewEvent(ev), &payload); err != nil {
		return nil, mapError(err)
	}

	created, err := payload.Convert()
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return created, nil
}

// UpdateEvent rewrites an existing event.
func (c *plannerClient) UpdateEvent(ev *schedule.Event) (*schedule.Event, error) {
	var payload api.Event
	if err := c.httpClient.DoPUT(eventPath(ev.CalendarID, ev.ID), api.NewEvent(ev), &payload); err != nil {
		return nil, mapError(err)
	}

	updated, err := payload.Convert()
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return updated, nil
}

// DeleteEvent removes one event.
func (c *plannerClient) DeleteEvent(calendarID string, eventID uuid.UUID) error {
	if err := c.httpClient.DoDELETE(eventPath(calendarID, eventID)); err != nil {
		return mapError(err)
	}
	return nil
}

func eventsPath(calendarID string) string {
	return calendarPath(calendarID) + "/events"
}

func eventPath(calendarID string, eventID uuid.UUID) string {
	return fmt.Sprintf("%s/events/%s", calendarPath(calendarID), eventID)
}
