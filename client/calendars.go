package client

import (
	"fmt"
	"net/url"

	"github.com/itervo/librecur/internal/api"
	"github.com/itervo/librecur/storage"
)

// ListCalendars fetches the calendars of one owner, or every calendar
// when ownerID is empty.
func (c *plannerClient) ListCalendars(ownerID string) ([]*storage.Calendar, error) {
	path := "/calendars"
	if ownerID != "" {
		path += "?owner=" + url.QueryEscape(ownerID)
	}

	var payload []api.Calendar
	if err := c.httpClient.DoGET(path, &payload); err != nil {
		return nil, mapError(err)
	}

	calendars := make([]*storage.Calendar, 0, len(payload))
	for _, cal := range payload {
		calendars = append(calendars, cal.Convert())
	}
	return calendars, nil
}

// CreateCalendar registers a new calendar.
func (c *plannerClient) CreateCalendar(cal *storage.Calendar) error {
	if err := c.httpClient.DoPOST("/calendars", api.NewCalendar(cal), nil); err != nil {
		return mapError(err)
	}
	return nil
}

// GetCalendar fetches one calendar by id.
func (c *plannerClient) GetCalendar(calendarID string) (*storage.Calendar, error) {
	var payload api.Calendar
	if err := c.httpClient.DoGET(calendarPath(calendarID), &payload); err != nil {
		return nil, mapError(err)
	}
	return payload.Convert(), nil
}

// DeleteCalendar removes a calendar and everything in it.
func (c *plannerClient) DeleteCalendar(calendarID string) error {
	if err := c.httpClient.DoDELETE(calendarPath(calendarID)); err != nil {
		return mapError(err)
	}
	return nil
}

func calendarPath(calendarID string) string {
	return fmt.Sprintf("/calendars/%s", url.PathEscape(calendarID))
}
