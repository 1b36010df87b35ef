package client

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/itervo/librecur/internal/api"
	"github.com/itervo/librecur/schedule"
)

// EventOccurrences expands one event within [from, to]. A zero to leaves
// the horizon to the server, limit <= 0 its default count.
func (c *plannerClient) EventOccurrences(calendarID string, eventID uuid.UUID, from, to time.Time, limit int) ([]schedule.Occurrence, error) {
	path := eventPath(calendarID, eventID) + "/occurrences" + rangeQuery(from, to, limit)
	return c.fetchOccurrences(path)
}

// CalendarOccurrences expands every event of a calendar within [from, to].
func (c *plannerClient) CalendarOccurrences(calendarID string, from, to time.Time) ([]schedule.Occurrence, error) {
	path := calendarPath(calendarID) + "/occurrences" + rangeQuery(from, to, 0)
	return c.fetchOccurrences(path)
}

func (c *plannerClient) fetchOccurrences(path string) ([]schedule.Occurrence, error) {
	var payload []api.Occurrence
	if err := c.httpClient.DoGET(path, &payload); err != nil {
		return nil, mapError(err)
	}

	occurrences := make([]schedule.Occurrence, 0, len(payload))
	for _, item := range payload {
		occ, err := item.Convert()
		if err != nil {
			return nil, fmt.Errorf("failed to read occurrence payload: %w", err)
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}
