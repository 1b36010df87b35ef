package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/itervo/librecur/internal/api"
	"github.com/itervo/librecur/schedule"
)

func (s *Server) handleEventOccurrences(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathEventID(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	from, to, err := queryTimeRange(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	ev, err := s.storage.GetEvent(r.Context(), r.PathValue("calendarID"), eventID)
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	// Without a range the series is previewed from its start; with one,
	// the range decides what comes back.
	var occurrences []schedule.Occurrence
	if from.IsZero() && to.IsZero() {
		occurrences = s.engine.Occurrences(ev, limit)
	} else {
		occurrences = s.engine.OccurrencesInRange(ev, from, to)
	}

	s.sendJSON(w, http.StatusOK, newOccurrences(occurrences))
}

func (s *Server) handleCalendarOccurrences(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryTimeRange(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	occurrences, err := s.calendarOccurrences(r.Context(), r.PathValue("calendarID"), from, to)
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	s.sendJSON(w, http.StatusOK, newOccurrences(occurrences))
}

// calendarOccurrences expands every event of the calendar over [from, to]
// and returns the union ordered by start time. A zero from means now; the
// engine applies its horizon to a zero to.
func (s *Server) calendarOccurrences(ctx context.Context, calendarID string, from, to time.Time) ([]schedule.Occurrence, error) {
	if from.IsZero() {
		from = time.Now()
	}

	events, err := s.storage.ListEvents(ctx, calendarID)
	if err != nil {
		return nil, mapStorageError(err)
	}

	var occurrences []schedule.Occurrence
	for _, ev := range events {
		occurrences = append(occurrences, s.engine.OccurrencesInRange(ev, from, to)...)
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if !occurrences[i].Start.Equal(occurrences[j].Start) {
			return occurrences[i].Start.Before(occurrences[j].Start)
		}
		return occurrences[i].EventID.String() < occurrences[j].EventID.String()
	})
	return occurrences, nil
}

// newOccurrences keeps empty results as [] so clients always receive a
// JSON array.
func newOccurrences(occurrences []schedule.Occurrence) []api.Occurrence {
	out := make([]api.Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, api.NewOccurrence(occ))
	}
	return out
}
