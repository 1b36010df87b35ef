package server

import (
	"net/http"
	"sort"
	"time"

	"github.com/itervo/librecur/report"
	"github.com/itervo/librecur/schedule"
)

// handleOccurrenceReport serves the expanded occurrences of a calendar as
// an XML report. A missing from defaults to now; a missing to defaults to
// from plus the configured report window.
func (s *Server) handleOccurrenceReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryTimeRange(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	if from.IsZero() {
		from = time.Now().UTC()
	}
	if to.IsZero() {
		to = from.Add(s.config.ReportWindow)
	}

	calendarID := r.PathValue("calendarID")
	events, err := s.storage.ListEvents(r.Context(), calendarID)
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	type entry struct {
		ev  *schedule.Event
		occ schedule.Occurrence
	}
	var entries []entry
	for _, ev := range events {
		for _, occ := range s.engine.OccurrencesInRange(ev, from, to) {
			entries = append(entries, entry{ev: ev, occ: occ})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].occ.Start.Equal(entries[j].occ.Start) {
			return entries[i].occ.Start.Before(entries[j].occ.Start)
		}
		return entries[i].ev.ID.String() < entries[j].ev.ID.String()
	})

	rep := &report.OccurrenceReport{
		CalendarID: calendarID,
		From:       from,
		To:         to,
		Generated:  time.Now().UTC(),
	}
	for _, e := range entries {
		rep.Add(e.ev, e.occ)
	}

	w.Header().Set("Content-Type", mimeTypeXML)
	w.WriteHeader(http.StatusOK)
	if _, err := rep.ToXML().WriteTo(w); err != nil {
		s.logger.Error("failed to write report",
			"calendar_id", calendarID,
			"error", err)
	}
}
