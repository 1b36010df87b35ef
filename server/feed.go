package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/itervo/librecur/feed"
)

// handleFeed serves the calendar as a subscribable iCalendar document.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if !s.config.FeedEnabled {
		s.sendError(w, r, ErrNotFound)
		return
	}

	calendarID := r.PathValue("calendarID")
	cal, err := s.storage.GetCalendar(r.Context(), calendarID)
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	events, err := s.storage.ListEvents(r.Context(), calendarID)
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	// Headers go out only once the document encoded completely.
	var buf bytes.Buffer
	if err := feed.Encode(&buf, cal, events); err != nil {
		s.sendError(w, r, fmt.Errorf("failed to encode feed: %w", err))
		return
	}

	w.Header().Set("Content-Type", mimeTypeCalendar)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("failed to write feed",
			"calendar_id", calendarID,
			"error", err)
	}
}
