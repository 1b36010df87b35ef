package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/itervo/librecur/internal/api"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.storage.ListEvents(r.Context(), r.PathValue("calendarID"))
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	out := make([]api.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, api.NewEvent(ev))
	}
	s.sendJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathEventID(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	ev, err := s.storage.GetEvent(r.Context(), r.PathValue("calendarID"), eventID)
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}
	s.sendJSON(w, http.StatusOK, api.NewEvent(ev))
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var payload api.Event
	if err := decodeJSON(r, &payload); err != nil {
		s.sendError(w, r, err)
		return
	}

	ev, err := payload.Convert()
	if err != nil {
		s.sendError(w, r, badRequest("invalid event payload", err))
		return
	}

	// The path names the calendar; the body cannot move the event.
	ev.CalendarID = r.PathValue("calendarID")
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	if err := s.storage.PutEvent(r.Context(), ev); err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	s.logger.Info("event created",
		"calendar_id", ev.CalendarID,
		"event_id", ev.ID)
	s.sendJSON(w, http.StatusCreated, api.NewEvent(ev))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathEventID(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	calendarID := r.PathValue("calendarID")

	// Replacing an event that does not exist is a 404, not an insert.
	if _, err := s.storage.GetEvent(r.Context(), calendarID, eventID); err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	var payload api.Event
	if err := decodeJSON(r, &payload); err != nil {
		s.sendError(w, r, err)
		return
	}

	ev, err := payload.Convert()
	if err != nil {
		s.sendError(w, r, badRequest("invalid event payload", err))
		return
	}

	ev.ID = eventID
	ev.CalendarID = calendarID

	if err := s.storage.PutEvent(r.Context(), ev); err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	// Read back the stored row: backends keep the original created_at on
	// upsert regardless of what the payload carried.
	updated, err := s.storage.GetEvent(r.Context(), calendarID, eventID)
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	s.logger.Info("event updated",
		"calendar_id", calendarID,
		"event_id", eventID)
	s.sendJSON(w, http.StatusOK, api.NewEvent(updated))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathEventID(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	calendarID := r.PathValue("calendarID")

	if err := s.storage.DeleteEvent(r.Context(), calendarID, eventID); err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	s.logger.Info("event deleted",
		"calendar_id", calendarID,
		"event_id", eventID)
	w.WriteHeader(http.StatusNoContent)
}
