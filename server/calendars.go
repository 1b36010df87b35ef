package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/itervo/librecur/internal/api"
)

func (s *Server) handleListCalendars(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner")

	calendars, err := s.storage.ListCalendars(r.Context(), ownerID)
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	out := make([]api.Calendar, 0, len(calendars))
	for _, cal := range calendars {
		out = append(out, api.NewCalendar(cal))
	}
	s.sendJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCalendar(w http.ResponseWriter, r *http.Request) {
	var payload api.Calendar
	if err := decodeJSON(r, &payload); err != nil {
		s.sendError(w, r, err)
		return
	}

	cal := payload.Convert()
	if cal.ID == "" {
		cal.ID = uuid.NewString()
	}

	if err := s.storage.CreateCalendar(r.Context(), cal); err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	s.logger.Info("calendar created",
		"calendar_id", cal.ID,
		"owner_id", cal.OwnerID)
	s.sendJSON(w, http.StatusCreated, api.NewCalendar(cal))
}

func (s *Server) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := s.storage.GetCalendar(r.Context(), r.PathValue("calendarID"))
	if err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}
	s.sendJSON(w, http.StatusOK, api.NewCalendar(cal))
}

func (s *Server) handleDeleteCalendar(w http.ResponseWriter, r *http.Request) {
	calendarID := r.PathValue("calendarID")

	if err := s.storage.DeleteCalendar(r.Context(), calendarID); err != nil {
		s.sendError(w, r, mapStorageError(err))
		return
	}

	s.logger.Info("calendar deleted", "calendar_id", calendarID)
	w.WriteHeader(http.StatusNoContent)
}
