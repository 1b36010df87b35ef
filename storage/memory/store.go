// Package memory provides a map-backed Storage implementation, suitable for
// tests and single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/storage"
)

// Store implements storage.Storage using in-memory maps.
type Store struct {
	mu        sync.RWMutex
	calendars map[string]*storage.Calendar
	events    map[string]*schedule.Event // key: calendarID/eventID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		calendars: make(map[string]*storage.Calendar),
		events:    make(map[string]*schedule.Event),
	}
}

func eventKey(calendarID string, eventID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", calendarID, eventID)
}

// Calendar operations

func (s *Store) GetCalendar(_ context.Context, calendarID string) (*storage.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cal, ok := s.calendars[calendarID]
	if !ok {
		return nil, &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "calendar not found",
		}
	}
	return cal, nil
}

func (s *Store) ListCalendars(_ context.Context, ownerID string) ([]*storage.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var calendars []*storage.Calendar
	for _, cal := range s.calendars {
		if ownerID == "" || cal.OwnerID == ownerID {
			calendars = append(calendars, cal)
		}
	}
	sort.Slice(calendars, func(i, j int) bool { return calendars[i].ID < calendars[j].ID })

	return calendars, nil
}

func (s *Store) CreateCalendar(_ context.Context, cal *storage.Calendar) error {
	if cal.ID == "" {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "calendar id required",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.calendars[cal.ID]; exists {
		return &storage.Error{
			Type:    storage.ErrAlreadyExists,
			Message: "calendar already exists",
		}
	}

	now := time.Now()
	cal.Created = now
	cal.Modified = now
	s.calendars[cal.ID] = cal

	return nil
}

func (s *Store) DeleteCalendar(_ context.Context, calendarID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.calendars[calendarID]; !exists {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "calendar not found",
		}
	}

	delete(s.calendars, calendarID)
	for key, ev := range s.events {
		if ev.CalendarID == calendarID {
			delete(s.events, key)
		}
	}

	return nil
}

// Event operations

func (s *Store) GetEvent(_ context.Context, calendarID string, eventID uuid.UUID) (*schedule.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[eventKey(calendarID, eventID)]
	if !ok {
		return nil, &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "event not found",
		}
	}
	return ev, nil
}

func (s *Store) ListEvents(_ context.Context, calendarID string) ([]*schedule.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.calendars[calendarID]; !exists {
		return nil, &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "calendar not found",
		}
	}

	var events []*schedule.Event
	for _, ev := range s.events {
		if ev.CalendarID == calendarID {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartsAt.Equal(events[j].StartsAt) {
			return events[i].StartsAt.Before(events[j].StartsAt)
		}
		return events[i].ID.String() < events[j].ID.String()
	})

	return events, nil
}

func (s *Store) PutEvent(_ context.Context, ev *schedule.Event) error {
	if err := storage.ValidateEvent(ev, time.Now()); err != nil {
		return err
	}
	storage.NormalizeEvent(ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.calendars[ev.CalendarID]; !exists {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "calendar not found",
		}
	}

	now := time.Now()
	key := eventKey(ev.CalendarID, ev.ID)
	if existing, exists := s.events[key]; exists {
		ev.CreatedAt = existing.CreatedAt
	} else if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now
	}
	ev.UpdatedAt = now
	s.events[key] = ev

	return nil
}

func (s *Store) DeleteEvent(_ context.Context, calendarID string, eventID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := eventKey(calendarID, eventID)
	if _, exists := s.events[key]; !exists {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "event not found",
		}
	}
	delete(s.events, key)

	return nil
}
