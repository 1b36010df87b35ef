// Package storage defines the persistence interface for calendars and
// events, shared by the in-memory and sqlite backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/itervo/librecur/recurrence"
	"github.com/itervo/librecur/schedule"
)

// Error types
type ErrorType string

const (
	ErrNotFound      ErrorType = "not_found"
	ErrAlreadyExists ErrorType = "already_exists"
	ErrInvalidInput  ErrorType = "invalid_input"
)

// Error represents a storage-related error
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsErrorType reports whether err is (or wraps) a storage Error of the
// given type.
func IsErrorType(err error, t ErrorType) bool {
	var storageErr *Error
	if !errors.As(err, &storageErr) {
		return false
	}
	return storageErr.Type == t
}

// Calendar is a collection of events owned by one principal.
type Calendar struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Color       string
	TimeZone    string
	Created     time.Time
	Modified    time.Time
}

// Storage is the interface implemented by persistence backends. Backends
// must use the Error type above so callers can map failures uniformly.
type Storage interface {
	// Calendar operations. ListCalendars with an empty ownerID returns
	// every calendar.
	GetCalendar(ctx context.Context, calendarID string) (*Calendar, error)
	ListCalendars(ctx context.Context, ownerID string) ([]*Calendar, error)
	CreateCalendar(ctx context.Context, cal *Calendar) error
	DeleteCalendar(ctx context.Context, calendarID string) error

	// Event operations. PutEvent upserts by event ID and is responsible
	// for validating and normalizing the recurrence rule.
	GetEvent(ctx context.Context, calendarID string, eventID uuid.UUID) (*schedule.Event, error)
	ListEvents(ctx context.Context, calendarID string) ([]*schedule.Event, error)
	PutEvent(ctx context.Context, ev *schedule.Event) error
	DeleteEvent(ctx context.Context, calendarID string, eventID uuid.UUID) error
}

// ValidateEvent checks an event before it is written. Violations come back
// as *Error with type ErrInvalidInput.
func ValidateEvent(ev *schedule.Event, now time.Time) error {
	if ev == nil {
		return &Error{Type: ErrInvalidInput, Message: "event is nil"}
	}
	if ev.ID == uuid.Nil {
		return &Error{Type: ErrInvalidInput, Message: "event id required"}
	}
	if ev.CalendarID == "" {
		return &Error{Type: ErrInvalidInput, Message: "calendar id required"}
	}
	if ev.Title == "" {
		return &Error{Type: ErrInvalidInput, Message: "event title required"}
	}
	if ev.EndsAt.Before(ev.StartsAt) {
		return &Error{Type: ErrInvalidInput, Message: "event ends before it starts"}
	}
	if err := recurrence.Validate(ev.Recurrence, now); err != nil {
		return &Error{Type: ErrInvalidInput, Message: "invalid recurrence rule", Err: err}
	}
	return nil
}

// NormalizeEvent applies the storage-boundary normalizations: a rule that
// means "does not repeat" is stored as no rule at all.
func NormalizeEvent(ev *schedule.Event) {
	if ev.Recurrence.IsNone() {
		ev.Recurrence = nil
	}
}
