// Package client provides a typed Go client for the planner backend's
// JSON API.
package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/itervo/librecur/internal/httpclient"
	"github.com/itervo/librecur/report"
	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/storage"
)

// Client defines the planner backend operations.
type Client interface {
	ListCalendars(ownerID string) ([]*storage.Calendar, error)
	CreateCalendar(cal *storage.Calendar) error
	GetCalendar(calendarID string) (*storage.Calendar, error)
	DeleteCalendar(calendarID string) error

	ListEvents(calendarID string) ([]*schedule.Event, error)
	GetEvent(calendarID string, eventID uuid.UUID) (*schedule.Event, error)
	CreateEvent(ev *schedule.Event) (*schedule.Event, error)
	UpdateEvent(ev *schedule.Event) (*schedule.Event, error)
	DeleteEvent(calendarID string, eventID uuid.UUID) error

	EventOccurrences(calendarID string, eventID uuid.UUID, from, to time.Time, limit int) ([]schedule.Occurrence, error)
	CalendarOccurrences(calendarID string, from, to time.Time) ([]schedule.Occurrence, error)

	Feed(calendarID string) (*ical.Calendar, error)
	OccurrenceReport(calendarID string, from, to time.Time) (*report.OccurrenceReport, error)
}

type plannerClient struct {
	httpClient httpclient.Wrapper
}

// New creates a planner client on top of an existing wrapper.
func New(httpClient httpclient.Wrapper) Client {
	return &plannerClient{httpClient: httpClient}
}

// Connect builds a client for baseURL. A non-empty token is sent as a
// bearer token on every request.
func Connect(baseURL, token string, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL %q: %w", baseURL, err)
	}

	hc := &http.Client{}
	if token != "" {
		hc.Transport = httpclient.NewTokenTransport(token, nil, logger)
	}
	wrapper, err := httpclient.NewWrapper(hc, *base, logger)
	if err != nil {
		return nil, err
	}
	return New(wrapper), nil
}

// mapError folds transport failures into the storage error surface so
// callers can IsErrorType their way through remote and local stores
// alike.
func mapError(err error) error {
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	switch statusErr.StatusCode {
	case http.StatusNotFound:
		return &storage.Error{Type: storage.ErrNotFound, Message: statusErr.Message, Err: statusErr}
	case http.StatusConflict:
		return &storage.Error{Type: storage.ErrAlreadyExists, Message: statusErr.Message, Err: statusErr}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &storage.Error{Type: storage.ErrInvalidInput, Message: statusErr.Message, Err: statusErr}
	}
	return err
}

func rangeQuery(from, to time.Time, limit int) string {
	values := url.Values{}
	if !from.IsZero() {
		values.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		values.Set("to", to.UTC().Format(time.RFC3339))
	}
	if limit > 0 {
		values.Set("limit", fmt.Sprint(limit))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
