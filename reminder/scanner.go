// Package reminder scans calendars for occurrences that are about to
// start and hands them to a notifier.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/storage"
)

// DefaultHorizon is how far ahead a scan looks when not configured.
const DefaultHorizon = 15 * time.Minute

// Upcoming is one occurrence starting within the scan horizon.
type Upcoming struct {
	CalendarID string
	EventID    uuid.UUID
	Title      string
	Start      time.Time
	End        time.Time
}

// Notifier receives every upcoming occurrence a scan finds, in start
// order.
type Notifier func(ctx context.Context, up Upcoming)

// Scanner walks every calendar and reports occurrences about to start.
type Scanner struct {
	store    storage.Storage
	engine   *schedule.Engine
	logger   *slog.Logger
	horizon  time.Duration
	notifier Notifier
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for scan reporting and the default
// notifier.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHorizon sets how far ahead scans look.
func WithHorizon(horizon time.Duration) Option {
	return func(s *Scanner) {
		if horizon > 0 {
			s.horizon = horizon
		}
	}
}

// WithNotifier replaces the default log notifier.
func WithNotifier(notifier Notifier) Option {
	return func(s *Scanner) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// New creates a Scanner over store, expanding events with engine.
func New(store storage.Storage, engine *schedule.Engine, opts ...Option) (*Scanner, error) {
	if store == nil {
		return nil, errors.New("storage is required")
	}
	if engine == nil {
		return nil, errors.New("engine is required")
	}

	s := &Scanner{
		store:   store,
		engine:  engine,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		horizon: DefaultHorizon,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = s.logNotifier
	}
	return s, nil
}

// Horizon reports how far ahead scans look.
func (s *Scanner) Horizon() time.Duration {
	return s.horizon
}

// ScanOnce walks every calendar and collects occurrences starting within
// [now, now+horizon). Occurrences already underway do not qualify; the
// window is half-open on the right. Results are ordered by start time
// and handed to the notifier before returning.
func (s *Scanner) ScanOnce(ctx context.Context, now time.Time) ([]Upcoming, error) {
	from := now
	to := now.Add(s.horizon)

	calendars, err := s.store.ListCalendars(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var upcoming []Upcoming
	for _, cal := range calendars {
		events, err := s.store.ListEvents(ctx, cal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for calendar %s: %w", cal.ID, err)
		}

		for _, ev := range events {
			for _, occ := range s.engine.OccurrencesInRange(ev, from, to) {
				// The range query matches overlap; a reminder needs a
				// start inside the window.
				if occ.Start.Before(from) || !occ.Start.Before(to) {
					continue
				}
				upcoming = append(upcoming, Upcoming{
					CalendarID: ev.CalendarID,
					EventID:    occ.EventID,
					Title:      ev.Title,
					Start:      occ.Start,
					End:        occ.End,
				})
			}
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		if !upcoming[i].Start.Equal(upcoming[j].Start) {
			return upcoming[i].Start.Before(upcoming[j].Start)
		}
		return upcoming[i].EventID.String() < upcoming[j].EventID.String()
	})

	for _, up := range upcoming {
		s.notifier(ctx, up)
	}

	s.logger.Debug("reminder scan complete",
		"calendars", len(calendars),
		"upcoming", len(upcoming),
		"horizon", s.horizon)

	return upcoming, nil
}

// logNotifier is the default notifier: one structured line per reminder.
func (s *Scanner) logNotifier(_ context.Context, up Upcoming) {
	s.logger.Info("upcoming occurrence",
		"calendar_id", up.CalendarID,
		"event_id", up.EventID,
		"title", up.Title,
		"start", up.Start)
}
