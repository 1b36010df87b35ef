// Package server exposes calendars, events, occurrence queries, iCalendar
// feeds and XML occurrence reports over a JSON/HTTP API.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/justinas/alice"

	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/server/auth"
	"github.com/itervo/librecur/storage"
)

const (
	// MIME types
	mimeTypeJSON     = "application/json; charset=utf-8"
	mimeTypeCalendar = "text/calendar; charset=utf-8"
	mimeTypeXML      = "application/xml; charset=utf-8"

	// Span of an occurrence report when the request does not bound it.
	defaultReportWindow = 90 * 24 * time.Hour
)

// Config bundles the dependencies and tunables of a Server.
type Config struct {
	Storage       storage.Storage
	Engine        *schedule.Engine
	Logger        *slog.Logger
	Authenticator auth.Authenticator
	FeedEnabled   bool
	ReportWindow  time.Duration
	SentryEnabled bool
}

// Option configures a Server beyond its required storage backend.
type Option func(*Config)

// WithLogger sets the logger used for request and error logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithEngine supplies a shared occurrence engine. The caller keeps
// ownership; Close will not stop it.
func WithEngine(engine *schedule.Engine) Option {
	return func(c *Config) {
		if engine != nil {
			c.Engine = engine
		}
	}
}

// WithAuthenticator protects every route with bearer-token authentication.
func WithAuthenticator(authenticator auth.Authenticator) Option {
	return func(c *Config) {
		c.Authenticator = authenticator
	}
}

// WithFeedDisabled turns off the iCalendar feed endpoint.
func WithFeedDisabled() Option {
	return func(c *Config) {
		c.FeedEnabled = false
	}
}

// WithReportWindow sets how far an occurrence report reaches when the
// request leaves the range open.
func WithReportWindow(window time.Duration) Option {
	return func(c *Config) {
		if window > 0 {
			c.ReportWindow = window
		}
	}
}

// WithSentry reports handler panics to Sentry. The caller must have
// initialized the SDK.
func WithSentry() Option {
	return func(c *Config) {
		c.SentryEnabled = true
	}
}

// Server serves the calendar API over HTTP.
type Server struct {
	storage    storage.Storage
	engine     *schedule.Engine
	logger     *slog.Logger
	config     Config
	ownsEngine bool
}

// New creates a Server backed by store.
func New(store storage.Storage, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("storage is required")
	}

	cfg := Config{
		Storage:      store,
		FeedEnabled:  true,
		ReportWindow: defaultReportWindow,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ownsEngine := false
	if cfg.Engine == nil {
		cfg.Engine = schedule.NewEngine()
		ownsEngine = true
	}

	return &Server{
		storage:    store,
		engine:     cfg.Engine,
		logger:     cfg.Logger,
		config:     cfg,
		ownsEngine: ownsEngine,
	}, nil
}

// Close releases resources owned by the server. Engines supplied via
// WithEngine stay running.
func (s *Server) Close() {
	if s.ownsEngine {
		s.engine.Close()
	}
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /calendars", s.handleListCalendars)
	mux.HandleFunc("POST /calendars", s.handleCreateCalendar)
	mux.HandleFunc("GET /calendars/{calendarID}", s.handleGetCalendar)
	mux.HandleFunc("DELETE /calendars/{calendarID}", s.handleDeleteCalendar)

	mux.HandleFunc("GET /calendars/{calendarID}/events", s.handleListEvents)
	mux.HandleFunc("POST /calendars/{calendarID}/events", s.handleCreateEvent)
	mux.HandleFunc("GET /calendars/{calendarID}/events/{eventID}", s.handleGetEvent)
	mux.HandleFunc("PUT /calendars/{calendarID}/events/{eventID}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /calendars/{calendarID}/events/{eventID}", s.handleDeleteEvent)

	mux.HandleFunc("GET /calendars/{calendarID}/events/{eventID}/occurrences", s.handleEventOccurrences)
	mux.HandleFunc("GET /calendars/{calendarID}/occurrences", s.handleCalendarOccurrences)

	mux.HandleFunc("GET /calendars/{calendarID}/feed.ics", s.handleFeed)
	mux.HandleFunc("GET /calendars/{calendarID}/reports/occurrences.xml", s.handleOccurrenceReport)

	handlers := []alice.Constructor{s.logRequests, s.recoverPanics}
	if s.config.SentryEnabled {
		sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})
		handlers = append(handlers, sentryHandler.Handle)
	}
	if s.config.Authenticator != nil {
		handlers = append(handlers, auth.Middleware(s.config.Authenticator))
	}

	return alice.New(handlers...).Then(mux)
}
