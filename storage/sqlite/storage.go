// Package sqlite persists calendars and events in SQLite via sqlx.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/storage"
)

const DriverName = "sqlite3"

type Storage struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn (":memory:" works for tests)
// and applies migrations.
func Open(dsn string) (*Storage, error) {
	db, err := sqlx.Connect(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return New(db.DB)
}

// New wraps an existing database handle and applies migrations.
func New(db *sql.DB) (*Storage, error) {
	s := &Storage{db: sqlx.NewDb(db, DriverName)}
	if err := s.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Calendar operations

func (s *Storage) GetCalendar(ctx context.Context, calendarID string) (*storage.Calendar, error) {
	var row calendarRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, owner_id, name, description, color, timezone, created_at, modified_at
		FROM calendars WHERE id = ?
	`, calendarID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.Error{Type: storage.ErrNotFound, Message: "calendar not found"}
	}
	if err != nil {
		return nil, err
	}
	return row.Convert()
}

func (s *Storage) ListCalendars(ctx context.Context, ownerID string) ([]*storage.Calendar, error) {
	query := `
		SELECT id, owner_id, name, description, color, timezone, created_at, modified_at
		FROM calendars ORDER BY id
	`
	args := []any{}
	if ownerID != "" {
		query = `
			SELECT id, owner_id, name, description, color, timezone, created_at, modified_at
			FROM calendars WHERE owner_id = ? ORDER BY id
		`
		args = append(args, ownerID)
	}

	var rows []calendarRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	calendars := make([]*storage.Calendar, 0, len(rows))
	for _, row := range rows {
		cal, err := row.Convert()
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, cal)
	}
	return calendars, nil
}

func (s *Storage) CreateCalendar(ctx context.Context, cal *storage.Calendar) error {
	if cal.ID == "" {
		return &storage.Error{Type: storage.ErrInvalidInput, Message: "calendar id required"}
	}

	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM calendars WHERE id = ?`, cal.ID); err != nil {
		return err
	}
	if count > 0 {
		return &storage.Error{Type: storage.ErrAlreadyExists, Message: "calendar already exists"}
	}

	now := time.Now()
	cal.Created = now
	cal.Modified = now

	row := newCalendarRow(cal)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO calendars (id, owner_id, name, description, color, timezone, created_at, modified_at)
		VALUES (:id, :owner_id, :name, :description, :color, :timezone, :created_at, :modified_at)
	`, row)
	return err
}

func (s *Storage) DeleteCalendar(ctx context.Context, calendarID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE calendar_id = ?`, calendarID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, calendarID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &storage.Error{Type: storage.ErrNotFound, Message: "calendar not found"}
	}

	return tx.Commit()
}

// Event operations

func (s *Storage) GetEvent(ctx context.Context, calendarID string, eventID uuid.UUID) (*schedule.Event, error) {
	var row eventRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, calendar_id, title, description, location, starts_at, ends_at, all_day,
			recurrence_type, recurrence_interval, recurrence_end_date, recurrence_days_of_week,
			exceptions, created_at, updated_at
		FROM events WHERE calendar_id = ? AND id = ?
	`, calendarID, eventID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.Error{Type: storage.ErrNotFound, Message: "event not found"}
	}
	if err != nil {
		return nil, err
	}
	return row.Convert()
}

func (s *Storage) ListEvents(ctx context.Context, calendarID string) ([]*schedule.Event, error) {
	if _, err := s.GetCalendar(ctx, calendarID); err != nil {
		return nil, err
	}

	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, calendar_id, title, description, location, starts_at, ends_at, all_day,
			recurrence_type, recurrence_interval, recurrence_end_date, recurrence_days_of_week,
			exceptions, created_at, updated_at
		FROM events WHERE calendar_id = ? ORDER BY starts_at, id
	`, calendarID)
	if err != nil {
		return nil, err
	}

	events := make([]*schedule.Event, 0, len(rows))
	for _, row := range rows {
		ev, err := row.Convert()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *Storage) PutEvent(ctx context.Context, ev *schedule.Event) error {
	if err := storage.ValidateEvent(ev, time.Now()); err != nil {
		return err
	}
	storage.NormalizeEvent(ev)

	if _, err := s.GetCalendar(ctx, ev.CalendarID); err != nil {
		return err
	}

	now := time.Now()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now
	}
	ev.UpdatedAt = now

	// created_at is deliberately absent from the conflict update so the
	// original insert time survives upserts.
	row := newEventRow(ev)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO events (id, calendar_id, title, description, location, starts_at, ends_at, all_day,
			recurrence_type, recurrence_interval, recurrence_end_date, recurrence_days_of_week,
			exceptions, created_at, updated_at)
		VALUES (:id, :calendar_id, :title, :description, :location, :starts_at, :ends_at, :all_day,
			:recurrence_type, :recurrence_interval, :recurrence_end_date, :recurrence_days_of_week,
			:exceptions, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			calendar_id = excluded.calendar_id,
			title = excluded.title,
			description = excluded.description,
			location = excluded.location,
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at,
			all_day = excluded.all_day,
			recurrence_type = excluded.recurrence_type,
			recurrence_interval = excluded.recurrence_interval,
			recurrence_end_date = excluded.recurrence_end_date,
			recurrence_days_of_week = excluded.recurrence_days_of_week,
			exceptions = excluded.exceptions,
			updated_at = excluded.updated_at
	`, row)
	return err
}

func (s *Storage) DeleteEvent(ctx context.Context, calendarID string, eventID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE calendar_id = ? AND id = ?
	`, calendarID, eventID.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &storage.Error{Type: storage.ErrNotFound, Message: "event not found"}
	}
	return nil
}
