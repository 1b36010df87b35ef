package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itervo/librecur/recurrence"
	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/storage"
	"github.com/itervo/librecur/storage/memory"
)

// scanClock is the injected scan time: Monday 2025-06-02, 08:50 UTC.
var scanClock = time.Date(2025, 6, 2, 8, 50, 0, 0, time.UTC)

func newTestScanner(t *testing.T, opts ...Option) (*Scanner, *memory.Store) {
	t.Helper()

	store := memory.New()
	engine := schedule.NewEngine()
	t.Cleanup(engine.Close)

	scanner, err := New(store, engine, opts...)
	require.NoError(t, err)
	return scanner, store
}

func seedCalendar(t *testing.T, store *memory.Store, id string) {
	t.Helper()
	err := store.CreateCalendar(context.Background(), &storage.Calendar{ID: id, Name: id})
	require.NoError(t, err)
}

func seedEvent(t *testing.T, store *memory.Store, calendarID, title string, start time.Time, rule *recurrence.Rule) *schedule.Event {
	t.Helper()

	ev := &schedule.Event{
		ID:         uuid.New(),
		CalendarID: calendarID,
		Title:      title,
		StartsAt:   start,
		EndsAt:     start.Add(time.Hour),
		Recurrence: rule,
	}
	require.NoError(t, store.PutEvent(context.Background(), ev))
	return ev
}

func TestNew_RequiresDependencies(t *testing.T) {
	engine := schedule.NewEngine()
	defer engine.Close()

	_, err := New(nil, engine)
	assert.Error(t, err)

	_, err = New(memory.New(), nil)
	assert.Error(t, err)
}

func TestScanOnce_FindsStartsWithinHorizon(t *testing.T) {
	scanner, store := newTestScanner(t)
	seedCalendar(t, store, "work")

	soon := seedEvent(t, store, "work", "Standup", scanClock.Add(10*time.Minute), nil)
	seedEvent(t, store, "work", "Lunch", scanClock.Add(2*time.Hour), nil)

	upcoming, err := scanner.ScanOnce(context.Background(), scanClock)
	require.NoError(t, err)

	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ID, upcoming[0].EventID)
	assert.Equal(t, "Standup", upcoming[0].Title)
	assert.Equal(t, "work", upcoming[0].CalendarID)
	assert.True(t, upcoming[0].Start.Equal(soon.StartsAt))
}

func TestScanOnce_SkipsOccurrencesAlreadyUnderway(t *testing.T) {
	scanner, store := newTestScanner(t)
	seedCalendar(t, store, "work")

	// Started ten minutes ago and still running at scan time.
	seedEvent(t, store, "work", "Planning", scanClock.Add(-10*time.Minute), nil)

	upcoming, err := scanner.ScanOnce(context.Background(), scanClock)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestScanOnce_HorizonIsHalfOpen(t *testing.T) {
	scanner, store := newTestScanner(t)
	seedCalendar(t, store, "work")

	// Exactly on the horizon boundary: 08:50 + 15m.
	seedEvent(t, store, "work", "Boundary", scanClock.Add(DefaultHorizon), nil)

	upcoming, err := scanner.ScanOnce(context.Background(), scanClock)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestScanOnce_ExpandsRecurringEvents(t *testing.T) {
	scanner, store := newTestScanner(t)
	seedCalendar(t, store, "work")

	// Daily at 9:00 since last week; today's occurrence starts in 10
	// minutes.
	ev := seedEvent(t, store, "work", "Standup",
		time.Date(2025, 5, 26, 9, 0, 0, 0, time.UTC),
		&recurrence.Rule{Kind: recurrence.KindDaily, Interval: 1})

	upcoming, err := scanner.ScanOnce(context.Background(), scanClock)
	require.NoError(t, err)

	require.Len(t, upcoming, 1)
	assert.Equal(t, ev.ID, upcoming[0].EventID)
	assert.True(t, upcoming[0].Start.Equal(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)))
}

func TestScanOnce_WalksEveryCalendar(t *testing.T) {
	scanner, store := newTestScanner(t)
	seedCalendar(t, store, "work")
	seedCalendar(t, store, "personal")

	second := seedEvent(t, store, "personal", "Gym", scanClock.Add(12*time.Minute), nil)
	first := seedEvent(t, store, "work", "Standup", scanClock.Add(5*time.Minute), nil)

	upcoming, err := scanner.ScanOnce(context.Background(), scanClock)
	require.NoError(t, err)

	require.Len(t, upcoming, 2)
	assert.Equal(t, first.ID, upcoming[0].EventID)
	assert.Equal(t, second.ID, upcoming[1].EventID)
}

func TestScanOnce_NotifierReceivesResultsInOrder(t *testing.T) {
	var notified []Upcoming
	scanner, store := newTestScanner(t, WithNotifier(func(_ context.Context, up Upcoming) {
		notified = append(notified, up)
	}))
	seedCalendar(t, store, "work")

	seedEvent(t, store, "work", "Standup", scanClock.Add(5*time.Minute), nil)
	seedEvent(t, store, "work", "Sync", scanClock.Add(12*time.Minute), nil)

	upcoming, err := scanner.ScanOnce(context.Background(), scanClock)
	require.NoError(t, err)
	assert.Equal(t, upcoming, notified)
}

func TestScanOnce_CustomHorizon(t *testing.T) {
	scanner, store := newTestScanner(t, WithHorizon(3*time.Hour))
	seedCalendar(t, store, "work")

	seedEvent(t, store, "work", "Lunch", scanClock.Add(2*time.Hour), nil)

	upcoming, err := scanner.ScanOnce(context.Background(), scanClock)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)
	assert.Equal(t, 3*time.Hour, scanner.Horizon())
}

func TestScanOnce_PropagatesStorageErrors(t *testing.T) {
	mockStore := &storage.MockStorage{}
	mockStore.On("ListCalendars", "").Return(nil, errors.New("backend down"))

	engine := schedule.NewEngine()
	defer engine.Close()

	scanner, err := New(mockStore, engine)
	require.NoError(t, err)

	_, err = scanner.ScanOnce(context.Background(), scanClock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list calendars")
	mockStore.AssertExpectations(t)
}
