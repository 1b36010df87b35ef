package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Feed(t *testing.T) {
	ts, store := newTestServer(t)
	seedCalendar(t, store, "team")
	ev := seedRecurringEvent(t, store, "team", "Standup",
		time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	resp := doJSON(t, http.MethodGet, ts.URL+"/calendars/team/feed.ics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, mimeTypeCalendar, resp.Header.Get("Content-Type"))

	cal, err := ical.NewDecoder(resp.Body).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)

	summary, err := events[0].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Standup", summary)

	uid, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, ev.ID.String(), uid)

	rrule := events[0].Props.Get(ical.PropRecurrenceRule)
	require.NotNil(t, rrule)
	assert.Contains(t, rrule.Value, "FREQ=DAILY")
}

func TestServer_FeedUnknownCalendar(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/calendars/ghost/feed.ics", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_FeedDisabled(t *testing.T) {
	ts, store := newTestServer(t, WithFeedDisabled())
	seedCalendar(t, store, "team")

	resp := doJSON(t, http.MethodGet, ts.URL+"/calendars/team/feed.ics", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
