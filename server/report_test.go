package server

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itervo/librecur/report"
)

func TestServer_OccurrenceReport(t *testing.T) {
	ts, store := newTestServer(t)
	seedCalendar(t, store, "team")
	ev := seedRecurringEvent(t, store, "team", "Standup",
		time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	query := url.Values{}
	query.Set("from", "2025-06-02T00:00:00Z")
	query.Set("to", "2025-06-04T23:59:59Z")

	resp := doJSON(t, http.MethodGet,
		ts.URL+"/calendars/team/reports/occurrences.xml?"+query.Encode(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, mimeTypeXML, resp.Header.Get("Content-Type"))

	doc := etree.NewDocument()
	_, err := doc.ReadFrom(resp.Body)
	require.NoError(t, err)

	var rep report.OccurrenceReport
	require.NoError(t, rep.Parse(doc))

	assert.Equal(t, "team", rep.CalendarID)
	assert.True(t, rep.From.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
	require.Len(t, rep.Items, 3)
	assert.Equal(t, ev.ID, rep.Items[0].EventID)
	assert.Equal(t, "Standup", rep.Items[0].Title)
	assert.True(t, rep.Items[0].Start.Equal(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)))
}

func TestServer_OccurrenceReportOrdersAcrossEvents(t *testing.T) {
	ts, store := newTestServer(t)
	seedCalendar(t, store, "team")

	seedRecurringEvent(t, store, "team", "Review",
		time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC))
	seedRecurringEvent(t, store, "team", "Standup",
		time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	query := url.Values{}
	query.Set("from", "2025-06-02T00:00:00Z")
	query.Set("to", "2025-06-03T23:59:59Z")

	resp := doJSON(t, http.MethodGet,
		ts.URL+"/calendars/team/reports/occurrences.xml?"+query.Encode(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := etree.NewDocument()
	_, err := doc.ReadFrom(resp.Body)
	require.NoError(t, err)

	var rep report.OccurrenceReport
	require.NoError(t, rep.Parse(doc))

	require.Len(t, rep.Items, 4)
	assert.Equal(t, []string{"Standup", "Review", "Standup", "Review"},
		[]string{rep.Items[0].Title, rep.Items[1].Title, rep.Items[2].Title, rep.Items[3].Title})
}

func TestServer_OccurrenceReportUnknownCalendar(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/calendars/ghost/reports/occurrences.xml", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_OccurrenceReportRejectsBadRange(t *testing.T) {
	ts, store := newTestServer(t)
	seedCalendar(t, store, "team")

	resp := doJSON(t, http.MethodGet,
		ts.URL+"/calendars/team/reports/occurrences.xml?to=never", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
