package client

import (
	"bytes"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/emersion/go-ical"

	"github.com/itervo/librecur/report"
)

// Feed fetches and decodes the iCalendar subscription of a calendar.
func (c *plannerClient) Feed(calendarID string) (*ical.Calendar, error) {
	data, _, err := c.httpClient.DoGETBytes(calendarPath(calendarID) + "/feed.ics")
	if err != nil {
		return nil, mapError(err)
	}

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	return cal, nil
}

// OccurrenceReport fetches and parses the XML occurrence report of a
// calendar for [from, to].
func (c *plannerClient) OccurrenceReport(calendarID string, from, to time.Time) (*report.OccurrenceReport, error) {
	path := calendarPath(calendarID) + "/reports/occurrences.xml" + rangeQuery(from, to, 0)
	data, _, err := c.httpClient.DoGETBytes(path)
	if err != nil {
		return nil, mapError(err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to read report document: %w", err)
	}

	var r report.OccurrenceReport
	if err := r.Parse(doc); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
