// Package report renders expanded occurrence listings as XML documents
// for the reporting endpoint, and reads such documents back.
package report

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/itervo/librecur/schedule"
)

const (
	tagReport     = "occurrence-report"
	tagOccurrence = "occurrence"
	tagTitle      = "title"
	tagStart      = "start"
	tagEnd        = "end"
)

// Item is one expanded occurrence inside a report.
type Item struct {
	EventID uuid.UUID
	Title   string
	Start   time.Time
	End     time.Time
}

// OccurrenceReport lists the expanded occurrences of one calendar inside
// the [From, To] window.
type OccurrenceReport struct {
	CalendarID string
	From       time.Time
	To         time.Time
	Generated  time.Time
	Items      []Item
}

// Add appends one occurrence of ev to the report.
func (r *OccurrenceReport) Add(ev *schedule.Event, occ schedule.Occurrence) {
	r.Items = append(r.Items, Item{
		EventID: occ.EventID,
		Title:   ev.Title,
		Start:   occ.Start,
		End:     occ.End,
	})
}

// ToXML converts the report to an XML document. All times are written as
// RFC 3339 in UTC.
func (r *OccurrenceReport) ToXML() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement(tagReport)
	root.CreateAttr("calendar-id", r.CalendarID)
	root.CreateAttr("from", r.From.UTC().Format(time.RFC3339))
	root.CreateAttr("to", r.To.UTC().Format(time.RFC3339))
	root.CreateAttr("generated", r.Generated.UTC().Format(time.RFC3339))

	for _, item := range r.Items {
		occ := root.CreateElement(tagOccurrence)
		occ.CreateAttr("event-id", item.EventID.String())

		title := occ.CreateElement(tagTitle)
		title.SetText(item.Title)
		start := occ.CreateElement(tagStart)
		start.SetText(item.Start.UTC().Format(time.RFC3339))
		end := occ.CreateElement(tagEnd)
		end.SetText(item.End.UTC().Format(time.RFC3339))
	}

	return doc
}

// Parse reads a report from an XML document. Occurrences whose event id
// does not parse are dropped.
func (r *OccurrenceReport) Parse(doc *etree.Document) error {
	if doc == nil || doc.Root() == nil {
		return fmt.Errorf("empty document")
	}

	root := doc.Root()
	if root.Tag != tagReport {
		return fmt.Errorf("invalid root tag: %s", root.Tag)
	}

	r.CalendarID = root.SelectAttrValue("calendar-id", "")
	r.From = attrTime(root, "from")
	r.To = attrTime(root, "to")
	r.Generated = attrTime(root, "generated")

	r.Items = nil // Reset items
	for _, elem := range root.SelectElements(tagOccurrence) {
		id, err := uuid.Parse(elem.SelectAttrValue("event-id", ""))
		if err != nil {
			continue
		}

		item := Item{EventID: id}
		if title := elem.SelectElement(tagTitle); title != nil {
			item.Title = title.Text()
		}
		if start := elem.SelectElement(tagStart); start != nil {
			item.Start, _ = time.Parse(time.RFC3339, start.Text())
		}
		if end := elem.SelectElement(tagEnd); end != nil {
			item.End, _ = time.Parse(time.RFC3339, end.Text())
		}
		r.Items = append(r.Items, item)
	}

	return nil
}

func attrTime(elem *etree.Element, name string) time.Time {
	t, _ := time.Parse(time.RFC3339, elem.SelectAttrValue(name, ""))
	return t
}
