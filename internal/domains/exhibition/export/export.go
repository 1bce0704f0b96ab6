// Package export encodes a complete exhibition into calendar formats.
//
// The offline file and the hosted link both derive the exclusive end date
// through schedule.ExclusiveEnd so the two paths always agree. Nothing here
// checks completeness; callers only export complete records.
package export

import (
	"expo/internal/domains/exhibition/schedule"
	"fmt"
	"net/url"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

const (
	DefaultProductID   = "-//Exhibition Gallery//JP"
	DefaultUIDDomain   = "exhibitiongallery.app"
	DefaultCalendarURL = "calendar.google.com/calendar"
	DefaultMapURL      = "www.google.com/maps"

	FileExtension = ".ics"

	lineBreak = "\r\n"
)

type Event struct {
	ID       string
	Title    string
	Location string
	Start    time.Time
	End      time.Time
}

type Options struct {
	ProductID string
	UIDDomain string
}

func (o Options) withDefaults() Options {
	if o.ProductID == "" {
		o.ProductID = DefaultProductID
	}

	if o.UIDDomain == "" {
		o.UIDDomain = DefaultUIDDomain
	}

	return o
}

// ICS renders ev as a single all-day VEVENT. stamp becomes DTSTAMP in UTC.
// SUMMARY and LOCATION are TEXT values, so commas, semicolons and backslashes
// are escaped and lines longer than 75 octets are folded.
func ICS(ev Event, stamp time.Time, opts Options) []byte {
	opts = opts.withDefaults()

	cal := ical.NewCalendar()
	cal.SetProductId(opts.ProductID)

	event := cal.AddEvent(fmt.Sprintf("%s@%s", ev.ID, opts.UIDDomain))
	event.SetDtStampTime(stamp.UTC())
	event.SetAllDayStartAt(ev.Start)
	event.SetAllDayEndAt(schedule.ExclusiveEnd(ev.End))
	event.SetSummary(ev.Title)
	event.SetLocation(ev.Location)

	return []byte(cal.Serialize(ical.WithNewLine(lineBreak)))
}

func FileName(title string) string {
	return title + FileExtension
}

// CalendarURL builds the event-creation link of a hosted calendar service.
func CalendarURL(ev Event, host string) string {
	if host == "" {
		host = DefaultCalendarURL
	}

	dates := schedule.CompactDate(ev.Start) + "/" + schedule.CompactDate(schedule.ExclusiveEnd(ev.End))

	return fmt.Sprintf(
		"https://%s/render?action=TEMPLATE&text=%s&dates=%s&location=%s&sf=true&output=xml",
		host,
		escape(ev.Title),
		dates,
		escape(ev.Location),
	)
}

// MapURL builds a map search link for a free-text location.
func MapURL(location, host string) string {
	if host == "" {
		host = DefaultMapURL
	}

	return fmt.Sprintf("https://%s/search/?api=1&query=%s", host, escape(location))
}

// escape encodes a query component with spaces as %20.
func escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
