package export_test

import (
	"expo/internal/domains/exhibition/export"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() export.Event {
	return export.Event{
		ID:       "7f1c",
		Title:    "Monet Water Lilies",
		Location: "National Museum of Western Art",
		Start:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestICS(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 9, 30, 15, 0, time.FixedZone("JST", 9*60*60))

	out := string(export.ICS(sampleEvent(), stamp, export.Options{}))

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\r\n"), "END:VCALENDAR"))

	for _, line := range []string{
		"VERSION:2.0",
		"PRODID:" + export.DefaultProductID,
		"BEGIN:VEVENT",
		"UID:7f1c@" + export.DefaultUIDDomain,
		"DTSTAMP:20240301T003015Z",
		"DTSTART;VALUE=DATE:20240310",
		"DTEND;VALUE=DATE:20240313",
		"SUMMARY:Monet Water Lilies",
		"LOCATION:National Museum of Western Art",
		"END:VEVENT",
	} {
		assert.Contains(t, out, line+"\r\n")
	}

	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
}

func TestICSExactFile(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 0, 30, 15, 0, time.UTC)

	want := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Exhibition Gallery//JP",
		"BEGIN:VEVENT",
		"UID:7f1c@exhibitiongallery.app",
		"DTSTAMP:20240301T003015Z",
		"DTSTART;VALUE=DATE:20240310",
		"DTEND;VALUE=DATE:20240313",
		"SUMMARY:Monet Water Lilies",
		"LOCATION:National Museum of Western Art",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n") + "\r\n"

	assert.Equal(t, want, string(export.ICS(sampleEvent(), stamp, export.Options{})))
}

func TestICSTextValues(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		location string
		want     string
	}{
		{
			name:     "comma in location is escaped",
			title:    "Monet",
			location: "Ueno Park, Tokyo",
			want:     "LOCATION:Ueno Park\\, Tokyo\r\n",
		},
		{
			name:     "semicolon and backslash in title are escaped",
			title:    `Prints; 1890\1900`,
			location: "Ueno",
			want:     `SUMMARY:Prints\; 1890\\1900` + "\r\n",
		},
		{
			name:     "long title is folded at 75 octets",
			title:    strings.Repeat("a", 100),
			location: "Ueno",
			want:     "SUMMARY:" + strings.Repeat("a", 67) + "\r\n " + strings.Repeat("a", 33) + "\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := sampleEvent()
			ev.Title = tt.title
			ev.Location = tt.location

			out := string(export.ICS(ev, time.Now(), export.Options{}))

			assert.Contains(t, out, tt.want)
			assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
		})
	}
}

func TestICSWithOptions(t *testing.T) {
	opts := export.Options{ProductID: "-//Tokyo Shows//EN", UIDDomain: "shows.example"}

	out := string(export.ICS(sampleEvent(), time.Now(), opts))

	assert.Contains(t, out, "PRODID:-//Tokyo Shows//EN\r\n")
	assert.Contains(t, out, "UID:7f1c@shows.example\r\n")
}

func TestCalendarURL(t *testing.T) {
	link := export.CalendarURL(sampleEvent(), "")

	assert.Equal(t,
		"https://calendar.google.com/calendar/render?action=TEMPLATE"+
			"&text=Monet%20Water%20Lilies&dates=20240310/20240313"+
			"&location=National%20Museum%20of%20Western%20Art&sf=true&output=xml",
		link,
	)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Monet Water Lilies", parsed.Query().Get("text"))
	assert.Equal(t, "National Museum of Western Art", parsed.Query().Get("location"))
}

func TestCalendarURLEscapesReservedCharacters(t *testing.T) {
	ev := sampleEvent()
	ev.Title = "Art & Design = 美術"

	parsed, err := url.Parse(export.CalendarURL(ev, "cal.example"))
	require.NoError(t, err)

	assert.Equal(t, "cal.example", parsed.Host)
	assert.Equal(t, "Art & Design = 美術", parsed.Query().Get("text"))
	assert.Equal(t, "TEMPLATE", parsed.Query().Get("action"))
}

func TestExportPathsAgreeOnExclusiveEnd(t *testing.T) {
	ev := sampleEvent()

	ics := string(export.ICS(ev, time.Now(), export.Options{}))
	link := export.CalendarURL(ev, "")

	assert.Contains(t, ics, "DTEND;VALUE=DATE:20240313")
	assert.Contains(t, link, "dates=20240310/20240313")
}

func TestMapURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=Ueno%20Park%2C%20Tokyo",
		export.MapURL("Ueno Park, Tokyo", ""),
	)
	assert.Equal(t,
		"https://maps.example/search/?api=1&query=",
		export.MapURL("", "maps.example"),
	)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Monet Water Lilies.ics", export.FileName("Monet Water Lilies"))
}
