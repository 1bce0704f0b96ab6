// Package schedule derives countdown state from exhibition dates.
//
// Every function here is pure: callers pass "now" explicitly so results are
// reproducible. Dates are calendar days; only the year, month and day of an
// end or start value are read, interpreted in the location of now.
package schedule

import (
	"expo/shared/constant"
	"fmt"
	"math"
	"time"
)

const (
	Day = 24 * time.Hour

	compactLayout  = "20060102"
	urgentMaxDays  = 7
	warningMaxDays = 30
	fullProgress   = 100.0
)

type Tier string

const (
	TierEnded   Tier = "ended"
	TierUrgent  Tier = "urgent"
	TierWarning Tier = "warning"
	TierNormal  Tier = "normal"
)

type Color string

const (
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
)

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleJA Locale = "ja"
)

// ParseLocale falls back to English for anything it does not recognise.
func ParseLocale(value string) Locale {
	if Locale(value) == LocaleJA {
		return LocaleJA
	}

	return LocaleEN
}

type Urgency struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
	Color Color  `json:"color"`
}

type labels struct {
	ended    string
	today    string
	tomorrow string
	daysLeft string
}

var localeLabels = map[Locale]labels{
	LocaleEN: {
		ended:    "ended",
		today:    "today",
		tomorrow: "tomorrow",
		daysLeft: "%d days left",
	},
	LocaleJA: {
		ended:    "終了",
		today:    "今日まで！",
		tomorrow: "明日まで！",
		daysLeft: "あと%d日",
	},
}

var tierColors = map[Tier]Color{
	TierEnded:   ColorGray,
	TierUrgent:  ColorRed,
	TierWarning: ColorYellow,
	TierNormal:  ColorGreen,
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysRemaining is the ceiling of the real-valued day difference between the
// start of the end date and now. The result moves within a single calendar
// day as now advances.
func DaysRemaining(end, now time.Time) int {
	diff := StartOfDay(end, now.Location()).Sub(now)

	return int(math.Ceil(float64(diff) / float64(Day)))
}

func TierOf(days int) Tier {
	switch {
	case days < 0:
		return TierEnded
	case days <= urgentMaxDays:
		return TierUrgent
	case days <= warningMaxDays:
		return TierWarning
	default:
		return TierNormal
	}
}

// Classify maps days remaining onto an urgency tier and its badge text.
func Classify(days int, locale Locale) Urgency {
	text, ok := localeLabels[locale]
	if !ok {
		text = localeLabels[LocaleEN]
	}

	tier := TierOf(days)

	var label string

	switch {
	case days < 0:
		label = text.ended
	case days == 0:
		label = text.today
	case days == 1:
		label = text.tomorrow
	default:
		label = fmt.Sprintf(text.daysLeft, days)
	}

	return Urgency{
		Tier:  tier,
		Label: label,
		Color: tierColors[tier],
	}
}

// Progress reports how far now is between the first and the last day of the
// run, in percent. It reaches 100 at midnight of the last day.
func Progress(start, end, now time.Time) float64 {
	loc := now.Location()
	from := StartOfDay(start, loc)
	until := StartOfDay(end, loc)

	total := until.Sub(from)
	if total <= 0 {
		if now.Before(from) {
			return 0
		}

		return fullProgress
	}

	pct := float64(now.Sub(from)) / float64(total) * fullProgress

	return math.Max(0, math.Min(fullProgress, pct))
}

// ExclusiveEnd is the day after the last inclusive day of an all-day event.
func ExclusiveEnd(end time.Time) time.Time {
	return end.AddDate(0, 0, 1)
}

func CompactDate(t time.Time) string {
	return t.Format(compactLayout)
}

// ParseDate reads a YYYY-MM-DD calendar date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constant.CalendarLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", value, err)
	}

	return t, nil
}
