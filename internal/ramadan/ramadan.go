// Package ramadan computes the countdown to the next Ramadan start from a
// fixed table of astronomical estimates. Actual start dates follow lunar
// observation and can differ by a day or two.
package ramadan

import (
	"math"
	"strings"
	"time"
)

// startDates lists estimated Ramadan start dates by Gregorian year.
var startDates = map[int]time.Time{
	2025: time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
	2026: time.Date(2026, time.February, 18, 0, 0, 0, 0, time.UTC),
	2027: time.Date(2027, time.February, 8, 0, 0, 0, 0, time.UTC),
	2028: time.Date(2028, time.January, 28, 0, 0, 0, 0, time.UTC),
	2029: time.Date(2029, time.January, 16, 0, 0, 0, 0, time.UTC),
	2030: time.Date(2030, time.January, 6, 0, 0, 0, 0, time.UTC),
}

// maxDots caps the visual countdown so messages stay within sane length.
const maxDots = 100

// Countdown describes where "now" stands relative to the next start date.
type Countdown struct {
	DaysRemaining int
	NextStart     time.Time
	IsToday       bool
	HasStarted    bool
}

// NextStartDate returns the first tabled start date strictly after now.
// Today's own start date is skipped, so ComputeCountdown always reports an
// upcoming start and never IsToday or HasStarted. Past the end of the table
// it falls back to an estimate in the following year.
func NextStartDate(now time.Time) time.Time {
	for year := now.Year(); year <= now.Year()+5; year++ {
		if start, ok := startDates[year]; ok && start.After(now) {
			return start
		}
	}
	return time.Date(now.Year()+1, time.February, 15, 0, 0, 0, 0, time.UTC)
}

// ComputeCountdown compares now against the nearest start date at day
// resolution.
func ComputeCountdown(now time.Time) Countdown {
	next := NextStartDate(now)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)

	days := int(math.Ceil(start.Sub(today).Hours() / 24))
	return Countdown{
		DaysRemaining: days,
		NextStart:     next,
		IsToday:       days == 0,
		HasStarted:    days < 0,
	}
}

// Dots renders the countdown as a dotted progress strip, capped at maxDots.
func Dots(daysRemaining int) string {
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	if daysRemaining > maxDots {
		daysRemaining = maxDots
	}
	return strings.Repeat(".", daysRemaining)
}

// FormatStartDate renders the start date the way the countdown message
// shows it, e.g. "Saturday, February 28, 2026".
func FormatStartDate(start time.Time) string {
	return start.Format("Monday, January 2, 2006")
}
