// Package agecalc implements the dual-calendar age engine: birth-date
// parsing, Gregorian and Hijri age arithmetic with manual borrow, and
// next-birthday derivations. All functions take an explicit "now" so they
// stay pure and testable.
package agecalc

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Parse failures are distinguishable so callers can pick the matching
// localized message.
var (
	// ErrFormat: input is not three numeric slash-separated components.
	ErrFormat = errors.New("invalid date format")
	// ErrRange: a component is outside day 1-31, month 1-12, or the year
	// predates 1900.
	ErrRange = errors.New("date out of valid range")
	// ErrImpossible: components are in range but name no real calendar day.
	ErrImpossible = errors.New("invalid calendar date")
	// ErrFuture: the date lies after now. Today itself is accepted.
	ErrFuture = errors.New("birth date in the future")
)

const minBirthYear = 1900

// ParseBirthDate parses dd/mm/yyyy into a UTC midnight date. The numbers
// must round-trip into the same real calendar date, so 31/04 is rejected
// rather than normalized into May.
func ParseBirthDate(text string, now time.Time) (time.Time, error) {
	day, month, year, err := splitDate(text)
	if err != nil {
		return time.Time{}, err
	}

	// Future years fall through to the After check below so they report
	// ErrFuture rather than a range violation.
	if day < 1 || day > 31 || month < 1 || month > 12 || year < minBirthYear {
		return time.Time{}, ErrRange
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, ErrImpossible
	}

	if date.After(now) {
		return time.Time{}, ErrFuture
	}
	return date, nil
}

// ParseDate parses dd/mm/yyyy with the same round-trip validation but
// without birth-date range limits. The Hijri converter accepts any real
// calendar date, future ones included.
func ParseDate(text string) (time.Time, error) {
	day, month, year, err := splitDate(text)
	if err != nil {
		return time.Time{}, err
	}

	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1 {
		return time.Time{}, ErrRange
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, ErrImpossible
	}
	return date, nil
}

func splitDate(text string) (day, month, year int, err error) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 3 {
		return 0, 0, 0, ErrFormat
	}

	day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return 0, 0, 0, ErrFormat
	}
	return day, month, year, nil
}
