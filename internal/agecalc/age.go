package agecalc

import (
	"math"
	"time"
)

// Age is an elapsed span expressed in calendar units.
type Age struct {
	Years  int
	Months int
	Days   int
}

// GregorianAgeResult adds the raw day count to the calendar breakdown.
type GregorianAgeResult struct {
	Age
	TotalDays int
}

// hijriBorrowDays is the flat month length used when the Hijri day
// difference goes negative. Hijri months alternate between 29 and 30 days;
// the flat constant slightly skews the day component and is carried as a
// known approximation.
const hijriBorrowDays = 29

// GregorianAge computes calendar-aware age: year, month, and day
// differences with manual borrow, so the result matches human expectation
// rather than day-count division.
func GregorianAge(birth, now time.Time) GregorianAgeResult {
	years := now.Year() - birth.Year()
	months := int(now.Month()) - int(birth.Month())
	days := now.Day() - birth.Day()

	if days < 0 {
		months--
		// Day zero of the current month resolves to the length of the
		// month before it.
		days += time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location()).Day()
	}
	if months < 0 {
		years--
		months += 12
	}

	totalDays := int(math.Floor(now.Sub(birth).Hours() / 24))
	return GregorianAgeResult{
		Age:       Age{Years: years, Months: months, Days: days},
		TotalDays: totalDays,
	}
}

// HijriDate is a numeric Hijri calendar date.
type HijriDate struct {
	Year  int
	Month int
	Day   int
}

// HijriAge applies the same borrow arithmetic to two Hijri dates, using the
// flat hijriBorrowDays month length.
func HijriAge(birth, now HijriDate) Age {
	years := now.Year - birth.Year
	months := now.Month - birth.Month
	days := now.Day - birth.Day

	if days < 0 {
		months--
		days += hijriBorrowDays
	}
	if months < 0 {
		years--
		months += 12
	}
	return Age{Years: years, Months: months, Days: days}
}

// DayOfWeek names the weekday of a date in English.
func DayOfWeek(date time.Time) string {
	return date.Weekday().String()
}

// DaysUntilNextBirthday returns 0 when now's month and day match the birth
// anniversary, otherwise the ceiling of whole days until the next one.
// Never negative.
func DaysUntilNextBirthday(birth, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	anniversary := time.Date(today.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, now.Location())
	if anniversary.Equal(today) {
		return 0
	}
	if anniversary.Before(today) {
		anniversary = time.Date(today.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, now.Location())
	}
	return int(math.Ceil(anniversary.Sub(now).Hours() / 24))
}

// NextBirthdayAge is the age the person turns on the coming anniversary.
func NextBirthdayAge(current Age) int {
	return current.Years + 1
}
