package agecalc

import (
	"context"
	"fmt"
	"time"

	"github.com/hshehabu/salah-times/internal/aladhan"
)

// HijriConverter resolves a Gregorian date to its dual-calendar rendering.
// Satisfied by the aladhan client.
type HijriConverter interface {
	ToHijri(ctx context.Context, date time.Time) (*aladhan.DualDate, error)
}

// Report is the complete age answer shown to the user.
type Report struct {
	Birth     time.Time
	DayOfWeek string

	BirthHijri aladhan.CalendarDate
	NowHijri   aladhan.CalendarDate

	Gregorian GregorianAgeResult
	Hijri     Age

	DaysUntilBirthday     int
	NextBirthdayGregorian int
	NextBirthdayHijri     int
}

// BuildReport converts both endpoints through the Hijri client and derives
// every age figure from the pair.
func BuildReport(ctx context.Context, conv HijriConverter, birth, now time.Time) (*Report, error) {
	birthDual, err := conv.ToHijri(ctx, birth)
	if err != nil {
		return nil, fmt.Errorf("convert birth date: %w", err)
	}
	nowDual, err := conv.ToHijri(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("convert current date: %w", err)
	}

	gregorian := GregorianAge(birth, now)
	hijri := HijriAge(
		HijriDate{Year: birthDual.Hijri.YearNum(), Month: birthDual.Hijri.Month.Number, Day: birthDual.Hijri.DayNum()},
		HijriDate{Year: nowDual.Hijri.YearNum(), Month: nowDual.Hijri.Month.Number, Day: nowDual.Hijri.DayNum()},
	)

	return &Report{
		Birth:                 birth,
		DayOfWeek:             DayOfWeek(birth),
		BirthHijri:            birthDual.Hijri,
		NowHijri:              nowDual.Hijri,
		Gregorian:             gregorian,
		Hijri:                 hijri,
		DaysUntilBirthday:     DaysUntilNextBirthday(birth, now),
		NextBirthdayGregorian: NextBirthdayAge(gregorian.Age),
		NextBirthdayHijri:     NextBirthdayAge(hijri),
	}, nil
}
