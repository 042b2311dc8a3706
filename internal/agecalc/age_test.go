package agecalc

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseBirthDateRoundTrip(t *testing.T) {
	now := date(2025, time.June, 1)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"15/03/1990", date(1990, time.March, 15)},
		{"01/01/1900", date(1900, time.January, 1)},
		{"29/02/2020", date(2020, time.February, 29)},
		{" 5/7/2001 ", date(2001, time.July, 5)},
	}
	for _, tc := range cases {
		got, err := ParseBirthDate(tc.in, now)
		if err != nil {
			t.Errorf("ParseBirthDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseBirthDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseBirthDateErrors(t *testing.T) {
	now := date(2025, time.June, 1)
	cases := []struct {
		in   string
		want error
	}{
		{"15-03-1990", ErrFormat},
		{"15/03", ErrFormat},
		{"aa/bb/cccc", ErrFormat},
		{"15/03/1990/1", ErrFormat},
		{"", ErrFormat},
		{"32/01/1990", ErrRange},
		{"00/01/1990", ErrRange},
		{"15/13/1990", ErrRange},
		{"15/00/1990", ErrRange},
		{"15/03/1899", ErrRange},
		{"15/03/2026", ErrFuture},
		{"01/01/2030", ErrFuture},
		{"31/04/2000", ErrImpossible},
		{"29/02/2023", ErrImpossible},
		{"31/06/1995", ErrImpossible},
		{"02/06/2025", ErrFuture},
	}
	for _, tc := range cases {
		_, err := ParseBirthDate(tc.in, now)
		if !errors.Is(err, tc.want) {
			t.Errorf("ParseBirthDate(%q) err = %v, want %v", tc.in, err, tc.want)
		}
	}
}

func TestParseBirthDateAcceptsToday(t *testing.T) {
	now := time.Date(2025, time.June, 1, 14, 30, 0, 0, time.UTC)
	got, err := ParseBirthDate("01/06/2025", now)
	if err != nil {
		t.Fatalf("today rejected: %v", err)
	}
	if !got.Equal(date(2025, time.June, 1)) {
		t.Errorf("got %v", got)
	}
}

func TestParseDateAllowsFuture(t *testing.T) {
	got, err := ParseDate("01/01/2030")
	if err != nil {
		t.Fatalf("future date rejected: %v", err)
	}
	if !got.Equal(date(2030, time.January, 1)) {
		t.Errorf("got %v", got)
	}

	if _, err := ParseDate("31/04/2030"); !errors.Is(err, ErrImpossible) {
		t.Errorf("31/04 err = %v, want ErrImpossible", err)
	}
	if _, err := ParseDate("not a date"); !errors.Is(err, ErrFormat) {
		t.Errorf("garbage err = %v, want ErrFormat", err)
	}
}

func TestGregorianAgeZero(t *testing.T) {
	d := date(2000, time.May, 20)
	got := GregorianAge(d, d)
	if got.Years != 0 || got.Months != 0 || got.Days != 0 || got.TotalDays != 0 {
		t.Errorf("GregorianAge(X, X) = %+v, want zeros", got)
	}
}

func TestGregorianAgeBorrow(t *testing.T) {
	cases := []struct {
		name       string
		birth, now time.Time
		want       Age
	}{
		{
			// Day borrow crosses a leap February.
			name:  "leap february borrow",
			birth: date(1990, time.March, 15),
			now:   date(2024, time.March, 14),
			want:  Age{Years: 33, Months: 11, Days: 28},
		},
		{
			name:  "non-leap february borrow",
			birth: date(1990, time.March, 15),
			now:   date(2023, time.March, 14),
			want:  Age{Years: 32, Months: 11, Days: 27},
		},
		{
			name:  "plain difference",
			birth: date(2000, time.January, 10),
			now:   date(2024, time.June, 25),
			want:  Age{Years: 24, Months: 5, Days: 15},
		},
		{
			name:  "month borrow only",
			birth: date(2000, time.November, 5),
			now:   date(2024, time.March, 5),
			want:  Age{Years: 23, Months: 4, Days: 0},
		},
		{
			name:  "31-day borrow month",
			birth: date(2010, time.January, 31),
			now:   date(2024, time.February, 1),
			want:  Age{Years: 14, Months: 0, Days: 1},
		},
	}
	for _, tc := range cases {
		got := GregorianAge(tc.birth, tc.now)
		if got.Age != tc.want {
			t.Errorf("%s: GregorianAge = %+v, want %+v", tc.name, got.Age, tc.want)
		}
	}
}

func TestGregorianAgeTotalDays(t *testing.T) {
	got := GregorianAge(date(2000, time.January, 1), date(2000, time.January, 11))
	if got.TotalDays != 10 {
		t.Errorf("TotalDays = %d, want 10", got.TotalDays)
	}
}

func TestHijriAge(t *testing.T) {
	cases := []struct {
		name       string
		birth, now HijriDate
		want       Age
	}{
		{
			name:  "zero",
			birth: HijriDate{1446, 7, 27},
			now:   HijriDate{1446, 7, 27},
			want:  Age{},
		},
		{
			name:  "month borrow",
			birth: HijriDate{1410, 9, 15},
			now:   HijriDate{1446, 7, 27},
			want:  Age{Years: 35, Months: 10, Days: 12},
		},
		{
			name:  "flat 29-day borrow",
			birth: HijriDate{1400, 3, 20},
			now:   HijriDate{1440, 4, 5},
			want:  Age{Years: 40, Months: 0, Days: 14},
		},
		{
			name:  "double borrow",
			birth: HijriDate{1400, 12, 20},
			now:   HijriDate{1440, 1, 5},
			want:  Age{Years: 39, Months: 0, Days: 14},
		},
	}
	for _, tc := range cases {
		if got := HijriAge(tc.birth, tc.now); got != tc.want {
			t.Errorf("%s: HijriAge = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestDaysUntilNextBirthday(t *testing.T) {
	birth := date(1990, time.March, 15)

	if got := DaysUntilNextBirthday(birth, date(2023, time.March, 15)); got != 0 {
		t.Errorf("on the birthday = %d, want 0", got)
	}
	if got := DaysUntilNextBirthday(birth, date(2023, time.March, 16)); got != 365 {
		t.Errorf("day after (leap year ahead) = %d, want 365", got)
	}
	if got := DaysUntilNextBirthday(birth, date(2024, time.March, 16)); got != 364 {
		t.Errorf("day after (non-leap ahead) = %d, want 364", got)
	}
	if got := DaysUntilNextBirthday(birth, date(2023, time.March, 10)); got != 5 {
		t.Errorf("upcoming this year = %d, want 5", got)
	}
	if got := DaysUntilNextBirthday(birth, time.Date(2023, time.March, 10, 18, 0, 0, 0, time.UTC)); got != 5 {
		t.Errorf("partial day rounds up = %d, want 5", got)
	}
}

func TestDayOfWeek(t *testing.T) {
	if got := DayOfWeek(date(1990, time.March, 15)); got != "Thursday" {
		t.Errorf("DayOfWeek = %q, want Thursday", got)
	}
}

func TestNextBirthdayAge(t *testing.T) {
	if got := NextBirthdayAge(Age{Years: 33, Months: 11, Days: 28}); got != 34 {
		t.Errorf("NextBirthdayAge = %d, want 34", got)
	}
}
