package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hshehabu/salah-times/internal/agecalc"
	"github.com/hshehabu/salah-times/internal/aladhan"
	"github.com/hshehabu/salah-times/internal/i18n"
	"github.com/hshehabu/salah-times/internal/ramadan"
)

// To12Hour renders a prayer time in 12-hour AM/PM form. ISO timestamps are
// shown in the timezone they carry; plain HH:MM strings are converted
// arithmetically. Unparsable input is returned untouched.
func To12Hour(value string) string {
	if strings.Contains(value, "T") || strings.Contains(value, "Z") {
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			return ts.Format("3:04 PM")
		}
	}

	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return value
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return value
	}
	minute := parts[1]
	if i := strings.IndexByte(minute, ' '); i >= 0 {
		minute = minute[:i]
	}
	switch {
	case hour == 0:
		return fmt.Sprintf("12:%s AM", minute)
	case hour < 12:
		return fmt.Sprintf("%d:%s AM", hour, minute)
	case hour == 12:
		return fmt.Sprintf("12:%s PM", minute)
	default:
		return fmt.Sprintf("%d:%s PM", hour-12, minute)
	}
}

// displayLocation derives a presentable city name from the timezone
// identifier when available, falling back to the user's own query.
func displayLocation(res *aladhan.TimingsResult) string {
	location := res.City
	if tz := res.Meta.Timezone; strings.Contains(tz, "/") {
		parts := strings.Split(tz, "/")
		location = strings.ReplaceAll(parts[len(parts)-1], "_", " ")
	}
	words := strings.Fields(location)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	if len(words) == 0 {
		return res.City
	}
	return strings.Join(words, " ")
}

func displayDate(date aladhan.DualDate) string {
	g, hj := date.Gregorian, date.Hijri
	if g.Weekday.En != "" && g.Month.En != "" && g.Day != "" && g.Year != "" &&
		hj.Day != "" && hj.Month.En != "" && hj.Year != "" {
		return fmt.Sprintf("%s, %s %s, %s\n(%s %s %s AH)",
			g.Weekday.En, g.Month.En, g.Day, g.Year, hj.Day, hj.Month.En, hj.Year)
	}
	if g.Readable != "" {
		return g.Readable
	}
	return "Today"
}

// FormatPrayerTimes renders the full five-prayer reply.
func (h *Handlers) FormatPrayerTimes(res *aladhan.TimingsResult, lang i18n.Language) string {
	t := res.Timings
	return fmt.Sprintf("🕌 *%s %s*\n\n📅 %s\n\n"+
		"🌅 *%s:* %s\n\n☀️ *%s:* %s\n\n🌤️ *%s:* %s\n\n🌅 *%s:* %s\n\n🌙 *%s:* %s",
		h.tr.T(lang, i18n.KeyPrayerTimesFor), displayLocation(res),
		displayDate(res.Date),
		h.tr.T(lang, i18n.KeyFajr), To12Hour(t.Fajr),
		h.tr.T(lang, i18n.KeyDhuhr), To12Hour(t.Dhuhr),
		h.tr.T(lang, i18n.KeyAsr), To12Hour(t.Asr),
		h.tr.T(lang, i18n.KeyMaghrib), To12Hour(t.Maghrib),
		h.tr.T(lang, i18n.KeyIsha), To12Hour(t.Isha),
	)
}

// FormatConversion renders the Gregorian-to-Hijri conversion reply.
func (h *Handlers) FormatConversion(dual *aladhan.DualDate, lang i18n.Language) string {
	g, hj := dual.Gregorian, dual.Hijri
	gregorian := fmt.Sprintf("%s, %s %s, %s", g.Weekday.En, g.Month.En, g.Day, g.Year)
	hijri := fmt.Sprintf("%s %s %s AH", hj.Day, hj.Month.En, hj.Year)
	return h.tr.T(lang, i18n.KeyDateConverted, gregorian, hijri)
}

// FormatAgeReport renders the dual-calendar age answer.
func (h *Handlers) FormatAgeReport(report *agecalc.Report, lang i18n.Language) string {
	birthHijri := fmt.Sprintf("%s %s %s AH",
		report.BirthHijri.Day, report.BirthHijri.Month.En, report.BirthHijri.Year)
	birthGregorian := report.Birth.Format("02/01/2006")

	hijriAge := h.formatAge(report.Hijri, lang)
	gregorianAge := h.formatAge(report.Gregorian.Age, lang)

	birthday := h.tr.T(lang, i18n.KeyBirthdayToday)
	if report.DaysUntilBirthday != 0 {
		birthday = h.tr.T(lang, i18n.KeyDaysUntilBirthday, report.DaysUntilBirthday)
	}

	return h.tr.T(lang, i18n.KeyAgeCalculationResult,
		birthHijri, birthGregorian, report.DayOfWeek, hijriAge, gregorianAge, birthday)
}

func (h *Handlers) formatAge(age agecalc.Age, lang i18n.Language) string {
	return fmt.Sprintf("%d %s, %d %s, %d %s",
		age.Years, h.tr.T(lang, i18n.KeyYears),
		age.Months, h.tr.T(lang, i18n.KeyMonths),
		age.Days, h.tr.T(lang, i18n.KeyDays),
	)
}

// FormatIslamicMonths renders the numbered month list.
func (h *Handlers) FormatIslamicMonths(lang i18n.Language) string {
	var b strings.Builder
	b.WriteString(h.tr.T(lang, i18n.KeyIslamicMonthsTitle))
	for i, name := range h.tr.MonthNames(lang) {
		fmt.Fprintf(&b, "\n%d. %s", i+1, name)
	}
	return b.String()
}

// FormatRamadanCountdown renders the countdown, start-day, or started
// message for now.
func (h *Handlers) FormatRamadanCountdown(now time.Time, lang i18n.Language) string {
	c := ramadan.ComputeCountdown(now)
	switch {
	case c.HasStarted:
		return h.tr.T(lang, i18n.KeyRamadanStarted)
	case c.IsToday:
		return h.tr.T(lang, i18n.KeyRamadanToday)
	default:
		return h.tr.T(lang, i18n.KeyRamadanCountdown,
			ramadan.Dots(c.DaysRemaining), c.DaysRemaining, ramadan.FormatStartDate(c.NextStart))
	}
}
