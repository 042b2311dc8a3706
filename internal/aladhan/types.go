package aladhan

import "strconv"

// Timings holds the five daily prayers as the API returns them. With
// iso8601 enabled each value is a full timestamp in the city's zone.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// Meta carries location metadata of the timings response.
type Meta struct {
	Timezone string `json:"timezone"`
}

// Weekday and Month values come localized; only the English form is used.
type Weekday struct {
	En string `json:"en"`
}

// Month names a calendar month. Number is 1-based.
type Month struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

// CalendarDate is one date in either calendar. Day and Year arrive as
// strings on the wire.
type CalendarDate struct {
	Date     string  `json:"date"`
	Readable string  `json:"readable"`
	Day      string  `json:"day"`
	Month    Month   `json:"month"`
	Year     string  `json:"year"`
	Weekday  Weekday `json:"weekday"`
}

// DayNum returns the numeric day of month, 0 when unparsable.
func (d CalendarDate) DayNum() int {
	n, _ := strconv.Atoi(d.Day)
	return n
}

// YearNum returns the numeric year, 0 when unparsable.
func (d CalendarDate) YearNum() int {
	n, _ := strconv.Atoi(d.Year)
	return n
}

// DualDate pairs the Hijri and Gregorian renderings of one day.
type DualDate struct {
	Hijri     CalendarDate `json:"hijri"`
	Gregorian CalendarDate `json:"gregorian"`
}

// TimingsResult is the parsed answer to a prayer-times lookup.
type TimingsResult struct {
	City    string
	Timings Timings
	Meta    Meta
	Date    DualDate
}

type timingsResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings Timings  `json:"timings"`
		Meta    Meta     `json:"meta"`
		Date    DualDate `json:"date"`
	} `json:"data"`
}

type conversionResponse struct {
	Code int      `json:"code"`
	Data DualDate `json:"data"`
}
