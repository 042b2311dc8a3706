// Package masjid builds Google Maps search links for mosques around a
// shared location. There is no Places API call; the map link does the
// searching client-side.
package masjid

import (
	"errors"
	"fmt"
)

// ErrInvalidLocation marks coordinates outside the valid range.
var ErrInvalidLocation = errors.New("invalid location")

const mapZoom = "15z"

// ValidCoordinates checks latitude and longitude bounds. The zero pair is
// rejected; Telegram never reports a real share as exactly 0,0.
func ValidCoordinates(lat, lng float64) bool {
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// SearchURL returns the masjid search link centered on the coordinates.
func SearchURL(lat, lng float64) (string, error) {
	if !ValidCoordinates(lat, lng) {
		return "", ErrInvalidLocation
	}
	return fmt.Sprintf("https://www.google.com/maps/search/masjid/@%g,%g,%s",
		lat, lng, mapZoom), nil
}
