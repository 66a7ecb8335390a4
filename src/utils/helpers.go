package utils

import (
	"hms/src/config"
	"os"
	"time"
)

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

// ParseDate parses a calendar-date request field.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(config.DATE_PARSE_FORMAT, s)
}

// Nights counts whole nights in a half-open [checkIn, checkOut) range.
func Nights(checkIn, checkOut time.Time) uint {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return uint(d.Hours() / 24)
}
