package services

import (
	"math"
	"strings"
	"time"
)

const (
	LogDateLayout   = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// ParseLogDate reads a calendar date as UTC midnight so day arithmetic is
// free of DST shifts.
func ParseLogDate(value string) (time.Time, error) {
	return time.ParseInLocation(LogDateLayout, strings.TrimSpace(value), time.UTC)
}

// CanonicalLogDate is the stored key form of a calendar date.
func CanonicalLogDate(value string) (string, error) {
	day, err := ParseLogDate(value)
	if err != nil {
		return "", err
	}
	return FormatLogDate(day), nil
}

func FormatLogDate(value time.Time) string {
	return value.Format(LogDateLayout)
}

func FormatTimestamp(value time.Time) string {
	return value.UTC().Format(TimestampLayout)
}

// MonthBounds returns the first and last calendar day of a 1-indexed month.
// Out-of-range months roll over into the neighbouring year.
func MonthBounds(year int, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return FormatLogDate(first), FormatLogDate(last)
}

// DaysBetween is the floored whole-day difference to - from.
func DaysBetween(from time.Time, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

func RemoveUint(values []uint, needle uint) []uint {
	filtered := make([]uint, 0, len(values))
	for _, value := range values {
		if value != needle {
			filtered = append(filtered, value)
		}
	}
	return filtered
}

func containsUint(values []uint, needle uint) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}
