// Package calendar maps simulation dates to seasons and renders them
// for the chronicle.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Season of the simulated year.
type Season uint8

const (
	Winter Season = iota
	Spring
	Summer
	Fall
)

// String returns the lowercase season name used in data tables.
func (s Season) String() string {
	switch s {
	case Winter:
		return "winter"
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// ParseSeason resolves a season name, case-insensitive. "autumn" is
// accepted as an alias for fall.
func ParseSeason(name string) (Season, bool) {
	switch strings.ToLower(name) {
	case "winter":
		return Winter, true
	case "spring":
		return Spring, true
	case "summer":
		return Summer, true
	case "fall", "autumn":
		return Fall, true
	default:
		return Winter, false
	}
}

// SeasonOf returns the season a date falls in: March-May spring,
// June-August summer, September-November fall, the rest winter.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Fall
	default:
		return Winter
	}
}

// DayOfYear returns the 1-based ordinal day of the year.
func DayOfYear(t time.Time) int {
	return t.YearDay()
}

// Format renders a date the way the chronicle prints it,
// e.g. "March 15th, 1849".
func Format(t time.Time) string {
	return fmt.Sprintf("%s %s, %d", t.Month(), humanize.Ordinal(t.Day()), t.Year())
}

// FormatShort renders a compact date, e.g. "Mar 15".
func FormatShort(t time.Time) string {
	return t.Format("Jan 2")
}

// DaysBetween returns the whole-day distance between two dates.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a).Hours() / 24
	if d < 0 {
		d = -d
	}
	return int(d + 0.5)
}
