// Package timeutil holds the date and clock arithmetic shared by the
// reconciliation engine and the CLI. Dates travel as "YYYY-MM-DD" strings
// and clock times as "HH:MM"; all durations are integer minutes.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Today returns the current local date in YYYY-MM-DD form.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Clock formats minutes since midnight as "HH:MM". Values are taken
// modulo a day so callers handle rollover explicitly.
func Clock(minutes int) string {
	minutes %= 24 * 60
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatMinutes renders a (possibly negative) minute count as "HH:MM"
// with a leading sign for negatives.
func FormatMinutes(mins int) string {
	sign := ""
	if mins < 0 {
		sign = "-"
		mins = -mins
	}
	return fmt.Sprintf("%s%02d:%02d", sign, mins/60, mins%60)
}

// FormatMinutesReadable renders minutes as "7h 36m".
func FormatMinutesReadable(mins int) string {
	sign := ""
	if mins < 0 {
		sign = "-"
		mins = -mins
	}
	return fmt.Sprintf("%s%dh %dm", sign, mins/60, mins%60)
}

// WeekdayName returns the weekday of a YYYY-MM-DD date. Style is "s"
// (two letters), "l" (full name) or anything else for the three-letter
// default. Invalid dates yield an empty string.
func WeekdayName(date, style string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	name := d.Weekday().String()
	switch style {
	case "s":
		return name[:2]
	case "l":
		return name
	default:
		return name[:3]
	}
}
