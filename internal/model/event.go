package model

import (
	"time"
)

// EventKind distinguishes clock-in from clock-out punches.
type EventKind string

const (
	KindIn  EventKind = "in"
	KindOut EventKind = "out"
)

// ParseEventKind converts a stored kind string back to an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "in":
		return KindIn, true
	case "out":
		return KindOut, true
	}
	return "", false
}

// Event is a single punch record. The pair field is a derived projection:
// it is recomputed from the day's event set whenever that set changes and
// must never be treated as an independent source of truth.
type Event struct {
	ID        int64
	Date      string // YYYY-MM-DD
	Time      string // HH:MM, minute resolution
	Kind      EventKind
	Location  Location
	Lunch     int // minutes, conventionally set on out events
	WorkGap   bool
	Pair      int
	Source    string
	Meta      string
	CreatedAt string // ISO 8601
}

// NewEvent builds a CLI-originated event with pair unset; the mutation
// controller recomputes pair numbers after every write.
func NewEvent(date, timeOfDay string, kind EventKind, loc Location, lunch int) Event {
	return Event{
		Date:      date,
		Time:      timeOfDay,
		Kind:      kind,
		Location:  loc,
		Lunch:     lunch,
		Source:    "cli",
		CreatedAt: time.Now().Format(time.RFC3339),
	}
}
