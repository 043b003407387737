package model

// DayRecord is the denormalized day-level aggregate maintained by the
// mutation controller: one row per date with the day's boundary times,
// lunch and aggregated position. It is a projection of the date's events,
// never edited directly.
type DayRecord struct {
	Date     string // YYYY-MM-DD
	Position Location
	Start    string // HH:MM of earliest in, "" when unknown
	End      string // HH:MM of latest out, "" while the day is open
	Lunch    int    // minutes
}
