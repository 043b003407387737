package model

import "strings"

// Location is the closed set of places a punch can be recorded from.
// Mixed is a derived day-level value; events carry it only through
// degenerate edit paths, never through normal entry.
type Location string

const (
	Office  Location = "O"
	Remote  Location = "R"
	Holiday Location = "H"
	OnSite  Location = "C"
	Mixed   Location = "M"
)

// ParseLocation accepts a single-letter code in either case.
func ParseLocation(code string) (Location, bool) {
	switch Location(strings.ToUpper(strings.TrimSpace(code))) {
	case Office:
		return Office, true
	case Remote:
		return Remote, true
	case Holiday:
		return Holiday, true
	case OnSite:
		return OnSite, true
	case Mixed:
		return Mixed, true
	}
	return "", false
}

// Label returns the human-readable name used in list output.
func (l Location) Label() string {
	switch l {
	case Office:
		return "Office"
	case Remote:
		return "Remote"
	case Holiday:
		return "Holiday"
	case OnSite:
		return "On-site (Client)"
	case Mixed:
		return "Mixed"
	}
	return string(l)
}
