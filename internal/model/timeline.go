package model

// PairedEvent is an event annotated by the pair assignment algorithm.
type PairedEvent struct {
	Event     Event
	Pair      int
	Unmatched bool
}

// Pair is one logical work session: an in event and, when the session is
// closed, its matching out event. Pairs are rebuilt on every read and never
// mutated in place.
type Pair struct {
	In       *Event
	Out      *Event
	Duration int // minutes, lunch excluded, never negative
	Lunch    int // minutes
	Location Location
}

// Open reports whether the session has no closing out event yet.
func (p Pair) Open() bool { return p.Out == nil }

// Gap is the idle interval between two adjacent closed pairs.
type Gap struct {
	StartTime string // HH:MM of the earlier pair's out
	EndTime   string // HH:MM of the next pair's in
	Duration  int    // minutes, always positive
	IsWorkGap bool
}

// Timeline is the reconstructed structure of one calendar day.
type Timeline struct {
	Events      []Event // chronologically sorted
	Pairs       []Pair
	Gaps        []Gap
	TotalWorked int // minutes, sum of pair durations
}

// GapInfo aggregates gap durations for a day. Classifying which gaps count
// as work is deferred; only totals are reported for now.
type GapInfo struct {
	TotalGapMinutes   int
	WorkGapMinutes    int
	NonWorkGapMinutes int
}

// DaySummary is the presentation-level view of one day: the timeline plus
// the derived quota numbers.
type DaySummary struct {
	Timeline Timeline
	Gaps     GapInfo
	Expected int // minutes
	Surplus  int // minutes, negative means deficit
}
