// Package reconcile turns the unordered punch events of a calendar day
// into logical work-session pairs and keeps that structure consistent
// under point edits and deletions. Pair numbers are a derived projection:
// they are always recomputable from the (time, kind) sequence alone.
package reconcile

import (
	"sort"

	"github.com/umpire274/timelog/internal/model"
)

// AssignPairs annotates events with pair numbers using lenient FIFO
// matching. Events may span several dates and arrive in any order; the
// counter and the open-in queue reset on every date change. Each in punch
// opens a fresh pair; each out punch closes the oldest open in, or takes a
// fresh pair of its own when no in is open. Unmatched stays true for
// orphan outs and for ins never closed.
//
// The function is pure and deterministic: sorting is stable on
// (date, time), so equal timestamps keep their insertion order.
func AssignPairs(events []model.Event) []model.PairedEvent {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Time < sorted[j].Time
	})

	result := make([]model.PairedEvent, 0, len(sorted))
	var (
		currentDate string
		openIns     []int // indices into result, FIFO
		counter     int
	)

	for _, ev := range sorted {
		if ev.Date != currentDate {
			currentDate = ev.Date
			openIns = openIns[:0]
			counter = 0
		}

		switch ev.Kind {
		case model.KindIn:
			counter++
			result = append(result, model.PairedEvent{Event: ev, Pair: counter, Unmatched: true})
			openIns = append(openIns, len(result)-1)
		case model.KindOut:
			if len(openIns) > 0 {
				inIdx := openIns[0]
				openIns = openIns[1:]
				result[inIdx].Unmatched = false
				result = append(result, model.PairedEvent{Event: ev, Pair: result[inIdx].Pair})
			} else {
				counter++
				result = append(result, model.PairedEvent{Event: ev, Pair: counter, Unmatched: true})
			}
		default:
			counter++
			result = append(result, model.PairedEvent{Event: ev, Pair: counter, Unmatched: true})
		}
	}
	return result
}

// LogicalPair groups the events of one pair number for a single date.
type LogicalPair struct {
	In  *model.Event
	Out *model.Event
}

// LogicalPairs rebuilds the 1-based sequence of logical pairs for one
// date's events using the lenient assignment. Persisted pair values are
// ignored so the result stays correct for stale or un-migrated rows.
func LogicalPairs(events []model.Event) []LogicalPair {
	annotated := AssignPairs(events)

	max := 0
	for _, pe := range annotated {
		if pe.Pair > max {
			max = pe.Pair
		}
	}
	pairs := make([]LogicalPair, max)
	for i := range annotated {
		pe := &annotated[i]
		slot := &pairs[pe.Pair-1]
		switch pe.Event.Kind {
		case model.KindIn:
			if slot.In == nil {
				slot.In = &pe.Event
			}
		case model.KindOut:
			if slot.Out == nil {
				slot.Out = &pe.Event
			}
		}
	}
	return pairs
}

// StrictPairs recomputes pair numbers for one date under strict
// alternation. An in punch while the previous in is still open and an out
// punch with no open in are both hard errors: mutation paths must not
// launder data-entry mistakes into valid-looking pairs. A trailing open in
// is allowed (ongoing workday). The returned map is keyed by event ID.
func StrictPairs(date string, events []model.Event) (map[int64]int, error) {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	assign := make(map[int64]int, len(sorted))
	current := 1
	open := false

	for _, ev := range sorted {
		switch ev.Kind {
		case model.KindIn:
			if open {
				return nil, &PairSequenceError{Date: date, Time: ev.Time, Pair: current, Kind: model.KindIn}
			}
			assign[ev.ID] = current
			open = true
		case model.KindOut:
			if !open {
				return nil, &PairSequenceError{Date: date, Time: ev.Time, Kind: model.KindOut}
			}
			assign[ev.ID] = current
			open = false
			current++
		}
	}
	return assign, nil
}
