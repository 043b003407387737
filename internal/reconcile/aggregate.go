package reconcile

import "github.com/umpire274/timelog/internal/model"

// AggregatePosition derives the single location code for a day. No events
// yields ok=false; one distinct location yields that location; several
// yield Mixed.
func AggregatePosition(events []model.Event) (model.Location, bool) {
	seen := make(map[model.Location]struct{}, 2)
	for _, ev := range events {
		seen[ev.Location] = struct{}{}
		if len(seen) > 1 {
			return model.Mixed, true
		}
	}
	for loc := range seen {
		return loc, true
	}
	return "", false
}
