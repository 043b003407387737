package reconcile

import (
	"sort"

	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/timeutil"
)

// BuildTimeline reconstructs one day's sessions from its events. Pairing
// here is local and display-oriented: an in punch immediately followed by
// an out punch in the sorted sequence forms a closed pair, a lone in forms
// an open pair. Persisted pair numbers are deliberately ignored so the
// timeline stays correct for legacy rows.
//
// Durations are integer minutes, lunch excluded, floored at zero. An out
// time earlier than its in time (overnight shift) is not wrapped.
func BuildTimeline(events []model.Event) model.Timeline {
	if len(events) == 0 {
		return model.Timeline{}
	}

	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	var (
		pairs []model.Pair
		total int
	)

	for i := 0; i < len(sorted); i++ {
		ev := sorted[i]
		if ev.Kind != model.KindIn {
			continue
		}

		if i+1 < len(sorted) && sorted[i+1].Kind == model.KindOut {
			in := sorted[i]
			out := sorted[i+1]
			lunch := pairLunch(in, out)
			duration := pairDuration(in.Time, out.Time, lunch)
			total += duration
			pairs = append(pairs, model.Pair{
				In:       &in,
				Out:      &out,
				Duration: duration,
				Lunch:    lunch,
				Location: in.Location,
			})
			i++ // out consumed
			continue
		}

		in := sorted[i]
		pairs = append(pairs, model.Pair{
			In:       &in,
			Lunch:    in.Lunch,
			Location: in.Location,
		})
	}

	var gaps []model.Gap
	for i := 1; i < len(pairs); i++ {
		prev, next := pairs[i-1], pairs[i]
		if prev.Out == nil {
			continue
		}
		start, err1 := timeutil.ParseClock(prev.Out.Time)
		end, err2 := timeutil.ParseClock(next.In.Time)
		if err1 != nil || err2 != nil || end <= start {
			continue
		}
		gaps = append(gaps, model.Gap{
			StartTime: prev.Out.Time,
			EndTime:   next.In.Time,
			Duration:  end - start,
		})
	}

	return model.Timeline{
		Events:      sorted,
		Pairs:       pairs,
		Gaps:        gaps,
		TotalWorked: total,
	}
}

// pairLunch picks the break charged to a closed pair: the in event's
// value when present, else the out event's. The two entry paths disagree
// on which side carries it, so both are honored.
func pairLunch(in, out model.Event) int {
	if in.Lunch > 0 {
		return in.Lunch
	}
	return out.Lunch
}

func pairDuration(inTime, outTime string, lunch int) int {
	start, err1 := timeutil.ParseClock(inTime)
	end, err2 := timeutil.ParseClock(outTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	d := end - start - lunch
	if d < 0 {
		return 0
	}
	return d
}

// AnalyzeGaps totals the idle intervals of a timeline. Work-gap
// classification is deferred, so every gap counts as non-work for now.
func AnalyzeGaps(t model.Timeline) model.GapInfo {
	var info model.GapInfo
	for _, g := range t.Gaps {
		info.TotalGapMinutes += g.Duration
		if g.IsWorkGap {
			info.WorkGapMinutes += g.Duration
		} else {
			info.NonWorkGapMinutes += g.Duration
		}
	}
	return info
}
