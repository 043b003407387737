package reconcile

import (
	"strconv"
	"strings"

	"github.com/umpire274/timelog/internal/config"
	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/timeutil"
)

const defaultWorkMinutes = 8 * 60

// ParseWorkDuration converts the configured daily quota to minutes.
// Supported forms: "8h", "7h 36m", "HH:MM", and a bare integer read as
// hours. Anything unparseable falls back to eight hours: a malformed
// config must never block time entry.
func ParseWorkDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultWorkMinutes
	}

	if hPos := strings.IndexByte(s, 'h'); hPos >= 0 {
		hours, err := strconv.Atoi(strings.TrimSpace(s[:hPos]))
		if err != nil {
			hours = 8
		}
		minutes := 0
		rest := strings.TrimSpace(s[hPos+1:])
		if mPos := strings.IndexByte(rest, 'm'); mPos >= 0 {
			rest = strings.TrimSpace(rest[:mPos])
		}
		if rest != "" {
			if m, err := strconv.Atoi(rest); err == nil {
				minutes = m
			}
		}
		return hours*60 + minutes
	}

	if before, after, ok := strings.Cut(s, ":"); ok {
		hours, err := strconv.Atoi(strings.TrimSpace(before))
		if err != nil {
			hours = 8
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(after))
		if err != nil {
			minutes = 0
		}
		return hours*60 + minutes
	}

	if hours, err := strconv.Atoi(s); err == nil {
		return hours * 60
	}

	return defaultWorkMinutes
}

// EffectiveLunch resolves the break credited to a day. The explicit value
// comes from the first pair; when it is zero and the first in punch falls
// at or before the end of the lunch window, the working day will cross
// lunch and the configured minimum break applies.
func EffectiveLunch(t model.Timeline, cfg config.Config) int {
	if len(t.Pairs) == 0 {
		return 0
	}
	if lunch := t.Pairs[0].Lunch; lunch > 0 {
		return lunch
	}
	firstIn, err := timeutil.ParseClock(t.Pairs[0].In.Time)
	if err != nil {
		return 0
	}
	if firstIn <= cfg.LunchWindowEnd() {
		return cfg.MinLunch
	}
	return 0
}

// ComputeExpectedSurplus derives the day's quota numbers from a timeline.
// Expected is the configured work duration plus the effective lunch;
// surplus is the summed pair durations minus expected. A day with no
// pairs yields (0, 0). There are no failure modes: every input is
// defaulted so a listing can never be blocked.
func ComputeExpectedSurplus(t model.Timeline, cfg config.Config) (expected, surplus int) {
	if len(t.Pairs) == 0 {
		return 0, 0
	}
	expected = ParseWorkDuration(cfg.WorkDuration) + EffectiveLunch(t, cfg)
	surplus = t.TotalWorked - expected
	return expected, surplus
}

// ExpectedExit computes the clock time (and date, for shifts crossing
// midnight) at which the quota plus lunch is satisfied.
func ExpectedExit(date, firstIn string, workMinutes, lunchMinutes int) (exitDate, exitTime string) {
	start, err := timeutil.ParseClock(firstIn)
	if err != nil {
		start = 0
	}
	total := start + workMinutes + lunchMinutes

	exitTime = timeutil.Clock(total)
	exitDate = date
	if days := total / (24 * 60); days > 0 {
		if d, err := timeutil.ParseDate(date); err == nil {
			exitDate = d.AddDate(0, 0, days).Format(timeutil.DateLayout)
		}
	}
	return exitDate, exitTime
}

// BuildDaySummary assembles the full presentation view for one day.
func BuildDaySummary(events []model.Event, cfg config.Config) model.DaySummary {
	t := BuildTimeline(events)
	expected, surplus := ComputeExpectedSurplus(t, cfg)
	return model.DaySummary{
		Timeline: t,
		Gaps:     AnalyzeGaps(t),
		Expected: expected,
		Surplus:  surplus,
	}
}
