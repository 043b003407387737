package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/reconcile"
)

func evLunch(id int64, date, clock string, kind model.EventKind, lunch int) model.Event {
	e := ev(id, date, clock, kind)
	e.Lunch = lunch
	return e
}

func TestBuildTimelineClosedPair(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		evLunch(2, "2025-06-02", "17:30", model.KindOut, 30),
	}

	tl := reconcile.BuildTimeline(events)
	require.Len(t, tl.Pairs, 1)

	p := tl.Pairs[0]
	assert.False(t, p.Open())
	assert.Equal(t, 30, p.Lunch)
	assert.Equal(t, 480, p.Duration)
	assert.Equal(t, 480, tl.TotalWorked)
}

func TestBuildTimelineLunchOnInWins(t *testing.T) {
	events := []model.Event{
		evLunch(1, "2025-06-02", "09:00", model.KindIn, 45),
		evLunch(2, "2025-06-02", "17:00", model.KindOut, 30),
	}

	tl := reconcile.BuildTimeline(events)
	require.Len(t, tl.Pairs, 1)
	assert.Equal(t, 45, tl.Pairs[0].Lunch)
	assert.Equal(t, 8*60-45, tl.Pairs[0].Duration)
}

func TestBuildTimelineOpenPair(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
	}

	tl := reconcile.BuildTimeline(events)
	require.Len(t, tl.Pairs, 1)
	assert.True(t, tl.Pairs[0].Open())
	assert.Equal(t, 0, tl.Pairs[0].Duration)
	assert.Equal(t, 0, tl.TotalWorked)
}

func TestBuildTimelineDurationNeverNegative(t *testing.T) {
	// A lunch longer than the session floors the duration at zero.
	events := []model.Event{
		evLunch(1, "2025-06-02", "09:00", model.KindIn, 90),
		ev(2, "2025-06-02", "10:00", model.KindOut),
	}

	tl := reconcile.BuildTimeline(events)
	require.Len(t, tl.Pairs, 1)
	assert.Equal(t, 0, tl.Pairs[0].Duration)
	assert.Equal(t, 0, tl.TotalWorked)
}

func TestBuildTimelineGapsBetweenClosedPairs(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-02", "12:30", model.KindOut),
		ev(3, "2025-06-02", "13:30", model.KindIn),
		ev(4, "2025-06-02", "18:00", model.KindOut),
	}

	tl := reconcile.BuildTimeline(events)
	require.Len(t, tl.Pairs, 2)
	require.Len(t, tl.Gaps, 1)

	g := tl.Gaps[0]
	assert.Equal(t, "12:30", g.StartTime)
	assert.Equal(t, "13:30", g.EndTime)
	assert.Equal(t, 60, g.Duration)
	assert.Equal(t, 210+270, tl.TotalWorked)

	info := reconcile.AnalyzeGaps(tl)
	assert.Equal(t, 60, info.TotalGapMinutes)
	assert.Equal(t, 60, info.NonWorkGapMinutes)
	assert.Equal(t, 0, info.WorkGapMinutes)
}

func TestBuildTimelineEmpty(t *testing.T) {
	tl := reconcile.BuildTimeline(nil)
	assert.Empty(t, tl.Pairs)
	assert.Empty(t, tl.Gaps)
	assert.Equal(t, 0, tl.TotalWorked)
}
