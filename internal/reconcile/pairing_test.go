package reconcile_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/reconcile"
)

func ev(id int64, date, clock string, kind model.EventKind) model.Event {
	return model.Event{
		ID:       id,
		Date:     date,
		Time:     clock,
		Kind:     kind,
		Location: model.Office,
	}
}

func TestAssignPairsFIFOClosesOldestIn(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-02", "10:00", model.KindIn),
		ev(3, "2025-06-02", "11:00", model.KindOut),
	}

	got := reconcile.AssignPairs(events)
	require.Len(t, got, 3)

	// The out at 11:00 closes the 09:00 in; the 10:00 in stays open.
	assert.Equal(t, 1, got[0].Pair)
	assert.False(t, got[0].Unmatched)
	assert.Equal(t, 2, got[1].Pair)
	assert.True(t, got[1].Unmatched)
	assert.Equal(t, 1, got[2].Pair)
	assert.False(t, got[2].Unmatched)
}

func TestAssignPairsOrphanOutGetsFreshPair(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "08:00", model.KindOut),
		ev(2, "2025-06-02", "09:00", model.KindIn),
		ev(3, "2025-06-02", "17:00", model.KindOut),
	}

	got := reconcile.AssignPairs(events)
	require.Len(t, got, 3)

	assert.Equal(t, 1, got[0].Pair)
	assert.True(t, got[0].Unmatched)
	assert.Equal(t, 2, got[1].Pair)
	assert.False(t, got[1].Unmatched)
	assert.Equal(t, 2, got[2].Pair)
	assert.False(t, got[2].Unmatched)
}

func TestAssignPairsResetsAcrossDates(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-02", "17:00", model.KindOut),
		ev(3, "2025-06-03", "09:00", model.KindIn),
		ev(4, "2025-06-03", "17:00", model.KindOut),
	}

	got := reconcile.AssignPairs(events)
	require.Len(t, got, 4)
	assert.Equal(t, 1, got[0].Pair)
	assert.Equal(t, 1, got[2].Pair)

	// An in left open on one date never leaks into the next.
	open := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-03", "17:00", model.KindOut),
	}
	got = reconcile.AssignPairs(open)
	require.Len(t, got, 2)
	assert.True(t, got[0].Unmatched)
	assert.True(t, got[1].Unmatched)
	assert.Equal(t, 1, got[1].Pair)
}

func TestAssignPairsDeterministicUnderShuffle(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-02", "12:30", model.KindOut),
		ev(3, "2025-06-02", "13:30", model.KindIn),
		ev(4, "2025-06-02", "18:00", model.KindOut),
		ev(5, "2025-06-03", "08:45", model.KindIn),
	}

	want := reconcile.AssignPairs(events)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.Event, len(events))
		copy(shuffled, events)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, reconcile.AssignPairs(shuffled))
	}
}

func TestLogicalPairsGroupsByPairNumber(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-02", "12:30", model.KindOut),
		ev(3, "2025-06-02", "13:30", model.KindIn),
	}

	pairs := reconcile.LogicalPairs(events)
	require.Len(t, pairs, 2)
	require.NotNil(t, pairs[0].In)
	require.NotNil(t, pairs[0].Out)
	assert.Equal(t, "09:00", pairs[0].In.Time)
	assert.Equal(t, "12:30", pairs[0].Out.Time)
	require.NotNil(t, pairs[1].In)
	assert.Nil(t, pairs[1].Out)
}

func TestStrictPairsAcceptsAlternation(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-02", "12:30", model.KindOut),
		ev(3, "2025-06-02", "13:30", model.KindIn),
		ev(4, "2025-06-02", "18:00", model.KindOut),
	}

	assign, err := reconcile.StrictPairs("2025-06-02", events)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 2, 4: 2}, assign)
}

func TestStrictPairsAllowsTrailingOpenIn(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-02", "12:30", model.KindOut),
		ev(3, "2025-06-02", "13:30", model.KindIn),
	}

	assign, err := reconcile.StrictPairs("2025-06-02", events)
	require.NoError(t, err)
	assert.Equal(t, 2, assign[3])
}

func TestStrictPairsRejectsDoubleIn(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "09:00", model.KindIn),
		ev(2, "2025-06-02", "10:00", model.KindIn),
	}

	_, err := reconcile.StrictPairs("2025-06-02", events)
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrInvalidTime)

	var seqErr *reconcile.PairSequenceError
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, "10:00", seqErr.Time)
}

func TestStrictPairsRejectsOrphanOut(t *testing.T) {
	events := []model.Event{
		ev(1, "2025-06-02", "08:00", model.KindOut),
	}

	_, err := reconcile.StrictPairs("2025-06-02", events)
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrInvalidTime)
}
