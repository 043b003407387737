package reconcile

import (
	"errors"
	"fmt"

	"github.com/umpire274/timelog/internal/model"
)

// Sentinel errors for the reconciliation engine. Callers match them with
// errors.Is; structured variants below carry the offending values.
var (
	// ErrInvalidDate is returned for malformed calendar dates.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTime covers malformed clock times, non-monotonic in/out
	// ordering, and strict-mode pairing violations.
	ErrInvalidTime = errors.New("invalid time")

	// ErrInvalidPosition is returned for location codes outside O/R/H/C/M.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidPair is returned for an out-of-range pair index.
	ErrInvalidPair = errors.New("invalid pair")

	// ErrNoEventsForDate is returned when an operation needs at least one
	// existing event on the date.
	ErrNoEventsForDate = errors.New("no events for date")
)

// PairSequenceError reports a strict-mode pairing violation: an in punch
// while the previous pair is still open, or an out punch with no open in.
type PairSequenceError struct {
	Date string
	Time string
	Pair int
	Kind model.EventKind
}

func (e *PairSequenceError) Error() string {
	if e.Kind == model.KindIn {
		return fmt.Sprintf("invalid sequence on %s: found in at %s but pair %d has no out",
			e.Date, e.Time, e.Pair)
	}
	return fmt.Sprintf("invalid sequence on %s: found out at %s without matching in",
		e.Date, e.Time)
}

func (e *PairSequenceError) Unwrap() error { return ErrInvalidTime }

// PairIndexError reports a pair index with no matching logical pair.
type PairIndexError struct {
	Date string
	Pair int
}

func (e *PairIndexError) Error() string {
	return fmt.Sprintf("pair %d not found for date %s", e.Pair, e.Date)
}

func (e *PairIndexError) Unwrap() error { return ErrInvalidPair }
