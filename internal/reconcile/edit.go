package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/timeutil"
)

// PairPatch carries the fields of an edit; nil means the caller did not
// supply the value, and omitted fields are never overwritten.
type PairPatch struct {
	Position *model.Location
	Start    *string // HH:MM
	End      *string // HH:MM
	Lunch    *int    // minutes
}

func (p PairPatch) empty() bool {
	return p.Position == nil && p.Start == nil && p.End == nil && p.Lunch == nil
}

// EditPair applies a patch to the Nth logical pair (1-based) of a date.
// The pair is located through the lenient assignment, so stale persisted
// pair numbers cannot misroute the edit. A time supplied for a side that
// has no event yet synthesizes the missing in or out. After persisting,
// pair numbers are recomputed under strict alternation and the day
// aggregate is re-derived; any violation rolls the whole edit back.
func (c *Controller) EditPair(ctx context.Context, date string, pairID int, patch PairPatch) error {
	if _, err := timeutil.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	if patch.empty() {
		return fmt.Errorf("%w: no fields to edit, use --pos/--in/--out/--lunch", ErrInvalidTime)
	}
	if err := c.validatePatch(patch); err != nil {
		return err
	}

	return c.store.WithTx(ctx, func(tx TxStore) error {
		events, err := tx.EventsByDate(ctx, date)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("%w: %s", ErrNoEventsForDate, date)
		}

		pairs := LogicalPairs(events)
		if pairID < 1 || pairID > len(pairs) {
			return &PairIndexError{Date: date, Pair: pairID}
		}
		lp := pairs[pairID-1]

		var in, out *model.Event
		if lp.In != nil {
			cp := *lp.In
			in = &cp
		}
		if lp.Out != nil {
			cp := *lp.Out
			out = &cp
		}

		var changes []string

		if patch.Position != nil {
			if in != nil {
				in.Location = *patch.Position
			}
			if out != nil {
				out.Location = *patch.Position
			}
			changes = append(changes, fmt.Sprintf("pos=%s", *patch.Position))
		}

		if patch.Start != nil {
			if in != nil {
				in.Time = *patch.Start
			} else {
				ev := model.NewEvent(date, *patch.Start, model.KindIn, c.patchLocation(patch, out), 0)
				in = &ev
			}
			changes = append(changes, fmt.Sprintf("start=%s", *patch.Start))
		}

		if patch.End != nil {
			if out != nil {
				out.Time = *patch.End
			} else {
				ev := model.NewEvent(date, *patch.End, model.KindOut, c.patchLocation(patch, in), 0)
				out = &ev
			}
			changes = append(changes, fmt.Sprintf("end=%s", *patch.End))
		}

		if in != nil && out != nil && out.Time <= in.Time {
			return fmt.Errorf("%w: out %s must be later than in %s", ErrInvalidTime, out.Time, in.Time)
		}

		if patch.Lunch != nil {
			switch {
			case out != nil:
				out.Lunch = *patch.Lunch
			case in != nil:
				in.Lunch = *patch.Lunch
			}
			changes = append(changes, fmt.Sprintf("lunch=%d", *patch.Lunch))
		}

		if err := persistEvent(ctx, tx, in); err != nil {
			return err
		}
		if err := persistEvent(ctx, tx, out); err != nil {
			return err
		}

		if err := c.finishMutation(ctx, tx, date); err != nil {
			return err
		}
		c.log.Info().Str("date", date).Int("pair", pairID).Msg("edited pair")
		return tx.AppendLog(ctx, "edit", "events",
			fmt.Sprintf("date=%s pair=%d | %s", date, pairID, strings.Join(changes, ", ")))
	})
}

func (c *Controller) validatePatch(patch PairPatch) error {
	if patch.Position != nil && *patch.Position == model.Mixed {
		return fmt.Errorf("%w: M is not valid for an event", ErrInvalidPosition)
	}
	if patch.Start != nil {
		if _, err := timeutil.ParseClock(*patch.Start); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTime, *patch.Start)
		}
	}
	if patch.End != nil {
		if _, err := timeutil.ParseClock(*patch.End); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTime, *patch.End)
		}
	}
	if patch.Start != nil && patch.End != nil && *patch.End <= *patch.Start {
		return fmt.Errorf("%w: out %s must be later than in %s", ErrInvalidTime, *patch.End, *patch.Start)
	}
	if patch.Lunch != nil && (*patch.Lunch < 0 || *patch.Lunch > c.cfg.MaxLunch) {
		return fmt.Errorf("%w: lunch %d outside 0..%d", ErrInvalidTime, *patch.Lunch, c.cfg.MaxLunch)
	}
	return nil
}

// patchLocation picks the location for a synthesized event: the patched
// position, then the counterpart's location, then the configured default.
func (c *Controller) patchLocation(patch PairPatch, counterpart *model.Event) model.Location {
	if patch.Position != nil {
		return *patch.Position
	}
	if counterpart != nil {
		return counterpart.Location
	}
	if loc, ok := model.ParseLocation(c.cfg.DefaultPosition); ok {
		return loc
	}
	return model.Office
}

func persistEvent(ctx context.Context, tx TxStore, ev *model.Event) error {
	if ev == nil {
		return nil
	}
	if ev.ID == 0 {
		return tx.InsertEvent(ctx, ev)
	}
	return tx.UpdateEvent(ctx, *ev)
}
