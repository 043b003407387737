package reconcile

import (
	"context"
	"fmt"

	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/timeutil"
)

// DeletePair removes both events of the given logical pair, renumbers the
// surviving events and recomputes the day record from them. Deleting the
// last pair of a date removes the day record entirely.
func (c *Controller) DeletePair(ctx context.Context, date string, pairID int) error {
	if _, err := timeutil.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}

	return c.store.WithTx(ctx, func(tx TxStore) error {
		events, err := tx.EventsByDate(ctx, date)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("%w: %s", ErrNoEventsForDate, date)
		}

		var ids []int64
		for _, pe := range AssignPairs(events) {
			if pe.Pair == pairID {
				ids = append(ids, pe.Event.ID)
			}
		}
		if len(ids) == 0 {
			return &PairIndexError{Date: date, Pair: pairID}
		}

		for _, id := range ids {
			if err := tx.DeleteEvent(ctx, id); err != nil {
				return err
			}
		}

		if err := c.recomputeAfterDelete(ctx, tx, date); err != nil {
			return err
		}
		c.log.Info().Str("date", date).Int("pair", pairID).Int("events", len(ids)).Msg("deleted pair")
		return tx.AppendLog(ctx, "del", "events",
			fmt.Sprintf("date=%s pair=%d deleted=%d", date, pairID, len(ids)))
	})
}

// DeleteDay removes every event of a date along with its day record.
func (c *Controller) DeleteDay(ctx context.Context, date string) error {
	if _, err := timeutil.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}

	return c.store.WithTx(ctx, func(tx TxStore) error {
		events, err := tx.EventsByDate(ctx, date)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("%w: %s", ErrNoEventsForDate, date)
		}
		if err := tx.DeleteEventsByDate(ctx, date); err != nil {
			return err
		}
		if err := tx.DeleteDayRecord(ctx, date); err != nil {
			return err
		}
		c.log.Info().Str("date", date).Int("events", len(events)).Msg("deleted day")
		return tx.AppendLog(ctx, "del", "events",
			fmt.Sprintf("date=%s deleted=%d", date, len(events)))
	})
}

// recomputeAfterDelete renumbers surviving events with the lenient
// assignment (strict alternation could reject a legitimate deletion
// leaving an orphan out, and surviving data must stay listable) and
// rebuilds the day record: earliest in as start, latest event time as
// end, lunch from the latest surviving out, and the position only when
// the survivors share exactly one distinct location. A genuinely mixed
// day is left untouched rather than forced back to a stale single code.
func (c *Controller) recomputeAfterDelete(ctx context.Context, tx TxStore, date string) error {
	events, err := tx.EventsByDate(ctx, date)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return tx.DeleteDayRecord(ctx, date)
	}

	for _, pe := range AssignPairs(events) {
		if err := tx.SetEventPair(ctx, pe.Event.ID, pe.Pair); err != nil {
			return err
		}
	}

	rec, found, err := tx.DayRecord(ctx, date)
	if err != nil {
		return err
	}
	if !found {
		rec = model.DayRecord{Date: date}
	}

	rec.Start = earliestStart(events)
	rec.End = latestTime(events)
	if out := latestOut(events); out != nil {
		rec.Lunch = out.Lunch
	}

	distinct := make(map[model.Location]struct{}, 2)
	for _, ev := range events {
		distinct[ev.Location] = struct{}{}
	}
	if len(distinct) == 1 {
		for loc := range distinct {
			rec.Position = loc
		}
	}

	return tx.UpsertDayRecord(ctx, rec)
}

func latestTime(events []model.Event) string {
	var max string
	for _, ev := range events {
		if ev.Time > max {
			max = ev.Time
		}
	}
	return max
}
