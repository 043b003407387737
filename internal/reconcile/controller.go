package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/umpire274/timelog/internal/config"
	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/timeutil"
)

// TxStore is the slice of the event store a mutation needs. All methods
// run against the transaction that WithTx opened.
type TxStore interface {
	EventsByDate(ctx context.Context, date string) ([]model.Event, error)
	InsertEvent(ctx context.Context, ev *model.Event) error
	UpdateEvent(ctx context.Context, ev model.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	DeleteEventsByDate(ctx context.Context, date string) error
	SetEventPair(ctx context.Context, id int64, pair int) error
	SetEventLunch(ctx context.Context, id int64, lunch int) error
	DayRecord(ctx context.Context, date string) (model.DayRecord, bool, error)
	UpsertDayRecord(ctx context.Context, rec model.DayRecord) error
	DeleteDayRecord(ctx context.Context, date string) error
	AppendLog(ctx context.Context, operation, target, message string) error
}

// Store adds transaction scoping on top of TxStore. Mutations always run
// inside WithTx so a crash or concurrent process never observes an event
// set with stale pair values.
type Store interface {
	TxStore
	WithTx(ctx context.Context, fn func(tx TxStore) error) error
}

// Controller orchestrates inserts, edits and deletions of pairs,
// re-running pair assignment for the affected date inside a transaction
// and re-deriving the day-level aggregate.
type Controller struct {
	store Store
	cfg   config.Config
	log   zerolog.Logger
}

// NewController returns a Controller bound to a store and configuration.
func NewController(store Store, cfg config.Config, log zerolog.Logger) *Controller {
	return &Controller{store: store, cfg: cfg, log: log}
}

// AddInput carries the optional fields of an add operation; nil means the
// caller did not supply the value.
type AddInput struct {
	Start *string // HH:MM
	End   *string // HH:MM
	Lunch *int    // minutes
}

// Apply handles the add command for one date.
//
// Start only opens a new pair. End only closes the most recent in punch
// of the day, rejecting an out not later than that in. Start and end
// together create a fresh closed pair. Lunch alone updates the most
// recent event of the day and requires at least one existing event.
func (c *Controller) Apply(ctx context.Context, date string, loc model.Location, in AddInput) error {
	if _, err := timeutil.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	if loc == model.Mixed {
		// Mixed is a derived day-level code, never recordable on a punch.
		return fmt.Errorf("%w: M is not valid for an event", ErrInvalidPosition)
	}
	if err := c.validateInput(in); err != nil {
		return err
	}

	lunchVal := 0
	if in.Lunch != nil {
		lunchVal = *in.Lunch
	}

	return c.store.WithTx(ctx, func(tx TxStore) error {
		events, err := tx.EventsByDate(ctx, date)
		if err != nil {
			return err
		}

		switch {
		case in.Start == nil && in.End == nil && in.Lunch != nil:
			return c.applyLunchOnly(ctx, tx, date, events, lunchVal)

		case in.Start == nil && in.End == nil:
			return fmt.Errorf("%w: nothing to do, specify at least --in, --out or --lunch", ErrInvalidTime)

		case in.Start != nil && in.End == nil:
			ev := model.NewEvent(date, *in.Start, model.KindIn, loc, lunchVal)
			if err := tx.InsertEvent(ctx, &ev); err != nil {
				return err
			}
			if err := c.finishMutation(ctx, tx, date); err != nil {
				return err
			}
			c.log.Info().Str("date", date).Str("in", *in.Start).Msg("added in punch")
			return tx.AppendLog(ctx, "add", "events",
				fmt.Sprintf("date=%s in=%s pos=%s lunch=%d", date, *in.Start, loc, lunchVal))

		case in.Start == nil && in.End != nil:
			return c.applyCloseLast(ctx, tx, date, loc, events, *in.End, lunchVal)

		default: // both start and end
			if *in.End <= *in.Start {
				return fmt.Errorf("%w: out %s must be later than in %s", ErrInvalidTime, *in.End, *in.Start)
			}
			evIn := model.NewEvent(date, *in.Start, model.KindIn, loc, lunchVal)
			evOut := model.NewEvent(date, *in.End, model.KindOut, loc, 0)
			if err := tx.InsertEvent(ctx, &evIn); err != nil {
				return err
			}
			if err := tx.InsertEvent(ctx, &evOut); err != nil {
				return err
			}
			if err := c.finishMutation(ctx, tx, date); err != nil {
				return err
			}
			c.log.Info().Str("date", date).Str("in", *in.Start).Str("out", *in.End).Msg("added pair")
			return tx.AppendLog(ctx, "add", "events",
				fmt.Sprintf("date=%s in=%s out=%s pos=%s lunch=%d", date, *in.Start, *in.End, loc, lunchVal))
		}
	})
}

func (c *Controller) validateInput(in AddInput) error {
	if in.Start != nil {
		if _, err := timeutil.ParseClock(*in.Start); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTime, *in.Start)
		}
	}
	if in.End != nil {
		if _, err := timeutil.ParseClock(*in.End); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTime, *in.End)
		}
	}
	if in.Lunch != nil && (*in.Lunch < 0 || *in.Lunch > c.cfg.MaxLunch) {
		return fmt.Errorf("%w: lunch %d outside 0..%d", ErrInvalidTime, *in.Lunch, c.cfg.MaxLunch)
	}
	return nil
}

// applyLunchOnly updates the break on the most recent event of the day.
func (c *Controller) applyLunchOnly(ctx context.Context, tx TxStore, date string, events []model.Event, lunch int) error {
	if len(events) == 0 {
		return fmt.Errorf("%w: cannot set lunch on %s", ErrNoEventsForDate, date)
	}
	last := events[0]
	for _, ev := range events[1:] {
		if ev.Time >= last.Time {
			last = ev
		}
	}
	if err := tx.SetEventLunch(ctx, last.ID, lunch); err != nil {
		return err
	}
	if err := c.refreshDayRecord(ctx, tx, date); err != nil {
		return err
	}
	c.log.Info().Str("date", date).Int("lunch", lunch).Msg("updated lunch")
	return tx.AppendLog(ctx, "add", "events", fmt.Sprintf("date=%s lunch=%d", date, lunch))
}

// applyCloseLast inserts an out punch closing the latest open in.
func (c *Controller) applyCloseLast(ctx context.Context, tx TxStore, date string, loc model.Location, events []model.Event, end string, lunch int) error {
	var lastIn *model.Event
	for i := range events {
		if events[i].Kind != model.KindIn {
			continue
		}
		if lastIn == nil || events[i].Time >= lastIn.Time {
			lastIn = &events[i]
		}
	}
	if lastIn == nil {
		return fmt.Errorf("%w: cannot add out without a previous in on %s", ErrInvalidTime, date)
	}
	if end <= lastIn.Time {
		return fmt.Errorf("%w: out %s must be later than in %s", ErrInvalidTime, end, lastIn.Time)
	}

	ev := model.NewEvent(date, end, model.KindOut, loc, lunch)
	if err := tx.InsertEvent(ctx, &ev); err != nil {
		return err
	}
	if err := c.finishMutation(ctx, tx, date); err != nil {
		return err
	}
	c.log.Info().Str("date", date).Str("out", end).Msg("added out punch")
	return tx.AppendLog(ctx, "add", "events",
		fmt.Sprintf("date=%s out=%s pos=%s lunch=%d", date, end, loc, lunch))
}

// finishMutation is the write-path gatekeeper: strict pair recomputation
// for the whole date followed by the day-record refresh. Any violation
// aborts the transaction so the original state is preserved.
func (c *Controller) finishMutation(ctx context.Context, tx TxStore, date string) error {
	events, err := tx.EventsByDate(ctx, date)
	if err != nil {
		return err
	}
	assign, err := StrictPairs(date, events)
	if err != nil {
		return err
	}
	for id, pair := range assign {
		if err := tx.SetEventPair(ctx, id, pair); err != nil {
			return err
		}
	}
	return c.refreshDayRecord(ctx, tx, date)
}

// refreshDayRecord recomputes the denormalized day aggregate from the
// date's current events: earliest in as start (earliest event when no in
// exists), latest out as end, that out's lunch, and the aggregated
// position including Mixed.
func (c *Controller) refreshDayRecord(ctx context.Context, tx TxStore, date string) error {
	events, err := tx.EventsByDate(ctx, date)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return tx.DeleteDayRecord(ctx, date)
	}

	rec := model.DayRecord{Date: date}
	if loc, ok := AggregatePosition(events); ok {
		rec.Position = loc
	}
	rec.Start = earliestStart(events)
	if out := latestOut(events); out != nil {
		rec.End = out.Time
		rec.Lunch = out.Lunch
	}
	if rec.Lunch == 0 {
		// lunch may live on the in event depending on entry path
		for _, ev := range events {
			if ev.Lunch > 0 {
				rec.Lunch = ev.Lunch
				break
			}
		}
	}
	return tx.UpsertDayRecord(ctx, rec)
}

func earliestStart(events []model.Event) string {
	var min string
	for _, ev := range events {
		if ev.Kind != model.KindIn {
			continue
		}
		if min == "" || ev.Time < min {
			min = ev.Time
		}
	}
	if min == "" {
		for _, ev := range events {
			if min == "" || ev.Time < min {
				min = ev.Time
			}
		}
	}
	return min
}

func latestOut(events []model.Event) *model.Event {
	var out *model.Event
	for i := range events {
		if events[i].Kind != model.KindOut {
			continue
		}
		if out == nil || events[i].Time >= out.Time {
			out = &events[i]
		}
	}
	return out
}
