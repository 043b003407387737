package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/umpire274/timelog/internal/model"
)

const eventColumns = "id, date, time, kind, position, lunch_break, work_gap, pair, source, meta, created_at"

func scanEvent(rows *sql.Rows) (model.Event, error) {
	var (
		ev      model.Event
		kind    string
		loc     string
		workGap int
	)
	if err := rows.Scan(&ev.ID, &ev.Date, &ev.Time, &kind, &loc, &ev.Lunch,
		&workGap, &ev.Pair, &ev.Source, &ev.Meta, &ev.CreatedAt); err != nil {
		return model.Event{}, err
	}
	k, ok := model.ParseEventKind(kind)
	if !ok {
		return model.Event{}, fmt.Errorf("invalid event kind %q for event %d", kind, ev.ID)
	}
	l, ok := model.ParseLocation(loc)
	if !ok {
		return model.Event{}, fmt.Errorf("invalid position %q for event %d", loc, ev.ID)
	}
	ev.Kind = k
	ev.Location = l
	ev.WorkGap = workGap == 1
	return ev, nil
}

func queryEvents(ctx context.Context, q querier, query string, args ...any) ([]model.Event, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func eventsByDate(ctx context.Context, q querier, date string) ([]model.Event, error) {
	return queryEvents(ctx, q,
		"SELECT "+eventColumns+" FROM events WHERE date = ? ORDER BY time ASC, id ASC", date)
}

func insertEvent(ctx context.Context, q querier, ev *model.Event) error {
	res, err := q.ExecContext(ctx,
		`INSERT INTO events (date, time, kind, position, lunch_break, work_gap, pair, source, meta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Date, ev.Time, string(ev.Kind), string(ev.Location), ev.Lunch,
		boolToInt(ev.WorkGap), ev.Pair, ev.Source, ev.Meta, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted event id: %w", err)
	}
	ev.ID = id
	return nil
}

func updateEvent(ctx context.Context, q querier, ev model.Event) error {
	_, err := q.ExecContext(ctx,
		`UPDATE events
		 SET date = ?, time = ?, kind = ?, position = ?, lunch_break = ?,
		     work_gap = ?, pair = ?, source = ?, meta = ?, created_at = ?
		 WHERE id = ?`,
		ev.Date, ev.Time, string(ev.Kind), string(ev.Location), ev.Lunch,
		boolToInt(ev.WorkGap), ev.Pair, ev.Source, ev.Meta, ev.CreatedAt, ev.ID)
	if err != nil {
		return fmt.Errorf("updating event %d: %w", ev.ID, err)
	}
	return nil
}

func deleteEvent(ctx context.Context, q querier, id int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting event %d: %w", id, err)
	}
	return nil
}

func deleteEventsByDate(ctx context.Context, q querier, date string) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM events WHERE date = ?", date); err != nil {
		return fmt.Errorf("deleting events of %s: %w", date, err)
	}
	return nil
}

func setEventPair(ctx context.Context, q querier, id int64, pair int) error {
	if _, err := q.ExecContext(ctx, "UPDATE events SET pair = ? WHERE id = ?", pair, id); err != nil {
		return fmt.Errorf("setting pair on event %d: %w", id, err)
	}
	return nil
}

func setEventLunch(ctx context.Context, q querier, id int64, lunch int) error {
	if _, err := q.ExecContext(ctx, "UPDATE events SET lunch_break = ? WHERE id = ?", lunch, id); err != nil {
		return fmt.Errorf("setting lunch on event %d: %w", id, err)
	}
	return nil
}

func dayRecord(ctx context.Context, q querier, date string) (model.DayRecord, bool, error) {
	var (
		rec model.DayRecord
		loc string
	)
	err := q.QueryRowContext(ctx,
		"SELECT date, position, start_time, end_time, lunch_break FROM day_records WHERE date = ?",
		date).Scan(&rec.Date, &loc, &rec.Start, &rec.End, &rec.Lunch)
	if err == sql.ErrNoRows {
		return model.DayRecord{}, false, nil
	}
	if err != nil {
		return model.DayRecord{}, false, fmt.Errorf("loading day record %s: %w", date, err)
	}
	if l, ok := model.ParseLocation(loc); ok {
		rec.Position = l
	}
	return rec, true, nil
}

func upsertDayRecord(ctx context.Context, q querier, rec model.DayRecord) error {
	pos := string(rec.Position)
	if pos == "" {
		pos = "O"
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO day_records (date, position, start_time, end_time, lunch_break)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		     position = excluded.position,
		     start_time = excluded.start_time,
		     end_time = excluded.end_time,
		     lunch_break = excluded.lunch_break`,
		rec.Date, pos, rec.Start, rec.End, rec.Lunch)
	if err != nil {
		return fmt.Errorf("upserting day record %s: %w", rec.Date, err)
	}
	return nil
}

func deleteDayRecord(ctx context.Context, q querier, date string) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM day_records WHERE date = ?", date); err != nil {
		return fmt.Errorf("deleting day record %s: %w", date, err)
	}
	return nil
}

func appendLog(ctx context.Context, q querier, operation, target, message string) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO oplog (at, operation, target, message) VALUES (?, ?, ?, ?)",
		time.Now().Format(time.RFC3339), operation, target, message)
	if err != nil {
		return fmt.Errorf("appending oplog: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Store methods (auto-commit, used by read paths and single-step writes).

func (s *Store) EventsByDate(ctx context.Context, date string) ([]model.Event, error) {
	return eventsByDate(ctx, s.db, date)
}

// EventsByRange loads events with date in [from, to], ordered by date and
// time, for listing and export.
func (s *Store) EventsByRange(ctx context.Context, from, to string) ([]model.Event, error) {
	return queryEvents(ctx, s.db,
		"SELECT "+eventColumns+" FROM events WHERE date BETWEEN ? AND ? ORDER BY date ASC, time ASC, id ASC",
		from, to)
}

// AllEvents loads every event, ordered by date and time.
func (s *Store) AllEvents(ctx context.Context) ([]model.Event, error) {
	return queryEvents(ctx, s.db,
		"SELECT "+eventColumns+" FROM events ORDER BY date ASC, time ASC, id ASC")
}

func (s *Store) InsertEvent(ctx context.Context, ev *model.Event) error {
	return insertEvent(ctx, s.db, ev)
}

func (s *Store) UpdateEvent(ctx context.Context, ev model.Event) error {
	return updateEvent(ctx, s.db, ev)
}

func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	return deleteEvent(ctx, s.db, id)
}

func (s *Store) DeleteEventsByDate(ctx context.Context, date string) error {
	return deleteEventsByDate(ctx, s.db, date)
}

func (s *Store) SetEventPair(ctx context.Context, id int64, pair int) error {
	return setEventPair(ctx, s.db, id, pair)
}

func (s *Store) SetEventLunch(ctx context.Context, id int64, lunch int) error {
	return setEventLunch(ctx, s.db, id, lunch)
}

func (s *Store) DayRecord(ctx context.Context, date string) (model.DayRecord, bool, error) {
	return dayRecord(ctx, s.db, date)
}

func (s *Store) UpsertDayRecord(ctx context.Context, rec model.DayRecord) error {
	return upsertDayRecord(ctx, s.db, rec)
}

func (s *Store) DeleteDayRecord(ctx context.Context, date string) error {
	return deleteDayRecord(ctx, s.db, date)
}

func (s *Store) AppendLog(ctx context.Context, operation, target, message string) error {
	return appendLog(ctx, s.db, operation, target, message)
}

// OpEntry is one row of the operation log.
type OpEntry struct {
	ID        int64
	At        string
	Operation string
	Target    string
	Message   string
}

// OpLog returns the operation log, oldest first.
func (s *Store) OpLog(ctx context.Context) ([]OpEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, at, operation, target, message FROM oplog ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying oplog: %w", err)
	}
	defer rows.Close()

	var entries []OpEntry
	for rows.Next() {
		var e OpEntry
		if err := rows.Scan(&e.ID, &e.At, &e.Operation, &e.Target, &e.Message); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// txStore methods (same operations against the open transaction).

func (t *txStore) EventsByDate(ctx context.Context, date string) ([]model.Event, error) {
	return eventsByDate(ctx, t.q, date)
}

func (t *txStore) InsertEvent(ctx context.Context, ev *model.Event) error {
	return insertEvent(ctx, t.q, ev)
}

func (t *txStore) UpdateEvent(ctx context.Context, ev model.Event) error {
	return updateEvent(ctx, t.q, ev)
}

func (t *txStore) DeleteEvent(ctx context.Context, id int64) error {
	return deleteEvent(ctx, t.q, id)
}

func (t *txStore) DeleteEventsByDate(ctx context.Context, date string) error {
	return deleteEventsByDate(ctx, t.q, date)
}

func (t *txStore) SetEventPair(ctx context.Context, id int64, pair int) error {
	return setEventPair(ctx, t.q, id, pair)
}

func (t *txStore) SetEventLunch(ctx context.Context, id int64, lunch int) error {
	return setEventLunch(ctx, t.q, id, lunch)
}

func (t *txStore) DayRecord(ctx context.Context, date string) (model.DayRecord, bool, error) {
	return dayRecord(ctx, t.q, date)
}

func (t *txStore) UpsertDayRecord(ctx context.Context, rec model.DayRecord) error {
	return upsertDayRecord(ctx, t.q, rec)
}

func (t *txStore) DeleteDayRecord(ctx context.Context, date string) error {
	return deleteDayRecord(ctx, t.q, date)
}

func (t *txStore) AppendLog(ctx context.Context, operation, target, message string) error {
	return appendLog(ctx, t.q, operation, target, message)
}
