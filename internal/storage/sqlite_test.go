package storage_test

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/reconcile"
	"github.com/umpire274/timelog/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	store, err := storage.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func punch(date, clock string, kind model.EventKind) model.Event {
	return model.NewEvent(date, clock, kind, model.Office, 0)
}

func TestInsertAndQueryEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	out := punch("2025-06-02", "17:00", model.KindOut)
	in := punch("2025-06-02", "09:00", model.KindIn)
	require.NoError(t, store.InsertEvent(ctx, &out))
	require.NoError(t, store.InsertEvent(ctx, &in))
	assert.NotZero(t, in.ID)
	assert.NotZero(t, out.ID)

	events, err := store.EventsByDate(ctx, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Ordered by time regardless of insertion order.
	assert.Equal(t, "09:00", events[0].Time)
	assert.Equal(t, "17:00", events[1].Time)
	assert.Equal(t, model.KindIn, events[0].Kind)
	assert.Equal(t, model.Office, events[0].Location)
	assert.Equal(t, "cli", events[0].Source)
}

func TestEventsByRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []string{"2025-05-30", "2025-06-02", "2025-06-15", "2025-07-01"} {
		e := punch(d, "09:00", model.KindIn)
		require.NoError(t, store.InsertEvent(ctx, &e))
	}

	events, err := store.EventsByRange(ctx, "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "2025-06-02", events[0].Date)
	assert.Equal(t, "2025-06-15", events[1].Date)

	all, err := store.AllEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := punch("2025-06-02", "09:00", model.KindIn)
	require.NoError(t, store.InsertEvent(ctx, &e))

	e.Time = "09:15"
	e.Lunch = 30
	require.NoError(t, store.UpdateEvent(ctx, e))

	events, err := store.EventsByDate(ctx, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "09:15", events[0].Time)
	assert.Equal(t, 30, events[0].Lunch)

	require.NoError(t, store.DeleteEvent(ctx, e.ID))
	events, err = store.EventsByDate(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSetEventPairAndLunch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := punch("2025-06-02", "09:00", model.KindIn)
	require.NoError(t, store.InsertEvent(ctx, &e))

	require.NoError(t, store.SetEventPair(ctx, e.ID, 3))
	require.NoError(t, store.SetEventLunch(ctx, e.ID, 45))

	events, err := store.EventsByDate(ctx, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].Pair)
	assert.Equal(t, 45, events[0].Lunch)
}

func TestDayRecordUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, found, err := store.DayRecord(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.False(t, found)

	rec := model.DayRecord{
		Date:     "2025-06-02",
		Position: model.Remote,
		Start:    "09:00",
		End:      "17:00",
		Lunch:    30,
	}
	require.NoError(t, store.UpsertDayRecord(ctx, rec))

	got, found, err := store.DayRecord(ctx, "2025-06-02")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec, got)

	rec.End = "18:00"
	require.NoError(t, store.UpsertDayRecord(ctx, rec))
	got, _, err = store.DayRecord(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "18:00", got.End)

	require.NoError(t, store.DeleteDayRecord(ctx, "2025-06-02"))
	_, found, err = store.DayRecord(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendLog(ctx, "add", "events", "date=2025-06-02 in=09:00"))
	require.NoError(t, store.AppendLog(ctx, "del", "events", "date=2025-06-02 pair=1"))

	entries, err := store.OpLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "add", entries[0].Operation)
	assert.Equal(t, "del", entries[1].Operation)
	assert.NotEmpty(t, entries[0].At)
}

func TestWithTxCommits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx reconcile.TxStore) error {
		e := punch("2025-06-02", "09:00", model.KindIn)
		return tx.InsertEvent(ctx, &e)
	})
	require.NoError(t, err)

	events, err := store.EventsByDate(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx reconcile.TxStore) error {
		e := punch("2025-06-02", "09:00", model.KindIn)
		if err := tx.InsertEvent(ctx, &e); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	events, err := store.EventsByDate(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "timelog.sqlite")

	store, err := storage.Open(dbPath, zerolog.Nop())
	require.NoError(t, err)
	e := punch("2025-06-02", "09:00", model.KindIn)
	require.NoError(t, store.InsertEvent(context.Background(), &e))
	require.NoError(t, store.Close())

	plain := filepath.Join(dir, "backup.sqlite")
	require.NoError(t, storage.Backup(dbPath, plain, false))

	src, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	dst, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, src, dst)

	zipped := filepath.Join(dir, "backup.sqlite.gz")
	require.NoError(t, storage.Backup(dbPath, zipped, true))

	f, err := os.Open(zipped)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	unzipped, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, src, unzipped)
}
