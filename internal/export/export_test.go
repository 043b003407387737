package export_test

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umpire274/timelog/internal/export"
	"github.com/umpire274/timelog/internal/model"
)

func sampleEvents() []model.Event {
	return []model.Event{
		{
			ID: 1, Date: "2025-06-02", Time: "09:00", Kind: model.KindIn,
			Location: model.Office, Pair: 1, Source: "cli",
		},
		{
			ID: 2, Date: "2025-06-02", Time: "17:00", Kind: model.KindOut,
			Location: model.Office, Lunch: 30, Pair: 1, Source: "cli",
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)

	f, err = export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)

	f, err = export.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, export.FormatJSON, f)

	_, err = export.ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, export.Write(path, export.FormatCSV, sampleEvents()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "date", "time", "kind", "position", "lunch_break", "pair", "source"}, rows[0])
	assert.Equal(t, []string{"1", "2025-06-02", "09:00", "in", "O", "0", "1", "cli"}, rows[1])
	assert.Equal(t, []string{"2", "2025-06-02", "17:00", "out", "O", "30", "1", "cli"}, rows[2])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, export.Write(path, export.FormatJSON, sampleEvents()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []export.Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, "in", records[0].Kind)
	assert.Equal(t, 30, records[1].Lunch)
}
