// Package export writes recorded events to CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/umpire274/timelog/internal/model"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv", "":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or json)", s)
	}
}

// Record is the flat per-event shape written to export files.
type Record struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Kind     string `json:"kind"`
	Position string `json:"position"`
	Lunch    int    `json:"lunch_break"`
	Pair     int    `json:"pair"`
	Source   string `json:"source"`
}

func toRecord(ev model.Event) Record {
	return Record{
		ID:       ev.ID,
		Date:     ev.Date,
		Time:     ev.Time,
		Kind:     string(ev.Kind),
		Position: string(ev.Location),
		Lunch:    ev.Lunch,
		Pair:     ev.Pair,
		Source:   ev.Source,
	}
}

// Write encodes events in the given format into path. The file is
// created or truncated; callers handle overwrite confirmation.
func Write(path string, format Format, events []model.Event) error {
	records := make([]Record, 0, len(events))
	for _, ev := range events {
		records = append(records, toRecord(ev))
	}

	switch format {
	case FormatCSV:
		return writeCSV(path, records)
	case FormatJSON:
		return writeJSON(path, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "date", "time", "kind", "position", "lunch_break", "pair", "source"}); err != nil {
		f.Close()
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Date,
			r.Time,
			r.Kind,
			r.Position,
			strconv.Itoa(r.Lunch),
			strconv.Itoa(r.Pair),
			r.Source,
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing csv: %w", err)
	}
	return f.Close()
}

func writeJSON(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		f.Close()
		return fmt.Errorf("encoding json: %w", err)
	}
	return f.Close()
}
