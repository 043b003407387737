package storage

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// Backup copies the database file at src to dst. With compress set the
// destination is gzip-encoded. The source is checkpointed implicitly by
// SQLite's WAL autocheckpoint; callers should close the store before
// backing up to capture the latest state.
func Backup(src, dst string, compress bool) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating backup %s: %w", dst, err)
	}

	var w io.Writer = out
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(out)
		w = gz
	}

	if _, err := io.Copy(w, in); err != nil {
		out.Close()
		return fmt.Errorf("copying database: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			out.Close()
			return fmt.Errorf("finalizing compressed backup: %w", err)
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("finalizing backup %s: %w", dst, err)
	}
	return nil
}
