package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umpire274/timelog/internal/timeutil"
)

func TestResolveDate(t *testing.T) {
	got, err := resolveDate("2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", got)

	got, err = resolveDate("today")
	require.NoError(t, err)
	assert.Equal(t, timeutil.Today(), got)

	_, err = resolveDate("02/06/2025")
	assert.Error(t, err)
}

func TestEnsureWritable(t *testing.T) {
	dir := t.TempDir()

	// Missing file is always writable.
	assert.NoError(t, ensureWritable(filepath.Join(dir, "new.csv"), false))

	existing := filepath.Join(dir, "existing.csv")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o600))

	// Force skips the prompt entirely.
	assert.NoError(t, ensureWritable(existing, true))
}
