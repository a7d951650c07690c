package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() hclog.Logger { return hclog.NewNullLogger() }

func TestDayKey(t *testing.T) {
	ts := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-29", DayKey(ts))
}

func TestOpenMissingIsEmpty(t *testing.T) {
	s := Open(t.TempDir(), "2026-08-29", testLog())
	assert.Nil(t, s.Get(KeyCommitted))
	assert.Empty(t, s.Submissions())
}

func TestPutGetRoundtrip(t *testing.T) {
	dir := t.TempDir()
	day := "2026-08-29"

	s := Open(dir, day, testLog())
	require.NoError(t, s.Put(KeyCommitted, []string{"f1", "f2"}))
	require.NoError(t, s.Put(KeyCompletedLabels, []string{"INV-3"}))

	// Reopen and read back.
	s2 := Open(dir, day, testLog())
	assert.Equal(t, []string{"f1", "f2"}, s2.Get(KeyCommitted))
	assert.Equal(t, []string{"INV-3"}, s2.Get(KeyCompletedLabels))
}

func TestPutReplacesWholesale(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir, "2026-08-29", testLog())
	require.NoError(t, s.Put(KeyCommitted, []string{"f1", "f2"}))
	require.NoError(t, s.Put(KeyCommitted, []string{"f3"}))

	s2 := Open(dir, "2026-08-29", testLog())
	assert.Equal(t, []string{"f3"}, s2.Get(KeyCommitted))
}

func TestDaysIsolated(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir, "2026-08-28", testLog())
	require.NoError(t, s.Put(KeyCommitted, []string{"f1"}))

	next := Open(dir, "2026-08-29", testLog())
	assert.Nil(t, next.Get(KeyCommitted))
}

func TestAppendSubmission(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir, "2026-08-29", testLog())

	sub1, err := s.AppendSubmission([]string{"f1", "f2"})
	require.NoError(t, err)
	assert.NotEmpty(t, sub1.ID)
	assert.False(t, sub1.At.IsZero())

	sub2, err := s.AppendSubmission([]string{"f3"})
	require.NoError(t, err)
	assert.NotEqual(t, sub1.ID, sub2.ID)

	s2 := Open(dir, "2026-08-29", testLog())
	subs := s2.Submissions()
	require.Len(t, subs, 2)
	assert.Equal(t, sub1.ID, subs[0].ID)
	assert.Equal(t, []string{"f1", "f2"}, subs[0].FeatureIDs)
	assert.Equal(t, []string{"f3"}, subs[1].FeatureIDs)
}

func TestOpenCorruptIsEmpty(t *testing.T) {
	dir := t.TempDir()
	day := "2026-08-29"
	require.NoError(t, os.WriteFile(filepath.Join(dir, day+".json.zst"), []byte("not zstd at all"), 0o644))

	s := Open(dir, day, testLog())
	assert.Nil(t, s.Get(KeyCommitted))

	// The corrupt file is recoverable territory: a write replaces it.
	require.NoError(t, s.Put(KeyCommitted, []string{"f1"}))
	s2 := Open(dir, day, testLog())
	assert.Equal(t, []string{"f1"}, s2.Get(KeyCommitted))
}

func TestFlushLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir, "2026-08-29", testLog())
	require.NoError(t, s.Put(KeyCommitted, []string{"f1"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-08-29.json.zst", entries[0].Name())
}

func TestPutCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := Open(dir, "2026-08-29", testLog())
	require.NoError(t, s.Put(KeyCommitted, []string{"f1"}))
	assert.Equal(t, []string{"f1"}, Open(dir, "2026-08-29", testLog()).Get(KeyCommitted))
}
