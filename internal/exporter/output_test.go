package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companyexport/internal/models"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.xlsx")

	require.NoError(t, WriteFile(path, []byte("data")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file left behind")
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteFile(path, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriteFile_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// A regular file cannot be used as a parent directory.
	path := filepath.Join(blocker, "out.xlsx")

	err := WriteFile(path, []byte("data"))
	require.ErrorIs(t, err, ErrOutputWrite)
	assert.Contains(t, err.Error(), path)

	_, statErr := os.Stat(path)
	assert.Error(t, statErr)
}

func TestWriteFile_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.xlsx")
	require.NoError(t, os.Mkdir(target, 0o755))

	err := WriteFile(target, []byte("data"))
	require.ErrorIs(t, err, ErrOutputWrite)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file removed after failure")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/exports/out.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "exports", "out.xlsx"), got)

	got, err = ExpandPath("out.xlsx")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestRawRecords_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")

	records := []models.RawRecord{
		{"id": "a", "ecofin": map[string]any{"turnover": json.Number("4432761")}},
		{"id": "b"},
	}
	require.NoError(t, WriteRawRecords(path, records))

	got, err := ReadRawRecords(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0]["id"])
	assert.Equal(t, json.Number("4432761"), got[0]["ecofin"].(map[string]any)["turnover"])
}

func TestReadRawRecords_SkipsNonObjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a"}, 1, "x", null]`), 0o644))

	got, err := ReadRawRecords(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReadRawRecords_Errors(t *testing.T) {
	_, err := ReadRawRecords(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))

	_, err = ReadRawRecords(path)
	require.Error(t, err)

	trailing := filepath.Join(t.TempDir(), "trailing.json")
	require.NoError(t, os.WriteFile(trailing, []byte(`[{"id":"a"}] <html>oops</html>`), 0o644))

	_, err = ReadRawRecords(trailing)
	require.ErrorContains(t, err, "unexpected data after JSON array")
}
