package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "placement_data.json")

	records := sampleRecords()
	require.NoError(t, WriteDocumentFile(path, records))

	got, err := ReadDocumentFile(path)
	require.NoError(t, err)
	requireSameRecords(t, records, got)

	// overwrite with fewer records
	require.NoError(t, WriteDocumentFile(path, records[:2]))
	got, err = ReadDocumentFile(path)
	require.NoError(t, err)
	requireSameRecords(t, records[:2], got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestReadDocumentFile_Missing(t *testing.T) {
	_, err := ReadDocumentFile(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
}

func TestReadDocumentFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":`), 0644))

	_, err := ReadDocumentFile(path)
	require.ErrorIs(t, err, ErrDeserialization)
}

func TestWriteDocumentFile_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// parent is a regular file, so the directory cannot be created
	err := WriteDocumentFile(filepath.Join(blocker, "data.json"), sampleRecords())
	require.ErrorIs(t, err, ErrPersistenceUnavailable)
}

func TestWriteDocumentFile_Mode(t *testing.T) {
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.json")
	require.NoError(t, WriteDocumentFile(fresh, sampleRecords()))
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	shared := filepath.Join(dir, "shared.json")
	require.NoError(t, os.WriteFile(shared, []byte("[]\n"), 0664))
	require.NoError(t, os.Chmod(shared, 0664))
	require.NoError(t, WriteDocumentFile(shared, sampleRecords()))
	info, err = os.Stat(shared)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0664), info.Mode().Perm(), "existing mode is kept")
}
