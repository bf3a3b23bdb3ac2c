package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory()

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set("k", "v"))
	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, m.Delete("k"))
	_, err = m.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is not an error
	assert.NoError(t, m.Delete("k"))
}

func TestFilePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("access_token", "acc-1"))
	require.NoError(t, f.Set("theme", "github-dark"))
	require.NoError(t, f.Delete("theme"))

	f2, err := NewFile(path)
	require.NoError(t, err)
	got, err := f2.Get("access_token")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got)
	_, err = f2.Get("theme")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileMissingStartsEmpty(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "nope", "state.json"))
	require.NoError(t, err)

	_, err = f.Get("anything")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileCorruptStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	f, err := NewFile(path)
	require.NoError(t, err)

	_, err = f.Get("anything")
	assert.ErrorIs(t, err, ErrNotFound)

	// and it is writable again afterwards
	require.NoError(t, f.Set("k", "v"))
	got, err := f.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
