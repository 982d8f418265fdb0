package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Plaintext(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStore(path, "")

	_, err := s.Get("walletName")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("walletName", "Phantom"))
	require.NoError(t, s.Set("other", "x"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"walletName": "Phantom"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := NewFileStore(path, "")
	v, err := reopened.Get("walletName")
	require.NoError(t, err)
	assert.Equal(t, "Phantom", v)

	require.NoError(t, reopened.Delete("walletName"))
	require.NoError(t, reopened.Delete("walletName"))
	_, err = s.Get("walletName")
	require.ErrorIs(t, err, ErrNotFound)
	v, err = s.Get("other")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_Encrypted(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.age")
	s := NewFileStore(path, "correct horse")

	require.NoError(t, s.Set("walletName", "Backpack"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Backpack")

	v, err := NewFileStore(path, "correct horse").Get("walletName")
	require.NoError(t, err)
	assert.Equal(t, "Backpack", v)

	_, err = NewFileStore(path, "wrong").Get("walletName")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestFileStore_Corrupt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewFileStore(path, "")
	_, err := s.Get("walletName")
	require.Error(t, err)

	key := NewSessionKey(s, "walletName", nil)
	assert.Empty(t, key.Get())
}

func TestFileStore_EmptyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := NewFileStore(path, "").Get("walletName")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_EmptyPath(t *testing.T) {
	t.Parallel()
	s := NewFileStore("", "")
	assert.Empty(t, s.Path())
	require.ErrorIs(t, s.Set("k", "v"), ErrEmptyPath)
}
