package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "credentials.yml"))
	require.NoError(t, err)
	require.Empty(t, s.AccessToken())
	require.Empty(t, s.RefreshToken())
	require.Empty(t, s.PrivateKey())
}

func TestSetTokens_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("access-abc", "refresh-def"))
	require.NoError(t, s.SetPrivateKey("key-xyz"))

	// A fresh store must see what the first one persisted.
	s2, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, "access-abc", s2.AccessToken())
	require.Equal(t, "refresh-def", s2.RefreshToken())
	require.Equal(t, "key-xyz", s2.PrivateKey())
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("access", "refresh"))
	require.NoError(t, s.Clear())

	require.Empty(t, s.AccessToken())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// Clearing an already-cleared store is fine.
	require.NoError(t, s.Clear())
}

func TestSave_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("access", "refresh"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
