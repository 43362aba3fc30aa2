package auth

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("SQUARESPACE_NO_KEYRING", "1")
	return NewStore(t.TempDir())
}

func TestStoreSaveLoadDelete(t *testing.T) {
	store := fileStore(t)
	assert.False(t, store.UsingKeyring())

	creds := &Credentials{
		AccessToken:  "tok-1",
		RefreshToken: "refresh-1",
		ClientID:     "id",
		ClientSecret: "secret",
	}
	require.NoError(t, store.Save(creds))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)

	require.NoError(t, store.Delete())
	_, err = store.Load()
	assert.Error(t, err)
}

func TestStoreLoadMissing(t *testing.T) {
	store := fileStore(t)
	_, err := store.Load()
	assert.ErrorContains(t, err, "credentials not found")
}

func TestStoreDeleteMissingIsNoop(t *testing.T) {
	store := fileStore(t)
	assert.NoError(t, store.Delete())
}

func TestStoreFilePermissions(t *testing.T) {
	store := fileStore(t)
	require.NoError(t, store.Save(&Credentials{AccessToken: "tok"}))

	info, err := os.Stat(store.credentialsPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreLoadCorruptFile(t *testing.T) {
	store := fileStore(t)
	require.NoError(t, os.MkdirAll(store.fallbackDir, 0700))
	require.NoError(t, os.WriteFile(store.credentialsPath(), []byte("not json"), 0600))

	_, err := store.Load()
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := fileStore(t)
	require.NoError(t, store.Save(&Credentials{AccessToken: "old"}))
	require.NoError(t, store.Save(&Credentials{AccessToken: "new"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.AccessToken)

	// The atomic write must not leave temp files behind
	entries, err := os.ReadDir(store.fallbackDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestStoreConcurrentSaves(t *testing.T) {
	store := fileStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(&Credentials{AccessToken: "tok", RefreshToken: "refresh"})
		}()
	}
	wg.Wait()

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
}

func TestStorePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SQUARESPACE_NO_KEYRING", "1")
	store := NewStore(dir)

	assert.Equal(t, filepath.Join(dir, "credentials.json"), store.credentialsPath())
	assert.Equal(t, filepath.Join(dir, ".lock"), store.lockPath())
}
