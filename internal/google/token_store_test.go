package google

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "nested", "google.token"))
	require.NoError(t, err)

	assert.False(t, store.HasToken())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	expiry := time.Date(2025, 7, 11, 11, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}))
	assert.True(t, store.HasToken())

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access", tok.AccessToken)
	assert.Equal(t, "refresh", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.Expiry.Equal(expiry))
}

func TestTokenStoreFilePermissions(t *testing.T) {
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "google.token"))
	require.NoError(t, err)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "access"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestTokenStoreClear(t *testing.T) {
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "google.token"))
	require.NoError(t, err)

	require.NoError(t, store.Clear(), "clearing an empty store is not an error")

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "access"}))
	require.NoError(t, store.Clear())
	assert.False(t, store.HasToken())
}

func TestTokenStoreInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "google.token")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store, err := NewTokenStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoToken)
}
