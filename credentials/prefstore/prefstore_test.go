package prefstore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-login-manager/credentials"
	"github.com/jrsteele09/go-login-manager/credentials/prefstore"
	"github.com/stretchr/testify/require"
)

func testCredentials() credentials.Credentials {
	return credentials.New("access-token-1", "refresh-token-1", "john.doe@example.com",
		credentials.NewScopes("email", "profile"), 1_700_000_000)
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login-manager", "credentials.json")
	store := prefstore.New(path)

	require.NoError(t, store.Save(testCredentials()))

	loaded := store.Load()
	require.Equal(t, "access-token-1", loaded.AccessToken())
	require.Equal(t, "refresh-token-1", loaded.RefreshToken())
	require.Equal(t, "john.doe@example.com", loaded.Email())
	require.Equal(t, int64(1_700_000_000), loaded.ExpiryTime())
	require.True(t, credentials.NewScopes("email", "profile").Equal(loaded.Scopes()))
}

// TestFileStore_FileLayout tests the persisted key names and the
// delimited scope encoding.
func TestFileStore_FileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := prefstore.New(path)

	require.NoError(t, store.Save(testCredentials()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "access-token-1", raw["access_token"])
	require.Equal(t, "refresh-token-1", raw["refresh_token"])
	require.Equal(t, "john.doe@example.com", raw["email"])
	require.Equal(t, float64(1_700_000_000), raw["access_token_expiry_time"])
	require.Equal(t, "email profile", raw["oauth_scopes"])
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := prefstore.New(filepath.Join(t.TempDir(), "credentials.json"))

	require.True(t, store.Load().IsZero())
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store := prefstore.New(path)
	require.True(t, store.Load().IsZero())
}

// TestFileStore_SaveRejectsDelimiterScopes tests that a scope containing
// the delimiter fails the save before the file is touched.
func TestFileStore_SaveRejectsDelimiterScopes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := prefstore.New(path)
	require.NoError(t, store.Save(testCredentials()))

	bad := credentials.New("access-token-2", "refresh-token-2", "",
		credentials.NewScopes("scope 1"), 0)
	require.ErrorIs(t, store.Save(bad), credentials.ErrScopeDelimiter)

	// The previous record is still there.
	require.Equal(t, "access-token-1", store.Load().AccessToken())
}

func TestFileStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := prefstore.New(path)
	require.NoError(t, store.Save(testCredentials()))

	require.NoError(t, store.Clear())
	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	// Clearing an already empty store succeeds.
	require.NoError(t, store.Clear())
}

func TestFileStore_EmptyFieldsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := prefstore.New(path)

	require.NoError(t, store.Save(credentials.New("", "refresh-token-1", "",
		credentials.NewScopes("email"), 0)))

	loaded := store.Load()
	require.Empty(t, loaded.AccessToken())
	require.Empty(t, loaded.Email())
	require.Zero(t, loaded.ExpiryTime())
	require.Equal(t, "refresh-token-1", loaded.RefreshToken())
}
