package sqlitestore_test

import (
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-login-manager/credentials"
	"github.com/jrsteele09/go-login-manager/credentials/sqlitestore"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dbPath string, passphrase string) *sqlitestore.SQLiteStore {
	t.Helper()

	store, err := sqlitestore.New(dbPath, sqlitestore.DeriveKey(passphrase))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testCredentials() credentials.Credentials {
	return credentials.New("access-token-1", "refresh-token-1", "john.doe@example.com",
		credentials.NewScopes("email", "profile"), 1_700_000_000)
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "credentials.db"), "passphrase")

	require.NoError(t, store.Save(testCredentials()))

	loaded := store.Load()
	require.Equal(t, "access-token-1", loaded.AccessToken())
	require.Equal(t, "refresh-token-1", loaded.RefreshToken())
	require.Equal(t, "john.doe@example.com", loaded.Email())
	require.Equal(t, int64(1_700_000_000), loaded.ExpiryTime())
	require.True(t, credentials.NewScopes("email", "profile").Equal(loaded.Scopes()))
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "credentials.db"), "passphrase")

	require.True(t, store.Load().IsZero())
}

func TestSQLiteStore_Overwrite(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "credentials.db"), "passphrase")

	require.NoError(t, store.Save(testCredentials()))
	require.NoError(t, store.Save(credentials.New("access-token-2", "refresh-token-2", "",
		credentials.NewScopes("email"), 0)))

	loaded := store.Load()
	require.Equal(t, "access-token-2", loaded.AccessToken())
	require.Equal(t, "refresh-token-2", loaded.RefreshToken())
	require.Empty(t, loaded.Email())
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "credentials.db"), "passphrase")
	require.NoError(t, store.Save(testCredentials()))

	require.NoError(t, store.Clear())
	require.True(t, store.Load().IsZero())

	// Clearing an already empty store succeeds.
	require.NoError(t, store.Clear())
}

// TestSQLiteStore_SaveRejectsDelimiterScopes tests that a scope
// containing the delimiter fails the save and leaves the stored record
// untouched.
func TestSQLiteStore_SaveRejectsDelimiterScopes(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "credentials.db"), "passphrase")
	require.NoError(t, store.Save(testCredentials()))

	bad := credentials.New("access-token-2", "refresh-token-2", "",
		credentials.NewScopes("scope 1"), 0)
	require.ErrorIs(t, store.Save(bad), credentials.ErrScopeDelimiter)

	require.Equal(t, "access-token-1", store.Load().AccessToken())
}

// TestSQLiteStore_WrongKey tests that a record sealed under another key
// reads back as the zero record rather than failing.
func TestSQLiteStore_WrongKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "credentials.db")

	store := newTestStore(t, dbPath, "passphrase")
	require.NoError(t, store.Save(testCredentials()))
	require.NoError(t, store.Close())

	reopened := newTestStore(t, dbPath, "different passphrase")
	require.True(t, reopened.Load().IsZero())
}

func TestDeriveKey(t *testing.T) {
	require.Len(t, sqlitestore.DeriveKey("short"), 32)
	require.Len(t, sqlitestore.DeriveKey("a passphrase much longer than thirty-two bytes in total"), 32)
	require.NotEqual(t, sqlitestore.DeriveKey("one"), sqlitestore.DeriveKey("two"))
}
