package config

type StoreConfig interface {
	GetStoreBackend() string
	GetCredentialsFile() string
	GetDatabasePath() string
	GetDatabasePassphrase() string
}

type Store struct{}

var _ StoreConfig = Store{}

// GetStoreBackend selects where credentials persist: "file" for the
// JSON preferences file, "sqlite" for the encrypted database.
func (Store) GetStoreBackend() string {
	return GetEnv("LOGIN_STORE", "file")
}

// GetCredentialsFile overrides the preferences file location. Empty
// means the per-user default.
func (Store) GetCredentialsFile() string {
	return GetEnv("LOGIN_CREDENTIALS_FILE", "")
}

func (Store) GetDatabasePath() string {
	return GetEnv("LOGIN_DB_PATH", "")
}

// GetDatabasePassphrase is the passphrase the sqlite store's
// encryption key is derived from.
func (Store) GetDatabasePassphrase() string {
	return GetEnv("LOGIN_DB_PASSPHRASE", "")
}
