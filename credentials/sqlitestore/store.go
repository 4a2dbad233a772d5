// Package sqlitestore persists credentials in a SQLite database with
// the record encrypted at rest.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jrsteele09/go-login-manager/credentials"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var _ credentials.Store = (*SQLiteStore)(nil)

// storedRecord is the encrypted payload layout, matching the
// preferences file keys. Scopes are a single delimited string.
type storedRecord struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Email        string `json:"email,omitempty"`
	ExpiryTime   int64  `json:"access_token_expiry_time,omitempty"`
	Scopes       string `json:"oauth_scopes,omitempty"`
}

// SQLiteStore implements credentials.Store on a single-row SQLite
// table, sealing the record with AES-GCM before it touches disk.
type SQLiteStore struct {
	db            *sql.DB
	encryptionKey []byte
	mu            sync.RWMutex
}

// New opens or creates the database at dbPath. The encryptionKey must
// be 16, 24, or 32 bytes; DeriveKey produces one from a passphrase.
func New(dbPath string, encryptionKey []byte) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, encryptionKey: encryptionKey}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	// Permissions only take effect when this process created the file.
	_ = os.Chmod(dbPath, 0600)

	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS credentials (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		encrypted_record TEXT NOT NULL,
		last_updated DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create credentials table: %w", err)
	}
	return nil
}

// Load reads and unseals the stored record. An empty table, a record
// sealed under a different key, or a corrupt payload all yield the zero
// record; only the latter two are logged.
func (s *SQLiteStore) Load() credentials.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var encrypted string
	err := s.db.QueryRow("SELECT encrypted_record FROM credentials WHERE id = 1").Scan(&encrypted)
	if err == sql.ErrNoRows {
		return credentials.Credentials{}
	}
	if err != nil {
		log.Warn().Err(err).Msg("could not query stored credentials")
		return credentials.Credentials{}
	}

	data, err := decrypt(encrypted, s.encryptionKey)
	if err != nil {
		log.Warn().Err(err).Msg("could not decrypt stored credentials")
		return credentials.Credentials{}
	}

	var record storedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Warn().Err(err).Msg("could not parse stored credentials")
		return credentials.Credentials{}
	}

	return credentials.New(record.AccessToken, record.RefreshToken, record.Email,
		credentials.SplitScopes(record.Scopes), record.ExpiryTime)
}

// Save seals the record and upserts the single row. Scopes are
// validated against the delimiter before anything is written.
func (s *SQLiteStore) Save(creds credentials.Credentials) error {
	scopes, err := credentials.JoinScopes(creds.Scopes())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := storedRecord{
		AccessToken:  creds.AccessToken(),
		RefreshToken: creds.RefreshToken(),
		Email:        creds.Email(),
		ExpiryTime:   creds.ExpiryTime(),
		Scopes:       scopes,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	encrypted, err := encrypt(data, s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO credentials (id, encrypted_record, last_updated)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			encrypted_record = excluded.encrypted_record,
			last_updated = excluded.last_updated
	`, encrypted, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// Clear removes the stored record. Clearing an empty store succeeds.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM credentials WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
