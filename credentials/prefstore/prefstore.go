// Package prefstore persists credentials as a JSON preferences file,
// readable by any process the user runs.
package prefstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-login-manager/credentials"
	"github.com/rs/zerolog/log"
)

var _ credentials.Store = (*FileStore)(nil)

// storedRecord is the on-disk layout. Scopes are stored as a single
// string delimited by credentials.ScopeDelimiter.
type storedRecord struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Email        string `json:"email,omitempty"`
	ExpiryTime   int64  `json:"access_token_expiry_time,omitempty"`
	Scopes       string `json:"oauth_scopes,omitempty"`
}

// FileStore implements credentials.Store on a JSON file. The file and
// its directory are created on first save with owner-only permissions.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// New creates a FileStore backed by the file at path.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the conventional credentials file location under
// the user's configuration directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, "login-manager", "credentials.json"), nil
}

// Load reads the stored record. A missing, unreadable, or corrupt file
// yields the zero record; a missing file is the normal signed-out case
// and is not logged.
func (fs *FileStore) Load() credentials.Credentials {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return credentials.Credentials{}
	}
	if err != nil {
		log.Warn().Err(err).Str("path", fs.path).Msg("could not read stored credentials")
		return credentials.Credentials{}
	}

	var record storedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Warn().Err(err).Str("path", fs.path).Msg("could not parse stored credentials")
		return credentials.Credentials{}
	}

	return credentials.New(record.AccessToken, record.RefreshToken, record.Email,
		credentials.SplitScopes(record.Scopes), record.ExpiryTime)
}

// Save writes the record to disk. Scopes are validated against the
// delimiter before anything is touched, so a rejected save leaves the
// previous file intact.
func (fs *FileStore) Save(creds credentials.Credentials) error {
	scopes, err := credentials.JoinScopes(creds.Scopes())
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	record := storedRecord{
		AccessToken:  creds.AccessToken(),
		RefreshToken: creds.RefreshToken(),
		Email:        creds.Email(),
		ExpiryTime:   creds.ExpiryTime(),
		Scopes:       scopes,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Clear removes the credentials file. A file that never existed is not
// an error.
func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stored credentials: %w", err)
	}
	return nil
}
