package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// credentials is the on-disk shape of ~/.parley/credentials.yml.
type credentials struct {
	AccessToken  string `yaml:"access_token,omitempty"`
	RefreshToken string `yaml:"refresh_token,omitempty"`
	PrivateKey   string `yaml:"private_key,omitempty"`
}

// Store holds the bearer tokens and the account private key for the current
// session. Tokens are written once at login or registration and read on every
// authenticated request; there is no refresh flow. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	path  string
	creds credentials
}

// Open loads credentials from the given file if it exists. A missing file
// yields an empty (logged-out) store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return s, nil
}

// AccessToken returns the current access token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken
}

// RefreshToken returns the stored refresh token.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.RefreshToken
}

// PrivateKey returns the stored account private key.
func (s *Store) PrivateKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.PrivateKey
}

// SetTokens stores the bearer tokens and persists them to disk.
func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = access
	s.creds.RefreshToken = refresh
	return s.save()
}

// SetPrivateKey stores the account private key and persists it to disk.
func (s *Store) SetPrivateKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.PrivateKey = key
	return s.save()
}

// Clear removes all credentials, logging the user out. The credentials file
// is deleted.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credentials{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

// save writes the credentials file with owner-only permissions. Callers must
// hold the write lock.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := yaml.Marshal(&s.creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}
