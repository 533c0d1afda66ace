// Package prefs is the durable local storage of the client: a small
// file-backed key/value store holding the theme preference and the persisted
// identity credentials, surviving restarts the way browser local storage does.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const fileName = "prefs.json"

// Theme preference values.
const (
	KeyTheme   = "theme"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// KeyRefreshToken holds the identity provider refresh token between runs.
const KeyRefreshToken = "refresh_token"

// Store is a mutex-guarded JSON file. Writes are atomic (temp file + rename)
// so a crash mid-write cannot corrupt the stored state.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads the store from dir, creating the directory when needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	s := &Store{
		path:   filepath.Join(dir, fileName),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		// A corrupted file should not brick the client; start fresh.
		s.values = make(map[string]string)
	}
	return s, nil
}

// Get returns the stored value for key, if any.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and flushes to disk.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// Delete removes key and flushes to disk.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.flushLocked()
}

// Theme returns the persisted theme preference, defaulting to light.
func (s *Store) Theme() string {
	if v, ok := s.Get(KeyTheme); ok && (v == ThemeLight || v == ThemeDark) {
		return v
	}
	return ThemeLight
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}
