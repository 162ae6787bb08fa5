// Package session persists the extraction directory between invocations,
// so "dragonfly encode" can pick up where "dragonfly extract" left off.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Load when no session has been saved.
var ErrNotFound = errors.New("no saved session found")

// Store records the most recent extraction directory.
//
// It models a single-user, single-active-session convenience cache, not a
// durable registry: there is no locking, and concurrent extraction runs
// racing to save leave the store pointing at whichever run wrote last.
type Store interface {
	// Save records the extraction directory, overwriting any prior value.
	Save(dir string) error

	// Load returns the recorded extraction directory, or ErrNotFound.
	Load() (string, error)
}

// FileStore keeps the session as the raw directory path in a single file
// at a fixed, well-known location in the OS temp directory.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the default location
// (<tmp>/.dragonfly).
func NewFileStore() *FileStore {
	return &FileStore{path: filepath.Join(os.TempDir(), ".dragonfly")}
}

// NewFileStoreAt creates a FileStore at an explicit path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the directory path as raw bytes. Last writer wins.
func (s *FileStore) Save(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("extraction directory cannot be empty")
	}
	if err := os.WriteFile(s.path, []byte(dir), 0644); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads the directory path back.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return "", ErrNotFound
	}
	return dir, nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	dir   string
	saved bool
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Save records the directory in memory.
func (s *MemStore) Save(dir string) error {
	s.dir = dir
	s.saved = true
	return nil
}

// Load returns the recorded directory, or ErrNotFound before any Save.
func (s *MemStore) Load() (string, error) {
	if !s.saved {
		return "", ErrNotFound
	}
	return s.dir, nil
}
