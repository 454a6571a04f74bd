// Package session persists the authentication state for the lifetime of a
// session. The store holds exactly one record under a fixed location; tokens
// are sensitive and short-lived, so nothing here is meant to survive the
// host session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// PersistenceError wraps a malformed session record. It is self-healed by
// deleting the record and is logged rather than surfaced to the user.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("malformed session record: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store persists a single JSON session record.
//
// Load fails soft: a missing record yields (false, nil) and a corrupt record
// deletes itself and also yields (false, nil), so defaults win in both cases.
type Store interface {
	// Save serializes v and writes it as the session record.
	Save(v any) error
	// Load deserializes the record into v. The bool reports whether a
	// usable record existed.
	Load(v any) (bool, error)
	// Clear removes the record. Clearing an absent record is not an error.
	Clear() error
}

// FileStore keeps the session record in a single file, 0600, under a path
// that defaults to the OS temp directory.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed session store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes v as the session record, creating parent directories as needed.
func (s *FileStore) Save(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize session record: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err = os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

// Load reads the record into v. A parse failure deletes the corrupt record
// so a later Load starts clean.
func (s *FileStore) Load(v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read session record: %w", err)
	}

	if err = json.Unmarshal(data, v); err != nil {
		log.Warnf("removing corrupt session record: %v", &PersistenceError{Err: err})
		if errRemove := os.Remove(s.path); errRemove != nil && !errors.Is(errRemove, fs.ErrNotExist) {
			log.Errorf("failed to remove corrupt session record: %v", errRemove)
		}
		return false, nil
	}
	return true, nil
}

// Clear removes the session record. Idempotent.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session record: %w", err)
	}
	return nil
}

// MemoryStore keeps the session record in process memory. Used in tests and
// in deployments that prefer the session to die with the process.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save serializes v into memory.
func (s *MemoryStore) Save(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize session record: %w", err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Load deserializes the in-memory record into v, dropping it when corrupt.
func (s *MemoryStore) Load(v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return false, nil
	}
	if err := json.Unmarshal(s.data, v); err != nil {
		log.Warnf("dropping corrupt session record: %v", &PersistenceError{Err: err})
		s.data = nil
		return false, nil
	}
	return true, nil
}

// Clear drops the in-memory record. Idempotent.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
