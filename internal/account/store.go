package account

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/raphi011/ghmm/internal/storage"
)

// StoreFile is the account store file name inside the data directory.
const StoreFile = "config.yaml"

// YAMLStore persists registry state as YAML. Load and Save hold an
// exclusive lock on a sibling .lock file.
type YAMLStore struct {
	path string
	lock *flock.Flock
}

// NewYAMLStore creates a store for dir/config.yaml.
func NewYAMLStore(dir string) *YAMLStore {
	return &YAMLStore{
		path: filepath.Join(dir, StoreFile),
		lock: flock.New(filepath.Join(dir, ".config.lock")),
	}
}

// Path returns the store file path.
func (s *YAMLStore) Path() string {
	return s.path
}

func (s *YAMLStore) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock account store: %w", err)
	}
	defer s.lock.Unlock()
	return fn()
}

// Load reads the state. A missing file is an empty registry and is
// created on the spot.
func (s *YAMLStore) Load() (State, error) {
	var st State
	err := s.withLock(func() error {
		err := storage.LoadYAML(s.path, &st)
		if errors.Is(err, fs.ErrNotExist) {
			st = State{Accounts: []Account{}}
			return storage.SaveYAML(s.path, st)
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", s.path, err)
		}
		return nil
	})
	if st.Accounts == nil {
		st.Accounts = []Account{}
	}
	return st, err
}

// Save writes the state atomically.
func (s *YAMLStore) Save(st State) error {
	return s.withLock(func() error {
		return storage.SaveYAML(s.path, st)
	})
}
