// Package store persists the last cleaning session: the input text and the
// rule configuration it was cleaned with.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dacharyc/wypal"
)

// Key is the name the state is saved under in key/value backends.
const Key = "wypal-state"

// State is one saved session.
type State struct {
	Input   string           `json:"input"`
	Options wypal.RuleConfig `json:"options"`
}

// Store loads and saves a State. Load reports false when nothing has been
// saved yet; that is not an error.
type Store interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, st State) error
}

// Encode serializes a state to its JSON form.
func Encode(st State) ([]byte, error) {
	return json.Marshal(st)
}

// Decode parses a state from JSON. Unknown option keys are ignored.
func Decode(data []byte) (State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	if st.Options.Rules == nil {
		st.Options = wypal.NewRuleConfig(nil, "")
	}
	return st, nil
}

// FileStore keeps the state in a JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load(ctx context.Context) (State, bool, error) {
	_ = ctx
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("read state: %w", err)
	}
	st, err := Decode(data)
	if err != nil {
		return State{}, false, err
	}
	return st, true, nil
}

func (s *FileStore) Save(ctx context.Context, st State) error {
	_ = ctx
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := writeFileAtomic(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// MemoryStore keeps the state in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	state State
	saved bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (State, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return State{}, false, nil
	}
	st := s.state
	st.Options = st.Options.Clone()
	return st, true, nil
}

func (s *MemoryStore) Save(ctx context.Context, st State) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	st.Options = st.Options.Clone()
	s.state = st
	s.saved = true
	return nil
}
