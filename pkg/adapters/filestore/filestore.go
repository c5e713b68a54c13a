// Package filestore provides a Store backed by a single YAML file on disk.
// Writes go through an atomic temp-file-and-rename; external edits to the
// file can be observed through Watch.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/graft/pkg/core"
)

// Option configures a file store.
type Option func(*Store)

// WithLogger sets the logger used by the store and its watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithFileMode sets the permissions applied to the backing file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Store) {
		s.mode = mode
	}
}

// Store persists its whole contents as one YAML document.
type Store struct {
	path   string
	logger *slog.Logger
	mode   os.FileMode

	mu            sync.Mutex
	data          map[string]any
	watcherActive bool
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)

// New opens (or starts) a file store at path. A missing file is an empty
// store; it is created on the first write.
func New(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: slog.Default(),
		mode:   0o644,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	data, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	s.data = data
	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Put writes a value under key and flushes the file.
func (s *Store) Put(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copyValue(value)
	return s.flushLocked()
}

// Get retrieves the value under key.
func (s *Store) Get(_ context.Context, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return copyValue(v), true, nil
}

// Delete removes a key and flushes the file. Absent keys are a no-op.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flushLocked()
}

// List returns all keys in lexical order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes every key and flushes the file.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]any)
	return s.flushLocked()
}

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *Store) flushLocked() error {
	out, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	return writeFileAtomic(s.path, out, s.mode)
}

// loadFile parses the backing file into a normalized map. A missing file is
// not an error.
func loadFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var payload map[string]any
	if err := yaml.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	data := make(map[string]any, len(payload))
	for k, v := range payload {
		data[k] = normalize(v)
	}
	return data, nil
}

// normalize maps the YAML decoder's scalar types onto the canonical
// primitive set (string, int64, float64, bool, []byte).
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	default:
		return v
	}
}

func copyValue(v any) any {
	if b, ok := v.([]byte); ok {
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}
	return v
}
