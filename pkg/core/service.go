package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Service coordinates model persistence over a Store through an Archiver.
// Every persisted model lives under a caller-chosen id, which becomes the
// key prefix in the store.
type Service struct {
	mu       sync.RWMutex
	store    Store
	archiver Archiver
	checker  Checker
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithChecker installs a validator consulted before every save.
func WithChecker(c Checker) ServiceOption {
	return func(s *Service) {
		s.checker = c
	}
}

// NewService creates a Service bound to a store and an archiver.
func NewService(store Store, archiver Archiver, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		archiver: archiver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SaveModel validates (when a checker is installed) and persists a model
// under id.
func (s *Service) SaveModel(ctx context.Context, id string, m *Model) error {
	if id == "" {
		return errors.New("model id cannot be empty")
	}
	if m == nil {
		return errors.New("model cannot be nil")
	}

	if s.checker != nil {
		if err := s.checker.Check(m); err != nil {
			return fmt.Errorf("validate %q: %w", id, err)
		}
	}

	if err := s.archiver.Save(ctx, s.store, id, m); err != nil {
		return err
	}
	s.logger.Debug("model saved", "id", id, "properties", m.Schema().Len())
	return nil
}

// LoadModel rehydrates a model for schema from the values stored under id.
// Properties with no stored value remain unset.
func (s *Service) LoadModel(ctx context.Context, id string, schema *Schema) (*Model, error) {
	if id == "" {
		return nil, errors.New("model id cannot be empty")
	}
	return s.archiver.Load(ctx, s.store, id, schema)
}

// DeleteModel removes every stored property of the schema under id.
func (s *Service) DeleteModel(ctx context.Context, id string, schema *Schema) error {
	if id == "" {
		return errors.New("model id cannot be empty")
	}
	return s.archiver.Purge(ctx, s.store, id, schema)
}

// Keys lists all keys currently present in the backing store.
func (s *Service) Keys(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// Clear empties the backing store.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Watch observes external changes in the store if supported.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx)
}
