package platform

import (
	"log/slog"

	"github.com/aretw0/graft/pkg/core"
)

// options holds the internal configuration for the graft service.
type options struct {
	store   core.Store
	logger  *slog.Logger
	checker core.Checker
	adapter string
}

// Option defines a functional option for configuring graft.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		store:   nil,
		logger:  nil,
		adapter: "file",
	}
}

// WithLogger sets the logger for the service and the store adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom store adapter (e.g. mock, remote).
// If provided, adapter resolution by name is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the store adapter by name ("mem", "file", "sqlite",
// "http"). Defaults to "file".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithChecker installs a model validator consulted before every save.
func WithChecker(c core.Checker) Option {
	return func(o *options) {
		o.checker = c
	}
}
