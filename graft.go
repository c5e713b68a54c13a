package graft

import (
	"log/slog"

	"github.com/aretw0/graft/internal/platform"
	"github.com/aretw0/graft/pkg/archive"
	"github.com/aretw0/graft/pkg/core"
	"github.com/aretw0/graft/pkg/typed"
)

// --- Types ---

// Kind identifies the primitive kind a property may hold.
type Kind = core.Kind

const (
	KindString = core.KindString
	KindInt    = core.KindInt
	KindFloat  = core.KindFloat
	KindBool   = core.KindBool
	KindBytes  = core.KindBytes
)

// Field declares a single schema property.
type Field = core.Field

// Schema is an immutable, ordered set of property declarations.
type Schema = core.Schema

// Model is an observable value container for one schema.
type Model = core.Model

// Subscription is the cancellation handle for one observation.
type Subscription = core.Subscription

// Record is the ordered primitive mapping produced by the archiver.
type Record = archive.Record

// Store is the persistent key-value collaborator contract.
type Store = core.Store

// Event represents an externally observed change to a store key.
type Event = core.Event

// Service coordinates model persistence over a store.
type Service = core.Service

// TypedModel is a public alias for the struct-shaped model view.
type TypedModel[T any] = typed.Model[T]

// --- Errors ---

var (
	ErrUnknownProperty = core.ErrUnknownProperty
	ErrDuplicateName   = core.ErrDuplicateName
	ErrTypeMismatch    = core.ErrTypeMismatch
)

// --- Schema & Models ---

// Define constructs an immutable schema from the given fields.
func Define(fields ...Field) (*Schema, error) {
	return core.Define(fields...)
}

// MustDefine is Define that panics on error. For static schema declarations.
func MustDefine(fields ...Field) *Schema {
	return core.MustDefine(fields...)
}

// New creates an empty model for a schema.
func New(schema *Schema) *Model {
	return core.New(schema)
}

// NewFromAttributes creates a model seeded from an untrusted attribute map.
func NewFromAttributes(schema *Schema, attrs map[string]any) (*Model, error) {
	return core.NewFromAttributes(schema, attrs)
}

// --- Archiving ---

// Encode emits the set properties of a model as an ordered primitive record.
func Encode(schema *Schema, m *Model) (*Record, error) {
	return archive.Encode(schema, m)
}

// Decode constructs a fresh model from a record.
func Decode(schema *Schema, rec *Record) (*Model, error) {
	return archive.Decode(schema, rec)
}

// --- Configuration ---

// Option defines a functional option for configuring graft.
type Option = platform.Option

// WithLogger sets the logger for the service and the store adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom store adapter.
func WithStore(store Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the store adapter by name ("mem", "file", "sqlite", "http").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithChecker installs a model validator consulted before every save.
func WithChecker(c core.Checker) Option {
	return platform.WithChecker(c)
}

// --- Factories ---

// Open creates a Service over the store the options select.
func Open(uri string, opts ...Option) (*Service, error) {
	return platform.New(uri, opts...)
}

// OpenStore resolves a bare store without the service layer.
func OpenStore(uri string, opts ...Option) (Store, error) {
	return platform.NewStore(uri, opts...)
}

// --- Typed Factories ---

// NewTyped derives the schema for T and creates an empty typed model.
func NewTyped[T any]() (*TypedModel[T], error) {
	return typed.New[T]()
}

// WrapTyped attaches a struct-shaped view to an existing model.
func WrapTyped[T any](m *Model) (*TypedModel[T], error) {
	return typed.Wrap[T](m)
}

// SchemaFor derives a schema from the exported fields of struct type T.
func SchemaFor[T any]() (*Schema, error) {
	return typed.SchemaFor[T]()
}
