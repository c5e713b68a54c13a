package core

import "context"

// Store defines the contract for the persistent key-value collaborator.
// Values are restricted to the canonical primitive types
// (string, int64, float64, bool, []byte); the core never embeds a concrete
// store and never reaches for an ambient default one. Adhering to this
// interface keeps the runtime independent of the backing mechanism
// (memory, file, SQLite, HTTP, ...).
type Store interface {
	// Put writes a primitive value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value any) error

	// Get retrieves the value under key. The second return is false when the
	// key is absent; absence is not an error.
	Get(ctx context.Context, key string) (any, bool, error)

	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// List returns all present keys in lexical order.
	List(ctx context.Context) ([]string, error)

	// Clear removes every key.
	Clear(ctx context.Context) error
}

// Watchable is implemented by stores that can report external changes to
// their contents.
type Watchable interface {
	// Watch streams change events until ctx is done. The channel is closed
	// when watching stops.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Archiver translates models to and from a Store using a key prefix.
// It is the explicit capability interface for archiving: implemented once
// generically against the schema, no per-model boilerplate.
type Archiver interface {
	// Save persists every set property of the model.
	Save(ctx context.Context, store Store, prefix string, m *Model) error

	// Load rehydrates a fresh model from the store. Properties absent from
	// the store remain unset.
	Load(ctx context.Context, store Store, prefix string, schema *Schema) (*Model, error)

	// Purge removes every key the schema could have written under prefix.
	Purge(ctx context.Context, store Store, prefix string, schema *Schema) error
}

// Checker validates a model. Implementations decide what valid means;
// the service consults its checker before persisting.
type Checker interface {
	Check(m *Model) error
}
