package archive

import (
	"context"
	"fmt"

	"github.com/aretw0/graft/pkg/core"
)

// Archiver is the generic store-facing implementation of core.Archiver.
// It is stateless and safe to share across goroutines.
type Archiver struct{}

// NewArchiver returns the generic archiver.
func NewArchiver() *Archiver {
	return &Archiver{}
}

var _ core.Archiver = (*Archiver)(nil)

// Key joins a model id prefix and a property name into a store key.
func Key(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Save writes every set property of the model under its prefixed key.
// Unset properties write nothing; a value previously stored for them is left
// untouched, mirroring Encode's omission of unset properties.
func (a *Archiver) Save(ctx context.Context, store core.Store, prefix string, m *core.Model) error {
	rec, err := Encode(m.Schema(), m)
	if err != nil {
		return err
	}
	for _, name := range rec.Names() {
		v, _ := rec.Get(name)
		if err := store.Put(ctx, Key(prefix, name), v); err != nil {
			return fmt.Errorf("put %q: %w", Key(prefix, name), err)
		}
	}
	return nil
}

// Load rehydrates a fresh model from the prefixed keys present in the store.
// Absent keys leave their property unset; stored values whose kind disagrees
// with the schema fail with ErrTypeMismatch.
func (a *Archiver) Load(ctx context.Context, store core.Store, prefix string, schema *core.Schema) (*core.Model, error) {
	rec := NewRecord()
	for _, name := range schema.Names() {
		v, ok, err := store.Get(ctx, Key(prefix, name))
		if err != nil {
			return nil, fmt.Errorf("get %q: %w", Key(prefix, name), err)
		}
		if !ok {
			continue
		}
		rec.Set(name, v)
	}
	return Decode(schema, rec)
}

// Purge removes every key the schema could have written under prefix.
func (a *Archiver) Purge(ctx context.Context, store core.Store, prefix string, schema *core.Schema) error {
	for _, name := range schema.Names() {
		if err := store.Delete(ctx, Key(prefix, name)); err != nil {
			return fmt.Errorf("delete %q: %w", Key(prefix, name), err)
		}
	}
	return nil
}
