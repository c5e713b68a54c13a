package core

import (
	"fmt"
	"sync"
)

// Model is one value container for a schema. It owns its current property
// values and the observations registered against it.
//
// All mutation goes through Set; construction paths populate values directly
// and never notify. A Model is safe for concurrent use: value slots and the
// observation list are guarded by a per-instance mutex, and callbacks are
// invoked outside the lock so they may freely call back into the instance.
type Model struct {
	schema *Schema

	mu     sync.Mutex
	values []any
	isSet  []bool
	subs   [][]*Subscription
	closed bool
}

// New creates an empty model: every property unset, no observers.
func New(schema *Schema) *Model {
	return &Model{
		schema: schema,
		values: make([]any, schema.Len()),
		isSet:  make([]bool, schema.Len()),
		subs:   make([][]*Subscription, schema.Len()),
	}
}

// NewFromAttributes creates a model seeded from an untrusted attribute map.
// Keys that are not schema properties are silently ignored ("fill what you
// recognize"); recognized keys whose value disagrees with the declared kind
// fail with ErrTypeMismatch. No notification fires: construction predates
// any observer registration.
func NewFromAttributes(schema *Schema, attrs map[string]any) (*Model, error) {
	m := New(schema)
	for key, value := range attrs {
		i, ok := schema.Index(key)
		if !ok {
			continue
		}
		v, err := schema.coerceAt(i, value)
		if err != nil {
			return nil, err
		}
		m.values[i] = v
		m.isSet[i] = true
	}
	return m, nil
}

// Schema returns the schema this model was created from.
func (m *Model) Schema() *Schema {
	return m.schema
}

// Get returns the current value of a property and whether it is set.
// Unset properties yield (nil, false, nil). Undeclared names fail with
// ErrUnknownProperty.
func (m *Model) Get(name string) (any, bool, error) {
	i, ok := m.schema.Index(name)
	if !ok {
		return nil, false, fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isSet[i] {
		return nil, false, nil
	}
	return copyValue(m.values[i]), true, nil
}

// Set writes a property value through the observed write path:
// validate name and kind, capture the old value, store the new one, then
// synchronously invoke every active observation for the property in
// registration order with (old, new). Notification fires on every call,
// including writes of a value equal to the current one.
//
// Observations registered or canceled by a callback do not affect the
// remaining callbacks of the in-flight pass (snapshot semantics), and no
// callback can abort delivery to the rest of the pass.
func (m *Model) Set(name string, value any) error {
	i, ok := m.schema.Index(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	v, err := m.schema.coerceAt(i, value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("set %q: %w", name, ErrClosed)
	}
	var old any
	if m.isSet[i] {
		old = m.values[i]
	}
	m.values[i] = v
	m.isSet[i] = true

	// Snapshot under the lock; deliver outside it so callbacks can reenter.
	snapshot := make([]*Subscription, len(m.subs[i]))
	copy(snapshot, m.subs[i])
	m.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(copyValue(old), copyValue(v))
	}
	return nil
}

// Unset clears a property back to the unset state without notifying.
// It mirrors the construction-side direct writes; removal from a persistent
// store is the archive layer's concern.
func (m *Model) Unset(name string) error {
	i, ok := m.schema.Index(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("unset %q: %w", name, ErrClosed)
	}
	m.values[i] = nil
	m.isSet[i] = false
	return nil
}

// Close cancels every observation still registered on the model and rejects
// further writes. Reads keep working. Idempotent.
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for i, list := range m.subs {
		for _, sub := range list {
			sub.canceled = true
		}
		m.subs[i] = nil
	}
}

// copyValue defends the model's exclusive ownership of byte slices.
// The scalar kinds are values and need no copy.
func copyValue(v any) any {
	if b, ok := v.([]byte); ok {
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}
	return v
}
