package core

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// Callback receives the previous and the freshly written value of an
// observed property. It runs synchronously on the writer's goroutine,
// before Set returns.
type Callback func(old, new any)

// Subscription is the cancellation handle for one observation. It is a weak
// reference: identity and lookup only, the registry inside the model owns
// the observation itself.
type Subscription struct {
	id       uuid.UUID
	model    *Model
	field    int
	fn       Callback
	canceled bool // guarded by model.mu
}

// ID returns the unique identity of the subscription.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Property returns the observed property name.
func (s *Subscription) Property() string {
	return s.model.schema.fields[s.field].Name
}

// Cancel deregisters the observation. Idempotent: canceling twice, or
// canceling after the target model was closed, is a no-op and never an
// error. No further callback fires for this subscription once Cancel
// returns, except for a notification pass already in flight (snapshot
// semantics).
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	m := s.model
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.canceled {
		return
	}
	s.canceled = true
	list := m.subs[s.field]
	for i, sub := range list {
		if sub == s {
			m.subs[s.field] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
}

// Observe registers fn on a named property. Callbacks fire in registration
// order; multiple observations may target the same property. The observation
// binds to this model instance, never to the variable holding it: replacing
// a caller's reference with another model leaves the subscription attached
// to the original instance.
func (m *Model) Observe(name string, fn Callback) (*Subscription, error) {
	i, ok := m.schema.Index(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	if fn == nil {
		return nil, fmt.Errorf("observe %q: nil callback", name)
	}

	sub := &Subscription{
		id:    uuid.New(),
		model: m,
		field: i,
		fn:    fn,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, fmt.Errorf("observe %q: %w", name, ErrClosed)
	}
	m.subs[i] = append(m.subs[i], sub)
	return sub, nil
}

// MatchCallback receives the property name alongside the old and new value.
type MatchCallback func(name string, old, new any)

// ObserveMatch registers fn on every schema property whose name matches the
// doublestar glob pattern. It returns one subscription per matched property;
// a pattern matching nothing returns an empty slice, not an error.
func (m *Model) ObserveMatch(pattern string, fn MatchCallback) ([]*Subscription, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("observe pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	if fn == nil {
		return nil, fmt.Errorf("observe pattern %q: nil callback", pattern)
	}

	var subs []*Subscription
	for _, f := range m.schema.fields {
		ok, err := doublestar.Match(pattern, f.Name)
		if err != nil {
			return nil, fmt.Errorf("observe pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}
		name := f.Name
		sub, err := m.Observe(name, func(old, new any) {
			fn(name, old, new)
		})
		if err != nil {
			for _, s := range subs {
				s.Cancel()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Observers reports the number of active observations for a property.
// Undeclared names report zero.
func (m *Model) Observers(name string) int {
	i, ok := m.schema.Index(name)
	if !ok {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[i])
}
