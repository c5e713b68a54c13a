// Package typed provides a type-safe view over the core model runtime.
// A schema is derived once from a struct type via reflection; whole structs
// then move in and out of a model through the observed write path.
package typed

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/graft/pkg/core"
)

// Tag is the struct tag consulted for property names.
// `graft:"name"` renames a field, `graft:"-"` skips it; untagged exported
// fields map to their lowercased name.
const Tag = "graft"

// binding connects one schema property to one struct field.
type binding struct {
	name  string
	kind  core.Kind
	index int
}

// SchemaFor derives a core schema from the exported fields of struct type T.
// Supported field types: string, the signed integers, float32/float64, bool
// and []byte. Anything else fails; narrow models beat silent drops.
func SchemaFor[T any]() (*core.Schema, error) {
	_, fields, err := plan[T]()
	if err != nil {
		return nil, err
	}
	return core.Define(fields...)
}

func plan[T any]() ([]binding, []core.Field, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("typed: %s is not a struct", t)
	}

	var bindings []binding
	var fields []core.Field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.ToLower(f.Name)
		if tag, ok := f.Tag.Lookup(Tag); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}
		kind, err := kindOf(f.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("typed: field %s.%s: %w", t.Name(), f.Name, err)
		}
		bindings = append(bindings, binding{name: name, kind: kind, index: i})
		fields = append(fields, core.Field{Name: name, Kind: kind})
	}
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("typed: %s has no usable fields", t)
	}
	return bindings, fields, nil
}

func kindOf(t reflect.Type) (core.Kind, error) {
	switch t.Kind() {
	case reflect.String:
		return core.KindString, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return core.KindInt, nil
	case reflect.Float32, reflect.Float64:
		return core.KindFloat, nil
	case reflect.Bool:
		return core.KindBool, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return core.KindBytes, nil
		}
	}
	return "", fmt.Errorf("unsupported type %s", t)
}

// Model wraps a core.Model with a struct-shaped view.
type Model[T any] struct {
	raw      *core.Model
	bindings []binding
}

// New derives the schema for T and creates an empty model.
func New[T any]() (*Model[T], error) {
	bindings, fields, err := plan[T]()
	if err != nil {
		return nil, err
	}
	schema, err := core.Define(fields...)
	if err != nil {
		return nil, err
	}
	return &Model[T]{raw: core.New(schema), bindings: bindings}, nil
}

// Wrap attaches a struct-shaped view to an existing model. The model's
// schema must declare every property T maps to, with matching kinds.
func Wrap[T any](m *core.Model) (*Model[T], error) {
	bindings, _, err := plan[T]()
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		kind, err := m.Schema().KindOf(b.name)
		if err != nil {
			return nil, fmt.Errorf("typed: %w", err)
		}
		if kind != b.kind {
			return nil, fmt.Errorf("typed: property %q: schema declares %s, struct wants %s: %w",
				b.name, kind, b.kind, core.ErrTypeMismatch)
		}
	}
	return &Model[T]{raw: m, bindings: bindings}, nil
}

// Raw returns the underlying model for observation and property access.
func (t *Model[T]) Raw() *core.Model {
	return t.raw
}

// Snapshot copies the currently set properties into a fresh T.
// Unset properties leave their field at the zero value.
func (t *Model[T]) Snapshot() (T, error) {
	var out T
	target := reflect.ValueOf(&out).Elem()
	for _, b := range t.bindings {
		v, ok, err := t.raw.Get(b.name)
		if err != nil {
			return out, err
		}
		if !ok {
			continue
		}
		field := target.Field(b.index)
		switch b.kind {
		case core.KindString:
			field.SetString(v.(string))
		case core.KindInt:
			field.SetInt(v.(int64))
		case core.KindFloat:
			field.SetFloat(v.(float64))
		case core.KindBool:
			field.SetBool(v.(bool))
		case core.KindBytes:
			field.SetBytes(v.([]byte))
		}
	}
	return out, nil
}

// Apply writes every mapped field of v into the model through the observed
// write path: observers fire per property, in schema order.
func (t *Model[T]) Apply(v T) error {
	source := reflect.ValueOf(v)
	for _, b := range t.bindings {
		field := source.Field(b.index)
		var value any
		switch b.kind {
		case core.KindString:
			value = field.String()
		case core.KindInt:
			value = field.Int()
		case core.KindFloat:
			value = field.Float()
		case core.KindBool:
			value = field.Bool()
		case core.KindBytes:
			value = field.Bytes()
		}
		if err := t.raw.Set(b.name, value); err != nil {
			return err
		}
	}
	return nil
}

// Observe registers fn on the property a struct field maps to, addressed by
// its property name.
func (t *Model[T]) Observe(name string, fn core.Callback) (*core.Subscription, error) {
	return t.raw.Observe(name, fn)
}
