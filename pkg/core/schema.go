// Package core contains the observable property model runtime.
//
// A Schema declares a fixed, ordered set of named properties. A Model holds
// the current values for one instance of a schema and notifies registered
// observers synchronously on every write. The core is agnostic to storage;
// persistence goes through the Store port and the archive codec.
package core

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind identifies the primitive kind a property may hold.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindBytes  Kind = "bytes"
)

// Field declares a single schema property.
type Field struct {
	Name string
	Kind Kind
}

// coercer normalizes an incoming value to the canonical representation of a
// kind, or reports ErrTypeMismatch.
type coercer func(value any) (any, error)

// Schema is an immutable, ordered set of property declarations.
// It is shared by reference across all model instances of one type.
type Schema struct {
	fields  []Field
	index   map[string]int
	coercer []coercer
}

// Define constructs an immutable schema from the given fields.
// It fails with ErrDuplicateName when two fields share a name, and rejects
// empty names and unknown kinds.
func Define(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields:  make([]Field, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
		coercer: make([]coercer, 0, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field with empty name")
		}
		if _, exists := s.index[f.Name]; exists {
			return nil, fmt.Errorf("field %q: %w", f.Name, ErrDuplicateName)
		}
		c, err := coercerFor(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
		s.coercer = append(s.coercer, c)
	}
	return s, nil
}

// MustDefine is Define that panics on error. For static schema declarations.
func MustDefine(fields ...Field) *Schema {
	s, err := Define(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// KindOf returns the declared kind for a property name.
func (s *Schema) KindOf(name string) (Kind, error) {
	i, ok := s.index[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	return s.fields[i].Kind, nil
}

// Index returns the positional index of a property name.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Names returns the property names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the field declarations in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of declared properties.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Coerce normalizes value to the canonical representation of the kind
// declared for name (string, int64, float64, bool or []byte).
// The per-kind conversion is resolved once at Define time, not per call.
func (s *Schema) Coerce(name string, value any) (any, error) {
	i, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	return s.coerceAt(i, value)
}

func (s *Schema) coerceAt(i int, value any) (any, error) {
	v, err := s.coercer[i](value)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", s.fields[i].Name, err)
	}
	return v, nil
}

func coercerFor(k Kind) (coercer, error) {
	switch k {
	case KindString:
		return coerceString, nil
	case KindInt:
		return coerceInt, nil
	case KindFloat:
		return coerceFloat, nil
	case KindBool:
		return coerceBool, nil
	case KindBytes:
		return coerceBytes, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", k)
	}
}

func coerceString(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, v)
}

// coerceInt accepts the native integer types plus json.Number carrying an
// integral value. Decoded payloads arrive as json.Number because the archive
// serializers parse numbers in strict mode to preserve precision.
func coerceInt(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return nil, fmt.Errorf("%w: unsigned value overflows int", ErrTypeMismatch)
		}
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("%w: unsigned value overflows int", ErrTypeMismatch)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: want int, got number %q", ErrTypeMismatch, n.String())
		}
		return i, nil
	}
	return nil, fmt.Errorf("%w: want int, got %T", ErrTypeMismatch, v)
}

// coerceFloat also accepts integers; the widening is lossless for the value
// ranges a property store deals with and keeps hand-written attribute maps
// ergonomic (a literal 3 for a float property).
func coerceFloat(v any) (any, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: want float, got number %q", ErrTypeMismatch, n.String())
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: want float, got %T", ErrTypeMismatch, v)
}

func coerceBool(v any) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: want bool, got %T", ErrTypeMismatch, v)
}

// coerceBytes copies the slice so the model owns its value slots exclusively;
// callers cannot alias into stored state.
func coerceBytes(v any) (any, error) {
	if b, ok := v.([]byte); ok {
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	}
	return nil, fmt.Errorf("%w: want bytes, got %T", ErrTypeMismatch, v)
}
