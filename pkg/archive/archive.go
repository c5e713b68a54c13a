package archive

import (
	"errors"

	"github.com/aretw0/graft/pkg/core"
)

// Encode emits the set properties of a model as a record, in schema order.
// Unset properties are omitted entirely, not emitted as null; Decode
// tolerates their absence.
func Encode(schema *core.Schema, m *core.Model) (*Record, error) {
	if schema == nil || m == nil {
		return nil, errors.New("encode: nil schema or model")
	}
	rec := NewRecord()
	for _, name := range schema.Names() {
		v, ok, err := m.Get(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		rec.Set(name, v)
	}
	return rec, nil
}

// Decode constructs a fresh model from a record. Record keys absent from the
// schema are ignored; schema properties absent from the record remain unset.
// A present value whose kind disagrees with the schema fails with
// ErrTypeMismatch. No notification fires: the result is a brand-new instance
// with no observers.
func Decode(schema *core.Schema, rec *Record) (*core.Model, error) {
	if schema == nil {
		return nil, errors.New("decode: nil schema")
	}
	if rec == nil {
		return core.New(schema), nil
	}
	return core.NewFromAttributes(schema, rec.Map())
}
