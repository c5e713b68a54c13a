// Package archive translates models to and from primitive-typed mappings.
//
// The Record is the interchange shape: an ordered mapping from property name
// to a primitive value, suitable for a persistent key-value store. Encode and
// Decode implement the reversible codec; the serializers turn records into
// bytes for file-backed stores.
package archive

// Record is an ordered mapping from property name to a primitive value.
// It is transient: produced by Encode, consumed by a store or a serializer,
// then discarded.
type Record struct {
	names  []string
	values map[string]any
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores value under name, preserving first-insertion order.
func (r *Record) Set(name string, value any) {
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns the value stored under name and whether it is present.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the stored names in insertion order.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of stored entries.
func (r *Record) Len() int {
	return len(r.names)
}

// Map returns the entries as a plain map. The insertion order is lost;
// callers that care about order iterate Names instead.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
