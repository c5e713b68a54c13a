package archive

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/graft/pkg/core"
)

// Serializer defines how to read and write a record in a specific format.
// Unmarshal is schema-aware: formats flatten primitive kinds (every YAML
// number could be an int or a float), so the declared kind drives the
// conversion back to canonical values.
type Serializer interface {
	// Marshal converts the record to bytes.
	Marshal(rec *Record) ([]byte, error)
	// Unmarshal parses data into a record, coercing known keys to the kinds
	// the schema declares. Unknown keys are carried through untouched.
	Unmarshal(data []byte, schema *core.Schema) (*Record, error)
}

// DefaultSerializers returns the standard set of serializers keyed by file
// extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML records.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Marshal(rec *Record) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("marshal: nil record")
	}
	return yaml.Marshal(rec.Map())
}

func (s *YAMLSerializer) Unmarshal(data []byte, schema *core.Schema) (*Record, error) {
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return buildRecord(payload, schema)
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON records. Numbers are
// parsed as json.Number so large integers survive the round trip; byte
// values travel as base64 strings.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Marshal(rec *Record) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("marshal: nil record")
	}
	// encoding/json base64-encodes []byte values natively.
	return json.MarshalIndent(rec.Map(), "", "  ")
}

func (s *JSONSerializer) Unmarshal(data []byte, schema *core.Schema) (*Record, error) {
	var payload map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return buildRecord(payload, schema)
}

// buildRecord assembles a record from a decoded payload: schema properties
// first in declaration order, coerced to their declared kind, then any
// unknown keys as-is (Decode will ignore them, but the record stays a
// faithful view of the payload).
func buildRecord(payload map[string]any, schema *core.Schema) (*Record, error) {
	rec := NewRecord()
	if payload == nil {
		return rec, nil
	}

	known := make(map[string]bool, schema.Len())
	for _, f := range schema.Fields() {
		known[f.Name] = true
		raw, ok := payload[f.Name]
		if !ok {
			continue
		}
		v, err := coerceStored(schema, f, raw)
		if err != nil {
			return nil, err
		}
		rec.Set(f.Name, v)
	}

	for key, raw := range payload {
		if !known[key] {
			rec.Set(key, raw)
		}
	}
	return rec, nil
}

// coerceStored widens the serializer-specific representations before the
// schema coercion: base64 strings for byte kinds (JSON) and strings holding
// raw bytes (yaml !!binary decoded into an any).
func coerceStored(schema *core.Schema, f core.Field, raw any) (any, error) {
	if f.Kind == core.KindBytes {
		if s, ok := raw.(string); ok {
			decoded, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				// Not base64: treat the string's raw bytes as the value.
				return []byte(s), nil
			}
			return decoded, nil
		}
	}
	return schema.Coerce(f.Name, raw)
}
