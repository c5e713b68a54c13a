package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/core"
)

func fullSchema(t *testing.T) *core.Schema {
	t.Helper()
	s, err := core.Define(
		core.Field{Name: "id", Kind: core.KindInt},
		core.Field{Name: "score", Kind: core.KindFloat},
		core.Field{Name: "name", Kind: core.KindString},
		core.Field{Name: "active", Kind: core.KindBool},
		core.Field{Name: "avatar", Kind: core.KindBytes},
	)
	require.NoError(t, err)
	return s
}

func fullRecord() *Record {
	rec := NewRecord()
	rec.Set("id", int64(1152921504606846976)) // 2^60: survives only with strict numbers
	rec.Set("score", 9.5)
	rec.Set("name", "Clay")
	rec.Set("active", true)
	rec.Set("avatar", []byte{0xDE, 0xAD, 0xBE, 0xEF})
	return rec
}

func TestSerializers_RoundTrip(t *testing.T) {
	schema := fullSchema(t)

	for name, s := range DefaultSerializers() {
		t.Run(name, func(t *testing.T) {
			data, err := s.Marshal(fullRecord())
			require.NoError(t, err)

			got, err := s.Unmarshal(data, schema)
			require.NoError(t, err)

			for _, want := range []struct {
				key   string
				value any
			}{
				{"id", int64(1152921504606846976)},
				{"score", 9.5},
				{"name", "Clay"},
				{"active", true},
				{"avatar", []byte{0xDE, 0xAD, 0xBE, 0xEF}},
			} {
				v, ok := got.Get(want.key)
				require.True(t, ok, "key %s missing", want.key)
				assert.Equal(t, want.value, v, "key %s", want.key)
			}
		})
	}
}

func TestSerializers_DecodeIntoModel(t *testing.T) {
	schema := fullSchema(t)
	s := NewJSONSerializer()

	data, err := s.Marshal(fullRecord())
	require.NoError(t, err)

	rec, err := s.Unmarshal(data, schema)
	require.NoError(t, err)

	m, err := Decode(schema, rec)
	require.NoError(t, err)

	v, ok, err := m.Get("id")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1152921504606846976), v)
}

func TestSerializer_UnknownKeysCarriedThrough(t *testing.T) {
	schema := fullSchema(t)
	s := NewYAMLSerializer()

	rec, err := s.Unmarshal([]byte("name: Clay\nmystery: 42\n"), schema)
	require.NoError(t, err)

	_, ok := rec.Get("mystery")
	assert.True(t, ok, "unknown keys survive parsing; Decode ignores them later")

	m, err := Decode(schema, rec)
	require.NoError(t, err)
	v, ok, err := m.Get("name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Clay", v)
}

func TestSerializer_TypeMismatch(t *testing.T) {
	schema := fullSchema(t)

	_, err := NewYAMLSerializer().Unmarshal([]byte("id: not-a-number\n"), schema)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}

func TestSerializer_SchemaOrderInRecord(t *testing.T) {
	schema := fullSchema(t)
	s := NewYAMLSerializer()

	// YAML maps are unordered; the parsed record must still lead with the
	// schema's declaration order.
	rec, err := s.Unmarshal([]byte("name: Clay\nid: 7\n"), schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, rec.Names())
}
