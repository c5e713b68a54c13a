package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := Define(
		Field{Name: "id", Kind: KindInt},
		Field{Name: "name", Kind: KindString},
	)
	require.NoError(t, err)
	return s
}

func TestModel_GetSet(t *testing.T) {
	m := New(personSchema(t))

	// Everything starts unset.
	v, ok, err := m.Get("id")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)

	require.NoError(t, m.Set("id", 1000))

	v, ok, err = m.Get("id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1000), v)
}

func TestModel_GetSetErrors(t *testing.T) {
	m := New(personSchema(t))

	_, _, err := m.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownProperty)

	assert.ErrorIs(t, m.Set("missing", 1), ErrUnknownProperty)
	assert.ErrorIs(t, m.Set("id", "not-a-number"), ErrTypeMismatch)

	// A failed write leaves the property untouched.
	_, ok, err := m.Get("id")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewFromAttributes(t *testing.T) {
	schema := personSchema(t)

	t.Run("Permissive Unknown Keys", func(t *testing.T) {
		m, err := NewFromAttributes(schema, map[string]any{
			"name":  "Clay",
			"extra": "ignored",
		})
		require.NoError(t, err)

		v, ok, err := m.Get("name")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Clay", v)

		_, ok, err = m.Get("id")
		require.NoError(t, err)
		assert.False(t, ok, "absent attribute stays unset")
	})

	t.Run("Type Mismatch On Recognized Key", func(t *testing.T) {
		_, err := NewFromAttributes(schema, map[string]any{"id": "1000"})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("No Notification During Construction", func(t *testing.T) {
		// Observers cannot exist before construction returns, so the only
		// observable contract is that a subsequent Set still reports the
		// seeded value as old.
		m, err := NewFromAttributes(schema, map[string]any{"name": "Clay"})
		require.NoError(t, err)

		var gotOld any
		_, err = m.Observe("name", func(old, _ any) { gotOld = old })
		require.NoError(t, err)

		require.NoError(t, m.Set("name", "Ada"))
		assert.Equal(t, "Clay", gotOld)
	})
}

func TestModel_SetAlwaysNotifies(t *testing.T) {
	m := New(personSchema(t))

	var calls int
	_, err := m.Observe("name", func(old, new any) { calls++ })
	require.NoError(t, err)

	require.NoError(t, m.Set("name", "Clay"))
	require.NoError(t, m.Set("name", "Clay"))
	assert.Equal(t, 2, calls, "writing an equal value still notifies")
}

func TestModel_NotifyOldAndNew(t *testing.T) {
	m := New(personSchema(t))

	type pair struct{ old, new any }
	var got []pair
	_, err := m.Observe("name", func(old, new any) {
		got = append(got, pair{old, new})
	})
	require.NoError(t, err)

	require.NoError(t, m.Set("name", "Clay"))
	require.NoError(t, m.Set("name", "Ada"))

	require.Len(t, got, 2)
	assert.Equal(t, pair{nil, "Clay"}, got[0], "first write reports nil as old")
	assert.Equal(t, pair{"Clay", "Ada"}, got[1])
}

func TestModel_NotificationOrder(t *testing.T) {
	m := New(personSchema(t))

	var order []string
	_, err := m.Observe("name", func(_, _ any) { order = append(order, "first") })
	require.NoError(t, err)
	_, err = m.Observe("name", func(_, _ any) { order = append(order, "second") })
	require.NoError(t, err)

	require.NoError(t, m.Set("name", "Clay"))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestModel_Unset(t *testing.T) {
	m := New(personSchema(t))
	require.NoError(t, m.Set("id", 7))

	require.NoError(t, m.Unset("id"))
	_, ok, err := m.Get("id")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, m.Unset("missing"), ErrUnknownProperty)
}

func TestModel_Close(t *testing.T) {
	m := New(personSchema(t))

	var calls int
	sub, err := m.Observe("name", func(_, _ any) { calls++ })
	require.NoError(t, err)

	m.Close()
	m.Close() // idempotent

	assert.ErrorIs(t, m.Set("name", "Clay"), ErrClosed)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, m.Observers("name"), "close drops all observations")

	// Canceling a handle whose target was closed is a no-op.
	sub.Cancel()

	// Reads keep working after close.
	_, ok, err := m.Get("name")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Observe("name", func(_, _ any) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestModel_BytesOwnership(t *testing.T) {
	s := MustDefine(Field{Name: "avatar", Kind: KindBytes})
	m := New(s)

	in := []byte{1, 2, 3}
	require.NoError(t, m.Set("avatar", in))
	in[0] = 99

	v, ok, err := m.Get("avatar")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)

	// Mutating the returned slice must not leak back into the model.
	v.([]byte)[1] = 42
	v2, _, _ := m.Get("avatar")
	assert.Equal(t, []byte{1, 2, 3}, v2)
}
