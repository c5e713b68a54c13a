package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "name", "Clay"))
	require.NoError(t, s.Put(ctx, "id", int64(7)))

	v, ok, err := s.Get(ctx, "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Clay", v)

	require.NoError(t, s.Delete(ctx, "name"))
	_, ok, err = s.Get(ctx, "name")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "name"), "deleting an absent key is a no-op")
}

func TestStore_ListAndClear(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "b", int64(2)))
	require.NoError(t, s.Put(ctx, "a", int64(1)))

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys, "keys list in lexical order")

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 0, s.Len())
}

func TestStore_BytesUnaliased(t *testing.T) {
	s := New()
	ctx := context.Background()

	original := []byte{1, 2, 3}
	require.NoError(t, s.Put(ctx, "blob", original))
	original[0] = 99

	v, ok, err := s.Get(ctx, "blob")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)

	v.([]byte)[0] = 42
	again, _, err := s.Get(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again, "callers cannot mutate stored bytes")
}

func TestStore_Introspection(t *testing.T) {
	s := New()
	require.NoError(t, s.Put(context.Background(), "k", "v"))

	state, ok := s.State().(StoreState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Keys)
	assert.Equal(t, "memstore", s.ComponentType())
}
