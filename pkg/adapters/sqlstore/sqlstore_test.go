package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/core"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "graft.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RoundTripAllKinds(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	values := map[string]any{
		"name":   "Clay",
		"id":     int64(1152921504606846976),
		"score":  9.5,
		"active": true,
		"avatar": []byte{0xDE, 0xAD},
	}
	for k, v := range values {
		require.NoError(t, s.Put(ctx, k, v))
	}

	for k, want := range values {
		got, ok, err := s.Get(ctx, k)
		require.NoError(t, err)
		require.True(t, ok, "key %s", k)
		assert.Equal(t, want, got, "key %s", k)
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", int64(1)))
	require.NoError(t, s.Put(ctx, "k", "now a string"))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "now a string", v, "overwrite replaces both kind and value")
}

func TestStore_DeleteListClear(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "b", int64(2)))
	require.NoError(t, s.Put(ctx, "a", int64(1)))

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"), "deleting an absent key is a no-op")

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx))
	keys, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_RejectsForeignTypes(t *testing.T) {
	s := tempStore(t)
	err := s.Put(context.Background(), "k", struct{}{})
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graft.db")
	ctx := context.Background()

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "name", "Clay"))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Clay", v)
}

func TestStore_Introspection(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Put(context.Background(), "k", "v"))

	state, ok := s.State().(StoreState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Keys)
	assert.Equal(t, "sqlstore", s.ComponentType())
}
