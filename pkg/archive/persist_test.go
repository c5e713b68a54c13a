package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/adapters/memstore"
	"github.com/aretw0/graft/pkg/core"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "person-1.name", Key("person-1", "name"))
	assert.Equal(t, "name", Key("", "name"))
}

func TestArchiver_SaveLoad(t *testing.T) {
	schema := personSchema(t)
	store := memstore.New()
	a := NewArchiver()
	ctx := context.Background()

	m := core.New(schema)
	require.NoError(t, m.Set("id", 1000))
	require.NoError(t, m.Set("name", "Clay"))

	require.NoError(t, a.Save(ctx, store, "p1", m))

	loaded, err := a.Load(ctx, store, "p1", schema)
	require.NoError(t, err)

	v, ok, err := loaded.Get("name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Clay", v)
}

func TestArchiver_PartialModel(t *testing.T) {
	schema := personSchema(t)
	store := memstore.New()
	a := NewArchiver()
	ctx := context.Background()

	m := core.New(schema)
	require.NoError(t, m.Set("name", "Clay"))
	require.NoError(t, a.Save(ctx, store, "p1", m))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1.name"}, keys, "unset properties write no keys")

	loaded, err := a.Load(ctx, store, "p1", schema)
	require.NoError(t, err)
	_, ok, err := loaded.Get("id")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArchiver_Purge(t *testing.T) {
	schema := personSchema(t)
	store := memstore.New()
	a := NewArchiver()
	ctx := context.Background()

	m := core.New(schema)
	require.NoError(t, m.Set("id", 1))
	require.NoError(t, m.Set("name", "Clay"))
	require.NoError(t, a.Save(ctx, store, "p1", m))
	require.NoError(t, store.Put(ctx, "other", "survives"))

	require.NoError(t, a.Purge(ctx, store, "p1", schema))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, keys, "purge removes only the schema's keys")
}

func TestArchiver_LoadRejectsForeignKinds(t *testing.T) {
	schema := personSchema(t)
	store := memstore.New()
	ctx := context.Background()

	// A foreign writer stored a string where the schema declares an int.
	require.NoError(t, store.Put(ctx, "p1.id", "oops"))

	_, err := NewArchiver().Load(ctx, store, "p1", schema)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}
