package keys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySignerStoreGenerateAndLoad(t *testing.T) {
	store := NewInMemorySignerStore()
	ctx := context.Background()

	signer, err := store.Generate(ctx, "Eprefix:current", true)
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "Eprefix:current")
	require.NoError(t, err)
	assert.Equal(t, signer.Verfer().Export(), loaded.Verfer().Export())
}

func TestInMemorySignerStoreLoadMissingSlot(t *testing.T) {
	store := NewInMemorySignerStore()
	_, err := store.Load(context.Background(), "nope")
	assert.Error(t, err)
}

func TestInMemorySignerStoreStoreAndList(t *testing.T) {
	store := NewInMemorySignerStore()
	ctx := context.Background()

	s1, err := NewRandom(true)
	require.NoError(t, err)
	s2, err := NewRandom(false)
	require.NoError(t, err)

	require.NoError(t, store.Store(ctx, "a", s1))
	require.NoError(t, store.Store(ctx, "b", s2))

	slots, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, slots)
}

func TestInMemorySignerStoreStoreRejectsNil(t *testing.T) {
	store := NewInMemorySignerStore()
	err := store.Store(context.Background(), "a", nil)
	assert.Error(t, err)

	s, err := NewRandom(true)
	require.NoError(t, err)
	err = store.Store(context.Background(), "", s)
	assert.Error(t, err)
}

func TestInMemorySignerStoreSign(t *testing.T) {
	store := NewInMemorySignerStore()
	ctx := context.Background()

	signer, err := store.Generate(ctx, "slot", true)
	require.NoError(t, err)

	message := []byte("anchor me")
	sig, err := store.Sign(ctx, "slot", message)
	require.NoError(t, err)

	ok, err := signer.Verfer().Verify(sig, message)
	require.NoError(t, err)
	assert.True(t, ok)
}
