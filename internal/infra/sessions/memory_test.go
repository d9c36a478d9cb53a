package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	got, err := store.Get(ctx, "+52155")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, testSession()))

	got, err = store.Get(ctx, "+5215550001111")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.CustomerName)

	require.NoError(t, store.Delete(ctx, "+5215550001111"))
	got, err = store.Get(ctx, "+5215550001111")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	store.ttl = 10 * time.Millisecond
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession()))
	time.Sleep(25 * time.Millisecond)

	got, err := store.Get(ctx, "+5215550001111")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// Mutating a returned session must not leak into the stored copy until the
// caller saves it back.
func TestMemoryStoreIsolatesCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession()))

	first, err := store.Get(ctx, "+5215550001111")
	require.NoError(t, err)
	first.Cart[0].Quantity = 99
	first.CustomerName = "Mallory"

	second, err := store.Get(ctx, "+5215550001111")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Cart[0].Quantity)
	assert.Equal(t, "Ana", second.CustomerName)
}
