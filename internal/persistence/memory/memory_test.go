package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/petpal/internal/persistence"
)

func TestBackend_StoresCopies(t *testing.T) {
	ctx := context.Background()
	b := New()

	_, err := b.Get(ctx, persistence.KeyUser)
	require.ErrorIs(t, err, persistence.ErrNotFound)

	value := []byte(`{"id":"1"}`)
	require.NoError(t, b.Set(ctx, persistence.KeyUser, value))
	value[2] = 'X'

	got, err := b.Get(ctx, persistence.KeyUser)
	require.NoError(t, err)
	require.Equal(t, `{"id":"1"}`, string(got))

	got[0] = '['
	again, _ := b.Get(ctx, persistence.KeyUser)
	require.Equal(t, `{"id":"1"}`, string(again))
}

func TestBackend_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	b := New()
	require.NoError(t, b.Set(ctx, persistence.KeyAuth, []byte(`{}`)))
	b.Raw(persistence.KeyBookings, "[]")

	require.NoError(t, b.Remove(ctx, persistence.KeyAuth))
	require.False(t, b.Has(persistence.KeyAuth))
	require.True(t, b.Has(persistence.KeyBookings))

	require.NoError(t, b.Clear(ctx))
	require.False(t, b.Has(persistence.KeyBookings))
}
