package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Minute), mr
}

func TestIdempotencyStore_ReservarYGuardar(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	resp, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, resp)

	ok, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok, "la segunda reserva debe fallar")

	_, err = store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrInProgress)

	require.NoError(t, store.Save(ctx, "k1", StoredResponse{Status: 201, ContentType: "application/json", Body: []byte(`{"id":"x"}`)}))
	resp, err = store.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 201, resp.Status)
	assert.JSONEq(t, `{"id":"x"}`, string(resp.Body))
}

func TestIdempotencyStore_Release(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k2")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Release(ctx, "k2"))

	ok, err = store.Reserve(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStore_Expira(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k3", StoredResponse{Status: 200}))
	mr.FastForward(2 * time.Minute)

	resp, err := store.Get(ctx, "k3")
	require.NoError(t, err)
	assert.Nil(t, resp)
}
