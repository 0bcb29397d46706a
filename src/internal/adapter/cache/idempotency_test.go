package cache

import (
	"context"
	"net/http"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Minute), mr
}

func TestIdempotencyStoreReserveSaveReplay(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	stored, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, stored)

	_, err = store.Reserve(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)

	require.NoError(t, store.Save(ctx, "k1", StoredResponse{
		Status:      http.StatusOK,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
	}))

	stored, err = store.Reserve(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, http.StatusOK, stored.Status)
	assert.JSONEq(t, `{"success":true}`, string(stored.Body))
}

func TestIdempotencyStoreReleaseAllowsRetry(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k1"))

	stored, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestIdempotencyStoreKeysExpire(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	_, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(idempotencyKeyPrefix+"k1"))

	mr.FastForward(2 * time.Minute)

	stored, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestIdempotencyStoreUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.Reserve(context.Background(), "k1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
