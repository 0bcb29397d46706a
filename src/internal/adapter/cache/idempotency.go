package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

const (
	idempotencyKeyPrefix = "idempotency:"
	pendingMarker        = "__pending__"
)

// StoredResponse is the recorded outcome of a request, replayed for retries
// that carry the same idempotency key.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyStore keeps request outcomes in Redis. A key is first reserved
// with SETNX so two concurrent retries cannot both execute.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key for a new request. When the key was already used it
// returns the stored response, or ErrDuplicateRequest while the first request
// is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (*StoredResponse, error) {
	redisKey := idempotencyKeyPrefix + key

	reserved, err := s.client.SetNX(ctx, redisKey, pendingMarker, s.ttl).Result()
	if err != nil {
		return nil, domain.Unavailable(fmt.Errorf("reserve idempotency key: %w", err))
	}
	if reserved {
		return nil, nil
	}

	raw, err := s.client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; try once more.
		reserved, err = s.client.SetNX(ctx, redisKey, pendingMarker, s.ttl).Result()
		if err != nil {
			return nil, domain.Unavailable(fmt.Errorf("reserve idempotency key: %w", err))
		}
		if reserved {
			return nil, nil
		}
		return nil, domain.ErrDuplicateRequest
	}
	if err != nil {
		return nil, domain.Unavailable(fmt.Errorf("read idempotency key: %w", err))
	}
	if raw == pendingMarker {
		return nil, domain.ErrDuplicateRequest
	}

	var stored StoredResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, domain.Unavailable(fmt.Errorf("decode idempotency record: %w", err))
	}
	return &stored, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, key string, response StoredResponse) error {
	raw, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode idempotency record: %w", err)
	}
	if err := s.client.Set(ctx, idempotencyKeyPrefix+key, raw, s.ttl).Err(); err != nil {
		return domain.Unavailable(fmt.Errorf("save idempotency record: %w", err))
	}
	return nil
}

// Release drops a reservation so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKeyPrefix+key).Err(); err != nil {
		return domain.Unavailable(fmt.Errorf("release idempotency key: %w", err))
	}
	return nil
}
