package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

// Connect opens a redis client from either a redis:// URL or a host:port.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

const idempotencyKeyPrefix = "chainpay:idem:"

type idempotencyRow struct {
	RequestHash  string `json:"request_hash"`
	ResponseCode int    `json:"response_code"`
	ResponseBody []byte `json:"response_body,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

// RedisIdempotencyStore keeps submission outcomes in redis with TTL expiry,
// so duplicate deliveries replay the cached result across instances.
type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	raw, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var row idempotencyRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	expiresAt := time.Unix(row.ExpiresAt, 0).UTC()
	if now.After(expiresAt) {
		return nil, nil
	}
	return &ports.IdempotencyRecord{
		Key:          key,
		RequestHash:  row.RequestHash,
		ResponseCode: row.ResponseCode,
		ResponseBody: row.ResponseBody,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error {
	row := idempotencyRow{RequestHash: requestHash, ExpiresAt: expiresAt.Unix()}
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, raw, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, responseCode int, responseBody []byte, _ time.Time) error {
	redisKey := idempotencyKeyPrefix + key
	raw, err := s.client.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	var row idempotencyRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return err
	}
	row.ResponseCode = responseCode
	row.ResponseBody = append([]byte(nil), responseBody...)
	updated, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey, updated, redis.KeepTTL).Err()
}
