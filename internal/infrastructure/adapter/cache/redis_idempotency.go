package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/middleware"
)

const keyPrefix = "idempotency:"

// Options configures the redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
}

// RedisIdempotencyStore keeps idempotent responses in redis.
// The response lives under <prefix><key>, the in-flight marker under <prefix><key>:lock.
type RedisIdempotencyStore struct {
	client *redis.Client
}

var _ middleware.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// NewRedisIdempotencyStore connects to redis and checks the connection
func NewRedisIdempotencyStore(ctx context.Context, opts Options) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return &RedisIdempotencyStore{client: client}, nil
}

func responseKey(key string) string { return keyPrefix + key }
func lockKey(key string) string     { return keyPrefix + key + ":lock" }

// Lookup returns the stored response, or nil when there is none
func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (*middleware.CachedResponse, error) {
	raw, err := s.client.Get(ctx, responseKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeResponse(raw)
}

// Reserve claims the key with SET NX
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, lockKey(key), "1", ttl).Result()
}

// Save stores the response and drops the reservation in one pipeline
func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, resp *middleware.CachedResponse, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, responseKey(key), raw, ttl)
		pipe.Del(ctx, lockKey(key))
		return nil
	})
	return err
}

// Release drops the reservation
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, lockKey(key)).Err()
}

// Ping checks the connection
func (s *RedisIdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

func decodeResponse(raw []byte) (*middleware.CachedResponse, error) {
	var resp middleware.CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode idempotent response: %w", err)
	}
	return &resp, nil
}
