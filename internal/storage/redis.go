package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every Redis key written by RedisStore.
const KeyPrefix = "resume_tailor"

// RedisStore keeps session state in Redis. Every write refreshes the TTL of
// the written key, so idle sessions expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the Redis server at url (redis://...) and pings it.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// RedisKey returns the Redis key for a session entry.
func RedisKey(sessionID, key string) string {
	return KeyPrefix + ":" + sessionID + ":" + key
}

// Get reads a key.
func (s *RedisStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	if err := checkNames(sessionID, key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, RedisKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Put writes a key with the store TTL. A zero TTL keeps the key forever.
func (s *RedisStore) Put(ctx context.Context, sessionID, key string, value []byte) error {
	if err := checkNames(sessionID, key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, RedisKey(sessionID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys; missing keys are ignored.
func (s *RedisStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := checkNames(sessionID, keys...); err != nil {
		return err
	}
	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = RedisKey(sessionID, key)
	}
	if err := s.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
