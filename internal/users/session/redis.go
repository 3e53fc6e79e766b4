// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultGrace keeps a Redis key alive past its logical deadline so Get can
// still report the entry as expired instead of missing, matching the window a
// [MemoryStore] keeps expired entries until its next sweep.
const DefaultGrace = DefaultSweepInterval

// redisEnvelope is the JSON document stored under each key.
type redisEnvelope[T any] struct {
	Value     T         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedisStore implements [Store] on top of Redis. Each operation is a single
// Redis command, so single-key atomicity comes from the server.
type RedisStore[T any] struct {
	client redis.Cmdable
	prefix string
	grace  time.Duration
	now    func() time.Time
}

// RedisOption configures a [RedisStore].
type RedisOption func(*redisConfig)

type redisConfig struct {
	grace time.Duration
	now   func() time.Time
}

// WithGrace overrides [DefaultGrace].
func WithGrace(grace time.Duration) RedisOption {
	return func(config *redisConfig) { config.grace = grace }
}

// WithRedisClock replaces time.Now when stamping logical deadlines, for tests.
// Key eviction still follows the Redis server clock.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(config *redisConfig) { config.now = now }
}

// NewRedisStore creates a store whose keys are prefix + id.
func NewRedisStore[T any](client redis.Cmdable, prefix string, options ...RedisOption) *RedisStore[T] {
	config := redisConfig{grace: DefaultGrace, now: time.Now}
	for _, option := range options {
		option(&config)
	}

	return &RedisStore[T]{
		client: client,
		prefix: prefix,
		grace:  config.grace,
		now:    config.now,
	}
}

/*
Put serializes value and stores it with a TTL of ttl plus the grace window.

Parameters:
  - context: context.Context
  - id: string (session or index key)
  - value: T
  - ttl: time.Duration (logical lifetime)

Returns:
  - error: Serialization or Redis failures
*/
func (store *RedisStore[T]) Put(context context.Context, id string, value T, ttl time.Duration) error {
	data, err := json.Marshal(redisEnvelope[T]{Value: value, ExpiresAt: store.now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("session_redis_marshal_failed: %w", err)
	}

	if err := store.client.Set(context, store.prefix+id, data, ttl+store.grace).Err(); err != nil {
		return fmt.Errorf("session_redis_put_failed: %w", err)
	}
	return nil
}

/*
Get loads and decodes the entry stored under id.

Returns:
  - Entry[T]: The value with its logical deadline
  - error: ErrNotFound if the key is absent, otherwise Redis failures
*/
func (store *RedisStore[T]) Get(context context.Context, id string) (Entry[T], error) {
	data, err := store.client.Get(context, store.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry[T]{}, ErrNotFound
		}
		return Entry[T]{}, fmt.Errorf("session_redis_get_failed: %w", err)
	}

	var envelope redisEnvelope[T]
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Entry[T]{}, fmt.Errorf("session_redis_unmarshal_failed: %w", err)
	}

	return Entry[T]{Value: envelope.Value, ExpiresAt: envelope.ExpiresAt}, nil
}

// Delete removes the key. Deleting a missing key is not an error.
func (store *RedisStore[T]) Delete(context context.Context, id string) error {
	if err := store.client.Del(context, store.prefix+id).Err(); err != nil {
		return fmt.Errorf("session_redis_delete_failed: %w", err)
	}
	return nil
}
