package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisBackend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// TTL expires documents that have not been saved for this long.
	// Zero keeps them forever.
	TTL time.Duration
}

// RedisBackend stores each document as a JSON string value.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend connects to redis and verifies the connection.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, backendErr(err, transient, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisBackendFromClient(client, cfg.TTL), nil
}

// NewRedisBackendFromClient wraps an existing client. The backend takes
// ownership of the client and closes it on Close.
func NewRedisBackendFromClient(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

// Name implements Backend.
func (b *RedisBackend) Name() string { return "redis" }

// Load implements Backend.
func (b *RedisBackend) Load(ctx context.Context, key string) (*State, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &State{}, nil
	}
	if err != nil {
		return nil, backendErr(err, transient, "redis get %s", key)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return &s, nil
}

// Save implements Backend. Transient connection failures are retried.
func (b *RedisBackend) Save(ctx context.Context, key string, s *State) error {
	if s == nil {
		s = &State{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	err = retryTransient(ctx, transient, func() error {
		return b.client.Set(ctx, key, data, b.ttl).Err()
	})
	if err != nil {
		return backendErr(err, transient, "redis set %s", key)
	}
	return nil
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return backendErr(err, transient, "redis del %s", key)
	}
	return nil
}

// Close implements Backend.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

var _ Backend = (*RedisBackend)(nil)
