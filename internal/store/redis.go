package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores values as plain redis strings.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	if client == nil {
		panic("store.NewRedisBackend: client is nil")
	}
	return &RedisBackend{client: client}
}

// DialRedis connects to the server at url (redis://host:port/db) and checks
// it is reachable.
func DialRedis(ctx context.Context, url string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisBackend{client: client}, nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoValue
	}
	return v, err
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// GetSetting and SetSetting let the UI keep preferences next to the tasks.
func (r *RedisBackend) GetSetting(key string) (string, error) {
	v, err := r.client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (r *RedisBackend) SetSetting(key, value string) error {
	return r.client.Set(context.Background(), key, value, 0).Err()
}

// Close closes the underlying client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
