package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"first-nation/registry/internal/config"
	"first-nation/registry/internal/logging"

	"github.com/redis/go-redis/v9"
)

// RedisCacheService implements CacheInterface on Redis so cached state and
// the sync scheduler lock survive process restarts.
type RedisCacheService struct {
	client *redis.Client
	ctx    context.Context
}

var _ CacheInterface = (*RedisCacheService)(nil)

func NewRedisCacheService(cfg config.RedisConfig) (*RedisCacheService, error) {
	client := NewRedisClient(cfg)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCacheService{
		client: client,
		ctx:    ctx,
	}, nil
}

// Set stores a value as JSON. Note that Get hands back the decoded generic
// form, not the original type; callers that cache structs must tolerate a
// failed assertion and recompute.
func (r *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("Redis cache: failed to marshal value", "key", key, "error", err.Error())
		return
	}

	if err := r.client.Set(r.ctx, key, data, duration).Err(); err != nil {
		logging.Warn("Redis cache: failed to set key", "key", key, "error", err.Error())
	}
}

func (r *RedisCacheService) Get(key string) (interface{}, bool) {
	data, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.Warn("Redis cache: failed to get key", "key", key, "error", err.Error())
		return nil, false
	}

	var result interface{}
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		logging.Warn("Redis cache: failed to unmarshal value", "key", key, "error", err.Error())
		return nil, false
	}

	return result, true
}

func (r *RedisCacheService) Delete(key string) {
	if err := r.client.Del(r.ctx, key).Err(); err != nil {
		logging.Warn("Redis cache: failed to delete key", "key", key, "error", err.Error())
	}
}

func (r *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error),
) (interface{}, error) {
	if val, found := r.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	r.Set(key, val, duration)
	return val, nil
}

// SetNX writes the key only when absent. The scheduler uses it as a
// cross-instance run lock.
func (r *RedisCacheService) SetNX(key string, value interface{}, duration time.Duration) bool {
	ok, err := r.client.SetNX(r.ctx, key, value, duration).Result()
	if err != nil {
		logging.Warn("Redis cache: failed to setnx key", "key", key, "error", err.Error())
		return false
	}
	return ok
}

func (r *RedisCacheService) Close() error {
	return r.client.Close()
}
