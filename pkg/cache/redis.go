package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

func NewRedisStore(client *redis.Client) *redisStore {
	return &redisStore{client}
}

type redisStore struct {
	client *redis.Client
}

func (s redisStore) Get(key string, value any) (bool, error) {
	data, err := s.client.Get(key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cache key %q: %v", key, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("failed to decode cache key %q: %v", key, err)
	}

	return true, nil
}

func (s redisStore) Set(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %q: %v", key, err)
	}

	if err := s.client.Set(key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %q: %v", key, err)
	}

	return nil
}

func (s redisStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys %v: %v", keys, err)
	}

	return nil
}
