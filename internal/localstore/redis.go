package localstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the local storage contract with Redis, for kiosk or
// shared-terminal deployments where "local" state should survive the
// process. Keys are namespaced per device.
type RedisStore struct {
	client *redis.Client
	prefix string
	ctx    context.Context
}

func NewRedisStore(client *redis.Client, deviceID string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "device:" + deviceID + ":",
		ctx:    context.Background(),
	}
}

func (s *RedisStore) Get(key string) (string, error) {
	value, err := s.client.Get(s.ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *RedisStore) Set(key, value string) error {
	return s.client.Set(s.ctx, s.prefix+key, value, 0).Err()
}

func (s *RedisStore) Delete(key string) error {
	return s.client.Del(s.ctx, s.prefix+key).Err()
}

var _ Store = (*RedisStore)(nil)
