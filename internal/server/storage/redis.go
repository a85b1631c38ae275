package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tableside/internal/domain"
)

// RedisCartCache holds each table's shared cart as one JSON value. The TTL
// lets abandoned tables expire on their own.
type RedisCartCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartCache(client *redis.Client, ttl time.Duration) *RedisCartCache {
	return &RedisCartCache{Client: client, TTL: ttl}
}

func cartKey(storeID, tableID int64) string {
	return "cart:" + strconv.FormatInt(storeID, 10) + ":" + strconv.FormatInt(tableID, 10)
}

func (c *RedisCartCache) Get(ctx context.Context, storeID, tableID int64) ([]domain.CartItem, error) {
	raw, err := c.Client.Get(ctx, cartKey(storeID, tableID)).Result()
	if errors.Is(err, redis.Nil) {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCartCache) Save(ctx context.Context, storeID, tableID int64, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, cartKey(storeID, tableID), raw, c.TTL).Err()
}

func (c *RedisCartCache) Clear(ctx context.Context, storeID, tableID int64) error {
	return c.Client.Del(ctx, cartKey(storeID, tableID)).Err()
}
