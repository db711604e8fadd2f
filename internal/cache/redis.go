package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return &RedisClient{
		client: rdb,
		log:    log,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisClient) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// RedisPermissionCache хранит права пользователя JSON-объектом под ключом perms:<id>.
// Ошибки Redis не прерывают запрос: вызов уходит в базу.
type RedisPermissionCache struct {
	rdb *RedisClient
	ttl time.Duration
}

func NewRedisPermissionCache(rdb *RedisClient, ttl time.Duration) *RedisPermissionCache {
	return &RedisPermissionCache{rdb: rdb, ttl: ttl}
}

func permKey(userID uint) string { return fmt.Sprintf("perms:%d", userID) }

func (c *RedisPermissionCache) Get(ctx context.Context, userID uint) (PermissionSet, bool) {
	raw, err := c.rdb.Get(ctx, permKey(userID))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.rdb.log.Warn("Redis get failed", zap.Uint("user_id", userID), zap.Error(err))
		}
		return PermissionSet{}, false
	}
	var set PermissionSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		c.rdb.log.Warn("Redis value is not a permission set", zap.Uint("user_id", userID), zap.Error(err))
		return PermissionSet{}, false
	}
	return set.clone(), true
}

func (c *RedisPermissionCache) Set(ctx context.Context, userID uint, set PermissionSet) {
	data, err := json.Marshal(set.clone())
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, permKey(userID), data, c.ttl); err != nil {
		c.rdb.log.Warn("Redis set failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (c *RedisPermissionCache) Invalidate(ctx context.Context, userID uint) {
	if err := c.rdb.Del(ctx, permKey(userID)); err != nil {
		c.rdb.log.Warn("Redis del failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
