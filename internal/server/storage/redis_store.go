package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	gameKeyPrefix = "game:"

	defaultGameExpiration = 12 * time.Hour
)

// RedisStore Redis 存储
type RedisStore struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedisStore 创建 Redis 存储，expiration <= 0 时使用默认过期时间
func NewRedisStore(client *redis.Client, expiration time.Duration) *RedisStore {
	if expiration <= 0 {
		expiration = defaultGameExpiration
	}
	return &RedisStore{client: client, expiration: expiration}
}

// SaveGame 保存对局，每次保存都会刷新过期时间
func (rs *RedisStore) SaveGame(ctx context.Context, data *GameData) error {
	if data == nil {
		return nil
	}

	jsonData, err := encode(data)
	if err != nil {
		return err
	}

	return rs.client.Set(ctx, gameKeyPrefix+data.ID, jsonData, rs.expiration).Err()
}

// LoadGame 从 Redis 加载对局
func (rs *RedisStore) LoadGame(ctx context.Context, id string) (*GameData, error) {
	b, err := rs.client.Get(ctx, gameKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 对局不存在
		}
		return nil, err
	}
	return decode(b)
}

// DeleteGame 从 Redis 删除对局
func (rs *RedisStore) DeleteGame(ctx context.Context, id string) error {
	return rs.client.Del(ctx, gameKeyPrefix+id).Err()
}

// GetAllGameIDs 获取所有对局 ID
func (rs *RedisStore) GetAllGameIDs(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := rs.client.Scan(ctx, cursor, gameKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			ids = append(ids, key[len(gameKeyPrefix):])
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return ids, nil
}

// Ping 检查 Redis 连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
