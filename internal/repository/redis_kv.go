package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "studyhub"

// RedisKV keeps key-value entries in Redis under studyhub:<scope>:<key>.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to addr and checks the connection.
func NewRedisKV(ctx context.Context, addr, password string, db int) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisKV{client: client}, nil
}

func redisKey(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, scope, key)
}

func (r *RedisKV) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, redisKey(scope, key)).Bytes()
	switch {
	case err == nil:
		return value, true, nil
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("get %s/%s: %w", scope, key, err)
	}
}

func (r *RedisKV) Set(ctx context.Context, scope, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKey(scope, key), value, 0).Err(); err != nil {
		return fmt.Errorf("set %s/%s: %w", scope, key, err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
