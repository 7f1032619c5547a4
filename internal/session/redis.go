package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAccess  = "access_token"
	fieldRefresh = "refresh_token"
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(id string) string { return fmt.Sprintf("session:%s", id) }

func (r *RedisStore) Get(ctx context.Context, id string) (Tokens, error) {
	vals, err := r.rdb.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return Tokens{}, err
	}
	if len(vals) == 0 {
		return Tokens{}, ErrNotFound
	}
	return Tokens{AccessToken: vals[fieldAccess], RefreshToken: vals[fieldRefresh]}, nil
}

func (r *RedisStore) Put(ctx context.Context, id string, t Tokens, ttl time.Duration) error {
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key(id))
	pipe.HSet(ctx, key(id), fieldAccess, t.AccessToken, fieldRefresh, t.RefreshToken)
	if ttl > 0 {
		pipe.Expire(ctx, key(id), ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, key(id)).Err()
}
