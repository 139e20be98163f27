package session

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type redisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis stores session keys under prefix in Redis, without expiry.
func NewRedis(client redis.UniversalClient, prefix string) Backend {
	return &redisBackend{client: client, prefix: prefix}
}

func (r *redisBackend) Read(ctx context.Context, keys ...string) (map[string]string, error) {
	vals, err := r.client.MGet(ctx, r.prefixed(keys)...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (r *redisBackend) Write(ctx context.Context, values map[string]string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range values {
			p.Set(ctx, r.prefix+k, v, 0)
		}
		return nil
	})
	return err
}

func (r *redisBackend) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, r.prefixed(keys)...).Err()
}

func (r *redisBackend) prefixed(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = r.prefix + k
	}
	return out
}
