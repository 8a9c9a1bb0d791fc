package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	// valuePrefix namespaces value keys away from the index set.
	valuePrefix = "kv:"
	// indexKey is the sorted set holding every stored key at score 0,
	// so ZRANGEBYLEX enumerates them in ascending byte order.
	indexKey = "kv:index"
)

// RedisStore is a KVStore backed by Redis. Values live at kv:<key> and all
// keys are mirrored into a lex-ordered index set for prefix enumeration.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Client exposes the underlying Redis client for the rate limiter.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Get returns the value for key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, valuePrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put writes value under key and indexes the key for enumeration.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, valuePrefix+key, value, 0)
	pipe.ZAdd(ctx, indexKey, redis.Z{Score: 0, Member: key})
	_, err := pipe.Exec(ctx)
	return err
}

// Delete removes key and reports whether it existed.
func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	pipe := s.client.Pipeline()
	delCmd := pipe.Del(ctx, valuePrefix+key)
	pipe.ZRem(ctx, indexKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return delCmd.Val() > 0, nil
}

// List returns pairs under prefix in ascending key order, after the given key.
func (s *RedisStore) List(ctx context.Context, prefix, after string, limit int) ([]KeyValue, error) {
	min := "[" + prefix
	if after != "" {
		min = "(" + after // exclusive
	}
	max := "[" + prefix + keyRangeEnd

	keys, err := s.client.ZRangeByLex(ctx, indexKey, &redis.ZRangeBy{
		Min:   min,
		Max:   max,
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	valueKeys := make([]string, len(keys))
	for i, k := range keys {
		valueKeys[i] = valuePrefix + k
	}

	values, err := s.client.MGet(ctx, valueKeys...).Result()
	if err != nil {
		return nil, err
	}

	pairs := make([]KeyValue, 0, len(keys))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // value expired out from under the index
		}
		pairs = append(pairs, KeyValue{Key: keys[i], Value: []byte(str)})
	}
	return pairs, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
