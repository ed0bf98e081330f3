package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a Storage backend over a Redis server, for deployments where a
// counter's terminals share one operator session. Keys are namespaced under
// prefix and written with no TTL; session lifetime is governed by the store
// and the server-side token, not by Redis expiry.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis returns a backend over the given client. An empty prefix
// defaults to "fpx".
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "fpx"
	}
	return &Redis{client: client, prefix: prefix}
}

func (s *Redis) key(k string) string {
	return s.prefix + ":" + k
}

// Get returns the value for key.
func (s *Redis) Get(key string) (string, bool, error) {
	val, err := s.client.Get(context.Background(), s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return val, true, nil
}

// SetAll writes every pair in one transactional pipeline.
func (s *Redis) SetAll(pairs map[string]string) error {
	ctx := context.Background()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range pairs {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// DeleteAll removes the given keys in a single DEL.
func (s *Redis) DeleteAll(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(context.Background(), full...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
