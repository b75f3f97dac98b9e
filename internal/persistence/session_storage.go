package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStorage keeps server-side session state in Redis.
// It satisfies fiber.Storage so the fiber session store can use it directly.
type SessionStorage struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStorage namespaces session keys under prefix.
func NewSessionStorage(client redis.UniversalClient, prefix string) *SessionStorage {
	return &SessionStorage{client: client, prefix: prefix}
}

// Get returns nil, nil for unknown or expired keys.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.client.Get(context.Background(), s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.client.Set(context.Background(), s.prefix+key, val, exp).Err()
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.client.Del(context.Background(), s.prefix+key).Err()
}

// Reset drops every session under the prefix.
func (s *SessionStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the Redis client is owned by the Redis wrapper.
func (s *SessionStorage) Close() error {
	return nil
}
