package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smileynet/abook/internal/book"
)

// RedisStore persists the snapshot as JSON under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a RedisStore that owns client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load fetches and decodes the snapshot key.
func (s *RedisStore) Load(ctx context.Context) (book.Snapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return book.Snapshot{}, false, nil
		}
		return book.Snapshot{}, false, fmt.Errorf("state: redis get %s: %w", s.key, err)
	}

	var snap book.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return book.Snapshot{}, false, fmt.Errorf("state: parsing redis key %s: %w", s.key, err)
	}
	return snap, true, nil
}

// Save replaces the snapshot key. SET is atomic, so readers never see a
// partial snapshot.
func (s *RedisStore) Save(ctx context.Context, snap book.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("state: marshaling: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("state: redis set %s: %w", s.key, err)
	}
	return nil
}

// Quarantine renames the snapshot key to <key>:corrupt and returns the
// new key.
func (s *RedisStore) Quarantine(ctx context.Context) (string, error) {
	dest := s.key + ":corrupt"
	if err := s.client.Rename(ctx, s.key, dest).Err(); err != nil {
		return "", fmt.Errorf("state: redis rename %s: %w", s.key, err)
	}
	return dest, nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
