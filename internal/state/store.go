// Package state persists address book snapshots.
package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/abook/internal/book"
	"github.com/smileynet/abook/internal/config"
)

// Store loads and saves a full Book snapshot.
type Store interface {
	// Load returns (snapshot, true, nil) if one was saved before and
	// (zero, false, nil) if nothing has been persisted yet.
	Load(ctx context.Context) (book.Snapshot, bool, error)
	Save(ctx context.Context, s book.Snapshot) error
	// Quarantine moves an unreadable snapshot aside so the next Save does
	// not overwrite it. It returns where the snapshot now lives.
	Quarantine(ctx context.Context) (string, error)
	Close() error
}

// Compile-time checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// Open builds the Store selected by cfg.Backend.
func Open(cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		c, err := codecFor(cfg.Format)
		if err != nil {
			return nil, err
		}
		return NewFileStore(cfg.Path, c), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client, cfg.Redis.Key), nil
	default:
		return nil, fmt.Errorf("state: unknown backend %q", cfg.Backend)
	}
}

// Codec encodes snapshots to bytes and back.
type Codec struct {
	Name      string
	Marshal   func(v any) ([]byte, error)
	Unmarshal func(data []byte, v any) error
}

// Snapshot codecs.
var (
	JSON = Codec{
		Name: config.FormatJSON,
		Marshal: func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		},
		Unmarshal: json.Unmarshal,
	}
	YAML = Codec{
		Name:      config.FormatYAML,
		Marshal:   yaml.Marshal,
		Unmarshal: yaml.Unmarshal,
	}
)

func codecFor(format string) (Codec, error) {
	switch format {
	case config.FormatJSON, "":
		return JSON, nil
	case config.FormatYAML:
		return YAML, nil
	default:
		return Codec{}, fmt.Errorf("state: unknown format %q", format)
	}
}
