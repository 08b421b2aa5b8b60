package suggestion

import (
	"context"
	"time"
)

// Record is a cached AI suggestion for one liked list.
type Record struct {
	Link      string
	Genre     string
	CreatedAt time.Time
}

// Store caches suggestions by liked-list key. Implementations treat entries
// older than their TTL as missing.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Put(ctx context.Context, key string, rec Record) error
	Close() error
}

const (
	DefaultTTL        = 6 * time.Hour
	DefaultMaxEntries = 1024
	DefaultMaxBytes   = 256 << 10
)

type Config struct {
	PostgresDSN string
	TTL         time.Duration
	MaxEntries  int
	// MaxBytes bounds the in-memory front by the size of cached links and
	// genres.
	MaxBytes int
}

func (c Config) normalized() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	return c
}

// Open returns a memory store, or a memory front over Postgres when a DSN is
// configured.
func Open(ctx context.Context, cfg Config) (Store, error) {
	cfg = cfg.normalized()
	mem := NewMemoryStore(cfg.MaxEntries, cfg.MaxBytes, cfg.TTL)
	if cfg.PostgresDSN == "" {
		return mem, nil
	}
	pg, err := NewPostgresStore(ctx, cfg.PostgresDSN, cfg.TTL)
	if err != nil {
		return nil, err
	}
	return NewTiered(mem, pg), nil
}
