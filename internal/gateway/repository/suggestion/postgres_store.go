package suggestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(ctx context.Context, dsn string, ttl time.Duration) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("open suggestion store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping suggestion store: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &PostgresStore{db: db, ttl: ttl}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS song_suggestions (
  liked_key TEXT PRIMARY KEY,
  link TEXT NOT NULL,
  genre TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_song_suggestions_created_at ON song_suggestions (created_at);
`)
		if s.schemaErr != nil {
			s.schemaErr = fmt.Errorf("create suggestion schema: %w", s.schemaErr)
		}
	})
	return s.schemaErr
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Record, bool, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx, `SELECT link, genre, created_at
FROM song_suggestions WHERE liked_key = $1 AND created_at > $2`,
		key, time.Now().Add(-s.ttl)).Scan(&rec.Link, &rec.Genre, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("get suggestion: %w", err)
	}
	return rec, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO song_suggestions (liked_key, link, genre, created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (liked_key)
DO UPDATE SET link=EXCLUDED.link,
  genre=EXCLUDED.genre,
  created_at=EXCLUDED.created_at`,
		key, rec.Link, rec.Genre, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("put suggestion: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
