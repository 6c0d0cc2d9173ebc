package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresKV stores documents in the documents table created by the
// database migrations
type PostgresKV struct {
	db *sql.DB
}

// NewPostgresKV creates a KV over an open database handle
func NewPostgresKV(db *sql.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

// Get reads a document using parameterized queries
func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM documents WHERE key = $1`

	var value []byte
	err := p.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return value, nil
}

// Set upserts a document
func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO documents (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (p *PostgresKV) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close is a no-op; the database service owns the handle
func (p *PostgresKV) Close() error {
	return nil
}
