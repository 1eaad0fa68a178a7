package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps one row per namespace key in the documents table.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ KV     = (*SQLiteRepository)(nil)
	_ Pinger = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer keeps SQLite from returning SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SchemaVersion returns the last applied migration. A dirty schema is an error.
func (r *SQLiteRepository) SchemaVersion(ctx context.Context) (uint, error) {
	var (
		version uint
		dirty   bool
	)
	err := r.db.QueryRowContext(ctx, `SELECT version, dirty FROM `+MigrationsTable+` LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// Get implements KV
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document %s: %w", key, err)
	}
	return []byte(body), true, nil
}

// Put implements KV
func (r *SQLiteRepository) Put(ctx context.Context, key string, body []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		key, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put document %s: %w", key, err)
	}

	slog.DebugContext(ctx, "Document saved to SQLite", "key", key, "bytes", len(body))
	return nil
}

// Delete implements KV
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}
