package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// TokenKey is the key the session bearer token is persisted under.
const TokenKey = "userToken"

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating kv table: %w", err)
	}

	return db, nil
}

// Store is a small key-value store backed by sqlite.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	dbConn, err := InitDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return &Store{db: dbConn}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetItem returns sql.ErrNoRows when the key is not set.
func (s *Store) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("failed to get item '%s': %w", key, err)
	}
	return value, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;
	`
	_, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set item '%s': %w", key, err)
	}
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to remove item '%s': %w", key, err)
	}
	return nil
}

// Token returns the persisted bearer token, or "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.GetItem(ctx, TokenKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return token, err
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.SetItem(ctx, TokenKey, token)
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.RemoveItem(ctx, TokenKey)
}
