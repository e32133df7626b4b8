package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dormdeals/dormdeals/internal/client/migrations"
	"github.com/dormdeals/dormdeals/internal/client/models"
	"github.com/dormdeals/dormdeals/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// SQLiteStore implements TokenStore over a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database at path and applies
// pending migrations.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}
	// SQLite allows a single writer; a second pooled connection would also
	// see a different database entirely when path is ":memory:".
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Tokens returns the saved pair, or nil if either token is missing.
func (s *SQLiteStore) Tokens(ctx context.Context) (*models.TokenPair, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM session WHERE key IN (?, ?)`, keyAccessToken, keyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	access, refresh := values[keyAccessToken], values[keyRefreshToken]
	if access == "" || refresh == "" {
		return nil, nil
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Save writes both tokens in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, pair *models.TokenPair) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := upsert(ctx, tx, keyAccessToken, pair.AccessToken); err != nil {
			return err
		}
		return upsert(ctx, tx, keyRefreshToken, pair.RefreshToken)
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func upsert(ctx context.Context, tx dbx.DBTX, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Clear removes the saved session.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session WHERE key IN (?, ?)`, keyAccessToken, keyRefreshToken)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
