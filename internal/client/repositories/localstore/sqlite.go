// Package localstore implements client-local persistent storage as a
// key/value table in SQLite. It backs the draft store and the known-accounts
// registry. Access is synchronous; concurrent processes sharing one database
// get last-write-wins semantics and nothing stronger.
package localstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/nannuru/publisher/internal/dbx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (creating if necessary) the local database at dsn and applies
// pending migrations. The handle is limited to a single connection: this is
// a single-user client database, not a pool.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local db: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Repository is the SQLite-backed key/value store.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stored value for key. A missing key is (_, false, nil).
func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM local_kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get local_kv[%s]: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO local_kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set local_kv[%s]: %w", key, err)
	}
	return nil
}

// Update applies fn to the current value of key and stores the result, all
// inside one transaction, so a concurrent writer cannot slip in between the
// read and the write. fn receives ok=false when the key does not exist yet.
func (r *Repository) Update(ctx context.Context, key string, fn func(old string, ok bool) (string, error)) error {
	return dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		var old string
		ok := true
		err := tx.QueryRowContext(ctx, `SELECT value FROM local_kv WHERE key = ?`, key).Scan(&old)
		if err == sql.ErrNoRows {
			ok = false
		} else if err != nil {
			return fmt.Errorf("failed to get local_kv[%s]: %w", key, err)
		}

		next, err := fn(old, ok)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO local_kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, next)
		if err != nil {
			return fmt.Errorf("failed to set local_kv[%s]: %w", key, err)
		}
		return nil
	})
}

func (r *Repository) Remove(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM local_kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete local_kv[%s]: %w", key, err)
	}
	return nil
}
