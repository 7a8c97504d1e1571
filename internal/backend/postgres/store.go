// Package postgres implements the article-table and profile-store
// capabilities on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store owns the database handle and hands out the capability
// implementations bound to it.
type Store struct {
	db       *sql.DB
	articles *ArticleRepository
	profiles *ProfileRepository
}

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return &Store{
		db:       db,
		articles: NewArticleRepository(db),
		profiles: NewProfileRepository(db),
	}, nil
}

func (s *Store) Articles() *ArticleRepository {
	return s.articles
}

func (s *Store) Profiles() *ProfileRepository {
	return s.profiles
}

// RunMigrations applies the embedded schema migrations. Intended for
// development and test environments where the client provisions its own
// backing tables.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, "migrations")
}

func (s *Store) Close() error {
	return s.db.Close()
}
