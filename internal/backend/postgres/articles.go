package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/backend"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/dbx"
)

// ArticleRepository implements backend.ArticleTable. Articles are insert-only
// from this client; archiving is someone else's job and is only ever read
// here.
type ArticleRepository struct {
	db dbx.DBTX
}

var _ backend.ArticleTable = (*ArticleRepository)(nil)

func NewArticleRepository(db dbx.DBTX) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Insert(ctx context.Context, article models.PublishedArticle) (string, error) {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}

	query := `
		INSERT INTO articles (id, heading, sub_heading, image_url, created_at, owner_user_id, is_archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Heading, article.SubHeading, article.ImageURL,
		article.CreatedAt, article.OwnerUserID, article.IsArchived,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert article: %w", err)
	}
	return id, nil
}

func (r *ArticleRepository) QueryByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]models.PublishedArticle, error) {
	query := `
		SELECT id, heading, sub_heading, image_url, created_at, owner_user_id, is_archived
		FROM articles
		WHERE owner_user_id = $1 AND ($2 OR NOT is_archived)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("query articles by owner: %w", err)
	}
	defer rows.Close()

	var out []models.PublishedArticle
	for rows.Next() {
		var a models.PublishedArticle
		if err := rows.Scan(&a.ID, &a.Heading, &a.SubHeading, &a.ImageURL, &a.CreatedAt, &a.OwnerUserID, &a.IsArchived); err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}
	return out, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (models.PublishedArticle, error) {
	query := `
		SELECT id, heading, sub_heading, image_url, created_at, owner_user_id, is_archived
		FROM articles
		WHERE id = $1`

	var a models.PublishedArticle
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.Heading, &a.SubHeading, &a.ImageURL, &a.CreatedAt, &a.OwnerUserID, &a.IsArchived)
	if err == sql.ErrNoRows {
		return models.PublishedArticle{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.PublishedArticle{}, fmt.Errorf("get article by id: %w", err)
	}
	return a, nil
}
