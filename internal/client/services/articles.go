package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/backend"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/logging"
)

// ArticlesService caches the current user's published, non-archived articles.
// Refresh replaces the cached sequence wholesale; there is no incremental
// merge. A failed refresh keeps the previous cache intact.
type ArticlesService interface {
	Refresh(ctx context.Context, ownerID string) ([]models.PublishedArticle, error)
	Cached() []models.PublishedArticle
}

type articlesService struct {
	table backend.ArticleTable
	log   logging.Logger

	mu     sync.Mutex
	cached []models.PublishedArticle
}

func NewArticlesService(table backend.ArticleTable, log logging.Logger) ArticlesService {
	return &articlesService{table: table, log: log}
}

func (s *articlesService) Refresh(ctx context.Context, ownerID string) ([]models.PublishedArticle, error) {
	rows, err := s.table.QueryByOwner(ctx, ownerID, false)
	if err != nil {
		s.log.Warn(ctx, "article list refresh failed", "owner", ownerID, "error", err)
		return nil, fmt.Errorf("%w: refresh articles: %v", apperr.ErrBackend, err)
	}

	s.mu.Lock()
	s.cached = rows
	out := make([]models.PublishedArticle, len(rows))
	copy(out, rows)
	s.mu.Unlock()
	return out, nil
}

func (s *articlesService) Cached() []models.PublishedArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PublishedArticle, len(s.cached))
	copy(out, s.cached)
	return out
}
