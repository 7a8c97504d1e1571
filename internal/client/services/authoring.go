package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/backend"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/client/repositories/drafts"
	"github.com/nannuru/publisher/internal/logging"
)

// AuthoringService owns the editable article state and mediates between the
// local draft store and the remote publish operation.
//
// Contract:
//   - Initialize: load the stored draft, or start empty dated today.
//   - SetHeading / SetContent: in-memory only; nothing persists per keystroke.
//   - SetImageURL: accept only syntactically valid absolute URLs; on
//     rejection the prior value is kept.
//   - SaveLocally: explicit write of the current draft to local storage.
//   - UploadImage: push file bytes to object storage under a unique key and
//     adopt the public URL as the draft image.
//   - Publish: validate locally, insert remotely, refresh the article cache.
//     The draft is retained after a successful publish so the author can keep
//     editing; on failure it is never touched.
type AuthoringService interface {
	Initialize(ctx context.Context) models.ArticleDraft
	Draft() models.ArticleDraft
	SetHeading(text string) bool
	SetContent(text string)
	SetImageURL(rawURL string) error
	SaveLocally(ctx context.Context) error
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
	Publish(ctx context.Context, identity models.Identity) (models.PublishedArticle, error)
}

type authoringService struct {
	store    *drafts.Store
	table    backend.ArticleTable
	storage  backend.ObjectStorage
	articles ArticlesService
	log      logging.Logger
	now      func() time.Time

	mu    sync.Mutex
	draft models.ArticleDraft
}

func NewAuthoringService(store *drafts.Store, table backend.ArticleTable, storage backend.ObjectStorage, articles ArticlesService, log logging.Logger) AuthoringService {
	return &authoringService{
		store:    store,
		table:    table,
		storage:  storage,
		articles: articles,
		log:      log,
		now:      time.Now,
	}
}

func (s *authoringService) Initialize(ctx context.Context) models.ArticleDraft {
	d, ok := s.store.Load(ctx)
	if !ok {
		d = models.NewDraft(s.now())
	}

	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
	return d
}

func (s *authoringService) Draft() models.ArticleDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetHeading applies text to the draft heading and reports whether it was
// accepted. Input longer than the limit is rejected outright, keeping the
// prior heading; the limit is enforced here at the boundary, never by
// truncating later.
func (s *authoringService) SetHeading(text string) bool {
	if len([]rune(text)) > models.HeadingMaxLen {
		return false
	}
	s.mu.Lock()
	s.draft.Heading = text
	s.mu.Unlock()
	return true
}

func (s *authoringService) SetContent(text string) {
	s.mu.Lock()
	s.draft.Content = text
	s.mu.Unlock()
}

// SetImageURL validates the URL syntactically before accepting it. Invalid
// input leaves the draft untouched and returns apperr.ErrInvalidURL.
func (s *authoringService) SetImageURL(rawURL string) error {
	if !models.ValidImageURL(rawURL) {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidURL, rawURL)
	}
	s.mu.Lock()
	s.draft.ImageURL = rawURL
	s.mu.Unlock()
	return nil
}

func (s *authoringService) SaveLocally(ctx context.Context) error {
	return s.store.Save(ctx, s.Draft())
}

// UploadImage stores the file bytes under a collision-free key (date path,
// random component, original extension), resolves the object's public URL,
// and adopts it as the draft image. An upload failure is a backend failure,
// distinct from URL validation, and leaves the draft image unchanged.
func (s *authoringService) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	key := s.storageKey(filename)
	if err := s.storage.Upload(ctx, key, data); err != nil {
		return "", fmt.Errorf("%w: image upload: %v", apperr.ErrBackend, err)
	}

	url := s.storage.GetPublicURL(key)
	s.mu.Lock()
	s.draft.ImageURL = url
	s.mu.Unlock()
	return url, nil
}

func (s *authoringService) storageKey(filename string) string {
	d := s.now()
	return fmt.Sprintf("articles/%d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), filepath.Ext(filename))
}

// Publish validates the draft and inserts it as a new published article owned
// by identity. Preconditions are checked locally and fail before any backend
// call: a missing identity is apperr.ErrUnauthorized, a blank heading is
// apperr.ErrValidation. A rejected insert is apperr.ErrBackend and leaves the
// local draft exactly as it was, so no work is lost. After a successful
// insert the my-articles cache is refreshed; a failed refresh is non-fatal
// (the article exists remotely either way).
func (s *authoringService) Publish(ctx context.Context, identity models.Identity) (models.PublishedArticle, error) {
	if !identity.Present() {
		return models.PublishedArticle{}, fmt.Errorf("%w: publish requires a signed-in user", apperr.ErrUnauthorized)
	}

	d := s.Draft()
	if strings.TrimSpace(d.Heading) == "" {
		return models.PublishedArticle{}, fmt.Errorf("%w: heading is required", apperr.ErrValidation)
	}
	if err := d.Validate(); err != nil {
		return models.PublishedArticle{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	article := models.PublishedArticle{
		Heading:     d.Heading,
		SubHeading:  d.Content,
		ImageURL:    d.ImageURL,
		CreatedAt:   s.now().UTC(),
		OwnerUserID: identity.ID,
		IsArchived:  false,
	}

	id, err := s.table.Insert(ctx, article)
	if err != nil {
		return models.PublishedArticle{}, fmt.Errorf("%w: publish: %v", apperr.ErrBackend, err)
	}
	article.ID = id
	s.log.Info(ctx, "article published", "id", id, "owner", identity.ID)

	if _, err := s.articles.Refresh(ctx, identity.ID); err != nil {
		// the article exists remotely; the list just does not update yet
		s.log.Warn(ctx, "article list refresh after publish failed", "error", err)
	}
	return article, nil
}
