// Package drafts persists the single in-progress article draft to client
// storage so it survives reloads. At most one draft is retained; saving
// overwrites unconditionally.
package drafts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/backend"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/logging"
)

const draftKey = "article_draft"

type Store struct {
	kv  backend.KVStore
	log logging.Logger
}

func NewStore(kv backend.KVStore, log logging.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Load returns the stored draft, or ok=false when none exists. A stored value
// that cannot be parsed degrades to "no draft" and is only logged; corrupt
// local data must never be fatal.
func (s *Store) Load(ctx context.Context) (models.ArticleDraft, bool) {
	raw, ok, err := s.kv.Get(ctx, draftKey)
	if err != nil {
		s.log.Warn(ctx, "draft load failed, starting empty", "error", err)
		return models.ArticleDraft{}, false
	}
	if !ok {
		return models.ArticleDraft{}, false
	}

	var d models.ArticleDraft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		s.log.Warn(ctx, "stored draft unreadable, starting empty",
			"error", fmt.Errorf("%w: %v", apperr.ErrStorageParse, err))
		return models.ArticleDraft{}, false
	}
	return d, true
}

// Save writes the draft, replacing whatever was stored before.
func (s *Store) Save(ctx context.Context, d models.ArticleDraft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.kv.Set(ctx, draftKey, string(raw)); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}
