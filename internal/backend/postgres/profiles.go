package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/backend"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/dbx"
)

// ProfileRepository implements backend.ProfileStore on the profiles table.
type ProfileRepository struct {
	db dbx.DBTX
}

var _ backend.ProfileStore = (*ProfileRepository)(nil)

func NewProfileRepository(db dbx.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	query := `SELECT COALESCE(full_name, ''), COALESCE(avatar_url, '') FROM profiles WHERE id = $1`

	var p models.Profile
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.FullName, &p.AvatarURL)
	if err == sql.ErrNoRows {
		return models.Profile{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile[%s]: %w", id, err)
	}
	return p, nil
}

// UpdateProfile upserts the profile record. Empty fields are left as they
// were, so setting just the avatar does not wipe the name.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, id string, p models.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, avatar_url, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), now())
		ON CONFLICT (id) DO UPDATE SET
			full_name  = COALESCE(NULLIF(EXCLUDED.full_name, ''), profiles.full_name),
			avatar_url = COALESCE(NULLIF(EXCLUDED.avatar_url, ''), profiles.avatar_url),
			updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, id, p.FullName, p.AvatarURL); err != nil {
		return fmt.Errorf("update profile[%s]: %w", id, err)
	}
	return nil
}
