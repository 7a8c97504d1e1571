package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db)
}

func TestRepository_GetMissingKey(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRepository_SetGetOverwrite(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "draft", "v1"))

	v, ok, err := repo.Get(ctx, "draft")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", v)

	// save overwrites unconditionally
	require.NoError(t, repo.Set(ctx, "draft", "v2"))
	v, ok, err = repo.Get(ctx, "draft")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", v)
}

func TestRepository_Update(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// absent key: fn sees ok=false and seeds the value
	err := repo.Update(ctx, "counter", func(old string, ok bool) (string, error) {
		require.False(t, ok)
		require.Empty(t, old)
		return "1", nil
	})
	require.NoError(t, err)

	// present key: fn sees the stored value
	err = repo.Update(ctx, "counter", func(old string, ok bool) (string, error) {
		require.True(t, ok)
		require.Equal(t, "1", old)
		return "2", nil
	})
	require.NoError(t, err)

	v, ok, err := repo.Get(ctx, "counter")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", v)
}

func TestRepository_UpdateFnErrorRollsBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v1"))

	wantErr := errors.New("boom")
	err := repo.Update(ctx, "k", func(string, bool) (string, error) {
		return "", wantErr
	})
	require.ErrorIs(t, err, wantErr)

	v, _, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v1", v)
}

func TestRepository_Remove(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v"))
	require.NoError(t, repo.Remove(ctx, "k"))

	_, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// removing an absent key is a no-op
	require.NoError(t, repo.Remove(ctx, "k"))
}
