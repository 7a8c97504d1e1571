package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/logging"
)

func TestArticles_RefreshReplacesCache(t *testing.T) {
	table := &fakeTable{}
	svc := NewArticlesService(table, logging.Discard())
	ctx := context.Background()

	_, err := table.Insert(ctx, models.PublishedArticle{Heading: "one", OwnerUserID: "u1"})
	require.NoError(t, err)

	got, err := svc.Refresh(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = table.Insert(ctx, models.PublishedArticle{Heading: "two", OwnerUserID: "u1"})
	require.NoError(t, err)

	got, err = svc.Refresh(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Len(t, svc.Cached(), 2)
}

func TestArticles_RefreshExcludesArchivedAndOtherOwners(t *testing.T) {
	table := &fakeTable{}
	svc := NewArticlesService(table, logging.Discard())
	ctx := context.Background()

	table.rows = []models.PublishedArticle{
		{ID: "a1", OwnerUserID: "u1"},
		{ID: "a2", OwnerUserID: "u1", IsArchived: true},
		{ID: "a3", OwnerUserID: "u2"},
	}

	got, err := svc.Refresh(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a1", got[0].ID)
}

func TestArticles_RefreshFailureKeepsPreviousCache(t *testing.T) {
	table := &fakeTable{}
	svc := NewArticlesService(table, logging.Discard())
	ctx := context.Background()

	_, err := table.Insert(ctx, models.PublishedArticle{Heading: "one", OwnerUserID: "u1"})
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, "u1")
	require.NoError(t, err)

	table.queryErr = errors.New("query down")
	_, err = svc.Refresh(ctx, "u1")
	require.ErrorIs(t, err, apperr.ErrBackend)

	// the list simply does not update
	require.Len(t, svc.Cached(), 1)
}

func TestArticles_CachedReturnsCopy(t *testing.T) {
	table := &fakeTable{}
	svc := NewArticlesService(table, logging.Discard())
	ctx := context.Background()

	_, err := table.Insert(ctx, models.PublishedArticle{Heading: "one", OwnerUserID: "u1"})
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, "u1")
	require.NoError(t, err)

	a := svc.Cached()
	a[0].Heading = "mutated"
	require.Equal(t, "one", svc.Cached()[0].Heading)
}
