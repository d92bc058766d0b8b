package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dmapi/internal/database"
	"dmapi/internal/domain"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestDownloadPersistAssignsID(t *testing.T) {
	repo := NewDownloadRepository(setupDB(t))
	ctx := context.Background()

	d := &domain.Download{Title: "Report Q1", AuthorID: 1, Status: domain.StatusPublish}
	require.NoError(t, repo.Persist(ctx, d))
	require.NotZero(t, d.ID)

	stored, err := repo.RetrieveSingle(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Report Q1", stored.Title)
}

func TestDownloadPersistRejectsEmptyTitle(t *testing.T) {
	repo := NewDownloadRepository(setupDB(t))
	require.Error(t, repo.Persist(context.Background(), &domain.Download{AuthorID: 1}))
}

func TestDownloadRetrieveSingleNotFound(t *testing.T) {
	repo := NewDownloadRepository(setupDB(t))

	_, err := repo.RetrieveSingle(context.Background(), 999999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadDelete(t *testing.T) {
	repo := NewDownloadRepository(setupDB(t))
	ctx := context.Background()

	d := &domain.Download{Title: "Report", AuthorID: 1, Status: domain.StatusPublish}
	require.NoError(t, repo.Persist(ctx, d))

	require.NoError(t, repo.Delete(ctx, d.ID))
	_, err := repo.RetrieveSingle(ctx, d.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, d.ID), ErrNotFound)
}

func TestDownloadRetrieveOrdering(t *testing.T) {
	db := setupDB(t)
	repo := NewDownloadRepository(db)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Persist(ctx, &domain.Download{Title: title, AuthorID: 1, Status: domain.StatusPublish}))
	}

	downloads, err := repo.Retrieve(ctx, DownloadFilter{OrderBy: "id", Order: "DESC"})
	require.NoError(t, err)
	require.Len(t, downloads, 3)
	require.Equal(t, "third", downloads[0].Title)

	count, err := repo.NumRows(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}

func TestVersionPersistDerivesFileFields(t *testing.T) {
	repo := NewVersionRepository(setupDB(t))
	ctx := context.Background()

	v := &domain.Version{
		DownloadID: 1,
		Version:    "1.0",
		URL:        "http://example.com/files/Report%20Q1.PDF?sig=abc",
		AuthorID:   1,
	}
	require.NoError(t, repo.Persist(ctx, v))
	require.NotZero(t, v.ID)

	stored, err := repo.RetrieveSingle(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, "Report Q1.PDF", stored.Filename)
	require.Equal(t, "pdf", stored.Filetype)
	require.EqualValues(t, 0, stored.DownloadCount)
}

func TestVersionPersistRejectsMissingParentOrURL(t *testing.T) {
	repo := NewVersionRepository(setupDB(t))
	ctx := context.Background()

	require.Error(t, repo.Persist(ctx, &domain.Version{Version: "1.0", URL: "http://example.com/f.pdf"}))
	require.Error(t, repo.Persist(ctx, &domain.Version{DownloadID: 1, Version: "1.0"}))
}

func TestVersionFilterByParent(t *testing.T) {
	repo := NewVersionRepository(setupDB(t))
	ctx := context.Background()

	for _, downloadID := range []int64{1, 1, 2} {
		require.NoError(t, repo.Persist(ctx, &domain.Version{
			DownloadID: downloadID,
			Version:    "1.0",
			URL:        "http://example.com/f.pdf",
			AuthorID:   1,
		}))
	}

	versions, err := repo.Retrieve(ctx, VersionFilter{DownloadID: 1})
	require.NoError(t, err)
	require.Len(t, versions, 2)

	count, err := repo.NumRows(ctx, VersionFilter{DownloadID: 2})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestVersionDeleteNotFound(t *testing.T) {
	repo := NewVersionRepository(setupDB(t))
	require.ErrorIs(t, repo.Delete(context.Background(), 999999), ErrNotFound)
}
