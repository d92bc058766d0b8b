package repository

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	"gorm.io/gorm"

	"dmapi/internal/domain"
)

// VersionFilter narrows version listings to one parent download.
type VersionFilter struct {
	DownloadID int64
}

type VersionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// Retrieve lists versions for the filter. No explicit ordering is applied
// here: the registry installs a store-wide ordering override for this table
// (see api.InstallVersionOrdering).
func (r *VersionRepository) Retrieve(ctx context.Context, filter VersionFilter) ([]domain.Version, error) {
	q := r.db.WithContext(ctx).Model(&domain.Version{})
	if filter.DownloadID != 0 {
		q = q.Where("download_id = ?", filter.DownloadID)
	}

	var versions []domain.Version
	if err := q.Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *VersionRepository) RetrieveSingle(ctx context.Context, id int64) (*domain.Version, error) {
	var version domain.Version
	err := r.db.WithContext(ctx).First(&version, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *VersionRepository) NumRows(ctx context.Context, filter VersionFilter) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Version{})
	if filter.DownloadID != 0 {
		q = q.Where("download_id = ?", filter.DownloadID)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

// Persist saves the version, assigning an ID on first save. Filename and
// filetype are derived from the stored mirror URL so that read-backs always
// reflect what the store computed, not what the caller sent.
func (r *VersionRepository) Persist(ctx context.Context, v *domain.Version) error {
	if v.DownloadID == 0 || v.URL == "" {
		return gorm.ErrInvalidData
	}

	v.Filename = deriveFilename(v.URL)
	v.Filetype = deriveFiletype(v.Filename)

	if v.ID == 0 {
		return r.db.WithContext(ctx).Create(v).Error
	}
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *VersionRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Version{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deriveFilename(mirror string) string {
	if u, err := url.Parse(mirror); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(mirror)
}

func deriveFiletype(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}
