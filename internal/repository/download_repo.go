package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"dmapi/internal/domain"
)

// DownloadFilter narrows and orders download listings.
type DownloadFilter struct {
	OrderBy string // column name, empty for store default
	Order   string // "ASC" or "DESC"
}

type DownloadRepository struct {
	db *gorm.DB
}

func NewDownloadRepository(db *gorm.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

func (r *DownloadRepository) Retrieve(ctx context.Context, filter DownloadFilter) ([]domain.Download, error) {
	q := r.db.WithContext(ctx).Model(&domain.Download{})
	if filter.OrderBy != "" {
		order := filter.OrderBy
		if strings.EqualFold(filter.Order, "DESC") {
			order += " DESC"
		}
		q = q.Order(order)
	}

	var downloads []domain.Download
	if err := q.Find(&downloads).Error; err != nil {
		return nil, err
	}
	return downloads, nil
}

func (r *DownloadRepository) RetrieveSingle(ctx context.Context, id int64) (*domain.Download, error) {
	var download domain.Download
	err := r.db.WithContext(ctx).First(&download, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &download, nil
}

func (r *DownloadRepository) NumRows(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Download{}).Count(&count).Error
	return count, err
}

// Persist saves the download, assigning an ID on first save.
func (r *DownloadRepository) Persist(ctx context.Context, d *domain.Download) error {
	if d.Title == "" {
		return gorm.ErrInvalidData
	}
	if d.ID == 0 {
		return r.db.WithContext(ctx).Create(d).Error
	}
	return r.db.WithContext(ctx).Save(d).Error
}

// Delete hard-deletes the download. Child versions are left to the store's
// referential rules.
func (r *DownloadRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Download{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
