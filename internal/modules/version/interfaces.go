package version

import (
	"context"

	"dmapi/internal/domain"
	"dmapi/internal/repository"
)

// VersionRepository is the external store collaborator for versions.
type VersionRepository interface {
	Retrieve(ctx context.Context, filter repository.VersionFilter) ([]domain.Version, error)
	RetrieveSingle(ctx context.Context, id int64) (*domain.Version, error)
	NumRows(ctx context.Context, filter repository.VersionFilter) (int64, error)
	Persist(ctx context.Context, v *domain.Version) error
	Delete(ctx context.Context, id int64) error
}

// TransientManager caches per-download version listings.
type TransientManager interface {
	GetVersions(ctx context.Context, downloadID int64) ([]domain.Version, bool)
	SetVersions(ctx context.Context, downloadID int64, versions []domain.Version)
	ClearVersionsTransient(ctx context.Context, downloadID int64) error
}
