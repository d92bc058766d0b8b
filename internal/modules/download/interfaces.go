package download

import (
	"context"

	"dmapi/internal/domain"
	"dmapi/internal/repository"
)

// DownloadRepository is the external store collaborator for downloads.
type DownloadRepository interface {
	Retrieve(ctx context.Context, filter repository.DownloadFilter) ([]domain.Download, error)
	RetrieveSingle(ctx context.Context, id int64) (*domain.Download, error)
	NumRows(ctx context.Context) (int64, error)
	Persist(ctx context.Context, d *domain.Download) error
	Delete(ctx context.Context, id int64) error
}

// VersionRepository is the read-only slice of the version store the download
// adapter needs for nesting a download's versions block.
type VersionRepository interface {
	Retrieve(ctx context.Context, filter repository.VersionFilter) ([]domain.Version, error)
	NumRows(ctx context.Context, filter repository.VersionFilter) (int64, error)
}
