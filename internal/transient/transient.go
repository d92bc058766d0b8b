// Package transient caches per-download version listings with a short TTL.
// Every version mutation must invalidate the parent's entry; the API layer
// sequences invalidation before deletes and after creates/updates.
package transient

import (
	"context"
	"time"

	"dmapi/internal/domain"
)

const DefaultTTL = time.Hour

// Manager is the cache collaborator consumed by the version adapter.
type Manager interface {
	// GetVersions returns the cached listing for a download, if any.
	GetVersions(ctx context.Context, downloadID int64) ([]domain.Version, bool)

	// SetVersions caches the listing for a download.
	SetVersions(ctx context.Context, downloadID int64, versions []domain.Version)

	// ClearVersionsTransient drops the cached listing for a download.
	ClearVersionsTransient(ctx context.Context, downloadID int64) error
}
