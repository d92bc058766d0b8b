package domain

import "time"

type DownloadStatus string

const (
	StatusPublish DownloadStatus = "publish"
	StatusDraft   DownloadStatus = "draft"
)

// Download is a top-level downloadable resource. Versions hang off it by
// DownloadID; the store assigns IDs on persist.
type Download struct {
	ID           int64          `gorm:"primaryKey"`
	Title        string         `gorm:"not null"`
	AuthorID     int64          `gorm:"not null"`
	Status       DownloadStatus `gorm:"type:varchar(20);not null;default:publish"`
	RedirectOnly bool           `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Download) TableName() string { return "downloads" }

// Version is one downloadable file under a Download. Filename, Filetype and
// DownloadCount are derived by the store, never set by API callers.
type Version struct {
	ID            int64  `gorm:"primaryKey"`
	DownloadID    int64  `gorm:"index;not null"`
	Version       string `gorm:"not null"`
	URL           string `gorm:"not null"`
	Filename      string
	Filetype      string
	DownloadCount int64 `gorm:"not null;default:0"`
	AuthorID      int64 `gorm:"not null"`
	CreatedAt     time.Time
}

func (Version) TableName() string { return "download_versions" }
