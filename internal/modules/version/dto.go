package version

import (
	"time"

	"dmapi/internal/domain"
)

// Item is the flat wire shape of a version record. The url, filename,
// filetype and downloads fields always come from a post-persist read of the
// store, never from caller input.
type Item struct {
	DownloadID int64  `json:"download_id"`
	VersionID  int64  `json:"version_id"`
	Date       string `json:"date"`
	Version    string `json:"version"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	Filetype   string `json:"filetype"`
	Downloads  int64  `json:"downloads"`
}

func NewItem(v domain.Version) Item {
	return Item{
		DownloadID: v.DownloadID,
		VersionID:  v.ID,
		Date:       v.CreatedAt.Format(time.RFC3339),
		Version:    v.Version,
		URL:        v.URL,
		Filename:   v.Filename,
		Filetype:   v.Filetype,
		Downloads:  v.DownloadCount,
	}
}

func NewItems(versions []domain.Version) []Item {
	items := make([]Item, len(versions))
	for i, v := range versions {
		items[i] = NewItem(v)
	}
	return items
}

type ListResponse struct {
	Count int64  `json:"count"`
	Items []Item `json:"items"`
}

type CreateRequest struct {
	DownloadID int64  `json:"download_id"`
	Version    string `json:"version" binding:"required"`
	URL        string `json:"url" binding:"required"`
}

type UpdateRequest struct {
	Version string `json:"version" binding:"required"`
	URL     string `json:"url" binding:"required"`
}
