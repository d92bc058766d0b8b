package download

import (
	"dmapi/internal/domain"
	"dmapi/internal/modules/version"
)

// Data is the wire shape of a download. The versions block is present only
// when the download has at least one version.
type Data struct {
	DownloadID int64          `json:"download_id"`
	Title      string         `json:"title"`
	Versions   *VersionsBlock `json:"versions,omitempty"`
}

type VersionsBlock struct {
	Count int64          `json:"count"`
	Items []version.Item `json:"items"`
}

type ListResponse struct {
	Count int64  `json:"count"`
	Items []Data `json:"items"`
}

type CreateRequest struct {
	Title string `json:"title"`
}

type UpdateRequest struct {
	Title string `json:"title"`
}

func newData(d domain.Download, block *VersionsBlock) Data {
	return Data{
		DownloadID: d.ID,
		Title:      d.Title,
		Versions:   block,
	}
}
