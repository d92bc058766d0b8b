package download

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dmapi/internal/api"
	"dmapi/internal/domain"
	"dmapi/internal/modules/version"
	"dmapi/internal/pkg/response"
	"dmapi/internal/repository"
)

type Handler struct {
	downloads DownloadRepository
	versions  VersionRepository
	authorID  int64
}

func NewHandler(downloads DownloadRepository, versions VersionRepository, authorID int64) *Handler {
	return &Handler{
		downloads: downloads,
		versions:  versions,
		authorID:  authorID,
	}
}

func (h *Handler) GetEndpoints() api.Endpoints {
	downloadIDArg := api.Arg{
		Name:        "download_id",
		Type:        api.ArgInteger,
		Required:    true,
		Description: "The download's ID",
	}
	titleArg := func(required bool) api.Arg {
		return api.Arg{
			Name:        "title",
			Type:        api.ArgString,
			Required:    required,
			Description: "The download's title",
		}
	}

	return api.Endpoints{
		"/downloads": {
			{
				Method:  http.MethodGet,
				Handler: h.List,
			},
		},
		"/download/:download_id": {
			{
				Method:  http.MethodGet,
				Handler: h.Get,
				Args:    []api.Arg{downloadIDArg},
			},
			{
				Method:  http.MethodDelete,
				Handler: h.Delete,
				Args:    []api.Arg{downloadIDArg},
			},
			{
				Method:  http.MethodPatch,
				Handler: h.Update,
				Args:    []api.Arg{downloadIDArg, titleArg(false)},
			},
		},
		"/download": {
			{
				Method:  http.MethodPost,
				Handler: h.Create,
				Args:    []api.Arg{titleArg(true)},
			},
		},
	}
}

// List returns every download, newest first, each with its nested versions
// block when it has one.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.downloads.NumRows(ctx)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	downloads, err := h.downloads.Retrieve(ctx, repository.DownloadFilter{OrderBy: "id", Order: "DESC"})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	items := make([]Data, len(downloads))
	for i, d := range downloads {
		items[i] = newData(d, h.versionsBlock(ctx, d.ID))
	}

	c.JSON(http.StatusOK, ListResponse{Count: count, Items: items})
}

func (h *Handler) Get(c *gin.Context) {
	downloadID, _ := strconv.ParseInt(c.Param("download_id"), 10, 64)
	ctx := c.Request.Context()

	d, err := h.downloads.RetrieveSingle(ctx, downloadID)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "download_not_found", "Download does not exist.")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	c.JSON(http.StatusOK, newData(*d, h.versionsBlock(ctx, d.ID)))
}

// Create stores a new published, redirect-only download under the service
// author and echoes back the assigned ID.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "rest_invalid_param", response.BindingMessage(err, CreateRequest{}))
		return
	}

	title := api.SanitizeArg(req.Title)
	if title == "" {
		response.Error(c, http.StatusBadRequest, "rest_invalid_param", "You must provide a title.")
		return
	}

	d := &domain.Download{
		Title:        title,
		AuthorID:     h.authorID,
		Status:       domain.StatusPublish,
		RedirectOnly: true,
	}

	if err := h.downloads.Persist(c.Request.Context(), d); err != nil {
		response.Error(c, http.StatusBadRequest, "download_error", "Unable to create a download item.")
		return
	}

	log.Printf("download_create download_id=%d title=%q", d.ID, d.Title)
	c.JSON(http.StatusOK, Data{DownloadID: d.ID, Title: d.Title})
}

// Update re-persists the download under the service author with publish
// status forced, replacing the title with whatever the caller sent.
func (h *Handler) Update(c *gin.Context) {
	downloadID, _ := strconv.ParseInt(c.Param("download_id"), 10, 64)
	ctx := c.Request.Context()

	d, err := h.downloads.RetrieveSingle(ctx, downloadID)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "download_not_found", "Download does not exist.")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	// title is optional here; an absent body leaves the title empty, which
	// the store rejects and surfaces as download_error.
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "rest_invalid_param", response.BindingMessage(err, UpdateRequest{}))
		return
	}

	d.Title = api.SanitizeArg(req.Title)
	d.AuthorID = h.authorID
	d.Status = domain.StatusPublish

	if err := h.downloads.Persist(ctx, d); err != nil {
		response.Error(c, http.StatusBadRequest, "download_error", "Unable to update the download item.")
		return
	}

	log.Printf("download_update download_id=%d title=%q", d.ID, d.Title)
	c.JSON(http.StatusOK, newData(*d, h.versionsBlock(ctx, d.ID)))
}

func (h *Handler) Delete(c *gin.Context) {
	downloadID, _ := strconv.ParseInt(c.Param("download_id"), 10, 64)

	err := h.downloads.Delete(c.Request.Context(), downloadID)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "download_not_found", "Download does not exist.")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	log.Printf("download_delete download_id=%d", downloadID)
	c.Status(http.StatusNoContent)
}

// versionsBlock builds the nested versions block for one download, nil when
// it has no versions so the key is omitted from the response.
func (h *Handler) versionsBlock(ctx context.Context, downloadID int64) *VersionsBlock {
	filter := repository.VersionFilter{DownloadID: downloadID}

	versions, err := h.versions.Retrieve(ctx, filter)
	if err != nil || len(versions) == 0 {
		return nil
	}

	count, err := h.versions.NumRows(ctx, filter)
	if err != nil {
		count = int64(len(versions))
	}

	return &VersionsBlock{
		Count: count,
		Items: version.NewItems(versions),
	}
}
