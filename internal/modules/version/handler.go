package version

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dmapi/internal/api"
	"dmapi/internal/domain"
	"dmapi/internal/pkg/response"
	"dmapi/internal/repository"
)

type Handler struct {
	versions   VersionRepository
	transients TransientManager
	authorID   int64
}

func NewHandler(versions VersionRepository, transients TransientManager, authorID int64) *Handler {
	return &Handler{
		versions:   versions,
		transients: transients,
		authorID:   authorID,
	}
}

func (h *Handler) GetEndpoints() api.Endpoints {
	versionIDArg := api.Arg{
		Name:        "version_id",
		Type:        api.ArgInteger,
		Required:    true,
		Description: "The version's ID",
	}

	return api.Endpoints{
		"/versions": {
			{
				Method:  http.MethodGet,
				Handler: h.List,
				Args: []api.Arg{
					{Name: "download_id", Type: api.ArgInteger, Required: true, Description: "The download's ID"},
				},
			},
		},
		"/version/:version_id": {
			{
				Method:  http.MethodGet,
				Handler: h.Get,
				Args:    []api.Arg{versionIDArg},
			},
			{
				Method:  http.MethodDelete,
				Handler: h.Delete,
				Args:    []api.Arg{versionIDArg},
			},
			{
				Method:  http.MethodPatch,
				Handler: h.Update,
				Args: []api.Arg{
					versionIDArg,
					{Name: "version", Type: api.ArgString, Required: true, Description: "The version's number"},
					{Name: "url", Type: api.ArgString, Required: true, Description: "The version's URL"},
				},
			},
		},
		"/version": {
			{
				Method:  http.MethodPost,
				Handler: h.Create,
				Args: []api.Arg{
					{Name: "download_id", Type: api.ArgInteger, Required: true, Description: "The download's ID"},
					{Name: "version", Type: api.ArgString, Required: true, Description: "The version's number"},
					{Name: "url", Type: api.ArgString, Required: true, Description: "The version's URL"},
				},
			},
		},
	}
}

// List returns all versions under a parent download. An empty result yields
// 404 download_not_found even when the parent exists with zero versions; the
// listing does not distinguish the two cases.
func (h *Handler) List(c *gin.Context) {
	downloadID, _ := strconv.ParseInt(c.Query("download_id"), 10, 64)
	ctx := c.Request.Context()

	if cached, ok := h.transients.GetVersions(ctx, downloadID); ok && len(cached) > 0 {
		c.JSON(http.StatusOK, ListResponse{
			Count: int64(len(cached)),
			Items: NewItems(cached),
		})
		return
	}

	filter := repository.VersionFilter{DownloadID: downloadID}

	count, err := h.versions.NumRows(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	versions, err := h.versions.Retrieve(ctx, filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	if len(versions) == 0 {
		response.Error(c, http.StatusNotFound, "download_not_found", "Download does not exist.")
		return
	}

	h.transients.SetVersions(ctx, downloadID, versions)

	c.JSON(http.StatusOK, ListResponse{
		Count: count,
		Items: NewItems(versions),
	})
}

func (h *Handler) Get(c *gin.Context) {
	versionID, _ := strconv.ParseInt(c.Param("version_id"), 10, 64)

	v, err := h.versions.RetrieveSingle(c.Request.Context(), versionID)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "version_not_found", "Download does not exist.")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	c.JSON(http.StatusOK, NewItem(*v))
}

// Create stores a new version under the given parent, drops the parent's
// cached listing and re-reads the record so the response carries the store's
// derived fields.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "rest_invalid_param", response.BindingMessage(err, CreateRequest{}))
		return
	}

	if req.DownloadID == 0 {
		response.Error(c, http.StatusBadRequest, "rest_invalid_param", "You must provide a download_id.")
		return
	}

	ctx := c.Request.Context()
	v := &domain.Version{
		DownloadID: req.DownloadID,
		Version:    api.SanitizeArg(req.Version),
		URL:        api.SanitizeArg(req.URL),
		AuthorID:   h.authorID,
		CreatedAt:  time.Now(),
	}

	if err := h.versions.Persist(ctx, v); err != nil {
		response.Error(c, http.StatusBadRequest, "version_error", "Unable to create a version item.")
		return
	}

	h.clearTransient(ctx, req.DownloadID)

	stored, err := h.versions.RetrieveSingle(ctx, v.ID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "version_error", "Unable to create a version item.")
		return
	}

	log.Printf("version_create download_id=%d version_id=%d version=%s", stored.DownloadID, stored.ID, stored.Version)
	c.JSON(http.StatusOK, NewItem(*stored))
}

// Update replaces the mutable fields of a version. Both version and url must
// be re-supplied; there is no partial update.
func (h *Handler) Update(c *gin.Context) {
	versionID, _ := strconv.ParseInt(c.Param("version_id"), 10, 64)
	ctx := c.Request.Context()

	v, err := h.versions.RetrieveSingle(ctx, versionID)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "version_not_found", "Version does not exist.")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "rest_invalid_param", response.BindingMessage(err, UpdateRequest{}))
		return
	}

	v.Version = api.SanitizeArg(req.Version)
	v.URL = api.SanitizeArg(req.URL)
	v.CreatedAt = time.Now()

	if err := h.versions.Persist(ctx, v); err != nil {
		response.Error(c, http.StatusBadRequest, "version_error", "Unable to update the version item.")
		return
	}

	h.clearTransient(ctx, v.DownloadID)

	stored, err := h.versions.RetrieveSingle(ctx, v.ID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "version_error", "Unable to update the version item.")
		return
	}

	log.Printf("version_update download_id=%d version_id=%d version=%s", stored.DownloadID, stored.ID, stored.Version)
	c.JSON(http.StatusOK, NewItem(*stored))
}

// Delete hard-deletes a version. The parent's cached listing is invalidated
// before the delete, while the record's parent reference is still readable.
func (h *Handler) Delete(c *gin.Context) {
	versionID, _ := strconv.ParseInt(c.Param("version_id"), 10, 64)
	ctx := c.Request.Context()

	v, err := h.versions.RetrieveSingle(ctx, versionID)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "version_not_found", "Version does not exist.")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	h.clearTransient(ctx, v.DownloadID)

	if err := h.versions.Delete(ctx, versionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "version_not_found", "Version does not exist.")
			return
		}
		response.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected store error.")
		return
	}

	log.Printf("version_delete download_id=%d version_id=%d", v.DownloadID, versionID)
	c.Status(http.StatusNoContent)
}

// clearTransient never fails the request: a stale cache entry expires on its
// own TTL, a failed write must not.
func (h *Handler) clearTransient(ctx context.Context, downloadID int64) {
	if err := h.transients.ClearVersionsTransient(ctx, downloadID); err != nil {
		log.Printf("versions_transient_clear download_id=%d err=%v", downloadID, err)
	}
}
