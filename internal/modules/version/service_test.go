package version

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dmapi/internal/domain"
	"dmapi/internal/repository"
)

// Mock repositories
type MockVersionRepository struct {
	mock.Mock
}

func (m *MockVersionRepository) Retrieve(ctx context.Context, filter repository.VersionFilter) ([]domain.Version, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Version), args.Error(1)
}

func (m *MockVersionRepository) RetrieveSingle(ctx context.Context, id int64) (*domain.Version, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Version), args.Error(1)
}

func (m *MockVersionRepository) NumRows(ctx context.Context, filter repository.VersionFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVersionRepository) Persist(ctx context.Context, v *domain.Version) error {
	args := m.Called(ctx, v)
	if v != nil && v.ID == 0 {
		v.ID = 99 // simulate store insert
	}
	return args.Error(0)
}

func (m *MockVersionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingTransient notes every invalidation in a shared event log.
type recordingTransient struct {
	events *[]string
}

func (r recordingTransient) GetVersions(ctx context.Context, downloadID int64) ([]domain.Version, bool) {
	return nil, false
}

func (r recordingTransient) SetVersions(ctx context.Context, downloadID int64, versions []domain.Version) {
}

func (r recordingTransient) ClearVersionsTransient(ctx context.Context, downloadID int64) error {
	*r.events = append(*r.events, "clear "+strconv.FormatInt(downloadID, 10))
	return nil
}

// recordingRepo logs deletes into the same event stream as the transient.
type recordingRepo struct {
	*MockVersionRepository
	events *[]string
}

func (r recordingRepo) Delete(ctx context.Context, id int64) error {
	*r.events = append(*r.events, "delete "+strconv.FormatInt(id, 10))
	return r.MockVersionRepository.Delete(ctx, id)
}

func TestCreateReturnsStoreDerivedValues(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockVersionRepository)
	repo.On("Persist", mock.Anything, mock.Anything).Return(nil)
	repo.On("RetrieveSingle", mock.Anything, int64(99)).Return(&domain.Version{
		ID:            99,
		DownloadID:    1,
		Version:       "1.0",
		URL:           "http://cdn.example.com/mirrored/f.pdf",
		Filename:      "renamed.pdf",
		Filetype:      "pdf",
		DownloadCount: 42,
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	events := []string{}
	h := NewHandler(repo, recordingTransient{events: &events}, 7)

	router := gin.New()
	router.POST("/version", h.Create)

	resp := performRequest(router, http.MethodPost, "/version",
		gin.H{"download_id": 1, "version": "1.0", "url": "http://example.com/f.pdf"}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var item Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))

	// echoed from input
	require.EqualValues(t, 1, item.DownloadID)
	require.Equal(t, "1.0", item.Version)

	// taken from the post-persist re-read, not the request body
	require.Equal(t, "http://cdn.example.com/mirrored/f.pdf", item.URL)
	require.Equal(t, "renamed.pdf", item.Filename)
	require.EqualValues(t, 42, item.Downloads)

	repo.AssertExpectations(t)
}

func TestCreateInvalidatesAfterPersist(t *testing.T) {
	gin.SetMode(gin.TestMode)

	inner := new(MockVersionRepository)
	inner.On("Persist", mock.Anything, mock.Anything).Return(nil)
	inner.On("RetrieveSingle", mock.Anything, int64(99)).Return(&domain.Version{
		ID: 99, DownloadID: 3, Version: "1.0", URL: "http://example.com/f.pdf",
	}, nil)

	events := []string{}
	h := NewHandler(inner, recordingTransient{events: &events}, 7)

	router := gin.New()
	router.POST("/version", h.Create)

	resp := performRequest(router, http.MethodPost, "/version",
		gin.H{"download_id": 3, "version": "1.0", "url": "http://example.com/f.pdf"}, "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, []string{"clear 3"}, events)
}

func TestDeleteInvalidatesParentBeforeDeleteExactlyOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	inner := new(MockVersionRepository)
	inner.On("RetrieveSingle", mock.Anything, int64(10)).Return(&domain.Version{
		ID: 10, DownloadID: 3, Version: "1.0", URL: "http://example.com/f.pdf",
	}, nil)
	inner.On("Delete", mock.Anything, int64(10)).Return(nil)

	events := []string{}
	repo := recordingRepo{MockVersionRepository: inner, events: &events}
	h := NewHandler(repo, recordingTransient{events: &events}, 7)

	router := gin.New()
	router.DELETE("/version/:version_id", h.Delete)

	resp := performRequest(router, http.MethodDelete, "/version/10", nil, "")
	require.Equal(t, http.StatusNoContent, resp.Code)

	// the invalidation uses the parent captured before the delete, and runs
	// exactly once, before the store delete
	require.Equal(t, []string{"clear 3", "delete 10"}, events)
	inner.AssertExpectations(t)
}

func TestDeleteMissingVersionDoesNotInvalidate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	inner := new(MockVersionRepository)
	inner.On("RetrieveSingle", mock.Anything, int64(10)).Return(nil, repository.ErrNotFound)

	events := []string{}
	h := NewHandler(inner, recordingTransient{events: &events}, 7)

	router := gin.New()
	router.DELETE("/version/:version_id", h.Delete)

	resp := performRequest(router, http.MethodDelete, "/version/10", nil, "")
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Empty(t, events)
}

func TestCreatePersistFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockVersionRepository)
	repo.On("Persist", mock.Anything, mock.Anything).Return(errors.New("store rejected"))

	events := []string{}
	h := NewHandler(repo, recordingTransient{events: &events}, 7)

	router := gin.New()
	router.POST("/version", h.Create)

	resp := performRequest(router, http.MethodPost, "/version",
		gin.H{"download_id": 1, "version": "1.0", "url": "http://example.com/f.pdf"}, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var e errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	require.Equal(t, "version_error", e.Code)
	require.Equal(t, "Unable to create a version item.", e.Message)
	require.Empty(t, events, "a failed persist must not invalidate the cache")
}
