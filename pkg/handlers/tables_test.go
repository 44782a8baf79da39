package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
	"github.com/basedosdados/catalog-engine/pkg/models"
	"github.com/basedosdados/catalog-engine/pkg/services"
)

type fakeNeighborService struct {
	rows       []*models.TableNeighbor
	status     services.RefreshStatus
	startErr   error
	listErr    error
	lastLimit  int
	refreshing bool
}

func (f *fakeNeighborService) RefreshAll(context.Context) error { return nil }

func (f *fakeNeighborService) StartRefresh(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.refreshing = true
	return nil
}

func (f *fakeNeighborService) Status() services.RefreshStatus { return f.status }

func (f *fakeNeighborService) ListByTable(_ context.Context, _ uuid.UUID) ([]*models.TableNeighbor, error) {
	return f.rows, f.listErr
}

func (f *fakeNeighborService) ListRelated(_ context.Context, _ uuid.UUID, limit int) ([]*models.TableNeighbor, error) {
	f.lastLimit = limit
	return f.rows, f.listErr
}

type fakeCoverageService struct {
	report *services.CoverageReport
	err    error
}

func (f *fakeCoverageService) TableCoverage(context.Context, uuid.UUID) (*services.CoverageReport, error) {
	return f.report, f.err
}

func (f *fakeCoverageService) OwnerCoverage(context.Context, models.CoverageOwner) (*services.CoverageReport, error) {
	return f.report, f.err
}

var (
	_ services.NeighborService = (*fakeNeighborService)(nil)
	_ services.CoverageService = (*fakeCoverageService)(nil)
)

func tableMux(neighbors services.NeighborService, coverage services.CoverageService) *http.ServeMux {
	mux := http.NewServeMux()
	NewTableHandler(neighbors, coverage, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListNeighbors(t *testing.T) {
	tableID := uuid.New()
	row := &models.TableNeighbor{
		ID:                     uuid.New(),
		TableAID:               tableID,
		TableBID:               uuid.New(),
		SimilarityOfArea:       1,
		SimilarityOfDatetime:   1,
		SimilarityOfDirectory:  1,
		SimilarityOfPopularity: 3,
	}
	neighbors := &fakeNeighborService{rows: []*models.TableNeighbor{row}}
	mux := tableMux(neighbors, &fakeCoverageService{})

	rec := doRequest(t, mux, http.MethodGet, "/api/tables/"+tableID.String()+"/neighbors")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Neighbors []struct {
			TableBID uuid.UUID `json:"table_b_id"`
			Score    float64   `json:"score"`
		} `json:"neighbors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Neighbors, 1)
	assert.Equal(t, row.TableBID, body.Neighbors[0].TableBID)
	assert.Equal(t, 4.0, body.Neighbors[0].Score)
}

func TestListNeighborsErrors(t *testing.T) {
	t.Run("invalid table id", func(t *testing.T) {
		mux := tableMux(&fakeNeighborService{}, &fakeCoverageService{})
		rec := doRequest(t, mux, http.MethodGet, "/api/tables/not-a-uuid/neighbors")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_table_id")
	})

	t.Run("unknown table", func(t *testing.T) {
		mux := tableMux(&fakeNeighborService{listErr: apperrors.ErrNotFound}, &fakeCoverageService{})
		rec := doRequest(t, mux, http.MethodGet, "/api/tables/"+uuid.NewString()+"/neighbors")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_found")
	})

	t.Run("repository failure", func(t *testing.T) {
		mux := tableMux(&fakeNeighborService{listErr: errors.New("connection refused")}, &fakeCoverageService{})
		rec := doRequest(t, mux, http.MethodGet, "/api/tables/"+uuid.NewString()+"/neighbors")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestListRelated(t *testing.T) {
	neighbors := &fakeNeighborService{}
	mux := tableMux(neighbors, &fakeCoverageService{})
	path := "/api/tables/" + uuid.NewString() + "/related"

	t.Run("default limit passes zero through", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, neighbors.lastLimit)
	})

	t.Run("explicit limit", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, path+"?limit=5")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, neighbors.lastLimit)
	})

	t.Run("rejects bad limits", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-3"} {
			rec := doRequest(t, mux, http.MethodGet, path+"?limit="+raw)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", raw)
			assert.Contains(t, rec.Body.String(), "invalid_limit")
		}
	})
}

func TestGetCoverage(t *testing.T) {
	start, end := "2010", "2020-06"
	report := &services.CoverageReport{
		Temporal: services.TemporalBounds{Start: &start, End: &end},
		FullTemporal: []services.TimelinePoint{
			{Date: "2010", Type: services.TimelineOpen},
			{Date: "2020-06", Type: services.TimelineOpen},
		},
		Spatial: []string{"br_mg_3106200"},
	}
	mux := tableMux(&fakeNeighborService{}, &fakeCoverageService{report: report})

	rec := doRequest(t, mux, http.MethodGet, "/api/tables/"+uuid.NewString()+"/coverage")
	require.Equal(t, http.StatusOK, rec.Code)

	var got services.CoverageReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *report, got)
}
