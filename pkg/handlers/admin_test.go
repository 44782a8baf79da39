package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
	"github.com/basedosdados/catalog-engine/pkg/services"
	"github.com/basedosdados/catalog-engine/pkg/services/workqueue"
)

func adminMux(neighbors services.NeighborService) *http.ServeMux {
	mux := http.NewServeMux()
	NewAdminHandler(neighbors, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestStartRefresh(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		neighbors := &fakeNeighborService{}
		mux := adminMux(neighbors)

		rec := doRequest(t, mux, http.MethodPost, "/api/admin/neighbors/refresh")
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Contains(t, rec.Body.String(), "started")
		assert.True(t, neighbors.refreshing)
	})

	t.Run("already running", func(t *testing.T) {
		mux := adminMux(&fakeNeighborService{startErr: apperrors.ErrRefreshInFlight})

		rec := doRequest(t, mux, http.MethodPost, "/api/admin/neighbors/refresh")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "refresh_in_flight")
	})

	t.Run("method not allowed", func(t *testing.T) {
		mux := adminMux(&fakeNeighborService{})

		rec := doRequest(t, mux, http.MethodGet, "/api/admin/neighbors/refresh")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRefreshStatus(t *testing.T) {
	status := services.RefreshStatus{
		Running: true,
		Progress: workqueue.Progress{
			Total:     10,
			Running:   2,
			Completed: 7,
			Failed:    1,
		},
	}
	mux := adminMux(&fakeNeighborService{status: status})

	rec := doRequest(t, mux, http.MethodGet, "/api/admin/neighbors/refresh/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var got services.RefreshStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, status, got)
}
