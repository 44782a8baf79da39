package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/config"
)

func TestHealth(t *testing.T) {
	mux := http.NewServeMux()
	cfg := &config.Config{Env: "test", Version: "1.2.3"}
	NewHealthHandler(cfg, zap.NewNop()).RegisterRoutes(mux)

	rec := doRequest(t, mux, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPing(t *testing.T) {
	mux := http.NewServeMux()
	cfg := &config.Config{Env: "test", Version: "1.2.3"}
	NewHealthHandler(cfg, zap.NewNop()).RegisterRoutes(mux)

	rec := doRequest(t, mux, http.MethodGet, "/ping")
	require.Equal(t, http.StatusOK, rec.Code)

	var body PingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "catalog-engine", body.Service)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "test", body.Environment)
	assert.NotEmpty(t, body.GoVersion)
}
