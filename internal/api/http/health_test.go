package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthCheck(t *testing.T, db Pinger, path string) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthHandler("ehour-api", "1.2.3", db).RegisterRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr.Code, resp
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		wantCode int
		wantDB   string
	}{
		{"no database", nil, http.StatusOK, "disabled"},
		{"database up", pingerFunc(func(context.Context) error { return nil }), http.StatusOK, "up"},
		{"database down", pingerFunc(func(context.Context) error { return assert.AnError }), http.StatusServiceUnavailable, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := healthCheck(t, tt.db, "/healthz")
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantDB, resp.DB)
			assert.Equal(t, "ehour-api", resp.Service)
			assert.Equal(t, "1.2.3", resp.Version)
		})
	}
}

func TestHealthCheck_BothPaths(t *testing.T) {
	code, resp := healthCheck(t, nil, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
}
