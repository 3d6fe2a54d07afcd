package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error {
	return p.err
}

func newMux(db Pinger) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler("voicegw", "0.1.0", db).Register(mux)
	return mux
}

func TestHealthApp(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body AppResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "voicegw", body.Application)
	assert.Equal(t, "0.1.0", body.Version)
	assert.Equal(t, "Application is running successfully", body.Message)

	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestHealthDB_Connected(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(&fakePinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/db", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body DBResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "connected", body.Database)
	assert.Equal(t, "Database connection is working", body.Message)
}

func TestHealthDB_PingFails(t *testing.T) {
	rec := httptest.NewRecorder()
	db := &fakePinger{err: fmt.Errorf("connection refused")}
	newMux(db).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/db", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body DBResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "disconnected", body.Database)
	assert.Equal(t, "Database connection failed: connection refused", body.Message)
}

func TestHealthDB_NoDatabaseConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/db", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body DBResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "Database connection failed: no database configured", body.Message)
}
