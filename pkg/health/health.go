// Package health serves the liveness endpoints under /api/v1.
package health

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Pinger is the database probe behind /api/v1/health/db. A nil Pinger makes
// the probe report unavailable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AppResponse is the body of GET /api/v1/health.
type AppResponse struct {
	Status      string `json:"status"`
	Application string `json:"application"`
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp"`
	Message     string `json:"message"`
}

// DBResponse is the body of GET /api/v1/health/db.
type DBResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message"`
}

// Handler serves the health endpoints.
type Handler struct {
	appName string
	version string
	db      Pinger
}

// NewHandler creates a health handler. db may be nil when no database is
// configured.
func NewHandler(appName, version string, db Pinger) *Handler {
	return &Handler{
		appName: appName,
		version: version,
		db:      db,
	}
}

// Register mounts the endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/health", h.handleApp)
	mux.HandleFunc("/api/v1/health/db", h.handleDB)
}

// handleApp reports process liveness without touching the database.
func (h *Handler) handleApp(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AppResponse{
		Status:      "healthy",
		Application: h.appName,
		Version:     h.version,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Message:     "Application is running successfully",
	})
}

// handleDB probes the database and maps failure to 503.
func (h *Handler) handleDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, DBResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Message:  "Database connection failed: no database configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, DBResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Message:  "Database connection failed: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, DBResponse{
		Status:   "healthy",
		Database: "connected",
		Message:  "Database connection is working",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Health] write response: %v", err)
	}
}
