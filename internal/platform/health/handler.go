// Package health provides the liveness endpoint for the web client process.
package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Handler serves process health status.
type Handler struct {
	startTime time.Time
}

func New() *Handler {
	return &Handler{startTime: time.Now()}
}

type statusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

// HandleStatus reports liveness with version and uptime. The client has no
// local dependencies to probe; upstream reachability is surfaced per page
// instead.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(statusResponse{
		Status:        "healthy",
		Version:       Version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
