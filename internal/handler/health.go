package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type healthStatus struct {
	Status string `json:"status"`
}

// HandleHealthz reports that the server is up.
// GET /healthz
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(healthStatus{Status: "ok"}); err != nil {
		slog.Error("write health response", "error", err)
	}
}
