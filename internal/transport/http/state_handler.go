package http

import (
	"net/http"

	"classroom-live-service/internal/app"
)

// WriteSnapshot serializes a classroom snapshot for the debug/state endpoint.
func WriteSnapshot(w http.ResponseWriter, snapshot app.Snapshot) {
	writeJSON(w, http.StatusOK, snapshot)
}
