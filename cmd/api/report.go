package main

import (
	"net/http"

	"adscope/internal/store"
)

// reportHandler returns the most recent persisted classification report
// for a client. The report is stored as JSONB and returned verbatim; the
// dashboard layer reads the competitors and platform fields out of it.
func reportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		http.Error(w, "Missing 'client_id' parameter", http.StatusBadRequest)
		return
	}

	report, err := store.LatestReport(r.Context(), clientID)
	if err != nil {
		http.Error(w, "No report found for client", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(report)
}
