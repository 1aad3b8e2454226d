package main

import (
	"encoding/json"
	"net/http"
	"time"

	"adscope/internal/store"
)

type JobStatusResponse struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"client_id"`
	Status         string     `json:"status"`
	TotalAds       int        `json:"total_ads"`
	PagesTotal     int        `json:"pages_total"`
	PagesProcessed int        `json:"pages_processed"`
	Error          *string    `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := r.URL.Query().Get("id")
	if jobID == "" {
		http.Error(w, "Missing 'id' parameter", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var job JobStatusResponse

	query := `
		SELECT id, client_id, status, total_ads, pages_total, pages_processed, error, created_at, completed_at
		FROM jobs
		WHERE id = $1
	`

	err := store.DB.QueryRow(ctx, query, jobID).Scan(
		&job.ID,
		&job.ClientID,
		&job.Status,
		&job.TotalAds,
		&job.PagesTotal,
		&job.PagesProcessed,
		&job.Error,
		&job.CreatedAt,
		&job.CompletedAt,
	)

	if err != nil {
		// If no rows found, it means the ID is wrong
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}
