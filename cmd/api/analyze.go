package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"adscope/internal/models"
	"adscope/internal/queue"
	"adscope/internal/store"

	"github.com/google/uuid"
)

// AnalyzeResponse is what we send back after accepting a submission.
type AnalyzeResponse struct {
	JobID    string `json:"job_id"`
	Pages    int    `json:"pages"`
	TotalAds int    `json:"total_ads"`
	Message  string `json:"message"`
}

// analyzeHandler accepts a collector payload for one storefront, stores
// it, and enqueues the classification job for the worker. The payload is
// validated only for batch preconditions — individual ads may be as
// incomplete as the collector delivers them.
func analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Collector payloads carry full ad snapshots; cap at 50MB.
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Malformed JSON body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.ClientID) == "" {
		http.Error(w, "Missing 'client_id' field", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.HomeDomain) == "" {
		http.Error(w, "Missing 'home_domain' field", http.StatusBadRequest)
		return
	}
	if len(req.Pages) == 0 {
		http.Error(w, "Payload contains no pages", http.StatusBadRequest)
		return
	}

	jobID := uuid.New().String()
	ctx := r.Context()

	if err := store.CreateJob(ctx, jobID, req); err != nil {
		log.Printf("❌ Failed to create job for %s: %v", req.ClientID, err)
		http.Error(w, "Failed to create job", http.StatusInternalServerError)
		return
	}

	if err := queue.Enqueue(ctx, queue.Task{JobID: jobID, ClientID: req.ClientID}); err != nil {
		log.Printf("❌ Failed to enqueue job %s: %v", jobID, err)
		// The job row stays pending; mark it failed so /status tells the truth.
		if ferr := store.MarkJobFailed(ctx, jobID, "failed to enqueue task"); ferr != nil {
			log.Printf("❌ Failed to mark job %s failed: %v", jobID, ferr)
		}
		http.Error(w, "Failed to enqueue job", http.StatusInternalServerError)
		return
	}

	totalAds := 0
	for _, page := range req.Pages {
		totalAds += len(page.Ads)
	}

	w.Header().Set("Content-Type", "application/json")
	resp := AnalyzeResponse{
		JobID:    jobID,
		Pages:    len(req.Pages),
		TotalAds: totalAds,
		Message:  "Job created successfully. Processing started.",
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("❌ Error encoding /analyze response: %v", err)
	}
}
