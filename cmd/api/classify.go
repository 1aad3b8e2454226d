package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"adscope/internal/dnscache"
	"adscope/internal/lookup"
	"adscope/internal/models"
)

// ClassifyRequest is one ad plus the storefront's home domain.
type ClassifyRequest struct {
	HomeDomain string          `json:"home_domain"`
	Ad         models.AdRecord `json:"ad"`
}

type ClassifyResponse struct {
	models.AdClassification
	Duration string `json:"duration"`
}

// classifyHandler classifies a single advertisement synchronously —
// the interactive counterpart of the batch /analyze flow.
func classifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Malformed JSON body", http.StatusBadRequest)
		return
	}
	if req.HomeDomain == "" {
		http.Error(w, "Missing 'home_domain' field", http.StatusBadRequest)
		return
	}

	start := time.Now()
	verdict := engine.ClassifyAd(r.Context(), req.Ad, req.HomeDomain)

	resp := ClassifyResponse{
		AdClassification: verdict,
		Duration:         time.Since(start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("❌ Error encoding /classify response: %v", err)
	}
}

// DomainResponse pairs one lookup verdict with cache diagnostics.
type DomainResponse struct {
	models.DomainLookupResult
	Cache dnscache.Stats `json:"cache"`
}

// domainHandler resolves one domain to a platform verdict — a direct
// probe into the identification engine for debugging pattern tables.
func domainHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Missing 'name' parameter", http.StatusBadRequest)
		return
	}
	if lookup.NormalizeDomain(name) == "" {
		http.Error(w, "Empty domain after normalization", http.StatusBadRequest)
		return
	}

	resp := DomainResponse{
		DomainLookupResult: identifier.Identify(r.Context(), name),
		Cache:              identifier.Cache().Stats(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("❌ Error encoding /domain response for %s: %v", name, err)
	}
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	guide := map[string]interface{}{
		"service": "adscope",
		"version": "1.0.0",
		"capabilities": []string{
			"DNS platform identification (A / CNAME / NS precedence)",
			"TTL-cached domain lookups",
			"Single-ad classification (HOME / COMPETITOR / UNKNOWN)",
			"Batch client analysis with competitor ranking",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(guide); err != nil {
		log.Printf("❌ Error encoding /info response: %v", err)
	}
}
