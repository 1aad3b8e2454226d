package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adscope/internal/classifier"
	"adscope/internal/config"
	"adscope/internal/dnscache"
	"adscope/internal/lookup"
	"adscope/internal/queue"
	"adscope/internal/store"
)

// Shared by the handlers, wired once at startup.
var (
	cfg        *config.Config
	identifier *lookup.Identifier
	engine     *classifier.Classifier
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// 1. Initialize Redis
	log.Printf("🔌 Connecting to Redis at %s...", cfg.RedisAddr)
	if err := queue.Init(cfg.RedisAddr); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis Queue")

	// 2. Initialize Database
	log.Println("🔌 Connecting to Database...")
	if err := store.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL & Migrations Applied")

	// 3. Build the classification engine for the synchronous endpoints.
	// The API process keeps its own DNS cache; batch analysis runs in
	// the worker with a cache of its own.
	identifier = lookup.NewIdentifier(lookup.IdentifierConfig{
		HomeIP:            cfg.HomePlatformIP,
		HomeCNAMEPatterns: cfg.HomeCNAMEPatterns,
		Cache:             dnscache.New(cfg.DNSCacheTTL),
	})
	engine = classifier.New(identifier, cfg.DenylistDomains)

	// 4. Define Handlers
	mux := http.NewServeMux()
	mux.HandleFunc("/classify", enableCORS(requireAPIKey(classifyHandler)))
	mux.HandleFunc("/domain", enableCORS(requireAPIKey(domainHandler)))
	mux.HandleFunc("/analyze", enableCORS(requireAPIKey(analyzeHandler)))
	mux.HandleFunc("/status", enableCORS(requireAPIKey(statusHandler)))
	mux.HandleFunc("/report", enableCORS(requireAPIKey(reportHandler)))
	mux.HandleFunc("/info", enableCORS(infoHandler))

	// 5. Server Configuration
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Graceful shutdown on SIGTERM / SIGINT.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 adscope API running on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-quit
	log.Println("⏳ Shutdown signal received, draining in-flight requests...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	log.Println("✅ Server shut down cleanly.")
}

// enableCORS middleware sets CORS headers for frontend access.
// Note: Access-Control-Allow-Origin is set to "*" which is permissive.
// Restrict this to your specific frontend origin in production.
func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
