package main

import (
	"log"

	"adscope/internal/analyzer"
	"adscope/internal/classifier"
	"adscope/internal/config"
	"adscope/internal/dnscache"
	"adscope/internal/lookup"
	"adscope/internal/queue"
	"adscope/internal/store"
	"adscope/internal/worker"
)

func main() {
	log.Println("🚀 Starting adscope Worker...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// 1. Initialize Redis
	if err := queue.Init(cfg.RedisAddr); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// 2. Initialize Database
	if err := store.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// 3. Build the classification engine. One DNS cache per worker
	// process: the TTL already tolerates staleness across workers.
	identifier := lookup.NewIdentifier(lookup.IdentifierConfig{
		HomeIP:            cfg.HomePlatformIP,
		HomeCNAMEPatterns: cfg.HomeCNAMEPatterns,
		Cache:             dnscache.New(cfg.DNSCacheTTL),
	})
	engine := classifier.New(identifier, cfg.DenylistDomains)
	agg := analyzer.New(engine)

	// 4. Start the Processing Loop
	worker.Start(agg, cfg.AnalysisTimeout)
}
