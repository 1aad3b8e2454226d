package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"adscope/internal/analyzer"
	"adscope/internal/queue"
	"adscope/internal/store"
)

// Start launches the worker loop.
// It blocks forever, waiting for analysis tasks. Clients are processed
// strictly one at a time: classification is DNS-bound and the cache
// works best when one client's domains are resolved back to back.
func Start(agg *analyzer.Aggregator, analysisTimeout time.Duration) {
	log.Println("👷 Worker started. Waiting for analysis tasks...")
	ctx := context.Background()

	for {
		// Blocking pop from Redis (waits forever until a task arrives).
		result, err := queue.Client.BLPop(ctx, 0*time.Second, queue.QueueName).Result()
		if err != nil {
			log.Printf("❌ Redis error: %v\n", err)
			time.Sleep(1 * time.Second) // Backoff on error
			continue
		}

		rawJSON := result[1]
		var task queue.Task
		if err := json.Unmarshal([]byte(rawJSON), &task); err != nil {
			log.Printf("❌ Malformed task: %s\n", rawJSON)
			continue
		}

		processTask(ctx, agg, task, analysisTimeout)
	}
}

// processTask runs one storefront through the classification pass and
// persists the outcome. Per-ad data quality problems never fail a task;
// only a broken payload (no home domain) or a storage error does.
func processTask(ctx context.Context, agg *analyzer.Aggregator, task queue.Task, timeout time.Duration) {
	log.Printf("📊 Analyzing client %s (job %s)\n", task.ClientID, task.JobID)

	if err := store.MarkJobRunning(ctx, task.JobID); err != nil {
		log.Printf("❌ Failed to mark job %s running: %v\n", task.JobID, err)
		return
	}

	req, err := store.GetSubmission(ctx, task.JobID)
	if err != nil {
		log.Printf("❌ %v\n", err)
		failJob(ctx, task.JobID, "submission payload unavailable")
		return
	}

	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	report, err := agg.Summarize(taskCtx, req.ClientID, req.HomeDomain, req.Pages)
	cancel()

	if err != nil {
		// The one hard error in the pass: a violated batch precondition.
		log.Printf("❌ Client %s rejected: %v\n", req.ClientID, err)
		failJob(ctx, task.JobID, err.Error())
		return
	}

	if err := store.SaveReport(ctx, task.JobID, report); err != nil {
		log.Printf("❌ Failed to save report for %s: %v\n", req.ClientID, err)
		failJob(ctx, task.JobID, "failed to persist report")
		return
	}

	stats := report.GlobalStats
	log.Printf("✅ Client %s: %d ads (%d home / %d competitor / %d unknown), %d competitors\n",
		req.ClientID, stats.TotalAds, stats.HomeAds, stats.CompetitorAds, stats.UnknownAds,
		len(report.TopCompetitors))
}

func failJob(ctx context.Context, jobID, reason string) {
	if err := store.MarkJobFailed(ctx, jobID, reason); err != nil {
		log.Printf("❌ Failed to mark job %s failed: %v\n", jobID, err)
	}
}
