package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adscope/internal/models"
)

// Job status values.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// CreateJob inserts a pending job plus its raw submission payload in one
// transaction, so a crash between the two cannot leave an orphan task.
func CreateJob(ctx context.Context, jobID string, req models.AnalysisRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	totalAds := 0
	for _, page := range req.Pages {
		totalAds += len(page.Ads)
	}

	tx, err := DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO jobs (id, client_id, status, total_ads, pages_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, jobID, req.ClientID, JobPending, totalAds, len(req.Pages), time.Now())
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO submissions (job_id, payload) VALUES ($1, $2)
	`, jobID, payload)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	return tx.Commit(ctx)
}

// GetSubmission loads the raw collector payload for a job.
func GetSubmission(ctx context.Context, jobID string) (models.AnalysisRequest, error) {
	var payload []byte
	err := DB.QueryRow(ctx, `SELECT payload FROM submissions WHERE job_id = $1`, jobID).Scan(&payload)
	if err != nil {
		return models.AnalysisRequest{}, fmt.Errorf("load submission %s: %w", jobID, err)
	}

	var req models.AnalysisRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return models.AnalysisRequest{}, fmt.Errorf("decode submission %s: %w", jobID, err)
	}
	return req, nil
}

// MarkJobRunning flips a pending job to running.
func MarkJobRunning(ctx context.Context, jobID string) error {
	_, err := DB.Exec(ctx, `UPDATE jobs SET status = $2 WHERE id = $1`, jobID, JobRunning)
	return err
}

// MarkJobFailed records the failure reason; the batch moves on.
func MarkJobFailed(ctx context.Context, jobID string, reason string) error {
	_, err := DB.Exec(ctx, `
		UPDATE jobs SET status = $2, error = $3, completed_at = NOW() WHERE id = $1
	`, jobID, JobFailed, reason)
	return err
}

// SaveReport persists the finished report and completes the job in one
// transaction.
func SaveReport(ctx context.Context, jobID string, report models.ClientReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	analyzedAt, err := time.Parse(time.RFC3339, report.AnalyzedAt)
	if err != nil {
		analyzedAt = time.Now().UTC()
	}

	tx, err := DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO reports (job_id, client_id, analyzed_at, report)
		VALUES ($1, $2, $3, $4)
	`, jobID, report.ClientID, analyzedAt, reportJSON)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE jobs
		SET status = $2, pages_processed = $3, completed_at = NOW()
		WHERE id = $1
	`, jobID, JobCompleted, report.PagesAnalyzed)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	return tx.Commit(ctx)
}

// LatestReport returns the most recent persisted report for a client as
// raw JSON; RawMessage keeps pgx's JSONB bytes from being re-escaped.
func LatestReport(ctx context.Context, clientID string) (json.RawMessage, error) {
	var report []byte
	err := DB.QueryRow(ctx, `
		SELECT report FROM reports
		WHERE client_id = $1
		ORDER BY analyzed_at DESC
		LIMIT 1
	`, clientID).Scan(&report)
	if err != nil {
		return nil, err
	}
	return report, nil
}
