package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

// Init connects to Postgres and runs migrations
func Init(connString string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	DB, err = pgxpool.New(ctx, connString)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	// Verify connection
	if err := DB.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return runMigrations(ctx)
}

// runMigrations creates the necessary tables if they don't exist
func runMigrations(ctx context.Context) error {
	// Table: jobs (tracks one analysis batch per storefront submission)
	queryJobs := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		status TEXT NOT NULL,
		total_ads INT DEFAULT 0,
		pages_total INT DEFAULT 0,
		pages_processed INT DEFAULT 0,
		error TEXT,
		created_at TIMESTAMP DEFAULT NOW(),
		completed_at TIMESTAMP
	);`

	// Table: submissions (the raw collector payload, replayable)
	querySubmissions := `
	CREATE TABLE IF NOT EXISTS submissions (
		job_id TEXT PRIMARY KEY REFERENCES jobs(id),
		payload JSONB NOT NULL,
		created_at TIMESTAMP DEFAULT NOW()
	);`

	// Table: reports (one classification report per completed job)
	// We store the full JSON report so the dashboard layer can read the
	// competitors and platform fields without schema churn.
	queryReports := `
	CREATE TABLE IF NOT EXISTS reports (
		id SERIAL PRIMARY KEY,
		job_id TEXT NOT NULL REFERENCES jobs(id),
		client_id TEXT NOT NULL,
		analyzed_at TIMESTAMPTZ NOT NULL,
		report JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS reports_client_idx ON reports (client_id, analyzed_at DESC);`

	if _, err := DB.Exec(ctx, queryJobs); err != nil {
		return fmt.Errorf("migration failed (jobs): %w", err)
	}
	if _, err := DB.Exec(ctx, querySubmissions); err != nil {
		return fmt.Errorf("migration failed (submissions): %w", err)
	}
	if _, err := DB.Exec(ctx, queryReports); err != nil {
		return fmt.Errorf("migration failed (reports): %w", err)
	}

	return nil
}
