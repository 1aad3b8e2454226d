package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueueName is the Redis list the API pushes analysis tasks onto and the
// worker pops from.
const QueueName = "adscope:analysis_jobs"

// Task points the worker at one submitted storefront analysis. The
// payload itself lives in Postgres; the queue carries only the handle.
type Task struct {
	JobID    string `json:"job_id"`
	ClientID string `json:"client_id"`
}

var Client *redis.Client

// Init connects to Redis and pings it to ensure it's alive.
func Init(addr string) error {
	Client = redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    "", // No password for local docker
		DB:          0,  // Default DB
		DialTimeout: 5 * time.Second,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

// Enqueue pushes a task onto the work queue.
func Enqueue(ctx context.Context, task Task) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	if err := Client.RPush(ctx, QueueName, raw).Err(); err != nil {
		return fmt.Errorf("enqueue task %s: %w", task.JobID, err)
	}
	return nil
}
