package queue

import (
	"context"
	"time"
)

// Task represents a queued background round waiting for a worker.
type Task struct {
	JobID    string
	ThreadID string
	Content  string
	QueuedAt time.Time
}

// TaskQueue defines the interface for round job queue operations.
type TaskQueue interface {
	// Dequeue claims the next queued job: the returned task is already marked
	// in_progress, so no two workers ever hold the same job
	Dequeue(ctx context.Context) (*Task, error)

	// MarkCompleted updates job status to completed
	MarkCompleted(ctx context.Context, jobID string) error

	// MarkFailed updates job status to failed
	MarkFailed(ctx context.Context, jobID string, err error) error

	// GetQueueDepth returns the number of queued jobs
	GetQueueDepth(ctx context.Context) (int64, error)
}
