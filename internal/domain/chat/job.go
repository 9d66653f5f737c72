package chat

import (
	"context"
	"time"
)

// JobStatus tracks a background round job through its lifecycle.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// RoundJob is a queued request to run one response round in the background.
// The round's messages land in the message log as usual; the job row only
// tracks execution status for polling callers.
type RoundJob struct {
	ID       uint      `json:"-"`
	PublicID string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Content  string    `json:"content"`
	Status   JobStatus `json:"status"`
	Error    *string   `json:"error,omitempty"`

	QueuedAt    time.Time  `json:"queued_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobRepository persists background round jobs.
type JobRepository interface {
	Create(ctx context.Context, job *RoundJob) error
	FindByPublicID(ctx context.Context, publicID string) (*RoundJob, error)
}
