package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/infrastructure/database/entities"
)

// PostgresQueue implements TaskQueue on the round_jobs table. Jobs are
// enqueued by the service as ordinary inserts; workers claim them here.
type PostgresQueue struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewPostgresQueue creates a new PostgreSQL-backed round job queue.
func NewPostgresQueue(db *gorm.DB, log zerolog.Logger) *PostgresQueue {
	return &PostgresQueue{
		db:  db,
		log: log.With().Str("component", "postgres-queue").Logger(),
	}
}

// Dequeue claims the next queued job. The select and the status flip to
// in_progress run in one transaction, so the row lock taken by FOR UPDATE
// SKIP LOCKED is still held when the status changes and a concurrent worker
// can never claim the same job.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*Task, error) {
	var entity entities.RoundJob

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Raw("SELECT * FROM round_jobs WHERE status = ? ORDER BY queued_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED", string(chat.JobStatusQueued)).
			Scan(&entity).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		// Scan leaves the entity zeroed when no row matched.
		if entity.ID == 0 {
			return nil
		}

		now := time.Now()
		return tx.
			Model(&entities.RoundJob{}).
			Where("id = ?", entity.ID).
			Updates(map[string]interface{}{
				"status":     string(chat.JobStatusInProgress),
				"started_at": now,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("dequeue round job: %w", err)
	}

	if entity.ID == 0 {
		return nil, nil // No jobs available
	}

	return &Task{
		JobID:    entity.PublicID,
		ThreadID: entity.ThreadID,
		Content:  entity.Content,
		QueuedAt: entity.QueuedAt,
	}, nil
}

// MarkCompleted updates the job status to completed.
func (q *PostgresQueue) MarkCompleted(ctx context.Context, jobID string) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.RoundJob{}).
		Where("public_id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       string(chat.JobStatusCompleted),
			"completed_at": now,
			"updated_at":   now,
		})

	if result.Error != nil {
		return fmt.Errorf("mark completed: %w", result.Error)
	}

	return nil
}

// MarkFailed updates the job status to failed and records the failure.
func (q *PostgresQueue) MarkFailed(ctx context.Context, jobID string, taskErr error) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.RoundJob{}).
		Where("public_id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       string(chat.JobStatusFailed),
			"error":        taskErr.Error(),
			"completed_at": now,
			"updated_at":   now,
		})

	if result.Error != nil {
		return fmt.Errorf("mark failed: %w", result.Error)
	}

	return nil
}

// GetQueueDepth returns the number of queued jobs.
func (q *PostgresQueue) GetQueueDepth(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&entities.RoundJob{}).
		Where("status = ?", string(chat.JobStatusQueued)).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("get queue depth: %w", err)
	}

	return count, nil
}
