package entities

import (
	"time"

	"pitchlab/services/chat-api/internal/domain/chat"
)

// RoundJob represents the database schema for queued background rounds. The
// worker pool claims queued rows with FOR UPDATE SKIP LOCKED.
type RoundJob struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	ThreadID string  `gorm:"type:varchar(50);index;not null"`
	Content  string  `gorm:"type:text;not null"`
	Status   string  `gorm:"type:varchar(20);index:idx_round_job_status_queued;not null;default:'queued'"`
	Error    *string `gorm:"type:text"`

	QueuedAt    time.Time  `gorm:"index:idx_round_job_status_queued"`
	StartedAt   *time.Time `gorm:"type:timestamp"`
	CompletedAt *time.Time `gorm:"type:timestamp"`
}

// TableName specifies the table name for RoundJob.
func (RoundJob) TableName() string {
	return "round_jobs"
}

// EtoD converts database entity to domain model.
func (j *RoundJob) EtoD() *chat.RoundJob {
	return &chat.RoundJob{
		ID:          j.ID,
		PublicID:    j.PublicID,
		ThreadID:    j.ThreadID,
		Content:     j.Content,
		Status:      chat.JobStatus(j.Status),
		Error:       j.Error,
		QueuedAt:    j.QueuedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// NewSchemaRoundJob creates a database entity from domain model.
func NewSchemaRoundJob(j *chat.RoundJob) *RoundJob {
	return &RoundJob{
		ID:          j.ID,
		PublicID:    j.PublicID,
		ThreadID:    j.ThreadID,
		Content:     j.Content,
		Status:      string(j.Status),
		Error:       j.Error,
		QueuedAt:    j.QueuedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}
