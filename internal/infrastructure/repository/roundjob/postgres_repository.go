package roundjob

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/infrastructure/database/entities"
	"pitchlab/services/chat-api/internal/utils/platformerrors"
)

// Repository persists background round jobs.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a round job repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the job record.
func (r *Repository) Create(ctx context.Context, job *chat.RoundJob) error {
	entity := entities.NewSchemaRoundJob(job)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create round job",
			err,
			"7c9e0f1a-2b4d-4e1c-9f0a-3d5c6e7f8a9b",
		)
	}

	job.ID = entity.ID
	job.CreatedAt = entity.CreatedAt
	job.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches a job by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*chat.RoundJob, error) {
	var entity entities.RoundJob
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("round job not found: %s", publicID),
				nil,
				"8d0f1a2b-3c5e-4f2d-8a1b-4e6d7f8a9b0c",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch round job",
			err,
			"9e1a2b3c-4d6f-4a3e-9b2c-5f7e8a9b0c1d",
		)
	}

	return entity.EtoD(), nil
}
