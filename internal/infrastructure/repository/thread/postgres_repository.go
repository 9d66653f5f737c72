package thread

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/infrastructure/database/entities"
	"pitchlab/services/chat-api/internal/utils/platformerrors"
)

// Repository reads thread metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a thread repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByPublicID fetches a thread by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*chat.ThreadInfo, error) {
	var entity entities.Thread
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("thread not found: %s", publicID),
				nil,
				"8a1c2e9d-4f6b-4c3a-9d2e-5b7a8c9d0e1f",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch thread",
			err,
			"9b2d3f0e-5a7c-4d4b-8e3f-6c8b9d0e1f2a",
		)
	}

	return entity.EtoD(), nil
}
