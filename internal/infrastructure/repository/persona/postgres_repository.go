package persona

import (
	"context"

	"gorm.io/gorm"

	domain "pitchlab/services/chat-api/internal/domain/persona"
	"pitchlab/services/chat-api/internal/infrastructure/database/entities"
	"pitchlab/services/chat-api/internal/utils/platformerrors"
)

// Repository reads the persona roster.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a persona repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByThreadID returns the thread's personas in creation order. The order
// is what the registry derives color tokens from, so it must be stable.
func (r *Repository) ListByThreadID(ctx context.Context, threadID string) ([]domain.Persona, error) {
	var rows []entities.Persona
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list personas",
			err,
			"1c3e4f5a-6b8d-4e5c-9f4a-7d9c0e1f2a3b",
		)
	}

	result := make([]domain.Persona, len(rows))
	for i := range rows {
		result[i] = *rows[i].EtoD()
	}
	return result, nil
}
