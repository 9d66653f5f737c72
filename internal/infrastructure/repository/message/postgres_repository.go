package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/infrastructure/database/entities"
	"pitchlab/services/chat-api/internal/utils/platformerrors"
)

// Repository persists the append-only message log. Log order is
// (created_at, id) ascending; ties on created_at fall back to insertion
// order, so reads are deterministic.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a message repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts the message and fills in its canonical identifiers.
func (r *Repository) Append(ctx context.Context, msg *chat.Message) error {
	if msg.PublicID == "" {
		msg.PublicID = fmt.Sprintf("msg_%s", uuid.NewString())
	}

	entity := entities.NewSchemaChatMessage(msg)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append chat message",
			err,
			"2d4f5a6b-7c9e-4f6d-8a5b-8e0d1f2a3b4c",
		)
	}

	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListRecent returns the most recent limit messages in ascending order.
func (r *Repository) ListRecent(ctx context.Context, threadID string, limit int) ([]chat.Message, error) {
	var rows []entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list recent messages",
			err,
			"3e5a6b7c-8d0f-4a7e-9b6c-9f1e2a3b4c5d",
		)
	}

	return toAscending(rows), nil
}

// ListBefore returns up to limit messages strictly older than the cursor
// message, ascending, plus whether older messages remain beyond the page.
func (r *Repository) ListBefore(ctx context.Context, threadID, cursor string, limit int) ([]chat.Message, bool, error) {
	var anchor entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("thread_id = ? AND public_id = ?", threadID, cursor).
		First(&anchor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("cursor message not found: %s", cursor),
				nil,
				"4f6b7c8d-9e1a-4b8f-8c7d-0a2f3b4c5d6e",
			)
		}
		return nil, false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch cursor message",
			err,
			"5a7c8d9e-0f2b-4c9a-9d8e-1b3a4c5d6e7f",
		)
	}

	// Fetch one extra row to learn whether the history extends past this
	// page.
	var rows []entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("thread_id = ? AND (created_at, id) < (?, ?)", threadID, anchor.CreatedAt, anchor.ID).
		Order("created_at DESC, id DESC").
		Limit(limit+1).
		Find(&rows).Error; err != nil {
		return nil, false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list older messages",
			err,
			"6b8d9e0f-1a3c-4d0b-8e9f-2c4b5d6e7f8a",
		)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	return toAscending(rows), hasMore, nil
}

// toAscending reverses a newest-first result set into log order.
func toAscending(rows []entities.ChatMessage) []chat.Message {
	result := make([]chat.Message, len(rows))
	for i := range rows {
		result[len(rows)-1-i] = *rows[i].EtoD()
	}
	return result
}
