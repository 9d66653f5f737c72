package entities

import (
	"time"

	"pitchlab/services/chat-api/internal/domain/chat"
)

// Thread represents the database schema for chat threads. One row per
// project; profile fields feed prompt construction.
type Thread struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID    string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Title       string `gorm:"type:varchar(256);not null"`
	Description string `gorm:"type:text"`
	Industry    string `gorm:"type:varchar(128)"`
	Stage       string `gorm:"type:varchar(64)"`
}

// TableName specifies the table name for Thread.
func (Thread) TableName() string {
	return "threads"
}

// EtoD converts database entity to domain model.
func (t *Thread) EtoD() *chat.ThreadInfo {
	return &chat.ThreadInfo{
		ID:          t.ID,
		PublicID:    t.PublicID,
		Title:       t.Title,
		Description: t.Description,
		Industry:    t.Industry,
		Stage:       t.Stage,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewSchemaThread creates a database entity from domain model.
func NewSchemaThread(t *chat.ThreadInfo) *Thread {
	return &Thread{
		ID:          t.ID,
		PublicID:    t.PublicID,
		Title:       t.Title,
		Description: t.Description,
		Industry:    t.Industry,
		Stage:       t.Stage,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
