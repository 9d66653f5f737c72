package entities

import (
	"time"

	"gorm.io/datatypes"

	"pitchlab/services/chat-api/internal/domain/chat"
)

// ChatMessage stores each entry of a thread's append-only message log.
// Ordering is (created_at, id) ascending; rows are never updated or deleted.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chat_message_thread_created,priority:2"`

	PublicID   string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	ThreadID   string         `gorm:"type:varchar(50);index:idx_chat_message_thread_created,priority:1;not null"`
	Content    string         `gorm:"type:text;not null"`
	SenderType string         `gorm:"type:varchar(16);not null"`
	SenderName string         `gorm:"type:varchar(128);not null"`
	PersonaID  *string        `gorm:"type:varchar(50);index"`
	Mentions   datatypes.JSON `gorm:"type:jsonb"`
}

// TableName specifies the table name for ChatMessage.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// EtoD converts database entity to domain model.
func (m *ChatMessage) EtoD() *chat.Message {
	model := &chat.Message{
		ID:         m.ID,
		PublicID:   m.PublicID,
		ThreadID:   m.ThreadID,
		Content:    m.Content,
		SenderType: chat.SenderType(m.SenderType),
		SenderName: m.SenderName,
		PersonaID:  m.PersonaID,
		CreatedAt:  m.CreatedAt,
	}
	fromJSON(m.Mentions, &model.Mentions)
	return model
}

// NewSchemaChatMessage creates a database entity from domain model.
func NewSchemaChatMessage(m *chat.Message) *ChatMessage {
	return &ChatMessage{
		ID:         m.ID,
		PublicID:   m.PublicID,
		ThreadID:   m.ThreadID,
		Content:    m.Content,
		SenderType: string(m.SenderType),
		SenderName: m.SenderName,
		PersonaID:  m.PersonaID,
		Mentions:   toJSON(m.Mentions),
		CreatedAt:  m.CreatedAt,
	}
}
