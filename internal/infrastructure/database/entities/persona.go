package entities

import (
	"time"

	"gorm.io/datatypes"

	"pitchlab/services/chat-api/internal/domain/persona"
)

// Persona represents the database schema for thread personas. Rows are owned
// by the project service; this service reads them to build the roster.
type Persona struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID     string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	ThreadID     string         `gorm:"type:varchar(50);index:idx_persona_thread;not null"`
	Name         string         `gorm:"type:varchar(128);not null"`
	Role         string         `gorm:"type:varchar(128)"`
	Company      *string        `gorm:"type:varchar(128)"`
	Description  string         `gorm:"type:text"`
	PainPoints   datatypes.JSON `gorm:"type:jsonb"`
	Goals        datatypes.JSON `gorm:"type:jsonb"`
	Demographics datatypes.JSON `gorm:"type:jsonb"`
	Prompt       *string        `gorm:"type:text"`
}

// TableName specifies the table name for Persona.
func (Persona) TableName() string {
	return "personas"
}

// EtoD converts database entity to domain model.
func (p *Persona) EtoD() *persona.Persona {
	model := &persona.Persona{
		ID:          p.ID,
		PublicID:    p.PublicID,
		ThreadID:    p.ThreadID,
		Name:        p.Name,
		Role:        p.Role,
		Company:     p.Company,
		Description: p.Description,
		Prompt:      p.Prompt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	fromJSON(p.PainPoints, &model.PainPoints)
	fromJSON(p.Goals, &model.Goals)
	fromJSON(p.Demographics, &model.Demographics)
	return model
}

// NewSchemaPersona creates a database entity from domain model.
func NewSchemaPersona(p *persona.Persona) *Persona {
	return &Persona{
		ID:           p.ID,
		PublicID:     p.PublicID,
		ThreadID:     p.ThreadID,
		Name:         p.Name,
		Role:         p.Role,
		Company:      p.Company,
		Description:  p.Description,
		PainPoints:   toJSON(p.PainPoints),
		Goals:        toJSON(p.Goals),
		Demographics: toJSON(p.Demographics),
		Prompt:       p.Prompt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
