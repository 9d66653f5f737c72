package responses

import (
	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/domain/persona"
)

// MessagePayload represents one log entry in API responses.
type MessagePayload struct {
	ID         string   `json:"id"`
	ThreadID   string   `json:"thread_id"`
	Content    string   `json:"content"`
	SenderType string   `json:"sender_type"`
	SenderName string   `json:"sender_name"`
	PersonaID  *string  `json:"persona_id,omitempty"`
	Mentions   []string `json:"mentions,omitempty"`
	CreatedAt  int64    `json:"created_at"`
}

// MessageListResponse wraps a page of the message log.
type MessageListResponse struct {
	Data    []MessagePayload `json:"data"`
	HasMore bool             `json:"has_more"`
}

// RoundResponse represents a completed response round.
type RoundResponse struct {
	UserMessage MessagePayload   `json:"user_message"`
	Responses   []MessagePayload `json:"responses"`
}

// RoundJobResponse represents an accepted background round.
type RoundJobResponse struct {
	ID          string  `json:"id"`
	ThreadID    string  `json:"thread_id"`
	Status      string  `json:"status"`
	Error       *string `json:"error,omitempty"`
	QueuedAt    int64   `json:"queued_at"`
	StartedAt   *int64  `json:"started_at,omitempty"`
	CompletedAt *int64  `json:"completed_at,omitempty"`
}

// PersonaPayload represents one roster member in API responses.
type PersonaPayload struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Company      *string           `json:"company,omitempty"`
	Description  string            `json:"description"`
	PainPoints   []string          `json:"pain_points,omitempty"`
	Goals        []string          `json:"goals,omitempty"`
	Demographics map[string]string `json:"demographics,omitempty"`
	ColorToken   string            `json:"color_token"`
}

// PersonaListResponse wraps the thread roster.
type PersonaListResponse struct {
	Data []PersonaPayload `json:"data"`
}

// MapMessageToPayload maps the domain message to DTO.
func MapMessageToPayload(m chat.Message) MessagePayload {
	return MessagePayload{
		ID:         m.PublicID,
		ThreadID:   m.ThreadID,
		Content:    m.Content,
		SenderType: string(m.SenderType),
		SenderName: m.SenderName,
		PersonaID:  m.PersonaID,
		Mentions:   m.Mentions,
		CreatedAt:  m.CreatedAt.Unix(),
	}
}

// MapMessagesToPayload maps a page of messages to DTOs.
func MapMessagesToPayload(msgs []chat.Message) []MessagePayload {
	data := make([]MessagePayload, len(msgs))
	for i, m := range msgs {
		data[i] = MapMessageToPayload(m)
	}
	return data
}

// MapRoundToResponse maps the round result to DTO.
func MapRoundToResponse(r *chat.RoundResult) RoundResponse {
	return RoundResponse{
		UserMessage: MapMessageToPayload(r.UserMessage),
		Responses:   MapMessagesToPayload(r.Responses),
	}
}

// MapJobToResponse maps the round job to DTO.
func MapJobToResponse(j *chat.RoundJob) RoundJobResponse {
	resp := RoundJobResponse{
		ID:       j.PublicID,
		ThreadID: j.ThreadID,
		Status:   string(j.Status),
		Error:    j.Error,
		QueuedAt: j.QueuedAt.Unix(),
	}
	if j.StartedAt != nil {
		started := j.StartedAt.Unix()
		resp.StartedAt = &started
	}
	if j.CompletedAt != nil {
		completed := j.CompletedAt.Unix()
		resp.CompletedAt = &completed
	}
	return resp
}

// MapPersonaToPayload maps the domain persona to DTO.
func MapPersonaToPayload(p persona.Persona) PersonaPayload {
	return PersonaPayload{
		ID:           p.PublicID,
		Name:         p.Name,
		Role:         p.Role,
		Company:      p.Company,
		Description:  p.Description,
		PainPoints:   p.PainPoints,
		Goals:        p.Goals,
		Demographics: p.Demographics,
		ColorToken:   p.ColorToken,
	}
}

// MapPersonasToResponse maps the roster to DTOs.
func MapPersonasToResponse(roster []persona.Persona) PersonaListResponse {
	data := make([]PersonaPayload, len(roster))
	for i, p := range roster {
		data[i] = MapPersonaToPayload(p)
	}
	return PersonaListResponse{Data: data}
}
