package chat

import (
	"time"

	"github.com/google/uuid"

	"pitchlab/services/chat-api/internal/domain/persona"
)

// SenderType distinguishes user messages from persona messages.
type SenderType string

const (
	SenderUser    SenderType = "user"
	SenderPersona SenderType = "persona"
)

// Message is one entry in a thread's append-only log. Messages are immutable
// once appended and are strictly ordered by creation time, then insertion
// order for ties.
type Message struct {
	ID       uint   `json:"-"`
	PublicID string `json:"id"`

	// LocalID is a session-scoped temporary identifier carried by optimistic
	// entries until the log confirms the row and assigns the public ID. Never
	// persisted.
	LocalID string `json:"-"`

	ThreadID   string     `json:"thread_id"`
	Content    string     `json:"content"`
	SenderType SenderType `json:"sender_type"`
	SenderName string     `json:"sender_name"`
	PersonaID  *string    `json:"persona_id,omitempty"`

	// Mentions holds the lower-cased names of personas resolved from a user
	// message. Empty for persona messages.
	Mentions []string `json:"mentions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage constructs an unpersisted user message. The repository
// assigns the canonical public ID and timestamp on append.
func NewUserMessage(threadID, content, senderName string, mentions []string) Message {
	return Message{
		ThreadID:   threadID,
		Content:    content,
		SenderType: SenderUser,
		SenderName: senderName,
		Mentions:   mentions,
		CreatedAt:  time.Now(),
	}
}

// NewPersonaMessage constructs an unpersisted persona response message.
func NewPersonaMessage(threadID, content string, from persona.Persona) Message {
	personaID := from.PublicID
	return Message{
		ThreadID:   threadID,
		Content:    content,
		SenderType: SenderPersona,
		SenderName: from.Name,
		PersonaID:  &personaID,
		CreatedAt:  time.Now(),
	}
}

func newLocalID() string {
	return "local_" + uuid.NewString()
}

// ThreadInfo carries the project context a thread's prompts are built from.
type ThreadInfo struct {
	ID          uint      `json:"-"`
	PublicID    string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	Stage       string    `json:"stage,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoundEntry is one (persona, response) pair produced while processing a
// single user message. Rounds are ephemeral: entries exist only to grow the
// prompt context of later responders within the same round.
type RoundEntry struct {
	PersonaName string
	Response    string
}

// RoundResult collects everything a completed round appended to the log.
type RoundResult struct {
	UserMessage Message   `json:"user_message"`
	Responses   []Message `json:"responses"`
}
