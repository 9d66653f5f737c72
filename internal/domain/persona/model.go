package persona

import "time"

// Persona is a configured AI team member attached to one chat thread.
// Profile fields feed prompt construction and are otherwise opaque to the
// orchestration core.
type Persona struct {
	ID           uint              `json:"-"`
	PublicID     string            `json:"id"`
	ThreadID     string            `json:"-"`
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Company      *string           `json:"company,omitempty"`
	Description  string            `json:"description"`
	PainPoints   []string          `json:"pain_points,omitempty"`
	Goals        []string          `json:"goals,omitempty"`
	Demographics map[string]string `json:"demographics,omitempty"`

	// Prompt, when set, replaces the generated persona definition block.
	Prompt *string `json:"prompt,omitempty"`

	// ColorToken is assigned by the registry at build time and is stable for
	// the lifetime of the thread.
	ColorToken string `json:"color_token,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FirstName returns the canonical mention key: the first whitespace-delimited
// segment of the display name.
func (p Persona) FirstName() string {
	for i, r := range p.Name {
		if r == ' ' || r == '\t' || r == '\n' {
			return p.Name[:i]
		}
	}
	return p.Name
}
