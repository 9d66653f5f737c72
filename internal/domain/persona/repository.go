package persona

import "context"

// Repository reads the persona roster for a thread. Personas are created and
// mutated by an external collaborator; this service only reads them.
type Repository interface {
	ListByThreadID(ctx context.Context, threadID string) ([]Persona, error)
}
