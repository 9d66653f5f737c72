package persona

import "strings"

// avatarPalette holds the fixed avatar color tokens, cycled by registration
// order. Matches the palette rendered by the web client.
var avatarPalette = []string{
	"blue", "purple", "green", "yellow",
	"red", "indigo", "pink", "teal",
}

// Registry is the read-only roster of personas for one thread. Lookup maps
// are built once at construction; roster changes require rebuilding the whole
// registry so color and index assignments never go stale.
type Registry struct {
	ordered     []Persona
	byID        map[string]int
	byFirstName map[string]int
	byFullName  map[string]int
}

// NewRegistry builds a registry from personas in registration order and
// assigns each its color token as palette[i mod len(palette)].
func NewRegistry(personas []Persona) *Registry {
	r := &Registry{
		ordered:     make([]Persona, len(personas)),
		byID:        make(map[string]int, len(personas)),
		byFirstName: make(map[string]int, len(personas)),
		byFullName:  make(map[string]int, len(personas)),
	}

	for i, p := range personas {
		p.ColorToken = avatarPalette[i%len(avatarPalette)]
		r.ordered[i] = p

		if _, exists := r.byID[p.PublicID]; !exists {
			r.byID[p.PublicID] = i
		}
		// First registration wins on duplicate names so resolution stays
		// deterministic.
		first := strings.ToLower(p.FirstName())
		if _, exists := r.byFirstName[first]; !exists {
			r.byFirstName[first] = i
		}
		full := strings.ToLower(p.Name)
		if _, exists := r.byFullName[full]; !exists {
			r.byFullName[full] = i
		}
	}

	return r
}

// All returns the roster in registration order.
func (r *Registry) All() []Persona {
	out := make([]Persona, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the roster size.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// ByID looks up a persona by its public ID.
func (r *Registry) ByID(publicID string) (Persona, bool) {
	i, ok := r.byID[publicID]
	if !ok {
		return Persona{}, false
	}
	return r.ordered[i], true
}

// ByFirstName resolves a case-insensitive mention key against each persona's
// first name, falling back to a full-name match.
func (r *Registry) ByFirstName(name string) (Persona, bool) {
	key := strings.ToLower(name)
	if i, ok := r.byFirstName[key]; ok {
		return r.ordered[i], true
	}
	if i, ok := r.byFullName[key]; ok {
		return r.ordered[i], true
	}
	return Persona{}, false
}
