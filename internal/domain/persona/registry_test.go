package persona_test

import (
	"testing"

	"pitchlab/services/chat-api/internal/domain/persona"
)

func roster(names ...string) []persona.Persona {
	out := make([]persona.Persona, len(names))
	for i, name := range names {
		out[i] = persona.Persona{
			PublicID: "persona_" + name,
			Name:     name,
			Role:     "Engineer",
		}
	}
	return out
}

func TestRegistry_ColorTokens(t *testing.T) {
	names := []string{
		"Alice", "Bob", "Carol", "Dan", "Erin",
		"Frank", "Grace", "Heidi", "Ivan", "Judy",
	}
	r := persona.NewRegistry(roster(names...))

	expected := []string{
		"blue", "purple", "green", "yellow", "red",
		"indigo", "pink", "teal",
		// palette wraps after eight personas
		"blue", "purple",
	}

	all := r.All()
	if len(all) != len(expected) {
		t.Fatalf("expected %d personas, got %d", len(expected), len(all))
	}
	for i, p := range all {
		if p.ColorToken != expected[i] {
			t.Errorf("persona %d (%s): expected color %q, got %q", i, p.Name, expected[i], p.ColorToken)
		}
	}
}

func TestRegistry_All_PreservesOrder(t *testing.T) {
	r := persona.NewRegistry(roster("Carol", "Alice", "Bob"))

	got := r.All()
	want := []string{"Carol", "Alice", "Bob"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestRegistry_ByFirstName(t *testing.T) {
	personas := []persona.Persona{
		{PublicID: "persona_1", Name: "Sarah Chen"},
		{PublicID: "persona_2", Name: "Marcus Johnson"},
		{PublicID: "persona_3", Name: "Ana Maria Lopez"},
	}
	r := persona.NewRegistry(personas)

	tests := []struct {
		name   string
		query  string
		wantID string
		wantOK bool
	}{
		{"first name match", "Sarah", "persona_1", true},
		{"lowercase query", "marcus", "persona_2", true},
		{"uppercase query", "SARAH", "persona_1", true},
		{"full name fallback", "Sarah Chen", "persona_1", true},
		{"multi-word first segment only", "Ana", "persona_3", true},
		{"no match", "Victor", "", false},
		{"partial name is not a match", "Sar", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := r.ByFirstName(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("ByFirstName(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if ok && p.PublicID != tt.wantID {
				t.Errorf("ByFirstName(%q) = %q, want %q", tt.query, p.PublicID, tt.wantID)
			}
		})
	}
}

func TestRegistry_ByFirstName_DuplicateFirstNames(t *testing.T) {
	personas := []persona.Persona{
		{PublicID: "persona_1", Name: "Sarah Chen"},
		{PublicID: "persona_2", Name: "Sarah Park"},
	}
	r := persona.NewRegistry(personas)

	// Bare first name resolves to the earliest registration.
	p, ok := r.ByFirstName("sarah")
	if !ok || p.PublicID != "persona_1" {
		t.Errorf("expected first registration to win, got %q (ok=%v)", p.PublicID, ok)
	}

	// Full names still disambiguate.
	p, ok = r.ByFirstName("Sarah Park")
	if !ok || p.PublicID != "persona_2" {
		t.Errorf("expected full-name lookup for second persona, got %q (ok=%v)", p.PublicID, ok)
	}
}

func TestRegistry_ByID(t *testing.T) {
	r := persona.NewRegistry(roster("Alice", "Bob"))

	p, ok := r.ByID("persona_Bob")
	if !ok || p.Name != "Bob" {
		t.Errorf("expected Bob, got %q (ok=%v)", p.Name, ok)
	}

	if _, ok := r.ByID("persona_missing"); ok {
		t.Error("expected missing ID to not resolve")
	}
}

func TestRegistry_Empty(t *testing.T) {
	r := persona.NewRegistry(nil)
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
	if got := r.All(); len(got) != 0 {
		t.Errorf("All() on empty registry returned %d entries", len(got))
	}
	if _, ok := r.ByFirstName("anyone"); ok {
		t.Error("lookup on empty registry should not resolve")
	}
}

func TestPersona_FirstName(t *testing.T) {
	tests := []struct {
		name     string
		full     string
		expected string
	}{
		{"single word", "Sarah", "Sarah"},
		{"two words", "Sarah Chen", "Sarah"},
		{"three words", "Ana Maria Lopez", "Ana"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := persona.Persona{Name: tt.full}
			if got := p.FirstName(); got != tt.expected {
				t.Errorf("FirstName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
