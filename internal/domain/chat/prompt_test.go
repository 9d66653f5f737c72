package chat_test

import (
	"strings"
	"testing"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/domain/persona"
)

func TestPromptBuilder_System(t *testing.T) {
	company := "Acme Corp"
	builder := chat.NewPromptBuilder(chat.ThreadInfo{
		PublicID:    "thread_1",
		Title:       "Checkout Redesign",
		Description: "Rework the checkout flow",
		Industry:    "E-commerce",
		Stage:       "Seed",
	})

	p := persona.Persona{
		Name:        "Sarah Chen",
		Role:        "Product Manager",
		Company:     &company,
		Description: "Pragmatic PM focused on conversion.",
		PainPoints:  []string{"cart abandonment", "slow releases"},
		Goals:       []string{"raise conversion"},
		Demographics: map[string]string{
			"location": "Berlin",
			"age":      "34",
		},
	}

	got := builder.System(p)

	wantFragments := []string{
		"You are Sarah Chen, a team member with the following characteristics:",
		"Role: Product Manager",
		"Company: Acme Corp",
		"Description: Pragmatic PM focused on conversion.",
		"Pain Points: cart abandonment, slow releases",
		"Goals: raise conversion",
		// demographics render sorted by key
		"Background: age: 34, location: Berlin",
		"You are working on the following project:",
		"Project Information:",
		"Name: Checkout Redesign",
		"Description: Rework the checkout flow",
		"Industry: E-commerce",
		"Stage: Seed",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(got, fragment) {
			t.Errorf("system prompt missing %q\nprompt:\n%s", fragment, got)
		}
	}
}

func TestPromptBuilder_System_OptionalFieldsOmitted(t *testing.T) {
	builder := chat.NewPromptBuilder(chat.ThreadInfo{Title: "Project X"})

	got := builder.System(persona.Persona{
		Name:        "Marcus",
		Role:        "Engineer",
		Description: "Backend engineer.",
	})

	for _, absent := range []string{"Company:", "Pain Points:", "Goals:", "Background:"} {
		if strings.Contains(got, absent) {
			t.Errorf("system prompt should not contain %q when the field is empty", absent)
		}
	}
}

func TestPromptBuilder_System_CustomPromptOverride(t *testing.T) {
	custom := "You are a pirate. Answer accordingly."
	builder := chat.NewPromptBuilder(chat.ThreadInfo{Title: "Project X"})

	got := builder.System(persona.Persona{
		Name:        "Sarah Chen",
		Role:        "Product Manager",
		Description: "ignored",
		Prompt:      &custom,
	})

	if !strings.Contains(got, custom) {
		t.Errorf("expected custom prompt to be used, got:\n%s", got)
	}
	if strings.Contains(got, "a team member with the following characteristics") {
		t.Error("generated persona definition should be replaced by the custom prompt")
	}
	// The project context block is appended regardless of the override.
	if !strings.Contains(got, "Project Information:") {
		t.Error("project context missing from overridden prompt")
	}
}

func TestPromptBuilder_System_BlankPromptFallsBack(t *testing.T) {
	blank := "   "
	builder := chat.NewPromptBuilder(chat.ThreadInfo{Title: "Project X"})

	got := builder.System(persona.Persona{
		Name:        "Sarah Chen",
		Role:        "Product Manager",
		Description: "Pragmatic PM.",
		Prompt:      &blank,
	})

	if !strings.Contains(got, "a team member with the following characteristics") {
		t.Error("blank custom prompt should fall back to the generated definition")
	}
}

func TestPromptBuilder_System_MissingProjectFields(t *testing.T) {
	builder := chat.NewPromptBuilder(chat.ThreadInfo{Title: "Project X"})

	got := builder.System(persona.Persona{Name: "Marcus", Role: "Engineer"})

	for _, fragment := range []string{"Description: N/A", "Industry: N/A", "Stage: N/A"} {
		if !strings.Contains(got, fragment) {
			t.Errorf("expected %q for empty project field, got:\n%s", fragment, got)
		}
	}
}

func TestPromptBuilder_User(t *testing.T) {
	builder := chat.NewPromptBuilder(chat.ThreadInfo{Title: "Project X"})
	p := persona.Persona{Name: "Sarah Chen", Role: "Product Manager"}

	history := []chat.Message{
		{SenderName: "You", Content: "Kickoff time"},
		{SenderName: "Marcus", Content: "Ready when you are"},
	}

	got := builder.User(p, history, "what should we build first?", nil)

	wantFragments := []string{
		"Recent conversation history:\n",
		"You: Kickoff time\n",
		"Marcus: Ready when you are\n",
		`User just said: "what should we build first?"`,
		"Respond as Sarah Chen in character.",
		"under 20 words",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(got, fragment) {
			t.Errorf("user prompt missing %q\nprompt:\n%s", fragment, got)
		}
	}
	if strings.Contains(got, "Other team members have responded:") {
		t.Error("prior-responses block should be absent when the round has no prior entries")
	}
}

func TestPromptBuilder_User_PriorResponses(t *testing.T) {
	builder := chat.NewPromptBuilder(chat.ThreadInfo{Title: "Project X"})
	p := persona.Persona{Name: "Elena", Role: "Designer"}

	prior := []chat.RoundEntry{
		{PersonaName: "Sarah Chen", Response: "Start with search."},
		{PersonaName: "Marcus", Response: "Agree with Sarah."},
	}

	got := builder.User(p, nil, "thoughts?", prior)

	if !strings.Contains(got, "Other team members have responded:\n") {
		t.Fatalf("expected prior-responses block, got:\n%s", got)
	}
	if !strings.Contains(got, "Sarah Chen: Start with search.\n") {
		t.Error("first prior response missing")
	}
	if !strings.Contains(got, "Marcus: Agree with Sarah.\n") {
		t.Error("second prior response missing")
	}
	// Later responders must see earlier ones in order.
	if strings.Index(got, "Sarah Chen: Start with search.") > strings.Index(got, "Marcus: Agree with Sarah.") {
		t.Error("prior responses out of round order")
	}
}
