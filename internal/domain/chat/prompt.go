package chat

import (
	"fmt"
	"sort"
	"strings"

	"pitchlab/services/chat-api/internal/domain/persona"
)

// PromptBuilder renders generation prompts for one thread. The wording is
// opaque to the orchestration contract; only the data flowing into it is
// specified: persona profile, project context, transcript, and the responses
// already produced earlier in the current round.
type PromptBuilder struct {
	thread ThreadInfo
}

// NewPromptBuilder binds a builder to the thread's project context.
func NewPromptBuilder(thread ThreadInfo) *PromptBuilder {
	return &PromptBuilder{thread: thread}
}

// System renders the persona definition and project context block.
func (b *PromptBuilder) System(p persona.Persona) string {
	var sb strings.Builder
	sb.WriteString(b.personaDefinition(p))
	sb.WriteString("\n\nYou are working on the following project:\n")
	sb.WriteString(b.projectContext())
	return sb.String()
}

// User renders the transcript, the triggering user message, and the in-round
// responses produced so far, followed by the response instruction.
func (b *PromptBuilder) User(p persona.Persona, history []Message, userMessage string, prior []RoundEntry) string {
	var sb strings.Builder

	sb.WriteString("Recent conversation history:\n")
	for _, msg := range history {
		sb.WriteString(msg.SenderName)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nUser just said: %q\n", userMessage)

	if len(prior) > 0 {
		sb.WriteString("\nOther team members have responded:\n")
		for _, entry := range prior {
			sb.WriteString(entry.PersonaName)
			sb.WriteString(": ")
			sb.WriteString(entry.Response)
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "\nRespond as %s in character. Keep responses conversational, under 20 words, "+
		"and true to your role and background. Consider your pain points and goals when responding. "+
		"If other team members have already responded, acknowledge their input when relevant.", p.Name)

	return sb.String()
}

func (b *PromptBuilder) personaDefinition(p persona.Persona) string {
	if p.Prompt != nil && strings.TrimSpace(*p.Prompt) != "" {
		return *p.Prompt
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, a team member with the following characteristics:\n", p.Name)
	fmt.Fprintf(&sb, "Role: %s", p.Role)
	if p.Company != nil && *p.Company != "" {
		fmt.Fprintf(&sb, "\nCompany: %s", *p.Company)
	}
	fmt.Fprintf(&sb, "\nDescription: %s", p.Description)
	if len(p.PainPoints) > 0 {
		fmt.Fprintf(&sb, "\nPain Points: %s", strings.Join(p.PainPoints, ", "))
	}
	if len(p.Goals) > 0 {
		fmt.Fprintf(&sb, "\nGoals: %s", strings.Join(p.Goals, ", "))
	}
	if len(p.Demographics) > 0 {
		keys := make([]string, 0, len(p.Demographics))
		for k := range p.Demographics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s: %s", k, p.Demographics[k]))
		}
		fmt.Fprintf(&sb, "\nBackground: %s", strings.Join(pairs, ", "))
	}
	return sb.String()
}

func (b *PromptBuilder) projectContext() string {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "N/A"
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString("Project Information:\n")
	fmt.Fprintf(&sb, "Name: %s\n", b.thread.Title)
	fmt.Fprintf(&sb, "Description: %s\n", orNA(b.thread.Description))
	fmt.Fprintf(&sb, "Industry: %s\n", orNA(b.thread.Industry))
	fmt.Fprintf(&sb, "Stage: %s", orNA(b.thread.Stage))
	return sb.String()
}
