package chat_test

import (
	"testing"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/domain/persona"
)

func mentionRoster() *persona.Registry {
	return persona.NewRegistry([]persona.Persona{
		{PublicID: "persona_1", Name: "Sarah Chen"},
		{PublicID: "persona_2", Name: "Marcus Johnson"},
		{PublicID: "persona_3", Name: "Elena"},
	})
}

func TestResolveMentions(t *testing.T) {
	roster := mentionRoster()

	tests := []struct {
		name     string
		text     string
		wantIDs  []string
		wantKeys []string
	}{
		{
			name:     "single mention",
			text:     "hey @Sarah what do you think?",
			wantIDs:  []string{"persona_1"},
			wantKeys: []string{"sarah chen"},
		},
		{
			name:     "case insensitive",
			text:     "@MARCUS and @elena please weigh in",
			wantIDs:  []string{"persona_2", "persona_3"},
			wantKeys: []string{"marcus johnson", "elena"},
		},
		{
			name:     "first occurrence order preserved",
			text:     "@Elena then @Sarah then @Marcus",
			wantIDs:  []string{"persona_3", "persona_1", "persona_2"},
			wantKeys: []string{"elena", "sarah chen", "marcus johnson"},
		},
		{
			name:    "duplicate mentions collapse",
			text:    "@Sarah @Sarah @sarah",
			wantIDs: []string{"persona_1"},
		},
		{
			name:    "unmatched token contributes nothing",
			text:    "ping @Victor about this",
			wantIDs: nil,
		},
		{
			name:    "no mentions",
			text:    "just a regular message",
			wantIDs: nil,
		},
		{
			name:    "mixed matched and unmatched",
			text:    "@Victor @Marcus @nobody",
			wantIDs: []string{"persona_2"},
		},
		{
			name:    "email address is not a roster mention",
			text:    "mail me at sarah@example.com",
			wantIDs: nil,
		},
		{
			name:    "mention mid-word boundary",
			text:    "see @Sarah's draft",
			wantIDs: []string{"persona_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chat.ResolveMentions(tt.text, roster)

			if len(got.Addressees) != len(tt.wantIDs) {
				t.Fatalf("expected %d addressees, got %d", len(tt.wantIDs), len(got.Addressees))
			}
			for i, id := range tt.wantIDs {
				if got.Addressees[i].PublicID != id {
					t.Errorf("addressee %d: expected %q, got %q", i, id, got.Addressees[i].PublicID)
				}
			}
			if tt.wantKeys != nil {
				if len(got.Keys) != len(tt.wantKeys) {
					t.Fatalf("expected %d keys, got %d", len(tt.wantKeys), len(got.Keys))
				}
				for i, key := range tt.wantKeys {
					if got.Keys[i] != key {
						t.Errorf("key %d: expected %q, got %q", i, key, got.Keys[i])
					}
				}
			}
		})
	}
}

func TestResolveMentions_EmptyRoster(t *testing.T) {
	roster := persona.NewRegistry(nil)
	got := chat.ResolveMentions("@Sarah hello", roster)
	if len(got.Addressees) != 0 {
		t.Errorf("expected no addressees against an empty roster, got %d", len(got.Addressees))
	}
}
