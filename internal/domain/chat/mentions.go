package chat

import (
	"regexp"
	"strings"

	"pitchlab/services/chat-api/internal/domain/persona"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Mentions is the result of scanning a user message for @name markers.
type Mentions struct {
	// Addressees lists the personas that should respond, in order of first
	// occurrence. An empty list means no token resolved, which callers treat
	// as "all roster personas respond". It is a meaningful value, not an
	// error state.
	Addressees []persona.Persona

	// Keys holds the lower-cased full names of the resolved personas, stored
	// on the user message for display and audit.
	Keys []string
}

// ResolveMentions scans text left to right for @word tokens and resolves each
// against the roster by case-insensitive first name (or full name). Tokens
// with no match stay literal text and contribute no addressee; duplicate
// mentions of one persona collapse to a single entry.
func ResolveMentions(text string, roster *persona.Registry) Mentions {
	var out Mentions
	seen := make(map[string]struct{})

	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		p, ok := roster.ByFirstName(match[1])
		if !ok {
			continue
		}
		if _, dup := seen[p.PublicID]; dup {
			continue
		}
		seen[p.PublicID] = struct{}{}
		out.Addressees = append(out.Addressees, p)
		out.Keys = append(out.Keys, strings.ToLower(p.Name))
	}

	return out
}
