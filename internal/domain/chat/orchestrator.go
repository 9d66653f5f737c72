package chat

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"pitchlab/services/chat-api/internal/domain/llm"
	"pitchlab/services/chat-api/internal/domain/persona"
)

// Fallback texts substituted for a persona's turn so a failed generation
// still produces a visible message and the round keeps its order.
const (
	FallbackEmpty = "I'm thinking..."
	FallbackError = "Sorry, I'm having trouble responding right now."
)

// RoundConfig tunes one thread's response rounds.
type RoundConfig struct {
	// Model is the generation model identifier.
	Model string

	// Temperature and MaxTokens are passed through to the generation call.
	Temperature float64
	MaxTokens   int

	// Pacing is the delay inserted before each persona after the first when a
	// round has more than one addressee. Purely a turn-taking feel; not a
	// correctness requirement.
	Pacing time.Duration
}

// RoundInput carries everything one round needs.
type RoundInput struct {
	// User is the triggering message, already appended to the log.
	User Message

	// History is the transcript preceding User, ascending.
	History []Message

	// Addressees lists the personas that must respond, in order. Empty means
	// the whole roster responds.
	Addressees []persona.Persona

	// Roster is the thread's registry, used for the all-respond default.
	Roster *persona.Registry
}

// Observer receives round lifecycle notifications. Implementations must be
// safe for concurrent use.
type Observer interface {
	RoundStarted(threadID string, addressees int)
	PersonaResponded(personaName string, fallback bool, duration time.Duration)
	RoundFinished(threadID string, status string, duration time.Duration)
}

// NopObserver discards all notifications.
type NopObserver struct{}

func (NopObserver) RoundStarted(string, int)                     {}
func (NopObserver) PersonaResponded(string, bool, time.Duration) {}
func (NopObserver) RoundFinished(string, string, time.Duration)  {}

// Orchestrator drives one sequential round of persona responses per user
// message. Responses are generated strictly in addressee order so each later
// persona sees everything earlier personas said in the same round.
type Orchestrator struct {
	provider llm.Provider
	messages MessageRepository
	cfg      RoundConfig
	obs      Observer
	log      zerolog.Logger
}

// NewOrchestrator wires dependencies.
func NewOrchestrator(provider llm.Provider, messages MessageRepository, cfg RoundConfig, obs Observer, log zerolog.Logger) *Orchestrator {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Orchestrator{
		provider: provider,
		messages: messages,
		cfg:      cfg,
		obs:      obs,
		log:      log.With().Str("component", "orchestrator").Logger(),
	}
}

// RunRound starts a round and returns its lazy message stream. Each Recv call
// performs one persona's generation and append, so the sequence is consumed
// at the caller's pace and is not restartable.
func (o *Orchestrator) RunRound(ctx context.Context, prompts *PromptBuilder, in RoundInput) *RoundStream {
	addressees := in.Addressees
	if len(addressees) == 0 && in.Roster != nil {
		addressees = in.Roster.All()
	}

	o.obs.RoundStarted(in.User.ThreadID, len(addressees))

	return &RoundStream{
		orch:       o,
		ctx:        ctx,
		prompts:    prompts,
		input:      in,
		addressees: addressees,
		started:    time.Now(),
	}
}

// RoundStream yields the round's persona messages one at a time. Recv returns
// io.EOF once every addressee has responded (or fallen back); a persistence
// failure is returned as an error and ends the stream early. Close stops
// scheduling the remaining personas; messages already yielded stay durable.
type RoundStream struct {
	orch       *Orchestrator
	ctx        context.Context
	prompts    *PromptBuilder
	input      RoundInput
	addressees []persona.Persona
	produced   []RoundEntry
	started    time.Time
	idx        int
	closed     bool
	err        error
}

// Recv produces the next persona's message. It blocks for the pacing delay,
// the generation call, and the log append.
func (s *RoundStream) Recv() (*Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.closed || s.idx >= len(s.addressees) {
		s.finish("completed")
		return nil, io.EOF
	}

	// Pacing between turns, skipped for the first persona and for
	// single-addressee rounds.
	if s.idx > 0 && len(s.addressees) > 1 && s.orch.cfg.Pacing > 0 {
		select {
		case <-time.After(s.orch.cfg.Pacing):
		case <-s.ctx.Done():
			s.finish("cancelled")
			return nil, s.ctx.Err()
		}
	}

	p := s.addressees[s.idx]
	s.idx++

	start := time.Now()
	content, fallback := s.orch.generate(s.ctx, s.prompts, p, s.input, s.produced)
	s.orch.obs.PersonaResponded(p.Name, fallback, time.Since(start))

	msg := NewPersonaMessage(s.input.User.ThreadID, content, p)
	if err := s.orch.messages.Append(s.ctx, &msg); err != nil {
		// The durable log and the user's view must not diverge: an append
		// failure aborts the remainder of the round. Messages already
		// appended remain valid.
		s.err = fmt.Errorf("append persona message: %w", err)
		s.finish("failed")
		return nil, s.err
	}

	s.produced = append(s.produced, RoundEntry{PersonaName: p.Name, Response: content})
	return &msg, nil
}

// Close stops scheduling the remaining personas. It never retracts messages
// already appended.
func (s *RoundStream) Close() error {
	if !s.closed && s.idx < len(s.addressees) {
		s.finish("cancelled")
	}
	s.closed = true
	return nil
}

func (s *RoundStream) finish(status string) {
	if s.started.IsZero() {
		return
	}
	s.orch.obs.RoundFinished(s.input.User.ThreadID, status, time.Since(s.started))
	s.started = time.Time{}
}

// generate performs one persona's generation call. Failures never propagate:
// a remote error or an empty payload is substituted with a fallback text so a
// single persona's failure cannot abort the round for the rest.
func (o *Orchestrator) generate(ctx context.Context, prompts *PromptBuilder, p persona.Persona, in RoundInput, prior []RoundEntry) (string, bool) {
	temperature := o.cfg.Temperature
	maxTokens := o.cfg.MaxTokens

	resp, err := o.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: prompts.System(p)},
			{Role: "user", Content: prompts.User(p, in.History, in.User.Content, prior)},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		o.log.Warn().Err(err).
			Str("persona_id", p.PublicID).
			Str("persona", p.Name).
			Msg("generation call failed, using fallback")
		return FallbackError, true
	}

	text := resp.Text()
	if text == "" {
		return FallbackEmpty, true
	}
	return text, false
}
