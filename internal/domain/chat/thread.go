package chat

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"pitchlab/services/chat-api/internal/domain/persona"
)

// ErrRoundInProgress is returned when a send arrives while the thread is
// still producing the previous round. Concurrent rounds on one thread are
// disallowed.
var ErrRoundInProgress = errors.New("a response round is already in progress for this thread")

// userSenderName labels user messages in the transcript.
const userSenderName = "You"

// Thread coordinates one conversation: it resolves mentions, appends the
// user message, drives the response round, and owns the optimistic local
// view of the message log. A Thread is exclusive to one conversation and is
// never shared across threads.
type Thread struct {
	info     ThreadInfo
	registry *persona.Registry
	messages MessageRepository
	orch     *Orchestrator
	prompts  *PromptBuilder
	pageSize int
	log      zerolog.Logger

	mu      sync.Mutex
	view    []Message
	busy    bool
	hasMore bool
}

// NewThread builds the controller for one conversation. Call Refresh to load
// the most recent page before first use.
func NewThread(info ThreadInfo, registry *persona.Registry, messages MessageRepository, orch *Orchestrator, pageSize int, log zerolog.Logger) *Thread {
	return &Thread{
		info:     info,
		registry: registry,
		messages: messages,
		orch:     orch,
		prompts:  NewPromptBuilder(info),
		pageSize: pageSize,
		log:      log.With().Str("component", "thread").Str("thread_id", info.PublicID).Logger(),
	}
}

// Info returns the thread's project metadata.
func (t *Thread) Info() ThreadInfo {
	return t.info
}

// Registry returns the thread's persona roster.
func (t *Thread) Registry() *persona.Registry {
	return t.registry
}

// Busy reports whether a round is currently in progress.
func (t *Thread) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Messages returns a snapshot of the local view in chronological order.
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.view))
	copy(out, t.view)
	return out
}

// Send processes one user message: resolve mentions, append the user message
// (optimistically inserted into the view, replaced by the canonical row once
// the log confirms it), then run the response round, merging each persona
// message into the view as it is yielded. Returns ErrRoundInProgress while a
// previous round is still running.
func (t *Thread) Send(ctx context.Context, text string) (*RoundResult, error) {
	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return nil, ErrRoundInProgress
	}
	t.busy = true

	mentions := ResolveMentions(text, t.registry)
	userMsg := NewUserMessage(t.info.PublicID, text, userSenderName, mentions.Keys)
	userMsg.LocalID = newLocalID()

	history := make([]Message, len(t.view))
	copy(history, t.view)

	// Optimistic insert before the append round-trips.
	t.view = append(t.view, userMsg)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.busy = false
		t.mu.Unlock()
	}()

	if err := t.messages.Append(ctx, &userMsg); err != nil {
		t.dropLocal(userMsg.LocalID)
		return nil, err
	}

	// Replace the optimistic entry with the canonical persisted row, so it is
	// shown exactly once even after later reloads return it.
	t.replaceLocal(userMsg.LocalID, userMsg)

	result := &RoundResult{UserMessage: userMsg}

	stream := t.orch.RunRound(ctx, t.prompts, RoundInput{
		User:       userMsg,
		History:    history,
		Addressees: mentions.Addressees,
		Roster:     t.registry,
	})
	defer stream.Close()

	for {
		msg, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, err
		}

		t.mu.Lock()
		t.view = append(t.view, *msg)
		t.mu.Unlock()
		result.Responses = append(result.Responses, *msg)
	}

	return result, nil
}

// Refresh reloads the most recent page from the log and reconciles it with
// the local view: every message from the page appears exactly once, and
// session appends that have not round-tripped yet are retained.
func (t *Thread) Refresh(ctx context.Context) error {
	page, err := t.messages.ListRecent(ctx, t.info.PublicID, t.pageSize)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.view = mergeView(page, t.view)
	t.hasMore = len(page) >= t.pageSize
	return nil
}

// LoadOlder fetches the page preceding the oldest persisted message in the
// view and prepends it. The boolean reports whether even older messages
// remain; an exhausted history is not an error.
func (t *Thread) LoadOlder(ctx context.Context) ([]Message, bool, error) {
	t.mu.Lock()
	cursor := ""
	for _, msg := range t.view {
		if msg.PublicID != "" {
			cursor = msg.PublicID
			break
		}
	}
	t.mu.Unlock()

	if cursor == "" {
		return nil, false, nil
	}

	older, hasMore, err := t.messages.ListBefore(ctx, t.info.PublicID, cursor, t.pageSize)
	if err != nil {
		return nil, false, err
	}

	t.mu.Lock()
	t.view = mergeView(older, t.view)
	t.hasMore = hasMore
	t.mu.Unlock()

	return older, hasMore, nil
}

// HasOlder reports whether the log held more history beyond the last page
// loaded.
func (t *Thread) HasOlder() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasMore
}

func (t *Thread) replaceLocal(localID string, canonical Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.view {
		if t.view[i].LocalID == localID {
			t.view[i] = canonical
			return
		}
	}
	// The optimistic entry was dropped by a concurrent reload; re-append the
	// canonical row unless the reload already returned it.
	for i := range t.view {
		if t.view[i].PublicID == canonical.PublicID {
			return
		}
	}
	t.view = append(t.view, canonical)
}

func (t *Thread) dropLocal(localID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.view {
		if t.view[i].LocalID == localID {
			t.view = append(t.view[:i], t.view[i+1:]...)
			return
		}
	}
}

// mergeView unions a freshly loaded page with the current view. View entries
// whose IDs the page already contains are dropped so nothing ever shows
// twice. Retained persisted entries keep their timeline position relative to
// the page: history loaded before the page's oldest message stays in front
// of it, everything else follows. Optimistic entries are session appends and
// always trail the page.
func mergeView(loaded, view []Message) []Message {
	seen := make(map[string]struct{}, len(loaded))
	for _, msg := range loaded {
		seen[msg.PublicID] = struct{}{}
	}

	var before, after []Message
	for _, msg := range view {
		if msg.PublicID != "" {
			if _, dup := seen[msg.PublicID]; dup {
				continue
			}
			seen[msg.PublicID] = struct{}{}
			if len(loaded) > 0 && precedes(msg, loaded[0]) {
				before = append(before, msg)
				continue
			}
		}
		after = append(after, msg)
	}

	merged := make([]Message, 0, len(before)+len(loaded)+len(view))
	merged = append(merged, before...)
	merged = append(merged, loaded...)
	merged = append(merged, after...)
	return merged
}

// precedes orders two persisted messages by the log's (created_at, id) key.
func precedes(a, b Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
