package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pitchlab/services/chat-api/internal/domain/persona"
)

// Service exposes the chat operations consumed by the HTTP layer and the
// background workers.
type Service interface {
	Roster(ctx context.Context, threadID string) ([]persona.Persona, error)
	Send(ctx context.Context, threadID, content string) (*RoundResult, error)
	SendBackground(ctx context.Context, threadID, content string) (*RoundJob, error)
	ExecuteRound(ctx context.Context, job *RoundJob) (*RoundResult, error)
	ListMessages(ctx context.Context, threadID string, limit int) ([]Message, bool, error)
	ListOlder(ctx context.Context, threadID, before string, limit int) ([]Message, bool, error)
	GetJob(ctx context.Context, publicID string) (*RoundJob, error)
}

// ServiceImpl provides the domain implementation. It keeps one Thread
// controller per thread so the in-progress flag and the optimistic view
// survive across requests.
type ServiceImpl struct {
	threads  ThreadRepository
	personas persona.Repository
	messages MessageRepository
	jobs     JobRepository
	orch     *Orchestrator
	pageSize int
	log      zerolog.Logger

	mu    sync.Mutex
	cache map[string]*Thread
}

// NewService wires dependencies.
func NewService(
	threads ThreadRepository,
	personas persona.Repository,
	messages MessageRepository,
	jobs JobRepository,
	orch *Orchestrator,
	pageSize int,
	log zerolog.Logger,
) *ServiceImpl {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ServiceImpl{
		threads:  threads,
		personas: personas,
		messages: messages,
		jobs:     jobs,
		orch:     orch,
		pageSize: pageSize,
		log:      log.With().Str("component", "chat-service").Logger(),
		cache:    make(map[string]*Thread),
	}
}

// Roster returns the thread's personas in registration order, color tokens
// already assigned.
func (s *ServiceImpl) Roster(ctx context.Context, threadID string) ([]persona.Persona, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return thread.Registry().All(), nil
}

// Send runs a full response round synchronously and returns the user message
// together with every persona message the round produced.
func (s *ServiceImpl) Send(ctx context.Context, threadID, content string) (*RoundResult, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return thread.Send(ctx, content)
}

// SendBackground enqueues a round job instead of running it inline. The job
// is picked up by the worker pool; callers poll it by public id.
func (s *ServiceImpl) SendBackground(ctx context.Context, threadID, content string) (*RoundJob, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.Busy() {
		return nil, ErrRoundInProgress
	}

	job := &RoundJob{
		PublicID: newPublicID("job"),
		ThreadID: threadID,
		Content:  content,
		Status:   JobStatusQueued,
		QueuedAt: time.Now(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue round job: %w", err)
	}

	s.log.Info().
		Str("thread_id", threadID).
		Str("job_id", job.PublicID).
		Msg("round job enqueued")
	return job, nil
}

// ExecuteRound runs the round a queued job describes. Status bookkeeping on
// the job row belongs to the worker that dequeued it.
func (s *ServiceImpl) ExecuteRound(ctx context.Context, job *RoundJob) (*RoundResult, error) {
	thread, err := s.getThread(ctx, job.ThreadID)
	if err != nil {
		return nil, err
	}
	return thread.Send(ctx, job.Content)
}

// ListMessages returns the most recent page of the thread's log in
// chronological order.
func (s *ServiceImpl) ListMessages(ctx context.Context, threadID string, limit int) ([]Message, bool, error) {
	if _, err := s.threads.FindByPublicID(ctx, threadID); err != nil {
		return nil, false, err
	}
	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}
	page, err := s.messages.ListRecent(ctx, threadID, limit)
	if err != nil {
		return nil, false, err
	}
	return page, len(page) >= limit, nil
}

// ListOlder returns the page strictly before the cursor message, again in
// chronological order. An exhausted history yields an empty page, not an
// error.
func (s *ServiceImpl) ListOlder(ctx context.Context, threadID, before string, limit int) ([]Message, bool, error) {
	if _, err := s.threads.FindByPublicID(ctx, threadID); err != nil {
		return nil, false, err
	}
	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}
	return s.messages.ListBefore(ctx, threadID, before, limit)
}

// GetJob returns the round job by public id.
func (s *ServiceImpl) GetJob(ctx context.Context, publicID string) (*RoundJob, error) {
	return s.jobs.FindByPublicID(ctx, publicID)
}

func (s *ServiceImpl) getThread(ctx context.Context, threadID string) (*Thread, error) {
	s.mu.Lock()
	if cached, ok := s.cache[threadID]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	info, err := s.threads.FindByPublicID(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("fetch thread: %w", err)
	}

	roster, err := s.personas.ListByThreadID(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}

	thread := NewThread(*info, persona.NewRegistry(roster), s.messages, s.orch, s.pageSize, s.log)
	if err := thread.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("load recent messages: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[threadID]; ok {
		return cached, nil
	}
	s.cache[threadID] = thread
	return thread, nil
}

func newPublicID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
