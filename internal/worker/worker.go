package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/infrastructure/metrics"
	"pitchlab/services/chat-api/internal/infrastructure/observability"
	"pitchlab/services/chat-api/internal/infrastructure/queue"
)

// Worker processes background round jobs from the queue.
type Worker struct {
	id          int
	queue       queue.TaskQueue
	chatService chat.Service
	taskTimeout time.Duration
	log         zerolog.Logger
	stopChan    chan struct{}
}

// NewWorker creates a new background worker.
func NewWorker(
	id int,
	queue queue.TaskQueue,
	chatService chat.Service,
	taskTimeout time.Duration,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		id:          id,
		queue:       queue,
		chatService: chatService,
		taskTimeout: taskTimeout,
		log:         log.With().Int("worker_id", id).Str("component", "worker").Logger(),
		stopChan:    make(chan struct{}),
	}
}

// Start begins processing jobs from the queue.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	ticker := time.NewTicker(2 * time.Second) // Poll every 2 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped by context")
			return
		case <-w.stopChan:
			w.log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.processNextJob(ctx)
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) processNextJob(ctx context.Context) {
	task, err := w.queue.Dequeue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to dequeue job")
		return
	}

	if task == nil {
		// No jobs available
		return
	}

	w.log.Info().
		Str("job_id", task.JobID).
		Str("thread_id", task.ThreadID).
		Msg("processing background round")

	jobCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	jobCtx, span := observability.StartJobSpan(jobCtx, task.JobID, task.ThreadID)
	defer span.End()

	job := &chat.RoundJob{
		PublicID: task.JobID,
		ThreadID: task.ThreadID,
		Content:  task.Content,
		Status:   chat.JobStatusInProgress,
		QueuedAt: task.QueuedAt,
	}

	if _, err := w.chatService.ExecuteRound(jobCtx, job); err != nil {
		observability.RecordError(span, err)
		w.log.Error().Err(err).Str("job_id", task.JobID).Msg("round execution failed")
		if markErr := w.queue.MarkFailed(ctx, task.JobID, err); markErr != nil {
			w.log.Error().Err(markErr).Str("job_id", task.JobID).Msg("failed to mark job as failed")
		}
		metrics.RecordBackgroundJob(string(chat.JobStatusFailed))
		return
	}

	if err := w.queue.MarkCompleted(ctx, task.JobID); err != nil {
		w.log.Error().Err(err).Str("job_id", task.JobID).Msg("failed to mark job as completed")
		return
	}

	metrics.RecordBackgroundJob(string(chat.JobStatusCompleted))
	w.log.Info().Str("job_id", task.JobID).Msg("round completed successfully")
}
