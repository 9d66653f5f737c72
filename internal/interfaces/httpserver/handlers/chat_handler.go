package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/interfaces/httpserver/requests"
	"pitchlab/services/chat-api/internal/interfaces/httpserver/responses"
)

// ChatHandler exposes HTTP entrypoints for the thread message log and
// response rounds.
type ChatHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// ListMessages handles GET /v1/threads/:thread_id/messages
// @Summary List thread messages
// @Description Returns a page of the thread's message log in chronological order. Pass before to page into older history.
// @Tags Messages
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Param limit query int false "Page size, defaults to 50"
// @Param before query string false "Message ID to page backwards from"
// @Success 200 {object} responses.MessageListResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/threads/{thread_id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	threadID := c.Param("thread_id")
	limit := parseLimit(c.Query("limit"))

	var (
		page    []chat.Message
		hasMore bool
		err     error
	)

	if before := c.Query("before"); before != "" {
		page, hasMore, err = h.service.ListOlder(c.Request.Context(), threadID, before, limit)
	} else {
		page, hasMore, err = h.service.ListMessages(c.Request.Context(), threadID, limit)
	}
	if err != nil {
		responses.HandleError(c, err, "failed to list messages")
		return
	}

	c.JSON(http.StatusOK, responses.MessageListResponse{
		Data:    responses.MapMessagesToPayload(page),
		HasMore: hasMore,
	})
}

// Send handles POST /v1/threads/:thread_id/messages
// @Summary Send a message
// @Description Appends the user message and runs a response round. Personas mentioned with @FirstName respond; an unaddressed message draws a response from the whole roster. Set background to enqueue the round and poll the returned job instead.
// @Tags Messages
// @Accept json
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Param request body requests.SendMessageRequest true "Message"
// @Success 200 {object} responses.RoundResponse
// @Success 202 {object} responses.RoundJobResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "A round is already in progress"
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/threads/{thread_id}/messages [post]
func (h *ChatHandler) Send(c *gin.Context) {
	threadID := c.Param("thread_id")

	var req requests.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Background {
		job, err := h.service.SendBackground(c.Request.Context(), threadID, req.Content)
		if err != nil {
			responses.HandleError(c, err, "failed to enqueue round")
			return
		}
		c.JSON(http.StatusAccepted, responses.MapJobToResponse(job))
		return
	}

	result, err := h.service.Send(c.Request.Context(), threadID, req.Content)
	if err != nil {
		responses.HandleError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusOK, responses.MapRoundToResponse(result))
}

// GetJob handles GET /v1/round-jobs/:job_id
// @Summary Get a round job
// @Description Returns the status of a background response round.
// @Tags Messages
// @Produce json
// @Param job_id path string true "Round job ID"
// @Success 200 {object} responses.RoundJobResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/round-jobs/{job_id} [get]
func (h *ChatHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get round job")
		return
	}
	c.JSON(http.StatusOK, responses.MapJobToResponse(job))
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
