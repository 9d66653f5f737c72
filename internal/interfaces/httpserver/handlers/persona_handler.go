package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/interfaces/httpserver/responses"
)

// PersonaHandler exposes HTTP entrypoints for the thread roster.
type PersonaHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewPersonaHandler constructs the handler.
func NewPersonaHandler(service chat.Service, log zerolog.Logger) *PersonaHandler {
	return &PersonaHandler{
		service: service,
		log:     log.With().Str("handler", "persona").Logger(),
	}
}

// List handles GET /v1/threads/:thread_id/personas
// @Summary List thread personas
// @Description Returns the thread's personas in registration order with their assigned color tokens.
// @Tags Personas
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Success 200 {object} responses.PersonaListResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/threads/{thread_id}/personas [get]
func (h *PersonaHandler) List(c *gin.Context) {
	roster, err := h.service.Roster(c.Request.Context(), c.Param("thread_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to list personas")
		return
	}
	c.JSON(http.StatusOK, responses.MapPersonasToResponse(roster))
}
