package v1

import (
	"github.com/gin-gonic/gin"

	"pitchlab/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerThreadRoutes(router gin.IRoutes, provider *handlers.Provider) {
	router.GET("/threads/:thread_id/personas", provider.Persona.List)
	router.GET("/threads/:thread_id/messages", provider.Chat.ListMessages)
	router.POST("/threads/:thread_id/messages", provider.Chat.Send)

	// Background rounds are polled by job id, not thread id.
	router.GET("/round-jobs/:job_id", provider.Chat.GetJob)
}
