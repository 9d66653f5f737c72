package requests

// SendMessageRequest represents a request to post a user message and trigger
// a response round.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`

	// Background enqueues the round instead of running it inline. The reply
	// is then a round job to poll.
	Background bool `json:"background,omitempty"`
}
