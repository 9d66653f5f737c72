package chat

import "context"

// DefaultPageSize is how many messages a page of the log holds when a caller
// does not ask for fewer.
const DefaultPageSize = 50

// MessageRepository is the durable, append-only, paginated message log for a
// thread. The log never reorders on read and never deletes rows.
type MessageRepository interface {
	// Append stores the message and fills in its canonical public ID and
	// timestamp. It performs no deduplication; callers append each logical
	// message exactly once.
	Append(ctx context.Context, msg *Message) error

	// ListRecent returns the most recent limit messages in ascending
	// chronological order.
	ListRecent(ctx context.Context, threadID string, limit int) ([]Message, error)

	// ListBefore returns up to limit messages immediately preceding the
	// message identified by cursor (a message public ID), ascending. The
	// boolean reports whether older messages remain; reaching the start of
	// history yields an empty page and false, not an error.
	ListBefore(ctx context.Context, threadID, cursor string, limit int) ([]Message, bool, error)
}

// ThreadRepository reads thread (project) metadata maintained by an external
// collaborator.
type ThreadRepository interface {
	FindByPublicID(ctx context.Context, publicID string) (*ThreadInfo, error)
}
