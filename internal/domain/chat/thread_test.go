package chat_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/domain/llm"
)

func newTestThread(provider llm.Provider, repo chat.MessageRepository, pageSize int) *chat.Thread {
	if provider == nil {
		provider = &MockProvider{}
	}
	roster := testRoster()
	orch := newTestOrchestrator(provider, repo, nil)
	info := chat.ThreadInfo{PublicID: "thread_1", Title: "Project X"}
	return chat.NewThread(info, roster, repo, orch, pageSize, zerolog.Nop())
}

func TestThread_Send(t *testing.T) {
	repo := &MockMessageRepository{}
	thread := newTestThread(nil, repo, 50)

	result, err := thread.Send(context.Background(), "hey @Sarah and @Elena")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if result.UserMessage.Content != "hey @Sarah and @Elena" {
		t.Errorf("unexpected user message content %q", result.UserMessage.Content)
	}
	if result.UserMessage.SenderName != "You" {
		t.Errorf("expected user sender name You, got %q", result.UserMessage.SenderName)
	}
	if result.UserMessage.PublicID == "" {
		t.Error("expected the append to assign the user message a public ID")
	}
	wantMentions := []string{"sarah chen", "elena"}
	if len(result.UserMessage.Mentions) != len(wantMentions) {
		t.Fatalf("expected %d mentions, got %v", len(wantMentions), result.UserMessage.Mentions)
	}
	for i, m := range wantMentions {
		if result.UserMessage.Mentions[i] != m {
			t.Errorf("mention %d: expected %q, got %q", i, m, result.UserMessage.Mentions[i])
		}
	}

	// Only the mentioned personas respond, in mention order.
	if len(result.Responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(result.Responses))
	}
	if result.Responses[0].SenderName != "Sarah Chen" || result.Responses[1].SenderName != "Elena" {
		t.Errorf("unexpected responder order: %q, %q", result.Responses[0].SenderName, result.Responses[1].SenderName)
	}

	// The user message is appended before any persona message.
	if len(repo.Appended) != 3 {
		t.Fatalf("expected 3 appended rows, got %d", len(repo.Appended))
	}
	if repo.Appended[0].SenderType != chat.SenderUser {
		t.Errorf("expected the user message to be appended first, got %q", repo.Appended[0].SenderType)
	}

	// The local view holds the round in order with no duplicates.
	view := thread.Messages()
	if len(view) != 3 {
		t.Fatalf("expected 3 view entries, got %d", len(view))
	}
	if view[0].PublicID != result.UserMessage.PublicID {
		t.Error("expected the optimistic user entry to be replaced by the canonical row")
	}

	if thread.Busy() {
		t.Error("thread should not stay busy after the round completes")
	}
}

func TestThread_Send_NoMentionsMeansAllRespond(t *testing.T) {
	repo := &MockMessageRepository{}
	thread := newTestThread(nil, repo, 50)

	result, err := thread.Send(context.Background(), "what does everyone think?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(result.Responses) != 3 {
		t.Errorf("expected the whole roster to respond, got %d", len(result.Responses))
	}
	if len(result.UserMessage.Mentions) != 0 {
		t.Errorf("expected no stored mention keys, got %v", result.UserMessage.Mentions)
	}
}

func TestThread_Send_RejectsConcurrentRound(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	provider := &MockProvider{
		CreateChatCompletionFunc: func(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
			select {
			case entered <- struct{}{}:
			default:
			}
			<-release
			return completionWith("done"), nil
		},
	}
	repo := &MockMessageRepository{}
	thread := newTestThread(provider, repo, 50)

	errCh := make(chan error, 1)
	go func() {
		_, err := thread.Send(context.Background(), "hey @Sarah")
		errCh <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first round never reached the provider")
	}

	if !thread.Busy() {
		t.Error("thread should report busy mid-round")
	}
	if _, err := thread.Send(context.Background(), "second message"); !errors.Is(err, chat.ErrRoundInProgress) {
		t.Errorf("expected ErrRoundInProgress, got %v", err)
	}

	close(release)
	if err := <-errCh; err != nil {
		t.Fatalf("first Send failed: %v", err)
	}

	// The thread accepts sends again once the round is over.
	if _, err := thread.Send(context.Background(), "hey @Elena"); err != nil {
		t.Errorf("Send after round completion failed: %v", err)
	}
}

func TestThread_Send_AppendFailureDropsOptimisticEntry(t *testing.T) {
	appendErr := errors.New("connection reset")
	repo := &MockMessageRepository{
		AppendFunc: func(ctx context.Context, msg *chat.Message) error {
			return appendErr
		},
	}
	thread := newTestThread(nil, repo, 50)

	if _, err := thread.Send(context.Background(), "hello"); !errors.Is(err, appendErr) {
		t.Fatalf("expected append error, got %v", err)
	}

	// The optimistic entry is retracted so the view matches the log.
	if view := thread.Messages(); len(view) != 0 {
		t.Errorf("expected empty view after failed append, got %d entries", len(view))
	}
	if thread.Busy() {
		t.Error("thread should not stay busy after a failed send")
	}
}

func TestThread_Send_RoundErrorKeepsPartialResult(t *testing.T) {
	appendErr := errors.New("connection reset")
	calls := 0
	repo := &MockMessageRepository{}
	repo.AppendFunc = func(ctx context.Context, msg *chat.Message) error {
		calls++
		// User message and the first persona succeed, the second fails.
		if calls >= 3 {
			return appendErr
		}
		msg.PublicID = fmt.Sprintf("msg_%03d", calls)
		return nil
	}
	thread := newTestThread(nil, repo, 50)

	result, err := thread.Send(context.Background(), "hello")
	if !errors.Is(err, appendErr) {
		t.Fatalf("expected append error, got %v", err)
	}
	if result == nil {
		t.Fatal("partial result should still be returned")
	}
	if len(result.Responses) != 1 {
		t.Errorf("expected the one durable response, got %d", len(result.Responses))
	}
	if thread.Busy() {
		t.Error("thread should not stay busy after a failed round")
	}
}

func TestThread_Refresh(t *testing.T) {
	persisted := []chat.Message{
		{PublicID: "msg_001", ThreadID: "thread_1", Content: "first", SenderType: chat.SenderUser, SenderName: "You"},
		{PublicID: "msg_002", ThreadID: "thread_1", Content: "second", SenderType: chat.SenderPersona, SenderName: "Sarah Chen"},
	}
	repo := &MockMessageRepository{
		ListRecentFunc: func(ctx context.Context, threadID string, limit int) ([]chat.Message, error) {
			return persisted, nil
		},
	}
	thread := newTestThread(nil, repo, 50)

	if err := thread.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	view := thread.Messages()
	if len(view) != 2 {
		t.Fatalf("expected 2 view entries, got %d", len(view))
	}
	if view[0].PublicID != "msg_001" || view[1].PublicID != "msg_002" {
		t.Errorf("unexpected view order: %q, %q", view[0].PublicID, view[1].PublicID)
	}

	// A short page means the log has no older history.
	if thread.HasOlder() {
		t.Error("expected no older history for a short page")
	}

	// Refreshing again must not duplicate anything.
	if err := thread.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
	if view := thread.Messages(); len(view) != 2 {
		t.Errorf("expected refresh to be idempotent, got %d entries", len(view))
	}
}

func TestThread_Refresh_FullPageMeansOlderRemains(t *testing.T) {
	page := make([]chat.Message, 3)
	for i := range page {
		page[i] = chat.Message{PublicID: fmt.Sprintf("msg_%03d", i+1), ThreadID: "thread_1"}
	}
	repo := &MockMessageRepository{
		ListRecentFunc: func(ctx context.Context, threadID string, limit int) ([]chat.Message, error) {
			return page, nil
		},
	}
	thread := newTestThread(nil, repo, 3)

	if err := thread.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !thread.HasOlder() {
		t.Error("a full page should report that older history may remain")
	}
}

func TestThread_Refresh_KeepsSessionAppends(t *testing.T) {
	repo := &MockMessageRepository{}
	thread := newTestThread(nil, repo, 50)

	// Append a round first so the view holds session messages.
	if _, err := thread.Send(context.Background(), "hey @Sarah"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// The reload returns only part of what this session appended.
	repo.ListRecentFunc = func(ctx context.Context, threadID string, limit int) ([]chat.Message, error) {
		return []chat.Message{repo.Appended[0]}, nil
	}

	if err := thread.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	view := thread.Messages()
	if len(view) != 2 {
		t.Fatalf("expected both session messages to survive the reload, got %d", len(view))
	}
	if view[0].SenderType != chat.SenderUser || view[1].SenderType != chat.SenderPersona {
		t.Errorf("unexpected view after reload: %+v", view)
	}
}

func TestThread_LoadOlder(t *testing.T) {
	older := []chat.Message{
		{PublicID: "msg_001", ThreadID: "thread_1", Content: "oldest"},
		{PublicID: "msg_002", ThreadID: "thread_1", Content: "older"},
	}
	var gotCursor string
	repo := &MockMessageRepository{
		ListRecentFunc: func(ctx context.Context, threadID string, limit int) ([]chat.Message, error) {
			return []chat.Message{{PublicID: "msg_003", ThreadID: "thread_1", Content: "recent"}}, nil
		},
		ListBeforeFunc: func(ctx context.Context, threadID, cursor string, limit int) ([]chat.Message, bool, error) {
			gotCursor = cursor
			return older, false, nil
		},
	}
	thread := newTestThread(nil, repo, 50)

	if err := thread.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	page, hasMore, err := thread.LoadOlder(context.Background())
	if err != nil {
		t.Fatalf("LoadOlder failed: %v", err)
	}
	if gotCursor != "msg_003" {
		t.Errorf("expected the oldest view entry as cursor, got %q", gotCursor)
	}
	if len(page) != 2 || hasMore {
		t.Errorf("expected 2 older messages and no more history, got %d (hasMore=%v)", len(page), hasMore)
	}

	view := thread.Messages()
	want := []string{"msg_001", "msg_002", "msg_003"}
	if len(view) != len(want) {
		t.Fatalf("expected %d view entries, got %d", len(want), len(view))
	}
	for i, id := range want {
		if view[i].PublicID != id {
			t.Errorf("view %d: expected %q, got %q", i, id, view[i].PublicID)
		}
	}
	if thread.HasOlder() {
		t.Error("expected no older history after exhausting the log")
	}
}

func TestThread_Refresh_AfterLoadOlderKeepsOrder(t *testing.T) {
	base := time.Now()
	logMsg := func(id uint, publicID string) chat.Message {
		return chat.Message{
			ID:        id,
			PublicID:  publicID,
			ThreadID:  "thread_1",
			CreatedAt: base.Add(time.Duration(id) * time.Minute),
		}
	}
	recent := []chat.Message{logMsg(3, "msg_003"), logMsg(4, "msg_004")}
	older := []chat.Message{logMsg(1, "msg_001"), logMsg(2, "msg_002")}

	repo := &MockMessageRepository{
		ListRecentFunc: func(ctx context.Context, threadID string, limit int) ([]chat.Message, error) {
			return recent, nil
		},
		ListBeforeFunc: func(ctx context.Context, threadID, cursor string, limit int) ([]chat.Message, bool, error) {
			return older, false, nil
		},
	}
	thread := newTestThread(nil, repo, 50)

	if err := thread.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if _, _, err := thread.LoadOlder(context.Background()); err != nil {
		t.Fatalf("LoadOlder failed: %v", err)
	}

	// A second reload must not push the already loaded history behind the
	// recent page.
	if err := thread.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}

	view := thread.Messages()
	want := []string{"msg_001", "msg_002", "msg_003", "msg_004"}
	if len(view) != len(want) {
		t.Fatalf("expected %d view entries, got %d", len(want), len(view))
	}
	for i, id := range want {
		if view[i].PublicID != id {
			t.Errorf("view %d: expected %q, got %q", i, id, view[i].PublicID)
		}
	}
}

func TestThread_LoadOlder_EmptyView(t *testing.T) {
	called := false
	repo := &MockMessageRepository{
		ListBeforeFunc: func(ctx context.Context, threadID, cursor string, limit int) ([]chat.Message, bool, error) {
			called = true
			return nil, false, nil
		},
	}
	thread := newTestThread(nil, repo, 50)

	page, hasMore, err := thread.LoadOlder(context.Background())
	if err != nil {
		t.Fatalf("LoadOlder failed: %v", err)
	}
	if page != nil || hasMore {
		t.Errorf("expected empty result for a view with no persisted entries, got %v (hasMore=%v)", page, hasMore)
	}
	if called {
		t.Error("repository should not be queried without a cursor")
	}
}
