package chat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/persona-chat/backend/internal/model/chat"
	chat "github.com/zhouzirui/persona-chat/backend/internal/service/chat"
)

func frozenClock() func() time.Time {
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestServiceGetSession(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "hitesh", nil)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}

	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if got.PersonaID != "hitesh" {
		t.Fatalf("unexpected persona ID: got %s", got.PersonaID)
	}
	if got.UserID != nil {
		t.Fatalf("expected anonymous session, got user %q", *got.UserID)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("expected equal timestamps on creation, got %v and %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	if _, err := svc.GetSession(ctx, "missing"); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestCreateSessionRequiresPersona(t *testing.T) {
	svc := chat.NewService()

	_, err := svc.CreateSession(context.Background(), "", nil)
	require.ErrorIs(t, err, chat.ErrPersonaRequired)
}

func TestCreateSessionKeepsUserID(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	user := "user-42"
	session, err := svc.CreateSession(ctx, "piyush", &user)
	require.NoError(t, err)
	require.NotNil(t, session.UserID)
	assert.Equal(t, "user-42", *session.UserID)

	user = "mutated"
	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-42", *got.UserID, "stored session must not alias the caller's string")

	blank := "  "
	anon, err := svc.CreateSession(ctx, "piyush", &blank)
	require.NoError(t, err)
	assert.Nil(t, anon.UserID)
}

func TestCreateSessionUniqueIDs(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		session, err := svc.CreateSession(ctx, "lakshya", nil)
		require.NoError(t, err)
		assert.Equal(t, "lakshya", session.PersonaID)
		_, dup := seen[session.ID]
		require.False(t, dup, "duplicate session id %s", session.ID)
		seen[session.ID] = struct{}{}
	}
}

func TestListMessagesEmptyForNewSession(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)

	messages, err := svc.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestAppendMessagePreservesOrderWithCollidingClock(t *testing.T) {
	svc := chat.NewService(chat.WithClock(frozenClock()))
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)

	const n = 25
	want := make([]string, 0, n)
	for i := 0; i < n; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msg, err := svc.AppendMessage(ctx, session.ID, role, string(rune('a'+i)))
		require.NoError(t, err)
		want = append(want, msg.ID)
	}

	messages, err := svc.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, n)
	for i, msg := range messages {
		assert.Equal(t, want[i], msg.ID)
		if i > 0 {
			assert.True(t, msg.CreatedAt.After(messages[i-1].CreatedAt), "timestamps must strictly increase")
		}
	}
}

func TestAppendMessageUnknownSessionStoresNothing(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	_, err := svc.AppendMessage(ctx, "missing", model.RoleUser, "hello")
	require.ErrorIs(t, err, chat.ErrSessionNotFound)

	_, err = svc.ListMessages(ctx, "missing")
	require.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestAppendMessageRejectsUnknownRole(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, session.ID, model.Role("system"), "hello")
	require.ErrorIs(t, err, chat.ErrInvalidRole)

	messages, err := svc.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

// Role alternation is deliberately not enforced: two user turns in a row are stored as-is.
func TestAppendMessageAllowsConsecutiveSameRole(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, session.ID, model.RoleUser, "first")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, session.ID, model.RoleUser, "second")
	require.NoError(t, err)

	messages, err := svc.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, model.RoleUser, messages[1].Role)
}

func TestConcurrentAppendsKeepStrictOrder(t *testing.T) {
	svc := chat.NewService(chat.WithClock(frozenClock()))
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "piyush", nil)
	require.NoError(t, err)

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := svc.AppendMessage(ctx, session.ID, model.RoleUser, "ping")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	messages, err := svc.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, workers*perWorker)
	for i := 1; i < len(messages); i++ {
		require.True(t, messages[i].CreatedAt.After(messages[i-1].CreatedAt))
	}
}

func TestListMessagesReturnsCopy(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, session.ID, model.RoleUser, "hello")
	require.NoError(t, err)

	messages, err := svc.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	messages[0].Content = "tampered"

	again, err := svc.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", again[0].Content)
}

func TestListSessionsByPersona(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, "piyush", nil)
	require.NoError(t, err)
	second, err := svc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)

	sessions := svc.ListSessionsByPersona(ctx, "hitesh")
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)

	assert.Empty(t, svc.ListSessionsByPersona(ctx, "nobody"))
}
