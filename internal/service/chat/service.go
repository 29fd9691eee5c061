package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/persona-chat/backend/internal/model/chat"
)

var (
	ErrPersonaRequired = errors.New("persona id is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRole     = errors.New("invalid message role")
)

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service encapsulates conversation state management. All state lives for the
// lifetime of the process.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message
	now      func() time.Time
	// lastStamp is the most recent timestamp handed out; stamps never repeat.
	lastStamp time.Time
}

// NewService bootstraps the in-memory chat service.
func NewService(opts ...Option) *Service {
	s := &Service{
		sessions: make(map[string]chat.Session),
		messages: make(map[string][]chat.Message),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession provisions a session bound to a persona. The caller is
// responsible for checking that the persona exists.
func (s *Service) CreateSession(_ context.Context, personaID string, userID *string) (chat.Session, error) {
	if personaID == "" {
		return chat.Session{}, ErrPersonaRequired
	}

	if userID != nil && strings.TrimSpace(*userID) == "" {
		userID = nil
	}
	if userID != nil {
		id := *userID
		userID = &id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stampLocked()
	session := chat.Session{
		ID:        uuid.NewString(),
		PersonaID: personaID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.sessions[session.ID] = session
	s.messages[session.ID] = make([]chat.Message, 0, 16)
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// ListSessionsByPersona returns every session opened with the persona, oldest first.
func (s *Service) ListSessionsByPersona(_ context.Context, personaID string) []chat.Session {
	s.mu.RLock()
	out := make([]chat.Session, 0)
	for _, session := range s.sessions {
		if session.PersonaID == personaID {
			out = append(out, session)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// AppendMessage stores a message at the end of the session history.
// Consecutive messages with the same role are accepted.
func (s *Service) AppendMessage(_ context.Context, sessionID string, role chat.Role, content string) (chat.Message, error) {
	if !role.Valid() {
		return chat.Message{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	message := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: s.stampLocked(),
	}

	s.messages[sessionID] = append(s.messages[sessionID], message)
	return message, nil
}

// ListMessages returns the session history ordered by creation time.
func (s *Service) ListMessages(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// stampLocked returns a UTC timestamp strictly after every previous one.
// s.mu must be held for writing.
func (s *Service) stampLocked() time.Time {
	now := s.now().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now
}
