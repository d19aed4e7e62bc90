package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"craftora/internal/domain"
)

// SessionStore is a map-backed domain.SessionStore. Message IDs are monotone
// across the whole store; messages are kept in append order per session.
type SessionStore struct {
	mu            sync.RWMutex
	nextSessionID int
	nextMessageID int
	sessions      map[int]domain.ChatSession
	messages      map[int][]domain.ChatMessage
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		nextSessionID: 1,
		nextMessageID: 1,
		sessions:      make(map[int]domain.ChatSession),
		messages:      make(map[int][]domain.ChatMessage),
	}
}

// CreateSession creates a session with the given title.
func (s *SessionStore) CreateSession(_ context.Context, title string) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	session := domain.ChatSession{
		ID:          s.nextSessionID,
		Title:       title,
		CreatedAt:   now,
		LastUpdated: now,
	}
	s.nextSessionID++
	s.sessions[session.ID] = session
	s.messages[session.ID] = nil

	return &session, nil
}

// GetSession returns the session with the given ID.
func (s *SessionStore) GetSession(_ context.Context, id int) (*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("chat session %d: %w", id, domain.ErrNotFound)
	}
	return &session, nil
}

// ListRecentSessions returns up to limit sessions, most recently updated
// first.
func (s *SessionStore) ListRecentSessions(_ context.Context, limit int) ([]domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]domain.ChatSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].LastUpdated.Equal(sessions[j].LastUpdated) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].LastUpdated.After(sessions[j].LastUpdated)
	})

	if limit >= 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// AppendMessage appends a message to the session's log and bumps LastUpdated.
func (s *SessionStore) AppendMessage(_ context.Context, sessionID int, role domain.Role, content string, codeID *int) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("chat session %d: %w", sessionID, domain.ErrNotFound)
	}

	now := time.Now()
	// LastUpdated must strictly increase per append even if the clock
	// hasn't ticked between two calls.
	if !now.After(session.LastUpdated) {
		now = session.LastUpdated.Add(time.Nanosecond)
	}

	message := domain.ChatMessage{
		ID:        s.nextMessageID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CodeID:    codeID,
		CreatedAt: now,
	}
	s.nextMessageID++
	s.messages[sessionID] = append(s.messages[sessionID], message)

	session.LastUpdated = now
	s.sessions[sessionID] = session

	return &message, nil
}

// ListMessages returns a session's messages in append order. Unknown sessions
// yield an empty slice.
func (s *SessionStore) ListMessages(_ context.Context, sessionID int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.messages[sessionID]
	messages := make([]domain.ChatMessage, len(stored))
	copy(messages, stored)
	return messages, nil
}
