// Package session ties generation requests to chat sessions: it creates or
// validates the session for a turn, records the user/assistant message pair
// and exposes session and message retrieval.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"craftora/internal/config"
	"craftora/internal/domain"
)

// Service orchestrates chat sessions over a domain.SessionStore.
type Service struct {
	store  domain.SessionStore
	logger *slog.Logger
}

// NewService creates a session service.
func NewService(store domain.SessionStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// EnsureSession returns a usable session ID for a turn. A given ID is
// validated against the store; otherwise a new session is created with a
// title derived from seedTitle.
func (s *Service) EnsureSession(ctx context.Context, sessionID *int, seedTitle string) (int, error) {
	if sessionID != nil {
		if _, err := s.store.GetSession(ctx, *sessionID); err != nil {
			return 0, fmt.Errorf("ensure session: %w", err)
		}
		return *sessionID, nil
	}

	session, err := s.store.CreateSession(ctx, deriveTitle(seedTitle))
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("chat session created", "session_id", session.ID, "title", session.Title)
	return session.ID, nil
}

// AppendTurn appends one message to the session's log.
func (s *Service) AppendTurn(ctx context.Context, sessionID int, role domain.Role, content string, codeID *int) (*domain.ChatMessage, error) {
	message, err := s.store.AppendMessage(ctx, sessionID, role, content, codeID)
	if err != nil {
		return nil, fmt.Errorf("append turn: %w", err)
	}
	return message, nil
}

// ListMessages returns a session's messages in append order. Unknown sessions
// yield an empty slice, matching the wire contract.
func (s *Service) ListMessages(ctx context.Context, sessionID int) ([]domain.ChatMessage, error) {
	return s.store.ListMessages(ctx, sessionID)
}

// GetSession returns a session by ID, or domain.ErrNotFound.
func (s *Service) GetSession(ctx context.Context, sessionID int) (*domain.ChatSession, error) {
	return s.store.GetSession(ctx, sessionID)
}

// ListRecentSessions returns up to limit sessions, most recently updated
// first.
func (s *Service) ListRecentSessions(ctx context.Context, limit int) ([]domain.ChatSession, error) {
	return s.store.ListRecentSessions(ctx, limit)
}

// deriveTitle truncates a seed prompt into a session title.
func deriveTitle(seed string) string {
	runes := []rune(seed)
	if len(runes) <= config.MaxSessionTitleLength {
		return seed
	}
	return string(runes[:config.MaxSessionTitleLength]) + "..."
}
