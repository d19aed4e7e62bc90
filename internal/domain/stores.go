package domain

import (
	"context"
)

// ArtifactStore persists generated artifacts. Implementations must assign
// monotonically increasing IDs and are safe for concurrent use.
type ArtifactStore interface {
	// Save stores a new artifact, assigning its ID and CreatedAt. Missing
	// code fields are defaulted to the empty string, AIModel to "gemini".
	Save(ctx context.Context, artifact NewArtifact) (*GeneratedArtifact, error)

	// Get returns the artifact with the given ID, or ErrNotFound.
	Get(ctx context.Context, id int) (*GeneratedArtifact, error)

	// ListRecent returns up to limit artifacts, newest first.
	ListRecent(ctx context.Context, limit int) ([]GeneratedArtifact, error)
}

// SessionStore persists chat sessions and their append-only message logs.
// Message IDs are monotone across the whole store, not per session.
type SessionStore interface {
	// CreateSession creates a session with the given title.
	CreateSession(ctx context.Context, title string) (*ChatSession, error)

	// GetSession returns the session with the given ID, or ErrNotFound.
	GetSession(ctx context.Context, id int) (*ChatSession, error)

	// ListRecentSessions returns up to limit sessions, most recently
	// updated first.
	ListRecentSessions(ctx context.Context, limit int) ([]ChatSession, error)

	// AppendMessage appends a message to the session's log and bumps the
	// session's LastUpdated timestamp.
	AppendMessage(ctx context.Context, sessionID int, role Role, content string, codeID *int) (*ChatMessage, error)

	// ListMessages returns a session's messages in append order. Unknown
	// sessions yield an empty slice, not an error.
	ListMessages(ctx context.Context, sessionID int) ([]ChatMessage, error)
}
