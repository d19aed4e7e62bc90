package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"craftora/internal/domain"
)

// SessionStore implements domain.SessionStore against the chat_session and
// chat_message tables.
type SessionStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSessionStore creates a Postgres-backed session store.
func NewSessionStore(pool *pgxpool.Pool, logger *slog.Logger) *SessionStore {
	return &SessionStore{pool: pool, logger: logger}
}

// CreateSession creates a session with the given title.
func (s *SessionStore) CreateSession(ctx context.Context, title string) (*domain.ChatSession, error) {
	query := `
		INSERT INTO chat_session (title)
		VALUES ($1)
		RETURNING id, title, created_at, last_updated
	`

	var session domain.ChatSession
	err := s.pool.QueryRow(ctx, query, title).Scan(
		&session.ID,
		&session.Title,
		&session.CreatedAt,
		&session.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &session, nil
}

// GetSession returns the session with the given ID.
func (s *SessionStore) GetSession(ctx context.Context, id int) (*domain.ChatSession, error) {
	query := `
		SELECT id, title, created_at, last_updated
		FROM chat_session
		WHERE id = $1
	`

	var session domain.ChatSession
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.Title,
		&session.CreatedAt,
		&session.LastUpdated,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("session %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &session, nil
}

// ListRecentSessions returns up to limit sessions, most recently updated first.
func (s *SessionStore) ListRecentSessions(ctx context.Context, limit int) ([]domain.ChatSession, error) {
	query := `
		SELECT id, title, created_at, last_updated
		FROM chat_session
		ORDER BY last_updated DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.ChatSession{}
	for rows.Next() {
		var session domain.ChatSession
		if err := rows.Scan(
			&session.ID,
			&session.Title,
			&session.CreatedAt,
			&session.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}

	return sessions, nil
}

// AppendMessage appends a message to the session's log and bumps the
// session's last_updated timestamp in the same transaction.
func (s *SessionStore) AppendMessage(ctx context.Context, sessionID int, role domain.Role, content string, codeID *int) (*domain.ChatMessage, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("append message: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO chat_message (session_id, role, content, code_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	message := domain.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CodeID:    codeID,
	}
	err = tx.QueryRow(ctx, insert, sessionID, string(role), content, codeID).Scan(
		&message.ID,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	bump := `
		UPDATE chat_session
		SET last_updated = now()
		WHERE id = $1
	`
	tag, err := tx.Exec(ctx, bump, sessionID)
	if err != nil {
		return nil, fmt.Errorf("append message: bump session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("session %d: %w", sessionID, domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("append message: commit: %w", err)
	}

	return &message, nil
}

// ListMessages returns a session's messages in append order.
func (s *SessionStore) ListMessages(ctx context.Context, sessionID int) ([]domain.ChatMessage, error) {
	query := `
		SELECT id, session_id, role, content, code_id, created_at
		FROM chat_message
		WHERE session_id = $1
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var message domain.ChatMessage
		if err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.Role,
			&message.Content,
			&message.CodeID,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}
