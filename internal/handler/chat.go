package handler

import (
	"log/slog"
	"net/http"

	"craftora/internal/domain"
	"craftora/internal/httputil"
	"craftora/internal/service/session"
)

// ChatHandler serves chat sessions and their message logs.
type ChatHandler struct {
	sessions *session.Service
	logger   *slog.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(sessions *session.Service, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{sessions: sessions, logger: logger}
}

// ListSessions handles GET /api/chat/sessions?limit=N.
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListRecentSessions(r.Context(), limitParam(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sessions)
}

// GetSession handles GET /api/chat/sessions/{id}: session details plus its
// full message log. Unknown sessions are a 404 here, unlike the messages
// endpoint.
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", "Session ID")
	if !ok {
		return
	}

	ctx := r.Context()
	sess, err := h.sessions.GetSession(ctx, id)
	if err != nil {
		handleError(w, err)
		return
	}

	messages, err := h.sessions.ListMessages(ctx, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, struct {
		*domain.ChatSession
		Messages []domain.ChatMessage `json:"messages"`
	}{sess, messages})
}

// GetMessages handles GET /api/chat/sessions/{id}/messages. Unknown sessions
// yield an empty array rather than an error.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", "Session ID")
	if !ok {
		return
	}

	messages, err := h.sessions.ListMessages(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}
