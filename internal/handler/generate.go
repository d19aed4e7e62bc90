package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"craftora/internal/config"
	"craftora/internal/domain"
	"craftora/internal/httputil"
	"craftora/internal/service/dataset"
	"craftora/internal/service/generation"
	"craftora/internal/service/session"
)

// GenerateHandler drives the generation pipeline: session bookkeeping, the
// engine call, artifact persistence and the dataset mirror.
type GenerateHandler struct {
	engine    *generation.Engine
	sessions  *session.Service
	artifacts domain.ArtifactStore
	saver     *dataset.Saver
	timeout   time.Duration
	logger    *slog.Logger
}

// NewGenerateHandler creates a generate handler.
func NewGenerateHandler(
	engine *generation.Engine,
	sessions *session.Service,
	artifacts domain.ArtifactStore,
	saver *dataset.Saver,
	timeout time.Duration,
	logger *slog.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		engine:    engine,
		sessions:  sessions,
		artifacts: artifacts,
		saver:     saver,
		timeout:   timeout,
		logger:    logger,
	}
}

type generateRequest struct {
	Prompt    string `json:"prompt"`
	SessionID *int   `json:"sessionId"`
}

func (req generateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Prompt,
			validation.Required,
			validation.Length(1, config.MaxPromptLength),
		),
	)
}

type generateResponse struct {
	ID         int    `json:"id"`
	HTML       string `json:"html"`
	CSS        string `json:"css"`
	JavaScript string `json:"javascript"`
	AIModel    string `json:"aiModel"`
	SessionID  int    `json:"sessionId,omitempty"`
}

// Generate handles POST /api/generate.
//
// A well-formed request essentially never hard-fails: every engine error is
// caught here and replaced by the deterministic fallback artifact, so the
// worst case the client sees is a degraded page with a visible notice.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	// History is captured before the new user turn is appended so the
	// model sees the conversation as it stood when the prompt was typed.
	var history []domain.ChatMessage
	if req.SessionID != nil {
		var err error
		history, err = h.sessions.ListMessages(ctx, *req.SessionID)
		if err != nil {
			handleError(w, err)
			return
		}
	}

	sessionID, err := h.sessions.EnsureSession(ctx, req.SessionID, req.Prompt)
	if err != nil {
		handleError(w, err)
		return
	}

	if _, err := h.sessions.AppendTurn(ctx, sessionID, domain.RoleUser, req.Prompt, nil); err != nil {
		handleError(w, err)
		return
	}

	result := h.generateWithFallback(ctx, req.Prompt, history)

	saved, err := h.artifacts.Save(ctx, domain.NewArtifact{
		Prompt:   req.Prompt,
		HTMLCode: result.HTML,
		CSSCode:  result.CSS,
		JSCode:   result.JavaScript,
		AIModel:  "gemini",
	})
	if err != nil {
		handleError(w, err)
		return
	}

	h.saver.Record(saved, req.Prompt)

	assistantNote := fmt.Sprintf("Generated code for: %s", req.Prompt)
	if _, err := h.sessions.AppendTurn(ctx, sessionID, domain.RoleAssistant, assistantNote, &saved.ID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, generateResponse{
		ID:         saved.ID,
		HTML:       result.HTML,
		CSS:        result.CSS,
		JavaScript: result.JavaScript,
		AIModel:    saved.AIModel,
		SessionID:  sessionID,
	})
}

// Update handles PUT /api/generated/{id}: regenerate from a new prompt,
// saving the result as a fresh artifact. When a sessionId accompanies the
// request its history is included, same as the generate path.
func (h *GenerateHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := PathID(w, r, "id", "Artifact ID"); !ok {
		return
	}

	var req generateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	var history []domain.ChatMessage
	if req.SessionID != nil {
		var err error
		history, err = h.sessions.ListMessages(ctx, *req.SessionID)
		if err != nil {
			handleError(w, err)
			return
		}
	}

	result := h.generateWithFallback(ctx, req.Prompt, history)

	saved, err := h.artifacts.Save(ctx, domain.NewArtifact{
		Prompt:   req.Prompt,
		HTMLCode: result.HTML,
		CSSCode:  result.CSS,
		JSCode:   result.JavaScript,
		AIModel:  "gemini",
	})
	if err != nil {
		handleError(w, err)
		return
	}

	h.saver.Record(saved, req.Prompt)

	httputil.RespondJSON(w, http.StatusOK, generateResponse{
		ID:         saved.ID,
		HTML:       result.HTML,
		CSS:        result.CSS,
		JavaScript: result.JavaScript,
		AIModel:    saved.AIModel,
	})
}

type saveCodeRequest struct {
	Prompt   string `json:"prompt"`
	HTMLCode string `json:"htmlCode"`
	CSSCode  string `json:"cssCode"`
	JSCode   string `json:"jsCode"`
}

func (req saveCodeRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Prompt,
			validation.Required,
			validation.Length(1, config.MaxPromptLength),
		),
	)
}

// SaveCode handles POST /api/save-code: persist an externally edited triple
// without invoking the engine.
func (h *GenerateHandler) SaveCode(w http.ResponseWriter, r *http.Request) {
	var req saveCodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.artifacts.Save(r.Context(), domain.NewArtifact{
		Prompt:   req.Prompt,
		HTMLCode: req.HTMLCode,
		CSSCode:  req.CSSCode,
		JSCode:   req.JSCode,
		AIModel:  "gemini",
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, saved)
}

// generateWithFallback runs the engine under the request timeout and
// substitutes the offline fallback artifact for any engine failure.
func (h *GenerateHandler) generateWithFallback(ctx context.Context, prompt string, history []domain.ChatMessage) *generation.Result {
	genCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	result, err := h.engine.Generate(genCtx, prompt, history)
	if err != nil {
		h.logger.Warn("code generation failed, substituting fallback",
			"error", err,
			"prompt", prompt,
		)
		fallback := generation.Fallback(prompt)
		return &fallback
	}
	return result
}
