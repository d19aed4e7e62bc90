package handler

import (
	"log/slog"
	"net/http"

	"craftora/internal/apiconfig"
	"craftora/internal/httputil"
)

// ConfigHandler exposes the model-credentials configuration. The API key
// itself is never echoed back.
type ConfigHandler struct {
	config *apiconfig.Service
	logger *slog.Logger
}

// NewConfigHandler creates a config handler.
func NewConfigHandler(config *apiconfig.Service, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{config: config, logger: logger}
}

// Get handles GET /api/config.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	resolved := h.config.Resolve()

	httputil.RespondJSON(w, http.StatusOK, struct {
		HasAPIKey   bool    `json:"hasApiKey"`
		Model       string  `json:"model"`
		MaxTokens   int     `json:"maxTokens"`
		Temperature float64 `json:"temperature"`
	}{
		HasAPIKey:   resolved.APIKey != "",
		Model:       resolved.Model,
		MaxTokens:   resolved.MaxTokens,
		Temperature: resolved.Temperature,
	})
}

// Status handles GET /api/config/status.
func (h *ConfigHandler) Status(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.config.Status())
}

// UpdateAPIKey handles POST /api/config/api-key.
func (h *ConfigHandler) UpdateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey *string `json:"apiKey"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil || req.APIKey == nil || *req.APIKey == "" {
		httputil.RespondError(w, http.StatusBadRequest, "API key is required")
		return
	}

	if err := h.config.UpdateAPIKey(*req.APIKey); err != nil {
		h.logger.Error("failed to update API key", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "API key updated successfully"})
}
