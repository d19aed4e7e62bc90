// Package gemini implements the generation.Provider interface against the
// Gemini API using the official Go SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"craftora/internal/service/generation"
)

// Provider calls Gemini in strict JSON response mode. A fresh SDK client is
// built per call because the active API key can change at runtime through the
// config service.
type Provider struct {
	logger *slog.Logger
}

// NewProvider creates a Gemini provider.
func NewProvider(logger *slog.Logger) *Provider {
	return &Provider{logger: logger}
}

// Generate invokes the model and returns the raw response text. Failures are
// mapped onto the generation error taxonomy so callers can distinguish
// auth, quota, safety and parse conditions.
func (p *Provider) Generate(ctx context.Context, req generation.ModelRequest) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  req.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create Gemini client: %w", classify(err))
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		MaxOutputTokens:   int32(req.MaxTokens),
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		p.logger.Error("Gemini API call failed", "model", req.Model, "error", err)
		return "", classify(err)
	}

	if blocked(resp) {
		return "", generation.ErrContentFiltered
	}

	return resp.Text(), nil
}

// blocked reports whether the prompt or the sole candidate was rejected on
// safety grounds.
func blocked(resp *genai.GenerateContentResponse) bool {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason == genai.BlockedReasonSafety {
		return true
	}
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return true
		}
	}
	return false
}

// classify maps SDK/API errors onto the generation taxonomy. Unknown errors
// wrap the generic generation failure so callers still get a distinguishable,
// human-readable condition.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w (%s)", generation.ErrMissingAPIKey, apiErr.Status)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w (%s)", generation.ErrQuotaExceeded, apiErr.Status)
		}
	}

	// The API does not always surface a structured code; fall back to the
	// message, as the upstream service words these conditions consistently.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return fmt.Errorf("%w: %v", generation.ErrMissingAPIKey, err)
	case strings.Contains(msg, "quota"), strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", generation.ErrQuotaExceeded, err)
	case strings.Contains(msg, "safety"):
		return fmt.Errorf("%w: %v", generation.ErrContentFiltered, err)
	}

	return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
}
