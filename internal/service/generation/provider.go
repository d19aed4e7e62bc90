package generation

import (
	"context"
)

// ModelRequest is a single remote-model invocation. The API key travels with
// the request because the active key can change at runtime via the config
// service.
type ModelRequest struct {
	APIKey            string
	Model             string
	SystemInstruction string
	Prompt            string
	MaxTokens         int
	Temperature       float64
}

// Provider invokes a remote generative model in strict JSON response mode and
// returns the raw response text. Implementations map transport failures onto
// the package error taxonomy (ErrMissingAPIKey, ErrQuotaExceeded,
// ErrContentFiltered, ErrGenerationFailed).
type Provider interface {
	Generate(ctx context.Context, req ModelRequest) (string, error)
}
