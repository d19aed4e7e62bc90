package generation

import (
	"errors"
)

// Remote-path error taxonomy. Each sentinel carries the human-readable
// message shown to the end user; callers distinguish them with errors.Is and
// are expected to substitute fallback output rather than surface raw failure.
var (
	// ErrMissingAPIKey indicates the remote call was rejected for a bad or
	// absent credential.
	ErrMissingAPIKey = errors.New("Invalid or missing Gemini API key. Please check your environment variables.")

	// ErrQuotaExceeded indicates a rate or quota limit on the model API.
	ErrQuotaExceeded = errors.New("API quota exceeded. Please try again later.")

	// ErrContentFiltered indicates the model refused the prompt or its own
	// output on safety grounds.
	ErrContentFiltered = errors.New("Content filtered by safety settings. Please try a different prompt.")

	// ErrInvalidResponse indicates the model returned something that is
	// not the expected JSON object with an html string field.
	ErrInvalidResponse = errors.New("Failed to parse AI response as valid JSON")

	// ErrGenerationFailed is the generic remote failure.
	ErrGenerationFailed = errors.New("Failed to generate code. Please try again.")
)
