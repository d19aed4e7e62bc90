package config

const (
	// MaxPromptLength is the maximum length of a generation prompt in
	// characters. Enforced at the request boundary, before the generation
	// engine runs.
	MaxPromptLength = 100

	// MaxSessionTitleLength is the number of prompt characters used to
	// derive a new chat session's title; longer prompts are truncated with
	// an ellipsis marker.
	MaxSessionTitleLength = 50

	// DefaultListLimit is the item cap applied to recency listings when
	// the caller does not supply one.
	DefaultListLimit = 10
)
