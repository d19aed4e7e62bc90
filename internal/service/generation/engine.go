// Package generation implements the prompt-to-artifact pipeline: a
// deterministic template short-circuit, the remote-model path with strict
// response validation, and offline fallback synthesis.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"craftora/internal/apiconfig"
	"craftora/internal/domain"
)

const tailwindCDNTag = `<script src="https://cdn.tailwindcss.com"></script>`

const systemInstruction = `You are an expert web developer who creates beautiful, functional, and modern websites.
Your task is to generate complete HTML, CSS, and JavaScript code based on user prompts.

IMPORTANT RULES:
1. Generate production-ready, clean, and well-structured code
2. Use modern web standards and best practices
3. Make the design responsive and mobile-friendly
4. Include Tailwind CSS via CDN for styling (always include: <script src="https://cdn.tailwindcss.com"></script>)
5. Use semantic HTML elements
6. Add proper accessibility attributes
7. Include smooth animations and transitions where appropriate
8. Make sure the JavaScript is functional and error-free
9. Use modern JavaScript (ES6+) features
10. Ensure cross-browser compatibility

RESPONSE FORMAT:
Return a JSON object with exactly these three fields:
- "html": Complete HTML document with proper DOCTYPE, head, and body
- "css": Additional custom CSS styles (if needed beyond Tailwind)
- "javascript": Functional JavaScript code for interactivity

The HTML should be a complete, standalone document that works immediately when opened in a browser.
Include proper meta tags, viewport settings, and Tailwind CSS CDN.
`

// Result is a generated {html, css, javascript} triple. Fields are never
// null: absent css/javascript normalize to the empty string.
type Result struct {
	HTML       string `json:"html"`
	CSS        string `json:"css"`
	JavaScript string `json:"javascript"`
}

// Engine turns a prompt plus optional prior conversation into a Result.
type Engine struct {
	config    *apiconfig.Service
	provider  Provider
	templates *TemplateRegistry
	logger    *slog.Logger
}

// NewEngine creates a generation engine.
func NewEngine(config *apiconfig.Service, provider Provider, templates *TemplateRegistry, logger *slog.Logger) *Engine {
	return &Engine{
		config:    config,
		provider:  provider,
		templates: templates,
		logger:    logger,
	}
}

// Generate produces an artifact for the prompt.
//
// Recognized template prompts return their static artifact without touching
// config or network. With no API key configured the fallback artifact is
// returned directly (degraded mode, not an error). The remote path may fail
// with one of the package's taxonomy errors; callers are expected to catch
// those and substitute Fallback output.
func (e *Engine) Generate(ctx context.Context, prompt string, history []domain.ChatMessage) (*Result, error) {
	if result, ok := e.templates.Match(prompt); ok {
		e.logger.Debug("template short-circuit", "prompt", prompt)
		return result, nil
	}

	cfg := e.config.Resolve()
	if cfg.APIKey == "" {
		e.logger.Warn("no Gemini API key configured, serving fallback template")
		result := Fallback(prompt)
		return &result, nil
	}

	raw, err := e.provider.Generate(ctx, ModelRequest{
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		SystemInstruction: systemInstruction,
		Prompt:            buildPrompt(prompt, history),
		MaxTokens:         cfg.MaxTokens,
		Temperature:       cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, fmt.Errorf("empty response from Gemini API: %w", ErrInvalidResponse)
	}

	result, err := normalizeResponse(raw)
	if err != nil {
		e.logger.Error("failed to parse Gemini response", "error", err, "raw", raw)
		return nil, err
	}
	return result, nil
}

// buildPrompt renders the optional conversation transcript ahead of the new
// request so the model can build on prior context.
func buildPrompt(prompt string, history []domain.ChatMessage) string {
	var b strings.Builder

	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, msg := range history {
			role := "Assistant"
			if msg.Role == domain.RoleUser {
				role = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
		}
		b.WriteString("\n---\n\n")
	}

	fmt.Fprintf(&b, `Create a website based on this description: %s

Make it visually appealing, modern, and fully functional. Include interactive elements where appropriate.
Ensure the design is responsive and works well on all devices.
`, prompt)

	if len(history) > 0 {
		b.WriteString("Consider the previous conversation context and build upon or modify the existing code as needed.")
	}

	return b.String()
}

// normalizeResponse parses the model's JSON payload, requires a non-empty
// html string, defaults css/javascript to "", and injects the Tailwind CDN
// tag when the document lacks it.
func normalizeResponse(raw string) (*Result, error) {
	var payload struct {
		HTML       *string `json:"html"`
		CSS        *string `json:"css"`
		JavaScript *string `json:"javascript"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if payload.HTML == nil || *payload.HTML == "" {
		return nil, fmt.Errorf("%w: missing html field", ErrInvalidResponse)
	}

	result := &Result{HTML: *payload.HTML}
	if payload.CSS != nil {
		result.CSS = *payload.CSS
	}
	if payload.JavaScript != nil {
		result.JavaScript = *payload.JavaScript
	}

	if !strings.Contains(strings.ToLower(result.HTML), "tailwind") {
		result.HTML = strings.Replace(result.HTML, "</head>",
			"    "+tailwindCDNTag+"\n</head>", 1)
	}

	return result, nil
}
