package domain

import (
	"time"
)

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// GeneratedArtifact is one generated {html, css, javascript} bundle plus its
// metadata. Artifacts are immutable once stored and are never deleted.
//
// JSON tags follow the client wire contract (camelCase), which predates this
// server and is shared with the dataset tooling.
type GeneratedArtifact struct {
	ID        int       `json:"id" db:"id"`
	Prompt    string    `json:"prompt" db:"prompt"`
	HTMLCode  string    `json:"htmlCode" db:"html_code"`
	CSSCode   string    `json:"cssCode" db:"css_code"`
	JSCode    string    `json:"jsCode" db:"js_code"`
	AIModel   string    `json:"aiModel" db:"ai_model"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewArtifact carries the caller-supplied fields of an artifact about to be
// saved. The store assigns ID and CreatedAt and defaults empty code fields.
type NewArtifact struct {
	Prompt   string
	HTMLCode string
	CSSCode  string
	JSCode   string
	AIModel  string
}

// ChatSession groups an ordered conversation of prompts and generated
// artifacts. LastUpdated is bumped on every appended message.
type ChatSession struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}

// ChatMessage is one turn in a session's append-only log. CodeID weakly
// references a GeneratedArtifact when the assistant turn produced one.
type ChatMessage struct {
	ID        int       `json:"id" db:"id"`
	SessionID int       `json:"sessionId" db:"session_id"`
	Role      Role      `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CodeID    *int      `json:"codeId" db:"code_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
