// Package apiconfig manages the model-credentials file (api.json): lazy
// loading with an in-memory cache, environment fallback for the API key, and
// atomic rewrites on update.
package apiconfig

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Defaults applied when the file is missing or leaves a field unset.
const (
	DefaultModel       = "gemini-2.0-flash-exp"
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.7
)

// Environment variables consulted when the file carries no API key, in order.
var envKeys = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// FileConfig mirrors the on-disk api.json layout.
type FileConfig struct {
	Gemini   GeminiConfig   `json:"gemini"`
	Team     TeamConfig     `json:"team"`
	Fallback FallbackConfig `json:"fallback"`
}

type GeminiConfig struct {
	APIKey      string  `json:"apiKey"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

type TeamConfig struct {
	Description  string   `json:"description"`
	Instructions []string `json:"instructions"`
}

type FallbackConfig struct {
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

// Resolved is the effective model configuration after defaulting and
// environment fallback. An empty APIKey means no key is available anywhere.
type Resolved struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Status reports which credential source is active without exposing the key.
type Status struct {
	HasAPIKey       bool   `json:"hasApiKey"`
	Source          string `json:"source"` // "file", "environment" or "none"
	Model           string `json:"model"`
	FallbackEnabled bool   `json:"fallbackEnabled"`
}

// Service resolves and persists model configuration. It is an injected
// instance rather than a package singleton so tests can run several against
// separate files.
type Service struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	cached *FileConfig
}

// NewService creates a config service backed by the file at path. The file is
// read lazily on first use.
func NewService(path string, logger *slog.Logger) *Service {
	return &Service{path: path, logger: logger}
}

// Resolve returns the effective model configuration. Missing or corrupt
// config files are recovered locally by synthesizing (and persisting) the
// default configuration, so Resolve itself never fails.
func (s *Service) Resolve() Resolved {
	cfg := s.load()

	resolved := Resolved{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		MaxTokens:   cfg.Gemini.MaxTokens,
		Temperature: cfg.Gemini.Temperature,
	}
	if resolved.APIKey == "" {
		resolved.APIKey = envAPIKey()
	}
	if resolved.Model == "" {
		resolved.Model = DefaultModel
	}
	if resolved.MaxTokens <= 0 {
		resolved.MaxTokens = DefaultMaxTokens
	}
	if resolved.Temperature <= 0 {
		resolved.Temperature = DefaultTemperature
	}
	return resolved
}

// Status reports whether a key is configured and where it came from. The file
// wins over the environment.
func (s *Service) Status() Status {
	cfg := s.load()
	resolved := s.Resolve()

	source := "none"
	if resolved.APIKey != "" {
		if cfg.Gemini.APIKey != "" {
			source = "file"
		} else {
			source = "environment"
		}
	}

	return Status{
		HasAPIKey:       resolved.APIKey != "",
		Source:          source,
		Model:           resolved.Model,
		FallbackEnabled: cfg.Fallback.Enabled,
	}
}

// UpdateAPIKey persists a new key into the config file and replaces the
// in-memory cache. The file is rewritten via a temp file + rename so readers
// never observe a half-written config.
func (s *Service) UpdateAPIKey(apiKey string) error {
	cfg := s.load()

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := *cfg
	updated.Gemini.APIKey = apiKey
	if err := s.write(&updated); err != nil {
		return fmt.Errorf("save API configuration: %w", err)
	}
	s.cached = &updated
	return nil
}

// load returns the cached config, reading the file on first use. A missing or
// unreadable file yields the default config, which is persisted best-effort.
func (s *Service) load() *FileConfig {
	s.mu.RLock()
	if s.cached != nil {
		cfg := s.cached
		s.mu.RUnlock()
		return cfg
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached
	}

	data, err := os.ReadFile(s.path)
	if err == nil {
		var cfg FileConfig
		if jsonErr := json.Unmarshal(data, &cfg); jsonErr == nil {
			s.cached = &cfg
			return s.cached
		}
		err = fmt.Errorf("parse %s: invalid JSON", s.path)
	}

	s.logger.Warn("api config unavailable, using defaults", "path", s.path, "error", err)

	cfg := defaultConfig()
	if writeErr := s.write(cfg); writeErr != nil {
		s.logger.Error("failed to persist default api config", "error", writeErr)
	}
	s.cached = cfg
	return s.cached
}

// write serializes cfg to the config file atomically. Callers hold s.mu.
func (s *Service) write(cfg *FileConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".api-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func envAPIKey() string {
	for _, key := range envKeys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func defaultConfig() *FileConfig {
	return &FileConfig{
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       DefaultModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		Team: TeamConfig{
			Description: "Each team member can add their own Gemini API key here",
			Instructions: []string{
				"1. Get your API key from https://aistudio.google.com/app/apikey",
				"2. Replace the empty apiKey value with your key",
				"3. Keep this file private and don't commit it to version control",
			},
		},
		Fallback: FallbackConfig{
			Enabled:     true,
			Description: "Template responses when no API key is provided",
		},
	}
}
