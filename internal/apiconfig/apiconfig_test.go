package apiconfig

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfigFile(t *testing.T, path string, cfg FileConfig) {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	path := filepath.Join(t.TempDir(), "api.json")
	svc := NewService(path, testLogger())

	got := svc.Resolve()
	if got.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", got.APIKey)
	}
	if got.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", got.Model, DefaultModel)
	}
	if got.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", got.MaxTokens, DefaultMaxTokens)
	}
	if got.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", got.Temperature, DefaultTemperature)
	}

	// The missing file must have been self-initialized with defaults.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not self-initialized: %v", err)
	}
}

func TestResolveFileWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "api.json")
	writeConfigFile(t, path, FileConfig{
		Gemini: GeminiConfig{
			APIKey:      "file-key",
			Model:       "gemini-1.5-pro",
			MaxTokens:   2048,
			Temperature: 0.3,
		},
	})

	got := NewService(path, testLogger()).Resolve()
	if got.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file value", got.APIKey)
	}
	if got.Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q", got.Model)
	}
	if got.MaxTokens != 2048 || got.Temperature != 0.3 {
		t.Errorf("limits = %d/%v, want file values", got.MaxTokens, got.Temperature)
	}
}

func TestResolveEnvFallback(t *testing.T) {
	tests := []struct {
		name    string
		gemini  string
		google  string
		wantKey string
	}{
		{"gemini env var", "gk", "", "gk"},
		{"google env var", "", "ak", "ak"},
		{"gemini wins over google", "gk", "ak", "gk"},
		{"no env", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", tt.gemini)
			t.Setenv("GOOGLE_API_KEY", tt.google)

			path := filepath.Join(t.TempDir(), "api.json")
			writeConfigFile(t, path, FileConfig{})

			got := NewService(path, testLogger()).Resolve()
			if got.APIKey != tt.wantKey {
				t.Errorf("APIKey = %q, want %q", got.APIKey, tt.wantKey)
			}
		})
	}
}

func TestStatusSource(t *testing.T) {
	tests := []struct {
		name       string
		fileKey    string
		envKey     string
		wantSource string
		wantHasKey bool
	}{
		{"file source", "file-key", "", "file", true},
		{"file wins over environment", "file-key", "env-key", "file", true},
		{"environment source", "", "env-key", "environment", true},
		{"no key anywhere", "", "", "none", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", tt.envKey)
			t.Setenv("GOOGLE_API_KEY", "")

			path := filepath.Join(t.TempDir(), "api.json")
			writeConfigFile(t, path, FileConfig{
				Gemini:   GeminiConfig{APIKey: tt.fileKey},
				Fallback: FallbackConfig{Enabled: true},
			})

			got := NewService(path, testLogger()).Status()
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.HasAPIKey != tt.wantHasKey {
				t.Errorf("HasAPIKey = %v, want %v", got.HasAPIKey, tt.wantHasKey)
			}
			if !got.FallbackEnabled {
				t.Error("FallbackEnabled lost in status")
			}
		})
	}
}

func TestUpdateAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.json")
	writeConfigFile(t, path, FileConfig{
		Gemini: GeminiConfig{Model: "gemini-1.5-pro"},
		Team:   TeamConfig{Description: "team notes"},
	})

	svc := NewService(path, testLogger())
	if err := svc.UpdateAPIKey("new-key"); err != nil {
		t.Fatalf("UpdateAPIKey() error = %v", err)
	}

	// The in-memory cache must see the new key immediately.
	if got := svc.Resolve().APIKey; got != "new-key" {
		t.Errorf("Resolve().APIKey = %q after update", got)
	}

	// A fresh service reading the file must see it too, with the other
	// sections preserved.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var onDisk FileConfig
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("parse rewritten config: %v", err)
	}
	if onDisk.Gemini.APIKey != "new-key" {
		t.Errorf("on-disk APIKey = %q", onDisk.Gemini.APIKey)
	}
	if onDisk.Gemini.Model != "gemini-1.5-pro" {
		t.Error("update clobbered the model field")
	}
	if onDisk.Team.Description != "team notes" {
		t.Error("update clobbered the team section")
	}
}

func TestLoadCorruptFileRecovers(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	path := filepath.Join(t.TempDir(), "api.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt config: %v", err)
	}

	got := NewService(path, testLogger()).Resolve()
	if got.Model != DefaultModel {
		t.Errorf("Model = %q, want defaults on corrupt file", got.Model)
	}

	// The corrupt file must have been replaced with valid JSON.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Errorf("config file still corrupt after recovery: %v", err)
	}
}
