package dataset

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"craftora/internal/domain"
)

func newTestSaver(t *testing.T) *Saver {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSaver(t.TempDir(), logger)
}

func testArtifact(id int) *domain.GeneratedArtifact {
	return &domain.GeneratedArtifact{
		ID:        id,
		Prompt:    "a coffee shop page",
		HTMLCode:  "<html></html>",
		CSSCode:   "body{}",
		JSCode:    "void 0;",
		AIModel:   "gemini",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordWritesSnapshot(t *testing.T) {
	saver := newTestSaver(t)
	saver.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	}

	saver.Record(testArtifact(1), "a coffee shop page")

	dir := filepath.Join(saver.baseDir, "generation_1_2025-06-01T12-30-45")
	for name, want := range map[string]string{
		"prompt.txt": "a coffee shop page",
		"index.html": "<html></html>",
		"style.css":  "body{}",
		"script.js":  "void 0;",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", name, data, want)
		}
	}

	meta, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatalf("read metadata.json: %v", err)
	}
	for _, want := range []string{`"id": 1`, `"aiModel": "gemini"`, `"prompt": "a coffee shop page"`} {
		if !strings.Contains(string(meta), want) {
			t.Errorf("metadata missing %s", want)
		}
	}
}

func TestStats(t *testing.T) {
	saver := newTestSaver(t)

	// Empty tree degrades to zeros rather than failing.
	empty := saver.Stats()
	if empty.TotalGenerations != 0 {
		t.Errorf("TotalGenerations = %d on empty tree", empty.TotalGenerations)
	}
	if empty.TotalSize != "0 KB" {
		t.Errorf("TotalSize = %q, want %q", empty.TotalSize, "0 KB")
	}
	if empty.LatestGeneration != nil {
		t.Error("LatestGeneration must be nil on empty tree")
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		saver.now = func() time.Time { return tick }
		saver.Record(testArtifact(i), "p")
	}

	got := saver.Stats()
	if got.TotalGenerations != 3 {
		t.Errorf("TotalGenerations = %d, want 3", got.TotalGenerations)
	}
	if got.LatestGeneration == nil || !strings.HasPrefix(*got.LatestGeneration, "generation_3_") {
		t.Errorf("LatestGeneration = %v, want the newest directory", got.LatestGeneration)
	}
	if !strings.HasSuffix(got.TotalSize, " KB") && !strings.HasSuffix(got.TotalSize, " MB") {
		t.Errorf("TotalSize = %q, want a human-readable size", got.TotalSize)
	}
}

func TestExportForTraining(t *testing.T) {
	saver := newTestSaver(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 2; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		saver.now = func() time.Time { return tick }
		saver.Record(testArtifact(i), "p")
	}

	got := saver.ExportForTraining()
	if len(got.Prompts) != 2 || len(got.HTMLOutputs) != 2 || len(got.CSSOutputs) != 2 || len(got.JSOutputs) != 2 || len(got.Metadata) != 2 {
		t.Fatalf("columns not index-aligned: %d/%d/%d/%d/%d",
			len(got.Prompts), len(got.HTMLOutputs), len(got.CSSOutputs), len(got.JSOutputs), len(got.Metadata))
	}
	if got.Metadata[0].ID != 1 || got.Metadata[1].ID != 2 {
		t.Errorf("metadata order = %d,%d, want chronological", got.Metadata[0].ID, got.Metadata[1].ID)
	}
}

func TestExportForTrainingSkipsUnreadable(t *testing.T) {
	saver := newTestSaver(t)

	saver.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	saver.Record(testArtifact(1), "p")

	// A generation directory missing its files must be skipped, not fail
	// the whole export.
	if err := os.MkdirAll(filepath.Join(saver.baseDir, "generation_2_2025-06-01T13-00-00"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := saver.ExportForTraining()
	if len(got.Prompts) != 1 {
		t.Errorf("len(Prompts) = %d, want 1 (corrupt dir skipped)", len(got.Prompts))
	}
}

func TestExportForTrainingEmptyTree(t *testing.T) {
	got := newTestSaver(t).ExportForTraining()
	if got.Prompts == nil || got.Metadata == nil {
		t.Error("export columns must be non-nil on empty tree")
	}
	if len(got.Prompts) != 0 {
		t.Errorf("len(Prompts) = %d on empty tree", len(got.Prompts))
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0.00 KB"},
		{512, "0.50 KB"},
		{2 * 1024 * 1024, "2.00 MB"},
	}
	for _, tt := range tests {
		if got := humanSize(tt.bytes); got != tt.want {
			t.Errorf("humanSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
