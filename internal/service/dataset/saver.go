// Package dataset mirrors every generation into an append-only directory
// tree for later offline training-set assembly. The export is an auxiliary
// side channel: write failures are logged and swallowed, never surfaced to
// the generation path.
package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"craftora/internal/domain"
)

const generationPrefix = "generation_"

// Snapshot file names inside one generation directory.
const (
	promptFile   = "prompt.txt"
	htmlFile     = "index.html"
	cssFile      = "style.css"
	jsFile       = "script.js"
	metadataFile = "metadata.json"
)

// Metadata is the per-generation metadata.json payload.
type Metadata struct {
	ID        int          `json:"id"`
	Prompt    string       `json:"prompt"`
	AIModel   string       `json:"aiModel"`
	CreatedAt time.Time    `json:"createdAt"`
	Timestamp time.Time    `json:"timestamp"`
	Files     FileManifest `json:"files"`
}

// FileManifest names the snapshot files of one generation.
type FileManifest struct {
	HTML       string `json:"html"`
	CSS        string `json:"css"`
	JavaScript string `json:"javascript"`
	Prompt     string `json:"prompt"`
}

// Stats summarizes the dataset directory tree.
type Stats struct {
	TotalGenerations int     `json:"totalGenerations"`
	TotalSize        string  `json:"totalSize"`
	LatestGeneration *string `json:"latestGeneration"`
}

// Export holds the full dataset as parallel columns, index-aligned by
// generation.
type Export struct {
	Prompts     []string   `json:"prompts"`
	HTMLOutputs []string   `json:"htmlOutputs"`
	CSSOutputs  []string   `json:"cssOutputs"`
	JSOutputs   []string   `json:"jsOutputs"`
	Metadata    []Metadata `json:"metadata"`
}

// Saver writes and reads generation snapshots under a base directory.
type Saver struct {
	baseDir string
	logger  *slog.Logger
	// now is swappable for deterministic directory names in tests.
	now func() time.Time
}

// NewSaver creates a dataset saver rooted at baseDir.
func NewSaver(baseDir string, logger *slog.Logger) *Saver {
	return &Saver{baseDir: baseDir, logger: logger, now: time.Now}
}

// Record snapshots one generation. Best-effort: any failure is logged and
// swallowed.
func (s *Saver) Record(artifact *domain.GeneratedArtifact, prompt string) {
	// Matches the historical layout: ISO timestamp with ':' and '.'
	// replaced so the name is filesystem-safe on every platform.
	ts := s.now().UTC().Format("2006-01-02T15-04-05")
	dir := filepath.Join(s.baseDir, fmt.Sprintf("%s%d_%s", generationPrefix, artifact.ID, ts))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error("dataset: create generation directory failed", "dir", dir, "error", err)
		return
	}

	meta := Metadata{
		ID:        artifact.ID,
		Prompt:    prompt,
		AIModel:   artifact.AIModel,
		CreatedAt: artifact.CreatedAt,
		Timestamp: s.now().UTC(),
		Files: FileManifest{
			HTML:       htmlFile,
			CSS:        cssFile,
			JavaScript: jsFile,
			Prompt:     promptFile,
		},
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		s.logger.Error("dataset: marshal metadata failed", "error", err)
		return
	}

	files := map[string][]byte{
		promptFile:   []byte(prompt),
		htmlFile:     []byte(artifact.HTMLCode),
		cssFile:      []byte(artifact.CSSCode),
		jsFile:       []byte(artifact.JSCode),
		metadataFile: metaJSON,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			s.logger.Error("dataset: write snapshot file failed", "file", name, "error", err)
			return
		}
	}

	s.logger.Info("generation saved to dataset", "dir", dir)
}

// Stats scans the dataset tree. Errors degrade to zero stats rather than
// failing the endpoint.
func (s *Saver) Stats() Stats {
	empty := Stats{TotalSize: "0 KB"}

	generations, err := s.listGenerations()
	if err != nil {
		s.logger.Error("dataset: stats scan failed", "error", err)
		return empty
	}
	if len(generations) == 0 {
		return empty
	}

	var totalSize int64
	for _, gen := range generations {
		entries, err := os.ReadDir(filepath.Join(s.baseDir, gen))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if info, err := entry.Info(); err == nil {
				totalSize += info.Size()
			}
		}
	}

	latest := generations[len(generations)-1]
	return Stats{
		TotalGenerations: len(generations),
		TotalSize:        humanSize(totalSize),
		LatestGeneration: &latest,
	}
}

// ExportForTraining reads back every snapshot as parallel columns.
// Unreadable generations are skipped with a log line so one corrupt
// directory cannot poison the whole export.
func (s *Saver) ExportForTraining() Export {
	export := Export{
		Prompts:     []string{},
		HTMLOutputs: []string{},
		CSSOutputs:  []string{},
		JSOutputs:   []string{},
		Metadata:    []Metadata{},
	}

	generations, err := s.listGenerations()
	if err != nil {
		s.logger.Error("dataset: export scan failed", "error", err)
		return export
	}

	for _, gen := range generations {
		dir := filepath.Join(s.baseDir, gen)

		prompt, err1 := os.ReadFile(filepath.Join(dir, promptFile))
		html, err2 := os.ReadFile(filepath.Join(dir, htmlFile))
		css, err3 := os.ReadFile(filepath.Join(dir, cssFile))
		js, err4 := os.ReadFile(filepath.Join(dir, jsFile))
		metaJSON, err5 := os.ReadFile(filepath.Join(dir, metadataFile))

		var meta Metadata
		err6 := json.Unmarshal(metaJSON, &meta)

		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
			s.logger.Error("dataset: skipping unreadable generation", "dir", gen)
			continue
		}

		export.Prompts = append(export.Prompts, string(prompt))
		export.HTMLOutputs = append(export.HTMLOutputs, string(html))
		export.CSSOutputs = append(export.CSSOutputs, string(css))
		export.JSOutputs = append(export.JSOutputs, string(js))
		export.Metadata = append(export.Metadata, meta)
	}

	return export
}

// listGenerations returns generation directory names in ascending name
// order (the timestamp suffix makes that chronological per artifact).
func (s *Saver) listGenerations() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var generations []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), generationPrefix) {
			generations = append(generations, entry.Name())
		}
	}
	sort.Strings(generations)
	return generations, nil
}

func humanSize(bytes int64) string {
	if bytes > 1024*1024 {
		return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
	}
	return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
}
