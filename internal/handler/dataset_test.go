package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"craftora/internal/domain"
	"craftora/internal/service/dataset"
)

func TestTrainingFormat(t *testing.T) {
	saver := dataset.NewSaver(t.TempDir(), testLogger())
	saver.Record(&domain.GeneratedArtifact{
		ID:        1,
		Prompt:    "a blog",
		HTMLCode:  "<html></html>",
		CSSCode:   "body{}",
		JSCode:    "void 0;",
		AIModel:   "gemini",
		CreatedAt: time.Now(),
	}, "a blog")

	h := NewDatasetHandler(saver, testLogger())

	rec := httptest.NewRecorder()
	h.TrainingFormat(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/training-format", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Format       string `json:"format"`
		TotalSamples int    `json:"total_samples"`
		Data         []struct {
			Input  string `json:"input"`
			Output struct {
				HTML       string `json:"html"`
				CSS        string `json:"css"`
				JavaScript string `json:"javascript"`
			} `json:"output"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Format != "training-pairs" {
		t.Errorf("format = %q", resp.Format)
	}
	if resp.TotalSamples != 1 || len(resp.Data) != 1 {
		t.Fatalf("total_samples = %d, len(data) = %d", resp.TotalSamples, len(resp.Data))
	}
	pair := resp.Data[0]
	if pair.Input != "a blog" || pair.Output.HTML != "<html></html>" || pair.Output.CSS != "body{}" || pair.Output.JavaScript != "void 0;" {
		t.Errorf("pair = %+v", pair)
	}
}

func TestTrainingFormatEmptyDataset(t *testing.T) {
	h := NewDatasetHandler(dataset.NewSaver(t.TempDir(), testLogger()), testLogger())

	rec := httptest.NewRecorder()
	h.TrainingFormat(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/training-format", nil))

	var resp struct {
		TotalSamples int               `json:"total_samples"`
		Data         []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalSamples != 0 {
		t.Errorf("total_samples = %d", resp.TotalSamples)
	}
	if resp.Data == nil {
		t.Error("data must be an empty array, not null")
	}
}
