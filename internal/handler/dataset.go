package handler

import (
	"log/slog"
	"net/http"

	"craftora/internal/httputil"
	"craftora/internal/service/dataset"
)

// DatasetHandler serves the training-dataset side channel.
type DatasetHandler struct {
	saver  *dataset.Saver
	logger *slog.Logger
}

// NewDatasetHandler creates a dataset handler.
func NewDatasetHandler(saver *dataset.Saver, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{saver: saver, logger: logger}
}

// Stats handles GET /api/dataset/stats.
func (h *DatasetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.saver.Stats())
}

// Export handles GET /api/dataset/export: the full raw column export.
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.saver.ExportForTraining())
}

type trainingPair struct {
	Input  string `json:"input"`
	Output struct {
		HTML       string `json:"html"`
		CSS        string `json:"css"`
		JavaScript string `json:"javascript"`
	} `json:"output"`
	Metadata dataset.Metadata `json:"metadata"`
}

// TrainingFormat handles GET /api/dataset/training-format: the column export
// re-shaped into input/output pairs for fine-tuning pipelines.
func (h *DatasetHandler) TrainingFormat(w http.ResponseWriter, r *http.Request) {
	export := h.saver.ExportForTraining()

	pairs := make([]trainingPair, len(export.Prompts))
	for i, prompt := range export.Prompts {
		pairs[i].Input = prompt
		pairs[i].Output.HTML = export.HTMLOutputs[i]
		pairs[i].Output.CSS = export.CSSOutputs[i]
		pairs[i].Output.JavaScript = export.JSOutputs[i]
		pairs[i].Metadata = export.Metadata[i]
	}

	httputil.RespondJSON(w, http.StatusOK, struct {
		Format       string         `json:"format"`
		TotalSamples int            `json:"total_samples"`
		Data         []trainingPair `json:"data"`
	}{
		Format:       "training-pairs",
		TotalSamples: len(pairs),
		Data:         pairs,
	})
}
