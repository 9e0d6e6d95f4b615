package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-viz-pipeline/internal/pipeline"
	"go-viz-pipeline/internal/schema"
	"go-viz-pipeline/internal/store"
	"go-viz-pipeline/pkg/utils"
)

// Handler exposes the pipeline over HTTP. Routes are thin adapters: all
// behavior lives in the orchestrator and its collaborators.
type Handler struct {
	orchestrator *pipeline.Orchestrator
	resolver     *schema.Resolver
	runs         *store.RunStore
	uploads      *utils.UploadManager
	log          *zap.Logger
}

func New(orchestrator *pipeline.Orchestrator, resolver *schema.Resolver, runs *store.RunStore, uploads *utils.UploadManager, log *zap.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		resolver:     resolver,
		runs:         runs,
		uploads:      uploads,
		log:          log,
	}
}

// Upload accepts a dataset file and returns its schema mapping and sample
// @Summary Upload a dataset
// @Description Upload a CSV or Excel file; returns the stored path, the resolved schema mapping and a data sample
// @Tags datasets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Dataset file (csv, xls, xlsx)"
// @Success 200 {object} pipeline.FileInfo "Schema mapping and sample"
// @Failure 400 {object} map[string]interface{} "Missing or disallowed file"
// @Failure 500 {object} map[string]interface{} "Processing failure"
// @Router /upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	if !h.uploads.Allowed(header.Filename) {
		writeError(w, http.StatusBadRequest, "File type not allowed")
		return
	}

	path, err := h.uploads.Save(file, header.Filename)
	if err != nil {
		h.log.Error("failed to store upload", zap.String("name", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	info, err := h.orchestrator.ProcessFile(r.Context(), path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type processRequest struct {
	FilePath     string `json:"file_path"`
	Requirements string `json:"requirements"`
}

// Process runs the full visualization pipeline
// @Summary Process a visualization request
// @Description Run the full pipeline for an uploaded file and free-text requirements
// @Tags visualizations
// @Accept json
// @Produce json
// @Param request body processRequest true "File reference and requirements"
// @Success 200 {object} pipeline.RequestResult "Rendered chart, explanation, issues and score"
// @Failure 400 {object} map[string]interface{} "Missing file path or requirements"
// @Failure 500 {object} map[string]interface{} "Pipeline failure"
// @Router /process [post]
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.FilePath == "" || req.Requirements == "" {
		writeError(w, http.StatusBadRequest, "Missing file path or requirements")
		return
	}

	result, err := h.orchestrator.ProcessRequest(r.Context(), req.FilePath, req.Requirements)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetVisualization returns a stored pipeline result
// @Summary Get a visualization
// @Description Retrieve the full stored result for a visualization identifier
// @Tags visualizations
// @Produce json
// @Param id path string true "Visualization ID"
// @Success 200 {object} model.PipelineResult "Stored result"
// @Failure 404 {object} map[string]interface{} "Unknown identifier"
// @Router /visualizations/{id} [get]
func (h *Handler) GetVisualization(w http.ResponseWriter, r *http.Request) {
	vizID, ok := pathSuffix(r.URL.Path, "/api/v1/visualizations/")
	if !ok {
		writeError(w, http.StatusBadRequest, "Visualization ID is required")
		return
	}

	result, err := h.orchestrator.GetResult(vizID)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Visualization not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Download returns a standalone HTML document for a visualization
// @Summary Download a visualization
// @Description Download a standalone HTML page embedding the chart and its explanation
// @Tags visualizations
// @Produce html
// @Param id path string true "Visualization ID"
// @Success 200 {string} string "Standalone HTML document"
// @Router /download/{id} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	vizID, ok := pathSuffix(r.URL.Path, "/api/v1/download/")
	if !ok {
		writeError(w, http.StatusBadRequest, "Visualization ID is required")
		return
	}

	doc := h.orchestrator.DownloadableArtifact(vizID)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="visualization_%s.html"`, vizID))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

type feedbackRequest struct {
	TechnicalName string `json:"technical_name"`
	BusinessLabel string `json:"business_label"`
	Positive      bool   `json:"positive"`
}

// Feedback records user feedback on a schema mapping
// @Summary Submit mapping feedback
// @Description Record positive or negative feedback for a technical-to-business column mapping
// @Tags schema
// @Accept json
// @Produce json
// @Param feedback body feedbackRequest true "Feedback"
// @Success 200 {object} map[string]interface{} "Feedback recorded"
// @Failure 400 {object} map[string]interface{} "Invalid payload"
// @Router /feedback [post]
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.TechnicalName == "" || req.BusinessLabel == "" {
		writeError(w, http.StatusBadRequest, "Missing technical name or business label")
		return
	}

	h.resolver.Feedback(req.TechnicalName, req.BusinessLabel, req.Positive)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Feedback recorded",
	})
}

// ListRuns returns the processing run history
// @Summary List runs
// @Description List all processing runs with status and quality score
// @Tags runs
// @Produce json
// @Success 200 {array} map[string]interface{} "Run history"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeError(w, http.StatusServiceUnavailable, "Run history not enabled")
		return
	}
	runs, err := h.runs.ListRuns()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch runs")
		return
	}
	if runs == nil {
		runs = []map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// pathSuffix extracts the trailing identifier of a prefixed route.
func pathSuffix(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	id := strings.Trim(path[len(prefix):], "/")
	return id, id != ""
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": message})
}
