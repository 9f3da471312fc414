package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"covid-report/internal/export"
	"covid-report/internal/logging"
	"covid-report/internal/model"
	"covid-report/internal/report"
	"covid-report/internal/store"
)

// Handler serves the report API.
type Handler struct {
	engine         *report.Engine
	exporter       *export.Exporter
	refreshTimeout time.Duration
}

func New(engine *report.Engine, exporter *export.Exporter, refreshTimeout time.Duration) *Handler {
	return &Handler{
		engine:         engine,
		exporter:       exporter,
		refreshTimeout: refreshTimeout,
	}
}

// ListViews lists the supported views
// @Summary List views
// @Description Get the names of all supported report views
// @Tags views
// @Produce json
// @Success 200 {array} string "View names"
// @Router /views [get]
func (h *Handler) ListViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ViewNames())
}

// GetView renders one view
// @Summary Get view
// @Description Compute and return the payload for one report view
// @Tags views
// @Produce json
// @Param name path string true "View name"
// @Success 200 {object} model.ViewPayload "View payload"
// @Failure 404 {object} map[string]string "Unknown view"
// @Failure 503 {object} map[string]string "Dataset unavailable"
// @Router /views/{name} [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	name := pathSuffix(r.URL.Path, "/api/v1/views/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "view name is required")
		return
	}

	payload, err := h.engine.RenderableFor(r.Context(), name)
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// ExportView exports one view's tables to files
// @Summary Export view
// @Description Write every table of a view to CSV or JSON files and return the export results
// @Tags views
// @Produce json
// @Param name path string true "View name"
// @Param format query string false "Export format: csv or json" default(csv)
// @Success 200 {array} export.Result "Export results"
// @Failure 400 {object} map[string]string "Unsupported format"
// @Failure 404 {object} map[string]string "Unknown view"
// @Router /exports/{name} [get]
func (h *Handler) ExportView(w http.ResponseWriter, r *http.Request) {
	name := pathSuffix(r.URL.Path, "/api/v1/exports/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "view name is required")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	payload, err := h.engine.RenderableFor(r.Context(), name)
	if err != nil {
		h.writeViewError(w, err)
		return
	}

	results, err := h.exporter.Export(uuid.New().String(), export.TablesFor(payload), format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Download serves a previously exported file
// @Summary Download export
// @Description Download one exported file by export ID and file name
// @Tags views
// @Produce octet-stream
// @Param id path string true "Export ID"
// @Param file path string true "File name"
// @Success 200 {file} file "Exported file"
// @Failure 404 {object} map[string]string "File not found"
// @Router /download/{id}/{file} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	rest := pathSuffix(r.URL.Path, "/api/v1/download/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "export ID and file name are required")
		return
	}

	path, err := h.exporter.FilePath(parts[0], filepath.Base(parts[1]))
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, path)
}

// StartRefresh starts a refresh run
// @Summary Start refresh
// @Description Reload the source snapshots, re-clean and rebuild all aggregates asynchronously
// @Tags refresh
// @Produce json
// @Success 202 {object} map[string]interface{} "Refresh run started"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /refresh [post]
func (h *Handler) StartRefresh(w http.ResponseWriter, r *http.Request) {
	runID := uuid.New().String()
	if err := store.SaveRun(runID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save run")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.refreshTimeout)
	go func() {
		defer cancel()
		h.runRefresh(ctx, runID)
	}()

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"runID":     runID,
		"status":    model.RunPending,
		"createdAt": time.Now().UTC(),
	})
}

func (h *Handler) runRefresh(ctx context.Context, runID string) {
	report, err := h.engine.Refresh(ctx, func(status string) {
		if err := store.UpdateRunStatus(runID, status); err != nil {
			logging.Error().Err(err).Str("run_id", runID).Str("status", status).Msg("failed to update run status")
		}
	})
	if err != nil {
		logging.Error().Err(err).Str("run_id", runID).Msg("refresh failed")
		store.UpdateRunStatus(runID, model.RunFailed)
		store.SaveRunError(runID, err)
		return
	}
	store.SaveRunCleaning(runID, report)
	store.UpdateRunStatus(runID, model.RunCompleted)
	logging.Info().Str("run_id", runID).Msg("refresh completed")
}

// ListRefreshRuns lists refresh runs
// @Summary List refresh runs
// @Description Get all refresh runs with their current status, newest first
// @Tags refresh
// @Produce json
// @Success 200 {array} model.RefreshRun "Refresh runs"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /refresh [get]
func (h *Handler) ListRefreshRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch runs")
		return
	}
	if runs == nil {
		runs = []model.RefreshRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRefreshRun fetches one refresh run
// @Summary Get refresh run
// @Description Get one refresh run, including its cleaning report once recorded
// @Tags refresh
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RefreshRun "Refresh run"
// @Failure 404 {object} map[string]string "Run not found"
// @Router /refresh/{id} [get]
func (h *Handler) GetRefreshRun(w http.ResponseWriter, r *http.Request) {
	runID := pathSuffix(r.URL.Path, "/api/v1/refresh/")
	// Wildcard routes can overlap; send errors requests to their handler.
	if strings.HasSuffix(runID, "/errors") {
		h.GetRefreshErrors(w, r)
		return
	}
	if runID == "" || strings.Contains(runID, "/") {
		writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetRefreshErrors fetches a run's errors
// @Summary Get refresh run errors
// @Description Get all errors recorded during one refresh run
// @Tags refresh
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} model.RunError "Run errors"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /refresh/{id}/errors [get]
func (h *Handler) GetRefreshErrors(w http.ResponseWriter, r *http.Request) {
	rest := pathSuffix(r.URL.Path, "/api/v1/refresh/")
	runID := strings.TrimSuffix(rest, "/errors")
	if runID == "" || strings.Contains(runID, "/") {
		writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	errs, err := store.GetRunErrors(runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch run errors")
		return
	}
	if errs == nil {
		errs = []model.RunError{}
	}
	writeJSON(w, http.StatusOK, errs)
}

func (h *Handler) writeViewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownView):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to render view")
	}
}

func pathSuffix(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
