package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/config"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/engine"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/metrics"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/store"
)

const (
	maxBatchSize = 20
	maxBodyBytes = 32 << 20
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/reports/attendance", h.attendanceReport)
	h.mux.HandleFunc("POST /v1/reports/batch", h.batchReports)
	h.mux.HandleFunc("GET /v1/reports/{id}", h.getReport)
	h.mux.HandleFunc("POST /v1/eligibility", h.eligibility)
	h.mux.HandleFunc("GET /v1/profiles", h.listProfiles)
	h.mux.HandleFunc("POST /v1/profiles/reload", h.reloadProfiles)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// POST /v1/reports/attendance: synchronous report.
func (h *Handler) attendanceReport(w http.ResponseWriter, r *http.Request) {
	var q engine.Query
	if !decode(w, r, &q) {
		return
	}
	rep, err := h.eng.RunSync(r.Context(), q)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type batchItem struct {
	JobID string `json:"job_id,omitempty"`
	Error string `json:"error,omitempty"`
}

// POST /v1/reports/batch: async reports; poll GET /v1/reports/{id}.
func (h *Handler) batchReports(w http.ResponseWriter, r *http.Request) {
	var queries []engine.Query
	if !decode(w, r, &queries) {
		return
	}
	if len(queries) == 0 {
		writeError(w, http.StatusBadRequest, "batch must contain at least one report")
		return
	}
	if len(queries) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch size %d exceeds max %d", len(queries), maxBatchSize))
		return
	}

	items := make([]batchItem, len(queries))
	queued := 0
	for i, q := range queries {
		id, err := h.eng.RunAsync(q)
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		items[i].JobID = id
		queued++
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"jobs":     items,
		"total":    len(queries),
		"queued":   queued,
		"rejected": len(queries) - queued,
	})
}

// GET /v1/reports/{id}: async report state and result.
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	job, ok := h.eng.Job(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "report job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// POST /v1/eligibility: classify one member against a list of sessions.
func (h *Handler) eligibility(w http.ResponseWriter, r *http.Request) {
	var q engine.ClassifyQuery
	if !decode(w, r, &q) {
		return
	}
	if q.Member.ID == "" {
		writeError(w, http.StatusBadRequest, "member id is required")
		return
	}
	out, err := h.eng.Classify(q)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /v1/profiles: list compiled profiles.
func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	ps := h.eng.Profiles()
	writeJSON(w, http.StatusOK, map[string]any{
		"version":         h.loader.Config().Version,
		"default_profile": ps.Default(),
		"profiles":        ps.List(),
	})
}

// POST /v1/profiles/reload: re-read the config file and swap profiles.
func (h *Handler) reloadProfiles(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ps, err := h.eng.Reconfigure(cfg)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded":       true,
		"profiles_count": ps.Len(),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the report queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ready",
		"queue_utilization": util,
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownProfile):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, store.ErrNotConfigured):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
