package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/serialevent/internal/config"
	"github.com/gyaneshwarpardhi/serialevent/internal/engine"
	"github.com/gyaneshwarpardhi/serialevent/internal/metrics"
	"github.com/gyaneshwarpardhi/serialevent/internal/rule"
)

// ListPath is the history listing served to the FPP UI.
const ListPath = "/SERIALEVENT/list"

// readyThreshold is the dispatch queue utilisation above which /readyz fails.
const readyThreshold = 0.8

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader *config.Loader
}

// New creates an HTTP handler and registers all routes. loader may be nil
// when the configuration could not be read at startup; the read-only routes
// keep working and reload reports the service as unavailable.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, loader: loader}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)

	r.HandleFunc("/SERIALEVENT", h.plugin)
	r.HandleFunc("/SERIALEVENT/*", h.plugin)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/lines", h.lines)
		r.Get("/rules", h.listRules)
		r.Post("/rules/reload", h.reloadRules)
		r.Post("/rules/test", h.testLine)
	})

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// plugin serves the FPP plugin namespace. A GET whose first segment under
// /SERIALEVENT is "list" returns the recent lines, oldest first, one per
// line; everything else is 404.
func (h *Handler) plugin(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if r.Method == http.MethodGet && len(segments) >= 2 && segments[1] == "list" {
		writeText(w, http.StatusOK, h.eng.History().Render())
		return
	}
	writeText(w, http.StatusNotFound, "Not Found")
}

// GET /v1/lines: history entries with receive times.
func (h *Handler) lines(w http.ResponseWriter, r *http.Request) {
	hist := h.eng.History()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"capacity": hist.Cap(),
		"lines":    hist.Entries(),
	})
}

// GET /v1/rules: loaded rules in evaluation order.
func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": h.eng.Rules().Len(),
		"rules": h.eng.Rules().Summaries(),
	})
}

// POST /v1/rules/reload: re-read the document and swap the rule set.
func (h *Handler) reloadRules(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration is not loaded")
		return
	}
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	set, errs := rule.Build(cfg.SerialEvents)
	h.eng.SwapRules(set)

	skipped := make([]string, 0, len(errs))
	for _, err := range errs {
		skipped = append(skipped, err.Error())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"rules":    set.Len(),
		"skipped":  skipped,
	})
}

type testRequest struct {
	Line string `json:"line"`
}

// POST /v1/rules/test: report what a line would fire. Nothing is recorded
// or dispatched.
func (h *Handler) testLine(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	line := engine.Normalize(req.Line)
	if line == "" {
		writeError(w, http.StatusBadRequest, "line is empty after removing control characters")
		return
	}
	firings := h.eng.Rules().Plan(line)
	if firings == nil {
		firings = []rule.Firing{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"line":    line,
		"firings": firings,
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the dispatch queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > readyThreshold {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
