package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"budget/internal/core"
	applog "budget/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady checks templates and the storage backend.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	switch {
	case s.ready == nil:
		checks["storage"] = "not_configured"
	default:
		if err := s.ready(ctx); err != nil {
			applog.FromContext(ctx).WithComponent(applog.ComponentStorage).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			checks["storage"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexView{
		DarkMode:   s.theme.IsDarkMode(),
		Today:      core.Today(s.now()).String(),
		Categories: categoryOptions(core.Categories[0].String()),
		Summary:    newSummaryView(s.expenses.Summary(s.recentLimit)),
	}
	s.render(w, r, "index.html", data)
}
