// Package web serves the crash-insights dashboard: one HTML page with
// filter controls and chart panels, the same aggregates as a small JSON
// API, and the operational health/readiness/metrics endpoints.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/crash-insights/internal/dataset"
	"github.com/couchcryptid/crash-insights/internal/domain"
	"github.com/couchcryptid/crash-insights/internal/observability"
	"github.com/couchcryptid/crash-insights/internal/stats"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard page, JSON API, and operational endpoints.
// The table is read-only, so every handler is a pure function of it and
// the request's filter params.
type Server struct {
	httpServer *http.Server
	table      *dataset.Table
	summary    stats.Summary
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// apiView builds one JSON API response from the filtered record set.
type apiView func(records []domain.CrashRecord, f domain.Filter) any

// NewServer creates the dashboard HTTP server. The header summary is
// precomputed here since it covers the whole table regardless of filter.
func NewServer(addr string, table *dataset.Table, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		table:   table,
		summary: stats.Summarize(table.Records()),
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	for name, view := range s.apiViews() {
		mux.HandleFunc("GET /api/"+name+".json", s.handleAPI(name, view))
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(table))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// apiViews maps endpoint names to their aggregation. The summary endpoint
// ignores the filter: it reports the whole-table KPIs shown in the header.
func (s *Server) apiViews() map[string]apiView {
	return map[string]apiView{
		"hourly": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.CountByHour(recs, f)
		},
		"day-hour": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.CountByDayHour(recs, f)
		},
		"monthly": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.MonthlyTrend(recs, f, f.Year)
		},
		"light": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.CountByLight(recs, f)
		},
		"weather": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.CountByWeather(recs, f)
		},
		"severity-weather": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.SeverityByWeather(recs, f)
		},
		"severity-light": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.SeverityByLight(recs, f)
		},
		"severe-share": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.SevereShareByWeather(recs, f)
		},
		"weather-surface": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.SurfaceByWeather(recs, f)
		},
		"vehicle-year": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.VehicleYearBySeverity(recs, f)
		},
		"makes": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.TopMakes(recs, f, topMakesLimit)
		},
		"body-collision": func(recs []domain.CrashRecord, f domain.Filter) any {
			return stats.BodyByCollision(recs, f)
		},
		"summary": func([]domain.CrashRecord, domain.Filter) any {
			return s.summary
		},
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	f := FilterFromQuery(r.URL.Query())
	view := s.buildView(f)

	// Render into a buffer so a template failure yields a clean 500
	// instead of a half-written page.
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, view); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client gone mid-response

	s.metrics.PageRenders.Inc()
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
}

func (s *Server) handleAPI(name string, view apiView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := FilterFromQuery(r.URL.Query())
		s.metrics.APIRequests.WithLabelValues(name).Inc()
		writeJSON(w, http.StatusOK, view(s.table.Records(), f))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
