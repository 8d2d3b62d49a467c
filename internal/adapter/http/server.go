package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gonum.org/v1/plot"

	"github.com/couchcryptid/quake-trends/internal/domain"
	"github.com/couchcryptid/quake-trends/internal/observability"
	"github.com/couchcryptid/quake-trends/internal/render"
)

// ReportSource provides the latest aggregated report and readiness state.
// It is implemented by pipeline.Pipeline.
type ReportSource interface {
	sharedobs.ReadinessChecker
	Latest() (domain.Report, bool)
}

type chartBuilder func(domain.Report) (*plot.Plot, error)

// charts maps the URL name of each chart to its builder and metric label.
var charts = map[string]struct {
	label string
	build chartBuilder
}{
	"counts": {
		label: render.CountsChart,
		build: func(r domain.Report) (*plot.Plot, error) { return render.NewCountChart(r.Counts) },
	},
	"average-magnitude": {
		label: render.AverageMagnitudeChart,
		build: func(r domain.Report) (*plot.Plot, error) { return render.NewAverageMagnitudeChart(r.Averages) },
	},
}

var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
}

// Server exposes the rendered charts, the yearly summary and the health,
// readiness and metrics endpoints.
type Server struct {
	httpServer *http.Server
	source     ReportSource
	opts       render.Options
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /charts/{file} and /api/summary routes. opts.Format is ignored; the
// format comes from the requested file extension.
func NewServer(addr string, source ReportSource, opts render.Options, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:  source,
		opts:    opts,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(source))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	return s
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

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	format := strings.TrimPrefix(path.Ext(file), ".")
	chart, ok := charts[strings.TrimSuffix(file, path.Ext(file))]
	contentType, known := contentTypes[format]
	if !ok || !known {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "unknown chart " + file})
		return
	}

	report, ok := s.latest(w)
	if !ok {
		return
	}

	p, err := chart.build(report)
	if err != nil {
		s.renderFailed(w, chart.label, err)
		return
	}

	opts := s.opts
	opts.Format = format
	var buf bytes.Buffer
	if err := render.Encode(&buf, p, opts); err != nil {
		s.renderFailed(w, chart.label, err)
		return
	}
	s.metrics.ChartsRendered.WithLabelValues(chart.label, format).Inc()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	report, ok := s.latest(w)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report.Summary)
}

// latest writes a 503 and returns false while no report is loaded.
func (s *Server) latest(w http.ResponseWriter) (domain.Report, bool) {
	report, ok := s.source.Latest()
	if !ok {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no earthquake report loaded yet"})
	}
	return report, ok
}

func (s *Server) renderFailed(w http.ResponseWriter, chart string, err error) {
	s.metrics.RenderErrors.Inc()
	s.logger.Error("render chart failed", "chart", chart, "error", err)
	sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "render " + chart + " failed"})
}
