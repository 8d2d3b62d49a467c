package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/quake-trends/internal/adapter/http"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the charts and summary over HTTP.",
		Long: `Fetch the events in the background, retrying with backoff until the feed
answers, and serve the charts at /charts/counts.png and
/charts/average-magnitude.png (or .svg), the summary at /api/summary, and
/healthz, /readyz and /metrics. /readyz reports 503 until the first report
is loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	logger := a.logger
	p := a.newPipeline()
	srv := httpadapter.NewServer(a.cfg.HTTPAddr, p, a.chartOptions(), a.metrics, logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	refreshErr := make(chan error, 1)
	go func() {
		if err := p.Refresh(ctx); err != nil {
			refreshErr <- err
			return
		}
		if report, ok := p.Latest(); ok {
			okLine(os.Stderr, "report loaded: %d events across %d years\n",
				report.Summary.Total, len(report.Summary.Years))
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-srvErr:
		logger.Error("http server error", "error", runErr)
	case runErr = <-refreshErr:
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return runErr
}
