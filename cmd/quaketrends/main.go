// Command quaketrends charts yearly earthquake activity around Great Britain
// and Ireland from the USGS ComCat feed.
package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/quake-trends/internal/adapter/usgs"
	"github.com/couchcryptid/quake-trends/internal/config"
	"github.com/couchcryptid/quake-trends/internal/domain"
	"github.com/couchcryptid/quake-trends/internal/observability"
	"github.com/couchcryptid/quake-trends/internal/pipeline"
	"github.com/couchcryptid/quake-trends/internal/render"
)

// Set by the linker at release time.
var version = "dev"

// newMetrics registers with the default registry; tests swap it out.
var newMetrics = observability.NewMetrics

// app holds what every subcommand needs, built once in PersistentPreRunE.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

var (
	okLine   = color.New(color.FgGreen).FprintfFunc()
	warnLine = color.New(color.FgYellow).FprintfFunc()
)

func main() {
	a := &app{}
	root := newRootCmd(a)
	if err := root.Execute(); err != nil {
		if a.logger != nil {
			a.logger.Error("command failed", "command", commandName(root), "error", err)
		} else {
			slog.Error("command failed", "error", err)
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "quaketrends",
		Short: "Chart yearly earthquake counts and magnitudes from USGS ComCat.",
		Long: `quaketrends queries the USGS FDSN event service for magnitude 1+ events
around Great Britain and Ireland between 2000-01-01 and 2018-10-11, groups
them by calendar year, and charts the number of events and the average
magnitude per year.

Configuration comes from environment variables (LOG_LEVEL, LOG_FORMAT,
USGS_BASE_URL, USGS_TIMEOUT, CHART_DIR, CHART_FORMAT, CHART_WIDTH,
CHART_HEIGHT, HTTP_ADDR, SHUTDOWN_TIMEOUT, KAFKA_BROKERS, KAFKA_SINK_TOPIC).`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	root.AddCommand(
		newChartsCmd(a),
		newSummaryCmd(a),
		newServeCmd(a),
		newPublishCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	a.metrics = newMetrics()
	return nil
}

// newPipeline wires the USGS client into a pipeline for the fixed query.
func (a *app) newPipeline() *pipeline.Pipeline {
	client := usgs.NewClient(a.cfg.USGSBaseURL, a.cfg.USGSTimeout, a.metrics, a.logger)
	return pipeline.New(client, domain.DefaultQuery(), a.logger, a.metrics)
}

// chartOptions converts the configured centimetre sizes to plot lengths.
func (a *app) chartOptions() render.Options {
	return render.Options{
		Width:  vg.Length(a.cfg.ChartWidth) * vg.Centimeter,
		Height: vg.Length(a.cfg.ChartHeight) * vg.Centimeter,
		Format: a.cfg.ChartFormat,
	}
}

func commandName(root *cobra.Command) string {
	cmd, _, err := root.Find(os.Args[1:])
	if err != nil || cmd == nil {
		return root.Name()
	}
	return cmd.Name()
}
