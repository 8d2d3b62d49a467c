package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-trends/internal/domain"
	"github.com/couchcryptid/quake-trends/internal/render"
)

func newChartsCmd(a *app) *cobra.Command {
	var dir, format string

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render the yearly count and average magnitude charts to image files.",
		Long: `Fetch the events, aggregate them by year and write two charts:
counts_per_year.<format> and average_magnitude_per_year.<format>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := a.chartOptions()
			if dir == "" {
				dir = a.cfg.ChartDir
			}
			if format != "" {
				opts.Format = format
			}
			if opts.Format != "png" && opts.Format != "svg" {
				return errors.New("--format must be png or svg")
			}

			report, err := a.newPipeline().Run(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNoEvents) {
					warnLine(os.Stderr, "no events matched the query, nothing to chart\n")
				}
				return err
			}

			files, err := render.WriteFiles(dir, report, opts)
			if err != nil {
				a.metrics.RenderErrors.Inc()
				return err
			}
			written := make(map[string]bool, len(files))
			for _, f := range files {
				written[f.Chart] = true
				a.metrics.ChartsRendered.WithLabelValues(f.Chart, opts.Format).Inc()
				okLine(os.Stderr, "wrote %s\n", f.Path)
			}
			for _, name := range render.Names() {
				if !written[name] {
					warnLine(os.Stderr, "skipped %s: no data to plot\n", name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default $CHART_DIR)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "image format, png or svg (default $CHART_FORMAT)")
	return cmd
}
