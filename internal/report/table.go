// Package report formats a yearly earthquake summary for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/couchcryptid/quake-trends/internal/domain"
)

// WriteTable writes one row per year of s, oldest first, followed by a
// totals footer.
func WriteTable(w io.Writer, s domain.Summary) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header("Year", "Events", "With Magnitude", "Mean Magnitude", "Max Magnitude")
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
		cfg.Footer.Alignment.Global = tw.AlignRight
	})

	rows := make([][]string, 0, len(s.Years))
	measured := 0
	for _, y := range s.Years {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Count),
			strconv.Itoa(y.Measured),
			formatMagnitude(y.Measured, y.MeanMagnitude),
			formatMagnitude(y.Measured, y.MaxMagnitude),
		})
		measured += y.Measured
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("summary rows: %w", err)
	}

	table.Footer("Total", strconv.Itoa(s.Total), strconv.Itoa(measured), "", "")

	if err := table.Render(); err != nil {
		return fmt.Errorf("render summary table: %w", err)
	}
	return nil
}

// formatMagnitude prints a dash for years where no event had a magnitude.
func formatMagnitude(measured int, v float64) string {
	if measured == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
