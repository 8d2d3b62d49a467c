package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-trends/internal/report"
)

func newSummaryCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the per-year event counts and magnitudes as a table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.newPipeline().Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(r.Summary)
			}
			return report.WriteTable(out, r.Summary)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON instead of a table")
	return cmd
}
