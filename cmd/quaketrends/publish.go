package main

import (
	"os"

	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/quake-trends/internal/adapter/kafka"
)

func newPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish one message per year of the summary to Kafka.",
		Long: `Fetch and aggregate the events, then write one message per year to
$KAFKA_SINK_TOPIC on $KAFKA_BROKERS. The message key is the year and the
value is the year's JSON summary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.newPipeline().Run(cmd.Context())
			if err != nil {
				return err
			}

			writer := kafkaadapter.NewWriter(a.cfg, a.metrics, a.logger)
			defer func() {
				if err := writer.Close(); err != nil {
					a.logger.Error("kafka writer close error", "error", err)
				}
			}()

			if err := writer.PublishSummary(cmd.Context(), r.Summary); err != nil {
				return err
			}
			okLine(os.Stderr, "published %d years to %s\n", len(r.Summary.Years), a.cfg.KafkaSinkTopic)
			return nil
		},
	}
}
