package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/quake-trends/internal/config"
	"github.com/couchcryptid/quake-trends/internal/domain"
	"github.com/couchcryptid/quake-trends/internal/observability"
)

// sourceHeader identifies the feed a summary was computed from.
const sourceHeader = "usgs-comcat"

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes yearly summaries to a Kafka topic.
type Writer struct {
	writer  messageWriter
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// PublishSummary writes one message per year of s in a single batch. The
// year is the message key, so a year always lands on the same partition.
func (w *Writer) PublishSummary(ctx context.Context, s domain.Summary) error {
	if len(s.Years) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(s.Years))
	for i := range s.Years {
		msg, err := serializeToMessage(s.Years[i], s.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish yearly summary: %w", err)
	}

	w.metrics.SummariesPublished.Add(float64(len(msgs)))
	w.logger.Info("yearly summary published", "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one year of a summary into a Kafka message.
func serializeToMessage(stats domain.YearStats, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize year %d: %w", stats.Year, err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(stats.Year)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
			{Key: "source", Value: []byte(sourceHeader)},
		},
	}, nil
}
