package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultUSGSBaseURL is the FDSN event service root; the client appends /query.
const DefaultUSGSBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1"

// Config holds all runtime settings, populated from environment variables.
// The earthquake query itself is fixed and deliberately not configurable.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// USGS event service.
	USGSBaseURL string
	USGSTimeout time.Duration

	// Chart output.
	ChartDir    string
	ChartFormat string
	ChartWidth  float64 // centimetres
	ChartHeight float64 // centimetres

	// Kafka sink for the publish command.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	usgsTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("USGS_TIMEOUT", "30s"))
	if err != nil || usgsTimeout <= 0 {
		return nil, errors.New("invalid USGS_TIMEOUT")
	}

	chartFormat := strings.ToLower(sharedcfg.EnvOrDefault("CHART_FORMAT", "png"))
	if chartFormat != "png" && chartFormat != "svg" {
		return nil, errors.New("invalid CHART_FORMAT: must be png or svg")
	}

	chartWidth, err := parsePositiveFloat("CHART_WIDTH", 20)
	if err != nil {
		return nil, err
	}
	chartHeight, err := parsePositiveFloat("CHART_HEIGHT", 12)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		USGSBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("USGS_BASE_URL", DefaultUSGSBaseURL), "/"),
		USGSTimeout: usgsTimeout,

		ChartDir:    sharedcfg.EnvOrDefault("CHART_DIR", "."),
		ChartFormat: chartFormat,
		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,

		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "quake-yearly-summary"),
	}

	if !strings.HasPrefix(cfg.USGSBaseURL, "http://") && !strings.HasPrefix(cfg.USGSBaseURL, "https://") {
		return nil, errors.New("invalid USGS_BASE_URL: must be an http(s) URL")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}

	return cfg, nil
}

func parsePositiveFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid " + key + ": must be a positive number")
	}
	return v, nil
}
