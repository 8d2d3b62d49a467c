package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultUSGSBaseURL, cfg.USGSBaseURL)
	assert.Equal(t, 30*time.Second, cfg.USGSTimeout)
	assert.Equal(t, ".", cfg.ChartDir)
	assert.Equal(t, "png", cfg.ChartFormat)
	assert.Equal(t, 20.0, cfg.ChartWidth)
	assert.Equal(t, 12.0, cfg.ChartHeight)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "quake-yearly-summary", cfg.KafkaSinkTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("USGS_BASE_URL", "http://localhost:8081/fdsnws/event/1/")
	t.Setenv("USGS_TIMEOUT", "5s")
	t.Setenv("CHART_DIR", "/tmp/charts")
	t.Setenv("CHART_FORMAT", "SVG")
	t.Setenv("CHART_WIDTH", "30")
	t.Setenv("CHART_HEIGHT", "15.5")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:8081/fdsnws/event/1", cfg.USGSBaseURL)
	assert.Equal(t, 5*time.Second, cfg.USGSTimeout)
	assert.Equal(t, "/tmp/charts", cfg.ChartDir)
	assert.Equal(t, "svg", cfg.ChartFormat)
	assert.Equal(t, 30.0, cfg.ChartWidth)
	assert.Equal(t, 15.5, cfg.ChartHeight)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidUSGSTimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-2s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("USGS_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "USGS_TIMEOUT")
		})
	}
}

func TestLoad_InvalidUSGSBaseURL(t *testing.T) {
	t.Setenv("USGS_BASE_URL", "earthquake.usgs.gov")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USGS_BASE_URL")
}

func TestLoad_InvalidChartFormat(t *testing.T) {
	t.Setenv("CHART_FORMAT", "gif")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHART_FORMAT")
}

func TestLoad_InvalidChartSize(t *testing.T) {
	t.Setenv("CHART_WIDTH", "-3")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHART_WIDTH")

	t.Setenv("CHART_WIDTH", "20")
	t.Setenv("CHART_HEIGHT", "tall")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHART_HEIGHT")
}

func TestLoad_EmptyBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
