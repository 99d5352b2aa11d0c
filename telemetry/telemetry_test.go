package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("should use defaults", func(t *testing.T) {
		t.Setenv("OTEL_SERVICE_NAME", "")
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
		t.Setenv("OTEL_ENABLED", "")

		cfg := ConfigFromEnv()

		assert.Equal(t, "article-summarizer", cfg.ServiceName)
		assert.Equal(t, "http://localhost:4318", cfg.OTLPEndpoint)
		assert.True(t, cfg.Enabled)
		assert.InDelta(t, 0.1, cfg.SampleRatio, 1e-9)
	})

	t.Run("should honor overrides", func(t *testing.T) {
		t.Setenv("OTEL_SERVICE_NAME", "test-service")
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://otel:4318")
		t.Setenv("OTEL_ENABLED", "false")
		t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "0.5")

		cfg := ConfigFromEnv()

		assert.Equal(t, "test-service", cfg.ServiceName)
		assert.Equal(t, "http://otel:4318", cfg.OTLPEndpoint)
		assert.False(t, cfg.Enabled)
		assert.InDelta(t, 0.5, cfg.SampleRatio, 1e-9)
	})
}

func TestInitProvider_Disabled(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), Config{Enabled: false})

	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
