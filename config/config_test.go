package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Run("should load defaults when environment is empty", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, "https://api.openai.com", cfg.Summarizer.Host)
		assert.Equal(t, "/v1/chat/completions", cfg.Summarizer.APIPath)
		assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
		assert.Equal(t, "neo4j", cfg.Neo4j.Database)
		assert.Equal(t, 4, cfg.Pipeline.Concurrency)
		assert.Equal(t, 300*time.Second, cfg.Pipeline.BatchTimeout)
		assert.Equal(t, "token_usage.csv", cfg.Usage.LogFile)
	})
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Run("should read overrides from environment", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("PIPELINE_CONCURRENCY", "2")
		t.Setenv("PIPELINE_BATCH_TIMEOUT", "45s")
		t.Setenv("NEO4J_URI", "bolt://graph:7687")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 2, cfg.Pipeline.Concurrency)
		assert.Equal(t, 45*time.Second, cfg.Pipeline.BatchTimeout)
		assert.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	})

	t.Run("should reject malformed values", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-port")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("should reject invalid durations", func(t *testing.T) {
		t.Setenv("PIPELINE_BATCH_TIMEOUT", "soon")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	t.Run("should reject zero concurrency", func(t *testing.T) {
		t.Setenv("PIPELINE_CONCURRENCY", "0")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "concurrency")
	})

	t.Run("should reject out-of-range port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "70000")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "port")
	})
}
