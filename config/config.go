// ABOUTME: This file implements configuration management with environment variable support
// ABOUTME: Provides validation and defaults for production use
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	HTTP       HTTPConfig       `json:"http"`
	Summarizer SummarizerConfig `json:"summarizer"`
	Neo4j      Neo4jConfig      `json:"neo4j"`
	Pipeline   PipelineConfig   `json:"pipeline"`
	Export     ExportConfig     `json:"export"`
	Usage      UsageConfig      `json:"usage"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"8000"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"300s"` // Extended to allow LLM processing
}

// HTTPConfig controls the outbound article fetcher client.
type HTTPConfig struct {
	Timeout      time.Duration `json:"timeout" env:"HTTP_TIMEOUT" default:"30s"`
	UserAgent    string        `json:"user_agent" env:"HTTP_USER_AGENT"`
	MaxBodyBytes int64         `json:"max_body_bytes" env:"HTTP_MAX_BODY_BYTES" default:"2097152"`
	MaxRedirects int           `json:"max_redirects" env:"HTTP_MAX_REDIRECTS" default:"5"`
}

// SummarizerConfig controls the LLM completion client.
type SummarizerConfig struct {
	Host                string        `json:"host" env:"SUMMARIZER_HOST" default:"https://api.openai.com"`
	APIPath             string        `json:"api_path" env:"SUMMARIZER_API_PATH" default:"/v1/chat/completions"`
	APIKey              string        `json:"-" env:"SUMMARIZER_API_KEY"`
	Timeout             time.Duration `json:"timeout" env:"SUMMARIZER_TIMEOUT" default:"120s"` // Extended for LLM processing
	MaxRetries          int           `json:"max_retries" env:"SUMMARIZER_MAX_RETRIES" default:"2"`
	MaxCompletionTokens int           `json:"max_completion_tokens" env:"SUMMARIZER_MAX_COMPLETION_TOKENS" default:"1000"`
	Temperature         float64       `json:"temperature" env:"SUMMARIZER_TEMPERATURE" default:"0.3"`
}

type Neo4jConfig struct {
	URI      string `json:"uri" env:"NEO4J_URI" default:"bolt://localhost:7687"`
	User     string `json:"user" env:"NEO4J_USER" default:"neo4j"`
	Password string `json:"-" env:"NEO4J_PASSWORD" default:"password"`
	Database string `json:"database" env:"NEO4J_DATABASE" default:"neo4j"`
}

// PipelineConfig bounds one batch run: fan-out width and the batch-wide
// wall-clock deadline.
type PipelineConfig struct {
	Concurrency  int           `json:"concurrency" env:"PIPELINE_CONCURRENCY" default:"4"`
	BatchTimeout time.Duration `json:"batch_timeout" env:"PIPELINE_BATCH_TIMEOUT" default:"300s"`
}

type ExportConfig struct {
	Dir string `json:"dir" env:"EXPORT_DIR" default:"."`
}

type UsageConfig struct {
	LogFile string `json:"log_file" env:"USAGE_LOG_FILE" default:"token_usage.csv"`
}

const defaultUserAgent = "Mozilla/5.0 (compatible; ArticleSummarizerBot/1.0)"

func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	var err error

	// Server config
	if config.Server.Port, err = envInt("SERVER_PORT", 8000); err != nil {
		return err
	}
	if config.Server.ShutdownTimeout, err = envDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	if config.Server.ReadTimeout, err = envDuration("SERVER_READ_TIMEOUT", 10*time.Second); err != nil {
		return err
	}
	if config.Server.WriteTimeout, err = envDuration("SERVER_WRITE_TIMEOUT", 300*time.Second); err != nil {
		return err
	}

	// Fetcher HTTP config
	if config.HTTP.Timeout, err = envDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	config.HTTP.UserAgent = envString("HTTP_USER_AGENT", defaultUserAgent)
	if config.HTTP.MaxBodyBytes, err = envInt64("HTTP_MAX_BODY_BYTES", 2*1024*1024); err != nil {
		return err
	}
	if config.HTTP.MaxRedirects, err = envInt("HTTP_MAX_REDIRECTS", 5); err != nil {
		return err
	}

	// Summarizer config
	config.Summarizer.Host = envString("SUMMARIZER_HOST", "https://api.openai.com")
	config.Summarizer.APIPath = envString("SUMMARIZER_API_PATH", "/v1/chat/completions")
	config.Summarizer.APIKey = envString("SUMMARIZER_API_KEY", os.Getenv("OPENAI_API_KEY"))
	if config.Summarizer.Timeout, err = envDuration("SUMMARIZER_TIMEOUT", 120*time.Second); err != nil {
		return err
	}
	if config.Summarizer.MaxRetries, err = envInt("SUMMARIZER_MAX_RETRIES", 2); err != nil {
		return err
	}
	if config.Summarizer.MaxCompletionTokens, err = envInt("SUMMARIZER_MAX_COMPLETION_TOKENS", 1000); err != nil {
		return err
	}
	if config.Summarizer.Temperature, err = envFloat("SUMMARIZER_TEMPERATURE", 0.3); err != nil {
		return err
	}

	// Neo4j config
	config.Neo4j.URI = envString("NEO4J_URI", "bolt://localhost:7687")
	config.Neo4j.User = envString("NEO4J_USER", "neo4j")
	config.Neo4j.Password = envString("NEO4J_PASSWORD", "password")
	config.Neo4j.Database = envString("NEO4J_DATABASE", "neo4j")

	// Pipeline config
	if config.Pipeline.Concurrency, err = envInt("PIPELINE_CONCURRENCY", 4); err != nil {
		return err
	}
	if config.Pipeline.BatchTimeout, err = envDuration("PIPELINE_BATCH_TIMEOUT", 300*time.Second); err != nil {
		return err
	}

	// Export and usage ledger config
	config.Export.Dir = envString("EXPORT_DIR", ".")
	config.Usage.LogFile = envString("USAGE_LOG_FILE", "token_usage.csv")

	return nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive: %v", config.HTTP.Timeout)
	}
	if config.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive: %d", config.HTTP.MaxBodyBytes)
	}
	if config.Summarizer.Timeout <= 0 {
		return fmt.Errorf("summarizer timeout must be positive: %v", config.Summarizer.Timeout)
	}
	if config.Summarizer.MaxRetries < 0 {
		return fmt.Errorf("summarizer max retries must not be negative: %d", config.Summarizer.MaxRetries)
	}
	if config.Pipeline.Concurrency <= 0 {
		return fmt.Errorf("pipeline concurrency must be positive: %d", config.Pipeline.Concurrency)
	}
	if config.Pipeline.BatchTimeout <= 0 {
		return fmt.Errorf("batch timeout must be positive: %v", config.Pipeline.BatchTimeout)
	}
	return nil
}

func envString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func envInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func envFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func envDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}
