package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the pipeline.
type Config struct {
	Producer ProducerConfig
	Consumer ConsumerConfig
	Pipeline PipelineConfig
	Export   ExportConfig
	Logging  LogConfig
}

// ProducerConfig controls record generation.
type ProducerConfig struct {
	// MaxPosts is the total number of posts to generate before the
	// producer completes.
	MaxPosts int `envconfig:"MAX_POSTS" default:"50"`

	// Interval is the pause between generated posts.
	Interval time.Duration `envconfig:"PRODUCTION_INTERVAL" default:"800ms"`

	// PutTimeout bounds how long a single enqueue may block before the
	// producer backs off and retries.
	PutTimeout time.Duration `envconfig:"PUT_TIMEOUT" default:"5s"`
}

// ConsumerConfig controls record consumption.
type ConsumerConfig struct {
	// PollTimeout bounds how long a dequeue may block before the consumer
	// loops and re-checks its running flag.
	PollTimeout time.Duration `envconfig:"CONSUMER_TIMEOUT" default:"1s"`

	// ErrorLogCap bounds error-log retention in the aggregator. Analytics
	// only ever surface the last five entries.
	ErrorLogCap int `envconfig:"ERROR_LOG_CAP" default:"100"`
}

// PipelineConfig controls orchestration.
type PipelineConfig struct {
	// QueueCapacity is the bounded channel size between producer and consumer.
	QueueCapacity int `envconfig:"QUEUE_CAPACITY" default:"20"`

	// ReadinessDelay is the pause between starting the consumer and the producer.
	ReadinessDelay time.Duration `envconfig:"READINESS_DELAY" default:"100ms"`

	// StatusInterval is how often the monitor logs pipeline status.
	StatusInterval time.Duration `envconfig:"STATUS_INTERVAL" default:"10s"`

	// ShutdownTimeout bounds how long Stop waits for each loop to exit.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	// MetricsAddr is the listen address for the observability HTTP server.
	// Empty disables the server.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

// ExportConfig controls the results document.
type ExportConfig struct {
	Enabled bool   `envconfig:"EXPORT_ENABLED" default:"true"`
	Path    string `envconfig:"EXPORT_PATH" default:"pipeline_results.json"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Console switches output to a human-readable console writer instead
	// of JSON lines.
	Console bool `envconfig:"LOG_CONSOLE" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns a sensible default config for local runs.
func Default() *Config {
	return &Config{
		Producer: ProducerConfig{
			MaxPosts:   50,
			Interval:   800 * time.Millisecond,
			PutTimeout: 5 * time.Second,
		},
		Consumer: ConsumerConfig{
			PollTimeout: time.Second,
			ErrorLogCap: 100,
		},
		Pipeline: PipelineConfig{
			QueueCapacity:   20,
			ReadinessDelay:  100 * time.Millisecond,
			StatusInterval:  10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Export: ExportConfig{
			Enabled: true,
			Path:    "pipeline_results.json",
		},
		Logging: LogConfig{
			Level:   "info",
			Console: false,
		},
	}
}
