package config

import (
	"fmt"
	"time"

	"github.com/pravado/citemind/internal/analytics/delta"
	"github.com/pravado/citemind/internal/utils"
)

// Config represents the complete application configuration
type Config struct {
	KPI       KPIConfig       `mapstructure:"kpi"`
	Source    SourceConfig    `mapstructure:"source"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// KPIConfig controls the refresh cycle and the engine parameters
type KPIConfig struct {
	PollInterval        time.Duration  `mapstructure:"poll_interval"`         // Time between refresh cycles
	Concurrency         int            `mapstructure:"concurrency"`           // Metrics refreshed in parallel
	SparklinePoints     int            `mapstructure:"sparkline_points"`      // Sparkline cap (default: 20)
	MovingAverageWindow int            `mapstructure:"moving_average_window"` // Trailing window (default: 3)
	AnomalyThreshold    float64        `mapstructure:"anomaly_threshold"`     // Std deviations (default: 2)
	Confidence          float64        `mapstructure:"confidence"`            // 0.90, 0.95 or 0.99
	SmoothingAlpha      float64        `mapstructure:"smoothing_alpha"`       // Exponential smoothing factor
	MockFallback        bool           `mapstructure:"mock_fallback"`         // Serve synthetic series when the source fails
	Metrics             []MetricConfig `mapstructure:"metrics"`
}

// MetricConfig describes one dashboard metric
type MetricConfig struct {
	Name      string  `mapstructure:"name"`
	Period    string  `mapstructure:"period"`     // hourly, daily, weekly, monthly
	Format    string  `mapstructure:"format"`     // percentage, absolute, smart
	BaseValue float64 `mapstructure:"base_value"` // Center of the synthetic fallback series
}

// SourceConfig selects where raw series come from
type SourceConfig struct {
	Type string `mapstructure:"type"` // mock (default), csv
	Dir  string `mapstructure:"dir"`  // Directory holding <metric>.csv files
}

// CacheConfig represents snapshot cache configuration
type CacheConfig struct {
	Type      string        `mapstructure:"type"`       // none, memory (default), redis
	TTL       time.Duration `mapstructure:"ttl"`        // Snapshot lifetime
	URL       string        `mapstructure:"url"`        // Redis URL (e.g., redis://localhost:6379)
	Password  string        `mapstructure:"password"`   // Optional authentication
	DB        int           `mapstructure:"db"`         // Redis database number (default: 0)
	KeyPrefix string        `mapstructure:"key_prefix"` // Redis key prefix (default: "citemind")
}

// PublisherConfig represents snapshot fan-out configuration
type PublisherConfig struct {
	Type     string `mapstructure:"type"`     // none (default), memory, redis, nats, kafka
	URL      string `mapstructure:"url"`      // Broker URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "citemind")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.KPI.Validate(); err != nil {
		return fmt.Errorf("kpi config: %w", err)
	}

	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Publisher.Validate(); err != nil {
		return fmt.Errorf("publisher config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates KPI configuration
func (c *KPIConfig) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("kpi.poll_interval must be positive")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("kpi.concurrency must be at least 1")
	}

	if c.SparklinePoints < 1 {
		return fmt.Errorf("kpi.sparkline_points must be at least 1")
	}

	if c.MovingAverageWindow < 1 {
		return fmt.Errorf("kpi.moving_average_window must be at least 1")
	}

	if c.AnomalyThreshold <= 0 {
		return fmt.Errorf("kpi.anomaly_threshold must be positive")
	}

	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		return fmt.Errorf("kpi.smoothing_alpha must be in (0, 1]")
	}

	if len(c.Metrics) == 0 {
		return fmt.Errorf("kpi.metrics must list at least one metric")
	}

	seen := make(map[string]bool, len(c.Metrics))
	for i, m := range c.Metrics {
		if m.Name == "" {
			return fmt.Errorf("kpi.metrics[%d].name is required", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("kpi.metrics: duplicate metric %q", m.Name)
		}
		seen[m.Name] = true

		if _, err := delta.ParsePeriod(m.Period); err != nil {
			return fmt.Errorf("kpi.metrics[%s]: %w", m.Name, err)
		}
		if _, err := delta.ParseFormat(m.Format); err != nil {
			return fmt.Errorf("kpi.metrics[%s]: %w", m.Name, err)
		}
	}

	return nil
}

// Validate validates source configuration
func (c *SourceConfig) Validate() error {
	switch utils.SourceType(c.Type) {
	case utils.SourceTypeMock, "":
		return nil
	case utils.SourceTypeCSV:
		if c.Dir == "" {
			return fmt.Errorf("source.dir is required for csv sources")
		}
		return nil
	default:
		return fmt.Errorf("source.type must be 'mock' or 'csv'")
	}
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch utils.CacheType(c.Type) {
	case utils.CacheTypeNone, "":
		return nil
	case utils.CacheTypeMemory:
	case utils.CacheTypeRedis:
		if c.URL == "" {
			return fmt.Errorf("cache.url is required for redis cache")
		}
	default:
		return fmt.Errorf("cache.type must be one of: none, memory, redis")
	}

	if c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	return nil
}

// Validate validates publisher configuration
func (c *PublisherConfig) Validate() error {
	switch utils.PublisherType(c.Type) {
	case utils.PublisherTypeNone, utils.PublisherTypeMemory, "":
		return nil
	case utils.PublisherTypeRedis, utils.PublisherTypeNATS:
		if c.URL == "" {
			return fmt.Errorf("publisher.url is required for %s", c.Type)
		}
		return nil
	case utils.PublisherTypeKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("publisher.kafka_brokers is required for kafka")
		}
		return nil
	default:
		return fmt.Errorf("publisher.type must be one of: none, memory, redis, nats, kafka")
	}
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}

// Metric returns the configuration of a metric by name
func (c *KPIConfig) Metric(name string) (MetricConfig, bool) {
	for _, m := range c.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricConfig{}, false
}
