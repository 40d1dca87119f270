package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pravado/citemind/internal/utils"
	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")             // Current directory
		v.AddConfigPath("./configs")     // Project configs directory
		v.AddConfigPath("/etc/citemind") // System-wide config
	}

	setDefaults(v)

	// Environment overrides, e.g. CITEMIND_KPI_POLL_INTERVAL=30s
	v.SetEnvPrefix("CITEMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	// KPI defaults
	v.SetDefault("kpi.poll_interval", def.KPI.PollInterval.String())
	v.SetDefault("kpi.concurrency", def.KPI.Concurrency)
	v.SetDefault("kpi.sparkline_points", def.KPI.SparklinePoints)
	v.SetDefault("kpi.moving_average_window", def.KPI.MovingAverageWindow)
	v.SetDefault("kpi.anomaly_threshold", def.KPI.AnomalyThreshold)
	v.SetDefault("kpi.confidence", def.KPI.Confidence)
	v.SetDefault("kpi.smoothing_alpha", def.KPI.SmoothingAlpha)
	v.SetDefault("kpi.mock_fallback", def.KPI.MockFallback)
	metrics := make([]map[string]interface{}, 0, len(def.KPI.Metrics))
	for _, m := range def.KPI.Metrics {
		metrics = append(metrics, map[string]interface{}{
			"name":       m.Name,
			"period":     m.Period,
			"format":     m.Format,
			"base_value": m.BaseValue,
		})
	}
	v.SetDefault("kpi.metrics", metrics)

	// Source defaults
	v.SetDefault("source.type", def.Source.Type)

	// Cache defaults
	v.SetDefault("cache.type", def.Cache.Type)
	v.SetDefault("cache.ttl", def.Cache.TTL.String())
	v.SetDefault("cache.key_prefix", def.Cache.KeyPrefix)

	// Publisher defaults
	v.SetDefault("publisher.type", def.Publisher.Type)
	v.SetDefault("publisher.redis_stream", def.Publisher.RedisStream)

	// Logging defaults
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output_path", def.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		KPI: KPIConfig{
			PollInterval:        utils.DefaultPollInterval,
			Concurrency:         utils.DefaultRefreshConcurrency,
			SparklinePoints:     20,
			MovingAverageWindow: 3,
			AnomalyThreshold:    2,
			Confidence:          0.95,
			SmoothingAlpha:      0.3,
			MockFallback:        true,
			Metrics: []MetricConfig{
				{Name: "citations", Period: "weekly", Format: "smart", BaseValue: 1250},
				{Name: "share_of_voice", Period: "weekly", Format: "percentage", BaseValue: 34},
				{Name: "media_mentions", Period: "daily", Format: "smart", BaseValue: 86},
				{Name: "ai_visibility_score", Period: "daily", Format: "smart", BaseValue: 72},
			},
		},
		Source: SourceConfig{
			Type: string(utils.SourceTypeMock),
		},
		Cache: CacheConfig{
			Type:      string(utils.CacheTypeMemory),
			TTL:       utils.DefaultCacheTTL,
			KeyPrefix: utils.DefaultKeyPrefix,
		},
		Publisher: PublisherConfig{
			Type:        string(utils.PublisherTypeNone),
			RedisStream: utils.DefaultKeyPrefix,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stderr",
		},
	}
}
