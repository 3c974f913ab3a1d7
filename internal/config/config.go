// Package config defines the configuration structures for SakuraScope.
// Plain data types and validation live here; loading is in loader.go.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP and gRPC server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	// GRPCReflection registers the reflection service on the gRPC port.
	GRPCReflection bool `mapstructure:"grpc_reflection"`
}

// Addr is the HTTP listen address.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// GRPCAddr is the gRPC health listen address.
func (s ServerConfig) GRPCAddr() string { return fmt.Sprintf("%s:%d", s.Host, s.GRPCPort) }

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"` // "stdout" | "stderr" | file path
}

// DetectorConfig holds the sakura detector parameters. They are read once
// and handed to the detector constructor.
type DetectorConfig struct {
	AnomalyThreshold      float64 `mapstructure:"anomaly_threshold"`
	MinReviewsForAnalysis int     `mapstructure:"min_reviews_for_analysis"`
	BatchSize             int     `mapstructure:"batch_size"`
}

// ScreeningConfig holds the affiliate screening workflow parameters.
type ScreeningConfig struct {
	MinRating          float64       `mapstructure:"min_rating"`
	MinReviews         int           `mapstructure:"min_reviews"`
	MinPrice           float64       `mapstructure:"min_price"`
	MaxPrice           float64       `mapstructure:"max_price"`
	QualityThreshold   float64       `mapstructure:"quality_threshold"`
	SuspicionThreshold float64       `mapstructure:"suspicion_threshold"`
	MaxResults         int           `mapstructure:"max_results"`
	Concurrency        int           `mapstructure:"concurrency"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	CatalogPath        string        `mapstructure:"catalog_path"`
	// CheckerURL is the external second-opinion endpoint; "{asin}" is
	// replaced with the product ASIN. Empty disables the checker.
	CheckerURL         string        `mapstructure:"checker_url"`
	CheckerTimeout     time.Duration `mapstructure:"checker_timeout"`
}

// RedisConfig holds Redis connection parameters for the result cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka producer parameters for analysis events.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	ClientID     string        `mapstructure:"client_id"`
	TopicPrefix  string        `mapstructure:"topic_prefix"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RequiredAcks string        `mapstructure:"required_acks"` // "none" | "one" | "all"
	Compression  string        `mapstructure:"compression"`   // "" | "gzip" | "snappy" | "lz4" | "zstd"
}

// MetricsConfig holds Prometheus collector parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure. Every component reads its
// settings from the relevant sub-struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Screening ScreeningConfig `mapstructure:"screening"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`

	source string
}

// SourceFile is the YAML file the Config was read from, "" when it came
// from environment and defaults only.
func (c *Config) SourceFile() string { return c.source }

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config.
// It returns the first error encountered; callers treat any error as fatal.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.GRPCPort < 1 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("config: server.grpc_port %d is out of range [1, 65535]", c.Server.GRPCPort)
	}
	if c.Server.GRPCPort == c.Server.Port {
		return fmt.Errorf("config: server.grpc_port must differ from server.port (%d)", c.Server.Port)
	}
	if c.Server.MaxBodySize < 0 {
		return fmt.Errorf("config: server.max_body_size must be ≥ 0, got %d", c.Server.MaxBodySize)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Detector
	if c.Detector.AnomalyThreshold < 0 || c.Detector.AnomalyThreshold > 1 {
		return fmt.Errorf("config: detector.anomaly_threshold %v is out of range [0, 1]", c.Detector.AnomalyThreshold)
	}
	if c.Detector.MinReviewsForAnalysis < 0 {
		return fmt.Errorf("config: detector.min_reviews_for_analysis must be ≥ 0, got %d", c.Detector.MinReviewsForAnalysis)
	}
	if c.Detector.BatchSize < 1 {
		return fmt.Errorf("config: detector.batch_size must be ≥ 1, got %d", c.Detector.BatchSize)
	}

	// Screening
	s := c.Screening
	if s.MinRating < 0 || s.MinRating > 5 {
		return fmt.Errorf("config: screening.min_rating %v is out of range [0, 5]", s.MinRating)
	}
	if s.MinReviews < 0 {
		return fmt.Errorf("config: screening.min_reviews must be ≥ 0, got %d", s.MinReviews)
	}
	if s.MinPrice < 0 || s.MaxPrice < s.MinPrice {
		return fmt.Errorf("config: screening price range [%v, %v] is invalid", s.MinPrice, s.MaxPrice)
	}
	if s.QualityThreshold < 0 || s.QualityThreshold > 100 {
		return fmt.Errorf("config: screening.quality_threshold %v is out of range [0, 100]", s.QualityThreshold)
	}
	if s.SuspicionThreshold < 0 || s.SuspicionThreshold > 1 {
		return fmt.Errorf("config: screening.suspicion_threshold %v is out of range [0, 1]", s.SuspicionThreshold)
	}
	if s.MaxResults < 1 {
		return fmt.Errorf("config: screening.max_results must be ≥ 1, got %d", s.MaxResults)
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("config: screening.concurrency must be ≥ 1, got %d", s.Concurrency)
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address when kafka is enabled")
	}
	switch c.Kafka.RequiredAcks {
	case "none", "one", "all":
	default:
		return fmt.Errorf("config: kafka.required_acks %q is invalid; expected none|one|all", c.Kafka.RequiredAcks)
	}
	switch c.Kafka.Compression {
	case "", "gzip", "snappy", "lz4", "zstd":
	default:
		return fmt.Errorf("config: kafka.compression %q is invalid", c.Kafka.Compression)
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	return nil
}

//Personal.AI order the ending
