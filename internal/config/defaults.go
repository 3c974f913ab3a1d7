package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultGRPCPort        = 9090
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize     = 4 << 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "stdout"

	DefaultAnomalyThreshold      = 0.3
	DefaultMinReviewsForAnalysis = 10
	DefaultDetectorBatchSize     = 10

	DefaultScreeningMinRating          = 3.5
	DefaultScreeningMinReviews         = 50
	DefaultScreeningMinPrice           = 1000.0
	DefaultScreeningMaxPrice           = 500000.0
	DefaultScreeningQualityThreshold   = 70.0
	DefaultScreeningSuspicionThreshold = 0.3
	DefaultScreeningMaxResults         = 20
	DefaultScreeningConcurrency        = 4
	DefaultScreeningCacheTTL           = time.Hour
	DefaultScreeningCheckerTimeout     = 10 * time.Second

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "sakura:"

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaClientID     = "sakurascope"
	DefaultKafkaTopicPrefix  = "sakura"
	DefaultKafkaBatchSize    = 100
	DefaultKafkaBatchTimeout = 50 * time.Millisecond
	DefaultKafkaWriteTimeout = 10 * time.Second
	DefaultKafkaMaxAttempts  = 3
	DefaultKafkaRequiredAcks = "all"

	DefaultMetricsNamespace = "sakurascope"
	DefaultMetricsPath      = "/metrics"
)

// NewDefaultConfig returns a Config with every field set to its default.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with its default. Fields
// already set by the caller are left unchanged so explicit configuration
// always wins. Booleans (enabled flags) are never touched.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.GRPCPort == 0 {
		cfg.Server.GRPCPort = DefaultGRPCPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = DefaultLogOutput
	}

	// ── Detector ──────────────────────────────────────────────────────────────
	if cfg.Detector.MinReviewsForAnalysis == 0 {
		cfg.Detector.MinReviewsForAnalysis = DefaultMinReviewsForAnalysis
	}
	if cfg.Detector.BatchSize == 0 {
		cfg.Detector.BatchSize = DefaultDetectorBatchSize
	}
	if cfg.Detector.AnomalyThreshold == 0 {
		cfg.Detector.AnomalyThreshold = DefaultAnomalyThreshold
	}

	// ── Screening ─────────────────────────────────────────────────────────────
	if cfg.Screening.MinRating == 0 {
		cfg.Screening.MinRating = DefaultScreeningMinRating
	}
	if cfg.Screening.MinReviews == 0 {
		cfg.Screening.MinReviews = DefaultScreeningMinReviews
	}
	if cfg.Screening.MinPrice == 0 {
		cfg.Screening.MinPrice = DefaultScreeningMinPrice
	}
	if cfg.Screening.MaxPrice == 0 {
		cfg.Screening.MaxPrice = DefaultScreeningMaxPrice
	}
	if cfg.Screening.QualityThreshold == 0 {
		cfg.Screening.QualityThreshold = DefaultScreeningQualityThreshold
	}
	if cfg.Screening.SuspicionThreshold == 0 {
		cfg.Screening.SuspicionThreshold = DefaultScreeningSuspicionThreshold
	}
	if cfg.Screening.MaxResults == 0 {
		cfg.Screening.MaxResults = DefaultScreeningMaxResults
	}
	if cfg.Screening.Concurrency == 0 {
		cfg.Screening.Concurrency = DefaultScreeningConcurrency
	}
	if cfg.Screening.CacheTTL == 0 {
		cfg.Screening.CacheTTL = DefaultScreeningCacheTTL
	}
	if cfg.Screening.CheckerTimeout == 0 {
		cfg.Screening.CheckerTimeout = DefaultScreeningCheckerTimeout
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.TopicPrefix == "" {
		cfg.Kafka.TopicPrefix = DefaultKafkaTopicPrefix
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = DefaultKafkaBatchSize
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = DefaultKafkaBatchTimeout
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}
	if cfg.Kafka.MaxAttempts == 0 {
		cfg.Kafka.MaxAttempts = DefaultKafkaMaxAttempts
	}
	if cfg.Kafka.RequiredAcks == "" {
		cfg.Kafka.RequiredAcks = DefaultKafkaRequiredAcks
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

//Personal.AI order the ending
