package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "SAKURA"

// Sentinel errors returned (wrapped) by Load.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigParseError   = errors.New("config file could not be parsed")
	ErrConfigValidation   = errors.New("config validation failed")
)

var global atomic.Pointer[Config]

// Get returns the Config most recently produced by Load, or nil.
func Get() *Config { return global.Load() }

// ─────────────────────────────────────────────────────────────────────────────
// Load options
// ─────────────────────────────────────────────────────────────────────────────

type loadOptions struct {
	configPath  string
	searchPaths []string
	overrides   map[string]interface{}
}

// LoadOption customises Load.
type LoadOption func(*loadOptions)

// WithConfigPath reads the YAML file at path.
func WithConfigPath(path string) LoadOption {
	return func(o *loadOptions) { o.configPath = path }
}

// WithSearchPaths looks for config.yaml in each directory, in order.
func WithSearchPaths(dirs ...string) LoadOption {
	return func(o *loadOptions) { o.searchPaths = append(o.searchPaths, dirs...) }
}

// WithOverrides sets dotted keys after file and env values, e.g.
// {"detector.batch_size": 20}. Used for command-line flags.
func WithOverrides(overrides map[string]interface{}) LoadOption {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]interface{}, len(overrides))
		}
		for k, v := range overrides {
			o.overrides[k] = v
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────────────────

// newViper builds a Viper instance with YAML file type, the SAKURA_ env
// prefix, automatic env binding and a "." → "_" key replacer, so that
// "detector.batch_size" resolves to SAKURA_DETECTOR_BATCH_SIZE.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerDefaults(v)
	return v
}

// registerDefaults makes every key known to viper. AutomaticEnv only
// resolves keys viper already knows about, so env-only deployments need
// them registered.
func registerDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.grpc_port", d.Server.GRPCPort)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max_body_size", d.Server.MaxBodySize)
	v.SetDefault("server.grpc_reflection", d.Server.GRPCReflection)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)

	v.SetDefault("detector.anomaly_threshold", d.Detector.AnomalyThreshold)
	v.SetDefault("detector.min_reviews_for_analysis", d.Detector.MinReviewsForAnalysis)
	v.SetDefault("detector.batch_size", d.Detector.BatchSize)

	v.SetDefault("screening.min_rating", d.Screening.MinRating)
	v.SetDefault("screening.min_reviews", d.Screening.MinReviews)
	v.SetDefault("screening.min_price", d.Screening.MinPrice)
	v.SetDefault("screening.max_price", d.Screening.MaxPrice)
	v.SetDefault("screening.quality_threshold", d.Screening.QualityThreshold)
	v.SetDefault("screening.suspicion_threshold", d.Screening.SuspicionThreshold)
	v.SetDefault("screening.max_results", d.Screening.MaxResults)
	v.SetDefault("screening.concurrency", d.Screening.Concurrency)
	v.SetDefault("screening.cache_ttl", d.Screening.CacheTTL)
	v.SetDefault("screening.catalog_path", d.Screening.CatalogPath)
	v.SetDefault("screening.checker_url", d.Screening.CheckerURL)
	v.SetDefault("screening.checker_timeout", d.Screening.CheckerTimeout)

	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.pool_size", d.Redis.PoolSize)
	v.SetDefault("redis.min_idle_conns", d.Redis.MinIdleConns)
	v.SetDefault("redis.dial_timeout", d.Redis.DialTimeout)
	v.SetDefault("redis.read_timeout", d.Redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", d.Redis.WriteTimeout)
	v.SetDefault("redis.key_prefix", d.Redis.KeyPrefix)

	v.SetDefault("kafka.enabled", d.Kafka.Enabled)
	v.SetDefault("kafka.brokers", d.Kafka.Brokers)
	v.SetDefault("kafka.client_id", d.Kafka.ClientID)
	v.SetDefault("kafka.topic_prefix", d.Kafka.TopicPrefix)
	v.SetDefault("kafka.batch_size", d.Kafka.BatchSize)
	v.SetDefault("kafka.batch_timeout", d.Kafka.BatchTimeout)
	v.SetDefault("kafka.write_timeout", d.Kafka.WriteTimeout)
	v.SetDefault("kafka.max_attempts", d.Kafka.MaxAttempts)
	v.SetDefault("kafka.required_acks", d.Kafka.RequiredAcks)
	v.SetDefault("kafka.compression", d.Kafka.Compression)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// Load builds a Config from (in increasing precedence) defaults, an optional
// YAML file, SAKURA_* environment variables and explicit overrides. The
// result is validated and published through Get.
//
// With neither WithConfigPath nor WithSearchPaths no file is read.
func Load(opts ...LoadOption) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	v := newViper()
	if err := readConfigFile(v, o); err != nil {
		return nil, err
	}
	for k, val := range o.overrides {
		v.Set(k, val)
	}

	cfg, err := unmarshalAndFinalize(v)
	if err != nil {
		return nil, err
	}
	cfg.source = v.ConfigFileUsed()
	global.Store(cfg)
	return cfg, nil
}

func readConfigFile(v *viper.Viper, o *loadOptions) error {
	switch {
	case o.configPath != "":
		v.SetConfigFile(o.configPath)
	case len(o.searchPaths) > 0:
		v.SetConfigName("config")
		for _, dir := range o.searchPaths {
			v.AddConfigPath(dir)
		}
	default:
		return nil
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrConfigFileNotFound, err)
		}
		return fmt.Errorf("%w: %v", ErrConfigParseError, err)
	}
	return nil
}

// LoadFromFile is Load(WithConfigPath(path)).
func LoadFromFile(path string) (*Config, error) {
	return Load(WithConfigPath(path))
}

// LoadFromEnv builds a Config from SAKURA_* environment variables and
// defaults only, the preferred strategy for containerised deployments.
//
//	SAKURA_<SECTION>_<FIELD>   e.g.  SAKURA_DETECTOR_BATCH_SIZE, SAKURA_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return Load()
}

// unmarshalAndFinalize unmarshals viper state into a Config, applies defaults
// and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	return cfg, nil
}

// MustLoad is Load that panics on error, for main() where a config failure
// is always fatal.
func MustLoad(opts ...LoadOption) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

// ─────────────────────────────────────────────────────────────────────────────
// Hot reload
// ─────────────────────────────────────────────────────────────────────────────

// Watch monitors configPath and calls onChange with the re-parsed Config
// after every write or create event. A change that fails to parse or
// validate is reported to onError (when non-nil) and onChange is skipped, so
// the process never switches to a broken config.
//
// Only settings safe to change at runtime (log level, screening thresholds)
// should be applied by the callback; detector parameters are fixed at
// construction.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := readConfigFile(v, &loadOptions{configPath: configPath}); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("config: reload of %s: %w", e.Name, err))
			}
			return
		}
		cfg.source = configPath
		global.Store(cfg)
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

//Personal.AI order the ending
