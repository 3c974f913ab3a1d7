// API server entry point for SakuraScope.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/SakuraScope/internal/application/screening"
	"github.com/turtacn/SakuraScope/internal/config"
	"github.com/turtacn/SakuraScope/internal/infrastructure/database/redis"
	"github.com/turtacn/SakuraScope/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	grpcserver "github.com/turtacn/SakuraScope/internal/interfaces/grpc"
	httpserver "github.com/turtacn/SakuraScope/internal/interfaces/http"
	"github.com/turtacn/SakuraScope/internal/interfaces/http/handlers"
	"github.com/turtacn/SakuraScope/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

const (
	eventSource       = "sakurascope-apiserver"
	topicSetupTimeout = 15 * time.Second
	requestTimeout    = 60 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: configs/config.yaml if present)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	grpcPort := flag.Int("grpc-port", 0, "gRPC port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *httpPort, *grpcPort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("API server exited with error", logging.Err(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// loadConfig reads the explicit file, or configs/config.yaml and
// ./config.yaml when present, else environment and defaults.
func loadConfig(path string, httpPort, grpcPort int) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if httpPort > 0 {
		overrides["server.port"] = httpPort
	}
	if grpcPort > 0 {
		overrides["server.grpc_port"] = grpcPort
	}

	if path != "" {
		return config.Load(config.WithConfigPath(path), config.WithOverrides(overrides))
	}
	cfg, err := config.Load(config.WithSearchPaths("configs", "."), config.WithOverrides(overrides))
	if errors.Is(err, config.ErrConfigFileNotFound) {
		return config.Load(config.WithOverrides(overrides))
	}
	return cfg, err
}

func newLogger(c config.LogConfig) (logging.Logger, error) {
	lc := logging.LogConfig{Level: c.Level, Format: c.Format}
	if c.Output != "" {
		lc.OutputPaths = []string{c.Output}
	}
	return logging.NewLogger(lc)
}

// components are the long-lived dependencies built from config. Closers run
// in reverse order on shutdown.
type components struct {
	metrics  *prometheus.SakuraMetrics
	registry prometheus.MetricsCollector
	detector *sakura.Detector
	screener *screening.Service
	results  *redis.AnalysisCache
	checks   []handlers.HealthChecker
	closers  []func() error
}

func (c *components) close(logger logging.Logger) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logger.Warn("component close failed", logging.Err(err))
		}
	}
}

func buildComponents(ctx context.Context, cfg *config.Config, logger logging.Logger) (*components, error) {
	c := &components{}

	detectorOpts := []sakura.Option{sakura.WithLogger(logger)}
	screeningOpts := []screening.Option{screening.WithLogger(logger)}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
			ConstLabels:          map[string]string{"version": version},
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("metrics collector: %w", err)
		}
		c.registry = collector
		c.metrics = prometheus.NewSakuraMetrics(collector)
		detectorOpts = append(detectorOpts, sakura.WithMetrics(c.metrics))
		screeningOpts = append(screeningOpts, screening.WithMetrics(c.metrics))
	}

	detector, err := sakura.NewDetector(sakura.Config{
		AnomalyThreshold:      cfg.Detector.AnomalyThreshold,
		MinReviewsForAnalysis: cfg.Detector.MinReviewsForAnalysis,
		BatchSize:             cfg.Detector.BatchSize,
	}, detectorOpts...)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	c.detector = detector

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(redis.RedisConfig{
			Addrs:        []string{cfg.Redis.Addr},
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		c.checks = append(c.checks, handlers.CheckFunc{Component: "redis", Fn: client.Ping})

		cache := redis.NewRedisCache(client, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Screening.CacheTTL))
		c.results = redis.NewAnalysisCache(cache, cfg.Screening.CacheTTL)
		screeningOpts = append(screeningOpts, screening.WithCache(c.results))
		logger.Info("analysis result cache enabled", logging.String("addr", cfg.Redis.Addr))
	}

	if cfg.Kafka.Enabled {
		events, closeFn, err := newEvents(ctx, cfg.Kafka, c.metrics, logger)
		if err != nil {
			c.close(logger)
			return nil, err
		}
		c.closers = append(c.closers, closeFn)
		screeningOpts = append(screeningOpts, screening.WithEvents(events))
	}

	if url := cfg.Screening.CheckerURL; url != "" {
		screeningOpts = append(screeningOpts,
			screening.WithChecker(screening.NewHTTPChecker(url, cfg.Screening.CheckerTimeout, logger)))
	}

	var provider *screening.CatalogProvider
	if path := cfg.Screening.CatalogPath; path != "" {
		provider, err = screening.NewCatalogProvider(path, logger)
		if err != nil {
			c.close(logger)
			return nil, fmt.Errorf("catalog: %w", err)
		}
		logger.Info("screening catalog loaded", logging.String("path", path), logging.Int("products", provider.Len()))
	} else {
		logger.Warn("screening.catalog_path is not set; screening searches an empty catalog")
		provider = screening.NewStaticProvider(nil)
	}

	c.screener, err = screening.NewService(screening.ConfigFrom(cfg.Screening), provider, detector, screeningOpts...)
	if err != nil {
		c.close(logger)
		return nil, fmt.Errorf("screening: %w", err)
	}
	return c, nil
}

func newEvents(ctx context.Context, kc config.KafkaConfig, metrics *prometheus.SakuraMetrics, logger logging.Logger) (*screening.KafkaEvents, func() error, error) {
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:          kc.Brokers,
		ClientID:         kc.ClientID,
		Acks:             kc.RequiredAcks,
		MaxRetries:       kc.MaxAttempts,
		BatchSize:        kc.BatchSize,
		BatchTimeout:     kc.BatchTimeout,
		CompressionCodec: kc.Compression,
		WriteTimeout:     kc.WriteTimeout,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	tm, err := kafka.NewTopicManager(kc.Brokers, logger)
	if err != nil {
		logger.Warn("kafka topic setup skipped", logging.Err(err))
	} else {
		setupCtx, cancel := context.WithTimeout(ctx, topicSetupTimeout)
		if err := tm.EnsureTopics(setupCtx, kafka.DefaultTopics(kc.TopicPrefix)); err != nil {
			logger.Warn("kafka topic setup failed", logging.Err(err))
		}
		cancel()
		_ = tm.Close()
	}

	opts := []kafka.PublisherOption{kafka.WithPublisherLogger(logger)}
	if metrics != nil {
		opts = append(opts, kafka.WithPublishObserver(metrics))
	}
	pub := kafka.NewEventPublisher(producer, eventSource, kc.TopicPrefix, opts...)
	logger.Info("analysis events enabled", logging.Any("brokers", kc.Brokers))
	closeFn := func() error {
		m := producer.GetMetrics()
		logger.Info("kafka producer closing",
			logging.Int64("messages_sent", m.MessagesSent.Load()),
			logging.Int64("messages_failed", m.MessagesFailed.Load()),
			logging.Int64("bytes_sent", m.BytesSent.Load()))
		return producer.Close()
	}
	return screening.NewKafkaEvents(pub), closeFn, nil
}

// applyRuntimeConfig applies the settings that may change without a
// restart: the log level and the screening thresholds.
func applyRuntimeConfig(cfg *config.Config, logger logging.Logger, screener *screening.Service) {
	if logging.SetLevel(logger, cfg.Log.Level) {
		logger.Info("log level applied", logging.String("level", cfg.Log.Level))
	}
	if err := screener.UpdateConfig(screening.ConfigFrom(cfg.Screening)); err != nil {
		logger.Warn("reloaded screening config rejected", logging.Err(err))
	}
}

func watchConfig(path string, logger logging.Logger, screener *screening.Service) {
	err := config.Watch(path,
		func(cfg *config.Config) {
			logger.Info("configuration reloaded", logging.String("path", path))
			applyRuntimeConfig(cfg, logger, screener)
		},
		func(err error) { logger.Warn("configuration reload ignored", logging.Err(err)) },
	)
	if err != nil {
		logger.Warn("configuration hot reload disabled", logging.String("path", path), logging.Err(err))
		return
	}
	logger.Info("watching configuration for changes", logging.String("path", path))
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting SakuraScope API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("http_addr", cfg.Server.Addr()),
		logging.String("grpc_addr", cfg.Server.GRPCAddr()),
	)

	comps, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer comps.close(logger)

	if path := cfg.SourceFile(); path != "" {
		watchConfig(path, logger, comps.screener)
	}

	maxBody := cfg.Server.MaxBodySize
	routerCfg := httpserver.RouterConfig{
		AnalysisHandler:  handlers.NewAnalysisHandler(comps.detector, cfg.Screening.SuspicionThreshold, maxBody, logger),
		ScreeningHandler: handlers.NewScreeningHandler(comps.screener, maxBody, logger),
		HealthHandler:    handlers.NewHealthHandler(version, comps.checks...),
		Logger:           logger,
		Logging:          middleware.DefaultLoggingConfig(),
		RequestTimeout:   requestTimeout,
	}
	if comps.results != nil {
		routerCfg.CacheHandler = handlers.NewCacheHandler(comps.results, logger)
	}
	if comps.metrics != nil {
		routerCfg.Metrics = comps.metrics
		routerCfg.MetricsHandler = comps.registry.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	httpSrv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	grpcOpts := []grpcserver.Option{
		grpcserver.WithLogger(logger),
		grpcserver.WithGracefulTimeout(cfg.Server.ShutdownTimeout),
		grpcserver.WithAnalysis(grpcserver.NewAnalysisServer(comps.detector, cfg.Screening.SuspicionThreshold, logger)),
	}
	if comps.metrics != nil {
		grpcOpts = append(grpcOpts, grpcserver.WithMetrics(comps.metrics))
	}
	grpcSrv, err := grpcserver.NewServer(cfg.Server, grpcOpts...)
	if err != nil {
		return fmt.Errorf("grpc server: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := httpSrv.Start(); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := grpcSrv.Start(); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	if err := grpcSrv.Stop(context.Background()); err != nil {
		logger.Error("gRPC server shutdown error", logging.Err(err))
	}
	if err := httpSrv.Stop(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("servers stopped")
	return runErr
}

//Personal.AI order the ending
