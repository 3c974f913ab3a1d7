package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultGRPCPort, cfg.Server.GRPCPort)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, 0.3, cfg.Detector.AnomalyThreshold)
	assert.Equal(t, 10, cfg.Detector.MinReviewsForAnalysis)
	assert.Equal(t, 10, cfg.Detector.BatchSize)

	assert.Equal(t, 3.5, cfg.Screening.MinRating)
	assert.Equal(t, 50, cfg.Screening.MinReviews)
	assert.Equal(t, 1000.0, cfg.Screening.MinPrice)
	assert.Equal(t, 500000.0, cfg.Screening.MaxPrice)
	assert.Equal(t, 70.0, cfg.Screening.QualityThreshold)
	assert.Equal(t, 0.3, cfg.Screening.SuspicionThreshold)
	assert.Equal(t, time.Hour, cfg.Screening.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.Screening.CheckerTimeout)
	assert.Empty(t, cfg.Screening.CheckerURL)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "sakura:", cfg.Redis.KeyPrefix)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, "all", cfg.Kafka.RequiredAcks)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Detector.BatchSize = 25
	cfg.Kafka.Brokers = []string{"kafka-1:9092", "kafka-2:9092"}
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Detector.BatchSize)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
