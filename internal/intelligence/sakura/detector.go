// Package sakura implements the sakura (fake review) detection engine: peer
// statistics, review-pattern heuristics, temporal burst/surge/periodicity
// detectors, the auxiliary scorers and the Detector that aggregates them.
//
// Every scorer is a pure function over in-memory values and returns a value
// in [0,1]. Empty or degenerate inputs yield a neutral value instead of an
// error.
package sakura

import (
	"fmt"
	"sort"
	"time"

	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Detector defaults.
const (
	DefaultAnomalyThreshold      = 0.3
	DefaultMinReviewsForAnalysis = 10
	DefaultBatchSize             = 10

	// LowConfidence is the confidence assigned when the listing has fewer
	// reviews than MinReviewsForAnalysis.
	LowConfidence = 0.3

	// suspiciousPatternPenalty and temporalWeight overlay the base score.
	suspiciousPatternPenalty = 0.3
	temporalWeight           = 0.2
)

// Config holds the parameters fixed for the lifetime of a Detector.
type Config struct {
	// AnomalyThreshold is the score above which this detector flags a
	// product (IsFlagged).
	AnomalyThreshold float64 `json:"anomaly_threshold" yaml:"anomaly_threshold"`

	// MinReviewsForAnalysis is the listing review count below which results
	// carry the insufficient_data warning and low confidence.
	MinReviewsForAnalysis int `json:"min_reviews_for_analysis" yaml:"min_reviews_for_analysis"`

	// BatchSize is the chunk size used by BatchAnalyze.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		AnomalyThreshold:      DefaultAnomalyThreshold,
		MinReviewsForAnalysis: DefaultMinReviewsForAnalysis,
		BatchSize:             DefaultBatchSize,
	}
}

// Validate rejects out-of-range parameters.
func (c Config) Validate() error {
	if c.AnomalyThreshold < 0 || c.AnomalyThreshold > 1 {
		return errors.InvalidParam("anomaly_threshold must be within [0,1]").
			WithDetail(fmt.Sprintf("got %v", c.AnomalyThreshold))
	}
	if c.MinReviewsForAnalysis < 0 {
		return errors.InvalidParam("min_reviews_for_analysis must not be negative")
	}
	if c.BatchSize < 1 {
		return errors.InvalidParam("batch_size must be at least 1")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// Metrics receives detector telemetry. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveAnalysis(risk product.RiskLevel, score float64, elapsed time.Duration)
	ObserveBatch(analyzed, failed int, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveAnalysis(product.RiskLevel, float64, time.Duration) {}
func (noopMetrics) ObserveBatch(int, int, time.Duration)                      {}

// Option customises a Detector.
type Option func(*Detector)

// WithLogger sets the logger; nil keeps the nop logger.
func WithLogger(l logging.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the metrics sink; nil keeps the noop sink.
func WithMetrics(m Metrics) Option {
	return func(d *Detector) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithClock overrides time.Now, for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// ---------------------------------------------------------------------------
// Detector
// ---------------------------------------------------------------------------

// Detector aggregates the individual scorers into one AnalysisResult per
// product. It holds no mutable state; one instance may serve concurrent
// callers.
type Detector struct {
	cfg     Config
	logger  logging.Logger
	metrics Metrics
	now     func() time.Time
}

// NewDetector validates cfg and builds a Detector.
func NewDetector(cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{
		cfg:     cfg,
		logger:  logging.NewNopLogger(),
		metrics: noopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("sakura")
	d.logger.Info("sakura detector initialized",
		logging.Float64("anomaly_threshold", cfg.AnomalyThreshold),
		logging.Int("min_reviews_for_analysis", cfg.MinReviewsForAnalysis),
		logging.Int("batch_size", cfg.BatchSize),
	)
	return d, nil
}

// Config returns the detector's parameters.
func (d *Detector) Config() Config { return d.cfg }

// IsFlagged applies the detector's AnomalyThreshold to a result.
func (d *Detector) IsFlagged(r *AnalysisResult) bool {
	return r != nil && r.IsSuspicious(d.cfg.AnomalyThreshold)
}

// AnalyzeProduct scores one product. Reviews and history are optional.
//
// The base score is the product's precomputed sakura score, or
// CalculateBasicScore when none is stored. A suspicious review pattern adds
// 0.3; with rating history or at least 10 reviews the temporal score is added
// at 20% weight. The result is capped at 1.
//
// An empty ASIN or an invalid review is rejected.
func (d *Detector) AnalyzeProduct(p product.Product, reviews []product.Review, history []product.RatingSnapshot) (*AnalysisResult, error) {
	start := d.now()
	if p.ASIN() == "" {
		return nil, errors.New(errors.ErrCodeProductInvalid, "product has no asin")
	}
	for _, r := range reviews {
		if err := r.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid review for product").WithDetail("asin=" + p.ASIN())
		}
	}

	result := &AnalysisResult{
		ASIN:            p.ASIN(),
		ConfidenceLevel: 1.0,
		Warnings:        []string{},
	}
	if p.ReviewsCountOrZero() < d.cfg.MinReviewsForAnalysis {
		result.Warnings = append(result.Warnings, WarningInsufficientData)
		result.ConfidenceLevel = LowConfidence
	}

	score, source := d.baseScore(p)
	details := AnalysisDetails{
		BaseScore:          score,
		BaseScoreSource:    source,
		StatisticalAnomaly: snapshotOf(p),
	}

	if len(reviews) > 0 {
		details.ReviewPattern = AnalyzeReviewPattern(reviews)
		if details.ReviewPattern.HasSuspiciousPattern {
			score = clamp01(score + suspiciousPatternPenalty)
		}
	}

	if len(history) > 0 || len(reviews) >= MinReviewsForBurst {
		temporal := AnalyzeTemporal(history, reviews)
		details.TemporalAnalysis = &temporal
		score = clamp01(score + temporal.TemporalScore*temporalWeight)
	}

	details.ConfidenceLevel = result.ConfidenceLevel
	result.SakuraScore = clamp01(score)
	result.Details = details
	result.AnalyzedAt = d.now()

	d.metrics.ObserveAnalysis(ClassifyReportRisk(result.SakuraScore), result.SakuraScore, d.now().Sub(start))
	d.logger.Debug("product analyzed",
		logging.ASIN(result.ASIN),
		logging.Score(result.SakuraScore),
		logging.Float64("confidence", result.ConfidenceLevel),
	)
	return result, nil
}

func (d *Detector) baseScore(p product.Product) (float64, string) {
	if s, ok := p.SakuraScore(); ok {
		return s, BaseScorePrecomputed
	}
	return CalculateBasicScore(p), BaseScoreHeuristic
}

// BatchAnalyze scores products in chunks of BatchSize. A product that fails
// (error or panic) is logged and left out; the rest are returned sorted by
// descending score, ties keeping input order.
func (d *Detector) BatchAnalyze(products []product.Product) []*AnalysisResult {
	if len(products) == 0 {
		return []*AnalysisResult{}
	}
	start := d.now()
	log := d.logger.Named("batch")
	log.Info("starting batch analysis", logging.Int("products", len(products)))

	results := make([]*AnalysisResult, 0, len(products))
	failed := 0
	for lo := 0; lo < len(products); lo += d.cfg.BatchSize {
		hi := lo + d.cfg.BatchSize
		if hi > len(products) {
			hi = len(products)
		}
		for _, p := range products[lo:hi] {
			r, err := d.safeAnalyze(p)
			if err != nil {
				failed++
				log.Error("product analysis failed, skipping", logging.ASIN(p.ASIN()), logging.Err(err))
				continue
			}
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SakuraScore > results[j].SakuraScore
	})

	d.metrics.ObserveBatch(len(results), failed, d.now().Sub(start))
	log.Info("batch analysis completed",
		logging.Int("analyzed", len(results)),
		logging.Int("failed", failed),
	)
	return results
}

func (d *Detector) safeAnalyze(p product.Product) (res *AnalysisResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res = nil
			err = errors.New(errors.ErrCodeAnalysisFailed, "panic during analysis").
				WithDetail(fmt.Sprintf("asin=%s: %v", p.ASIN(), rec))
		}
	}()
	return d.AnalyzeProduct(p, nil, nil)
}

//Personal.AI order the ending
