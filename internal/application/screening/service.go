// Package screening runs the affiliate screening workflow: search for
// candidate products, drop obvious non-starters, score the rest with the
// sakura detector (optionally cross-checked by an external checker), and
// rank what is left by a 0–100 quality score.
package screening

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SakuraScope/internal/config"
	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// ============================================================================
// Configuration & collaborators
// ============================================================================

type Config struct {
	MinRating          float64
	MinReviews         int
	MinPrice           float64
	MaxPrice           float64
	QualityThreshold   float64
	SuspicionThreshold float64
	MaxResults         int
	Concurrency        int
}

func DefaultConfig() Config {
	return Config{
		MinRating:          3.5,
		MinReviews:         50,
		MinPrice:           1000,
		MaxPrice:           500000,
		QualityThreshold:   70,
		SuspicionThreshold: sakura.DefaultSuspicionThreshold,
		MaxResults:         20,
		Concurrency:        4,
	}
}

// ConfigFrom maps the loaded screening section onto a workflow Config.
// Zero fields keep their DefaultConfig values.
func ConfigFrom(c config.ScreeningConfig) Config {
	out := DefaultConfig()
	if c.MinRating > 0 {
		out.MinRating = c.MinRating
	}
	if c.MinReviews > 0 {
		out.MinReviews = c.MinReviews
	}
	if c.MinPrice > 0 {
		out.MinPrice = c.MinPrice
	}
	if c.MaxPrice > 0 {
		out.MaxPrice = c.MaxPrice
	}
	if c.QualityThreshold > 0 {
		out.QualityThreshold = c.QualityThreshold
	}
	if c.SuspicionThreshold > 0 {
		out.SuspicionThreshold = c.SuspicionThreshold
	}
	if c.MaxResults > 0 {
		out.MaxResults = c.MaxResults
	}
	if c.Concurrency > 0 {
		out.Concurrency = c.Concurrency
	}
	return out
}

func (c Config) Validate() error {
	switch {
	case c.MinPrice < 0 || c.MaxPrice < c.MinPrice:
		return errors.InvalidParam("screening: invalid price range")
	case c.QualityThreshold < 0 || c.QualityThreshold > maxQuality:
		return errors.InvalidParam("screening: quality threshold must be within [0, 100]")
	case c.SuspicionThreshold < 0 || c.SuspicionThreshold > 1:
		return errors.InvalidParam("screening: suspicion threshold must be within [0, 1]")
	case c.MaxResults < 1:
		return errors.InvalidParam("screening: max results must be ≥ 1")
	case c.Concurrency < 1:
		return errors.InvalidParam("screening: concurrency must be ≥ 1")
	}
	return nil
}

// Analyzer is the detector operation the workflow depends on.
type Analyzer interface {
	AnalyzeProduct(p product.Product, reviews []product.Review, history []product.RatingSnapshot) (*sakura.AnalysisResult, error)
}

// ResultCache serves detector results by ASIN, running analyze on a miss.
// Concurrent lookups for one ASIN share a single analyze call; hit reports
// whether the result came from the cache rather than from this caller's
// analyze.
type ResultCache interface {
	GetOrAnalyze(ctx context.Context, asin string, analyze func(ctx context.Context) (*sakura.AnalysisResult, error)) (res *sakura.AnalysisResult, hit bool, err error)
}

// EventPublisher announces per-candidate outcomes.
type EventPublisher interface {
	AnalysisCompleted(ctx context.Context, runID string, c Candidate) error
	ProductFlagged(ctx context.Context, runID string, c Candidate) error
}

// Metrics receives workflow observations.
type Metrics interface {
	ObserveScreening(status string, recommended int, elapsed time.Duration)
	ObserveCandidate(disposition string)
	ObserveCheck(outcome string)
	ObserveCache(hit bool)
}

type noopMetrics struct{}

func (noopMetrics) ObserveScreening(string, int, time.Duration) {}
func (noopMetrics) ObserveCandidate(string)                     {}
func (noopMetrics) ObserveCheck(string)                         {}
func (noopMetrics) ObserveCache(bool)                           {}

// ============================================================================
// Results
// ============================================================================

type Disposition string

const (
	DispositionRecommended Disposition = "recommended"
	DispositionSuspicious  Disposition = "suspicious"
	DispositionLowQuality  Disposition = "low_quality"
	DispositionFailed      Disposition = "failed"
	// DispositionFiltered is only reported to metrics; filtered products do
	// not become candidates.
	DispositionFiltered Disposition = "filtered"
)

// Score sources for Candidate.ScoreSource.
const (
	SourceDetector = "detector"
	SourceChecker  = "checker"
)

// Candidate is one screened product.
type Candidate struct {
	Product      product.Product        `json:"product"`
	Analysis     *sakura.AnalysisResult `json:"analysis,omitempty"`
	Check        *CheckOutcome          `json:"check,omitempty"`
	SakuraScore  float64                `json:"sakura_score"`
	ScoreSource  string                 `json:"score_source,omitempty"`
	QualityScore float64                `json:"quality_score"`
	Suspicious   bool                   `json:"suspicious"`
	Recommended  bool                   `json:"recommended"`
	Disposition  Disposition            `json:"disposition"`
	CacheHit     bool                   `json:"cache_hit"`
	Error        string                 `json:"error,omitempty"`
}

// Result summarises one Screen run.
type Result struct {
	RunID            string        `json:"run_id"`
	Keyword          string        `json:"keyword"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration_ns"`
	Found            int           `json:"found"`
	Filtered         int           `json:"filtered"`
	Processed        int           `json:"processed"`
	Failed           int           `json:"failed"`
	RecommendedCount int           `json:"recommended_count"`
	// QualityScore is the mean candidate quality over processed products.
	QualityScore float64     `json:"quality_score"`
	Candidates   []Candidate `json:"candidates"`
}

// Recommended returns the recommended candidates in rank order.
func (r *Result) Recommended() []Candidate {
	out := make([]Candidate, 0, r.RecommendedCount)
	for _, c := range r.Candidates {
		if c.Recommended {
			out = append(out, c)
		}
	}
	return out
}

// ============================================================================
// Service
// ============================================================================

type Service struct {
	mu       sync.RWMutex
	cfg      Config
	provider SearchProvider
	analyzer Analyzer
	checker  Checker
	cache    ResultCache
	events   EventPublisher
	metrics  Metrics
	logger   logging.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

func WithChecker(c Checker) Option          { return func(s *Service) { s.checker = c } }
func WithCache(c ResultCache) Option        { return func(s *Service) { s.cache = c } }
func WithEvents(e EventPublisher) Option    { return func(s *Service) { s.events = e } }
func WithMetrics(m Metrics) Option          { return func(s *Service) { s.metrics = m } }
func WithLogger(l logging.Logger) Option    { return func(s *Service) { s.logger = l } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithRunIDs overrides the run ID generator (uuid by default).
func WithRunIDs(newID func() string) Option { return func(s *Service) { s.newID = newID } }

func NewService(cfg Config, provider SearchProvider, analyzer Analyzer, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil || analyzer == nil {
		return nil, errors.InvalidParam("screening: search provider and analyzer are required")
	}
	s := &Service{
		cfg:      cfg,
		provider: provider,
		analyzer: analyzer,
		metrics:  noopMetrics{},
		logger:   logging.NewNopLogger(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("screening")
	return s, nil
}

// Config returns the configuration new runs will use.
func (s *Service) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateConfig swaps the thresholds used by subsequent runs. Runs already
// in progress finish with the configuration they started with.
func (s *Service) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.logger.Info("screening config updated",
		logging.Float64("min_rating", cfg.MinRating),
		logging.Int("min_reviews", cfg.MinReviews),
		logging.Float64("quality_threshold", cfg.QualityThreshold),
		logging.Float64("suspicion_threshold", cfg.SuspicionThreshold),
	)
	return nil
}

// Screen runs the workflow for keyword. max ≤ 0 uses Config.MaxResults.
//
// A search provider failure aborts the run with SAK_006. Failures of a
// single product (analysis, cache, checker, events) never abort the run:
// the product is marked failed or the step is skipped.
func (s *Service) Screen(ctx context.Context, keyword string, max int) (*Result, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.InvalidParam("screening: keyword must not be empty")
	}
	cfg := s.Config()
	if max <= 0 || max > cfg.MaxResults {
		max = cfg.MaxResults
	}

	start := s.now()
	res := &Result{RunID: s.newID(), Keyword: keyword, StartedAt: start}
	log := s.logger.With(logging.String("run_id", res.RunID), logging.String("keyword", keyword))
	log.Info("screening started", logging.Int("max", max))

	found, err := s.provider.Search(ctx, keyword, max)
	if err != nil {
		s.metrics.ObserveScreening("error", 0, s.now().Sub(start))
		log.Error("search provider failed", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeSearchProviderFailed, "search provider failed")
	}
	if len(found) > max {
		found = found[:max]
	}
	res.Found = len(found)

	kept := make([]product.Product, 0, len(found))
	for _, p := range found {
		if ok, reason := cfg.passesEarlyFilter(p); !ok {
			res.Filtered++
			s.metrics.ObserveCandidate(string(DispositionFiltered))
			log.Debug("early filter excluded product", logging.ASIN(p.ASIN()), logging.String("reason", reason))
			continue
		}
		kept = append(kept, p)
	}

	candidates := make([]Candidate, len(kept))
	var g errgroup.Group
	g.SetLimit(cfg.Concurrency)
	for i, p := range kept {
		i, p := i, p
		g.Go(func() error {
			candidates[i] = s.evaluate(ctx, cfg, res.RunID, p, log)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		s.metrics.ObserveScreening("cancelled", 0, s.now().Sub(start))
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "screening cancelled")
	}

	rank(candidates)

	var qualitySum float64
	for _, c := range candidates {
		if c.Disposition == DispositionFailed {
			res.Failed++
			continue
		}
		res.Processed++
		qualitySum += c.QualityScore
		if c.Recommended {
			res.RecommendedCount++
		}
	}
	if res.Processed > 0 {
		res.QualityScore = qualitySum / float64(res.Processed)
	}
	res.Candidates = candidates
	res.Duration = s.now().Sub(start)

	status := "ok"
	if res.Processed == 0 {
		status = "empty"
	}
	s.metrics.ObserveScreening(status, res.RecommendedCount, res.Duration)
	log.Info("screening completed",
		logging.Int("found", res.Found),
		logging.Int("filtered", res.Filtered),
		logging.Int("processed", res.Processed),
		logging.Int("failed", res.Failed),
		logging.Int("recommended", res.RecommendedCount),
		logging.Duration("elapsed", res.Duration),
	)
	return res, nil
}

func (s *Service) evaluate(ctx context.Context, cfg Config, runID string, p product.Product, log logging.Logger) Candidate {
	c := Candidate{Product: p}

	analysis, hit, err := s.analysis(ctx, p, log)
	if err != nil {
		c.Disposition = DispositionFailed
		c.Error = err.Error()
		s.metrics.ObserveCandidate(string(c.Disposition))
		log.Warn("candidate analysis failed", logging.ASIN(p.ASIN()), logging.Err(err))
		return c
	}
	c.Analysis = analysis
	c.CacheHit = hit
	c.SakuraScore = analysis.SakuraScore
	c.ScoreSource = SourceDetector

	if s.checker != nil {
		out := s.checker.Check(ctx, p.ASIN())
		s.metrics.ObserveCheck(out.Kind.String())
		c.Check = &out
		if out.Valid() && out.SakuraScore > c.SakuraScore {
			c.SakuraScore = out.SakuraScore
			c.ScoreSource = SourceChecker
		}
	}

	c.QualityScore = QualityScore(p, c.SakuraScore)
	c.Suspicious = sakura.IsSuspicious(c.SakuraScore, cfg.SuspicionThreshold)
	c.Recommended = c.QualityScore >= cfg.QualityThreshold && !c.Suspicious
	switch {
	case c.Recommended:
		c.Disposition = DispositionRecommended
	case c.Suspicious:
		c.Disposition = DispositionSuspicious
	default:
		c.Disposition = DispositionLowQuality
	}
	s.metrics.ObserveCandidate(string(c.Disposition))
	log.Debug("candidate screened",
		logging.ASIN(p.ASIN()),
		logging.Score(c.SakuraScore),
		logging.Float64("quality_score", c.QualityScore),
		logging.String("disposition", string(c.Disposition)),
	)

	if s.events != nil {
		if err := s.events.AnalysisCompleted(ctx, runID, c); err != nil {
			log.Warn("analysis event not published", logging.ASIN(p.ASIN()), logging.Err(err))
		}
		if !c.Recommended {
			if err := s.events.ProductFlagged(ctx, runID, c); err != nil {
				log.Warn("flag event not published", logging.ASIN(p.ASIN()), logging.Err(err))
			}
		}
	}
	return c
}

// analysis returns the detector result for p through the result cache when
// one is configured. A cache failure degrades to a direct analysis; an
// analysis failure is returned as is.
func (s *Service) analysis(ctx context.Context, p product.Product, log logging.Logger) (*sakura.AnalysisResult, bool, error) {
	analyze := func(context.Context) (*sakura.AnalysisResult, error) {
		return s.analyzer.AnalyzeProduct(p, nil, nil)
	}
	if s.cache == nil {
		res, err := analyze(ctx)
		return res, false, err
	}

	var analyzeErr error
	res, hit, err := s.cache.GetOrAnalyze(ctx, p.ASIN(), func(ctx context.Context) (*sakura.AnalysisResult, error) {
		r, err := analyze(ctx)
		analyzeErr = err
		return r, err
	})
	switch {
	case err == nil:
		s.metrics.ObserveCache(hit)
		return res, hit, nil
	case analyzeErr != nil:
		return nil, false, analyzeErr
	}

	log.Warn("result cache unavailable, analyzing directly", logging.ASIN(p.ASIN()), logging.Err(err))
	res, err = analyze(ctx)
	return res, false, err
}

func tier(d Disposition) int {
	switch d {
	case DispositionRecommended:
		return 0
	case DispositionFailed:
		return 2
	default:
		return 1
	}
}

// rank orders recommended candidates by descending quality, then the other
// screened candidates by ascending sakura score, then failures. Ties keep
// search order.
func rank(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		ti, tj := tier(cs[i].Disposition), tier(cs[j].Disposition)
		if ti != tj {
			return ti < tj
		}
		switch ti {
		case 0:
			return cs[i].QualityScore > cs[j].QualityScore
		case 1:
			return cs[i].SakuraScore < cs[j].SakuraScore
		}
		return false
	})
}

//Personal.AI order the ending
