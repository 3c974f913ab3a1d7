package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/SakuraScope/internal/domain/product"
)

// Default buckets.
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultAnalysisDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultScreeningBuckets        = []float64{.1, .5, 1, 2.5, 5, 10, 30, 60}
	SakuraScoreBuckets             = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
)

// SakuraMetrics holds every SakuraScope metric. It satisfies the metric
// hooks of the detector (ObserveAnalysis, ObserveBatch) and the screening
// service, and is safe for concurrent use.
type SakuraMetrics struct {
	// Detector
	AnalysesTotal    CounterVec
	AnalysisDuration HistogramVec
	SakuraScore      HistogramVec
	BatchesTotal     CounterVec
	BatchItemsTotal  CounterVec
	BatchDuration    HistogramVec

	// Screening
	ScreeningRunsTotal     CounterVec
	ScreeningDuration      HistogramVec
	ScreenedProductsTotal  CounterVec
	CheckerResponsesTotal  CounterVec
	CacheLookupsTotal      CounterVec
	EventsPublishedTotal   CounterVec
	RecommendedPerRunGauge GaugeVec

	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// gRPC
	GRPCRequestsTotal   CounterVec
	GRPCRequestDuration HistogramVec

	// Health
	ErrorsTotal CounterVec
}

// NewSakuraMetrics registers all metrics on collector.
func NewSakuraMetrics(collector MetricsCollector) *SakuraMetrics {
	m := &SakuraMetrics{}

	m.AnalysesTotal = collector.RegisterCounter("analyses_total", "Products analyzed, by report risk level", "risk")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Single product analysis duration", DefaultAnalysisDurationBuckets)
	m.SakuraScore = collector.RegisterHistogram("sakura_score", "Distribution of final sakura scores", SakuraScoreBuckets)
	m.BatchesTotal = collector.RegisterCounter("batches_total", "Batch analyses run")
	m.BatchItemsTotal = collector.RegisterCounter("batch_items_total", "Batch items, by outcome", "outcome")
	m.BatchDuration = collector.RegisterHistogram("batch_duration_seconds", "Batch analysis duration", DefaultAnalysisDurationBuckets)

	m.ScreeningRunsTotal = collector.RegisterCounter("screening_runs_total", "Screening runs, by status", "status")
	m.ScreeningDuration = collector.RegisterHistogram("screening_duration_seconds", "Screening run duration", DefaultScreeningBuckets)
	m.ScreenedProductsTotal = collector.RegisterCounter("screened_products_total", "Screened products, by disposition", "disposition")
	m.CheckerResponsesTotal = collector.RegisterCounter("checker_responses_total", "External checker responses, by outcome", "outcome")
	m.CacheLookupsTotal = collector.RegisterCounter("cache_lookups_total", "Analysis cache lookups, by result", "result")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Analysis events published, by topic and status", "topic", "status")
	m.RecommendedPerRunGauge = collector.RegisterGauge("screening_last_recommended", "Recommended products in the most recent screening run")

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests")

	m.GRPCRequestsTotal = collector.RegisterCounter("grpc_requests_total", "Total gRPC requests", "service", "method", "code")
	m.GRPCRequestDuration = collector.RegisterHistogram("grpc_request_duration_seconds", "gRPC request duration", DefaultHTTPDurationBuckets, "service", "method")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors, by component and code", "component", "code")

	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Detector hooks
// ─────────────────────────────────────────────────────────────────────────────

// ObserveAnalysis records one analyzed product.
func (m *SakuraMetrics) ObserveAnalysis(risk product.RiskLevel, score float64, elapsed time.Duration) {
	m.AnalysesTotal.WithLabelValues(risk.String()).Inc()
	m.SakuraScore.WithLabelValues().Observe(score)
	m.AnalysisDuration.WithLabelValues().Observe(elapsed.Seconds())
}

// ObserveBatch records one batch run.
func (m *SakuraMetrics) ObserveBatch(analyzed, failed int, elapsed time.Duration) {
	m.BatchesTotal.WithLabelValues().Inc()
	m.BatchItemsTotal.WithLabelValues("analyzed").Add(float64(analyzed))
	m.BatchItemsTotal.WithLabelValues("failed").Add(float64(failed))
	m.BatchDuration.WithLabelValues().Observe(elapsed.Seconds())
}

// ─────────────────────────────────────────────────────────────────────────────
// Screening hooks
// ─────────────────────────────────────────────────────────────────────────────

// ObserveScreening records a finished screening run.
func (m *SakuraMetrics) ObserveScreening(status string, recommended int, elapsed time.Duration) {
	m.ScreeningRunsTotal.WithLabelValues(status).Inc()
	m.ScreeningDuration.WithLabelValues().Observe(elapsed.Seconds())
	m.RecommendedPerRunGauge.WithLabelValues().Set(float64(recommended))
}

// ObserveCandidate records what happened to one screened product.
func (m *SakuraMetrics) ObserveCandidate(disposition string) {
	m.ScreenedProductsTotal.WithLabelValues(disposition).Inc()
}

// ObserveCheck records an external checker outcome.
func (m *SakuraMetrics) ObserveCheck(outcome string) {
	m.CheckerResponsesTotal.WithLabelValues(outcome).Inc()
}

// ObserveCache records an analysis cache lookup.
func (m *SakuraMetrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObservePublish records an event publication attempt.
func (m *SakuraMetrics) ObservePublish(topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublishedTotal.WithLabelValues(topic, status).Inc()
}

// ─────────────────────────────────────────────────────────────────────────────
// HTTP, gRPC and errors
// ─────────────────────────────────────────────────────────────────────────────

// RecordHTTPRequest records a served request. route is the router pattern,
// not the raw path, to keep label cardinality bounded.
func (m *SakuraMetrics) RecordHTTPRequest(method, route string, statusCode int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RequestStarted and RequestFinished track in-flight requests.
func (m *SakuraMetrics) RequestStarted()  { m.HTTPActiveRequests.WithLabelValues().Inc() }
func (m *SakuraMetrics) RequestFinished() { m.HTTPActiveRequests.WithLabelValues().Dec() }

// RecordGRPCRequest records a finished unary call or stream.
func (m *SakuraMetrics) RecordGRPCRequest(service, method, code string, elapsed time.Duration) {
	m.GRPCRequestsTotal.WithLabelValues(service, method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(service, method).Observe(elapsed.Seconds())
}

// RecordError counts an error by component and error code.
func (m *SakuraMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
