package sakura

import (
	"time"

	"github.com/turtacn/SakuraScope/internal/domain/product"
)

// DefaultSuspicionThreshold is the canonical exclusion cutoff.
const DefaultSuspicionThreshold = 0.3

// Report risk cutoffs (strict).
const (
	ReportHighAbove   = 0.7
	ReportMediumAbove = 0.4
)

// Warning tags attached to results.
const (
	WarningInsufficientData = "insufficient_data"
)

// Base score provenance.
const (
	BaseScorePrecomputed = "precomputed"
	BaseScoreHeuristic   = "heuristic"
)

// Report recommendations.
const (
	RecommendAvoid       = "avoid this product: review manipulation is likely"
	RecommendAlternative = "consider other trustworthy products in the same category"
	RecommendTrustworthy = "this product is likely trustworthy"
)

// IsSuspicious reports score > threshold.
func IsSuspicious(score, threshold float64) bool {
	return score > threshold
}

// ListingSnapshot echoes the listing figures the analysis started from.
type ListingSnapshot struct {
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviews_count"`
}

func snapshotOf(p product.Product) ListingSnapshot {
	var s ListingSnapshot
	if r, ok := p.Rating(); ok {
		s.Rating = &r
	}
	if n, ok := p.ReviewsCount(); ok {
		s.ReviewsCount = &n
	}
	return s
}

// AnalysisDetails explains how an AnalysisResult's score was reached.
type AnalysisDetails struct {
	BaseScore          float64            `json:"base_score"`
	BaseScoreSource    string             `json:"base_score_source"`
	StatisticalAnomaly ListingSnapshot    `json:"statistical_anomaly"`
	ReviewPattern      ReviewPattern      `json:"review_pattern"`
	TemporalAnalysis   *TemporalBreakdown `json:"temporal_analysis,omitempty"`
	ConfidenceLevel    float64            `json:"confidence_level"`
}

// AnalysisResult is the final per-product output of the detector.
type AnalysisResult struct {
	ASIN            string          `json:"product_asin"`
	SakuraScore     float64         `json:"sakura_score"`
	ConfidenceLevel float64         `json:"confidence_level"`
	Details         AnalysisDetails `json:"analysis_details"`
	Warnings        []string        `json:"warnings"`
	AnalyzedAt      time.Time       `json:"analyzed_at"`
}

// IsSuspicious reports SakuraScore > threshold.
func (r *AnalysisResult) IsSuspicious(threshold float64) bool {
	return IsSuspicious(r.SakuraScore, threshold)
}

// HasWarning reports whether tag is among the result's warnings.
func (r *AnalysisResult) HasWarning(tag string) bool {
	for _, w := range r.Warnings {
		if w == tag {
			return true
		}
	}
	return false
}

// ClassifyReportRisk tiers a score for reports: HIGH above 0.7, MEDIUM above
// 0.4, else LOW. Stricter than product.SakuraScore.RiskLevel at the edges.
func ClassifyReportRisk(score float64) product.RiskLevel {
	switch {
	case score > ReportHighAbove:
		return product.RiskHigh
	case score > ReportMediumAbove:
		return product.RiskMedium
	default:
		return product.RiskLow
	}
}

// Report is the presentation form of an AnalysisResult.
type Report struct {
	ProductASIN       string            `json:"product_asin"`
	SakuraScore       float64           `json:"sakura_score"`
	RiskLevel         product.RiskLevel `json:"risk_level"`
	ConfidenceLevel   float64           `json:"confidence_level"`
	AnalysisTimestamp string            `json:"analysis_timestamp"`
	Warnings          []string          `json:"warnings"`
	Recommendations   []string          `json:"recommendations"`
	AnalysisDetails   AnalysisDetails   `json:"analysis_details"`
}

// ToReport renders the result using DefaultSuspicionThreshold for the
// recommendation.
func (r *AnalysisResult) ToReport() Report {
	var recs []string
	if r.IsSuspicious(DefaultSuspicionThreshold) {
		recs = []string{RecommendAvoid, RecommendAlternative}
	} else {
		recs = []string{RecommendTrustworthy}
	}
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return Report{
		ProductASIN:       r.ASIN,
		SakuraScore:       r.SakuraScore,
		RiskLevel:         ClassifyReportRisk(r.SakuraScore),
		ConfidenceLevel:   r.ConfidenceLevel,
		AnalysisTimestamp: r.AnalyzedAt.Format(time.RFC3339),
		Warnings:          warnings,
		Recommendations:   recs,
		AnalysisDetails:   r.Details,
	}
}

//Personal.AI order the ending
