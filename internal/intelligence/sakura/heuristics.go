package sakura

import (
	"math"
	"strings"

	"github.com/turtacn/SakuraScope/internal/domain/product"
)

// ---------------------------------------------------------------------------
// Distribution bias
// ---------------------------------------------------------------------------

// fiveStarBiasFloor is the minimum bias for a histogram whose 5-star share
// reaches product.FiveStarNaturalCeiling.
const fiveStarBiasFloor = 0.75

// CalculateDistributionBias measures how far a 5-bucket star histogram
// (index 0 = 1 star) is from uniform: 1 - H/log2(5), where H is the Shannon
// entropy in bits. An empty or all-zero histogram gives 0.
func CalculateDistributionBias(distribution []int) float64 {
	total := 0
	for _, c := range distribution {
		if c > 0 {
			total += c
		}
	}
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, c := range distribution {
		if c <= 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	bias := 1.0 - entropy/math.Log2(5)

	if len(distribution) > 4 && distribution[4] > 0 &&
		float64(distribution[4])/float64(total) >= product.FiveStarNaturalCeiling {
		bias = math.Max(bias, fiveStarBiasFloor)
	}
	return clamp01(bias)
}

// ---------------------------------------------------------------------------
// Correlation anomaly
// ---------------------------------------------------------------------------

// Correlation anomaly gates.
const (
	correlationMinRating  = 4.5
	correlationMinReviews = 1000
	correlationExcess     = 2.0
)

// AnalyzeCorrelationAnomaly fits review count against rating over the peers
// and scores a highly rated (>4.5), heavily reviewed (>1000) product whose
// review count exceeds twice the fitted expectation: (actual/expected-1)/3,
// capped at 1. Peers need both a rating and a review count; fewer than two
// such peers, a degenerate fit, or a non-positive expectation give 0.
func AnalyzeCorrelationAnomaly(p product.Product, peers []product.Product) float64 {
	var xs, ys []float64
	for _, peer := range peers {
		r, okR := peer.Rating()
		n, okN := peer.ReviewsCount()
		if okR && okN {
			xs = append(xs, r)
			ys = append(ys, float64(n))
		}
	}
	if len(xs) < 2 {
		return 0
	}

	rating, ok := p.Rating()
	if !ok || rating <= correlationMinRating {
		return 0
	}
	actual, ok := p.ReviewsCount()
	if !ok || actual <= correlationMinReviews {
		return 0
	}

	slope, intercept, ok := linearFit(xs, ys)
	if !ok {
		return 0
	}
	expected := slope*rating + intercept
	if expected <= 0 {
		return 0
	}
	if float64(actual) > expected*correlationExcess {
		return clamp01((float64(actual)/expected - 1) / 3)
	}
	return 0
}

// ---------------------------------------------------------------------------
// Sentiment consistency
// ---------------------------------------------------------------------------

// Keyword vocabularies for the sentiment consistency check.
var (
	PositiveKeywords = []string{"素晴らしい", "最高", "完璧", "良い", "おすすめ"}
	NegativeKeywords = []string{"最悪", "悪い", "ダメ", "失敗", "買わない"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// IsSentimentInconsistent flags a review rated 4+ whose title or content
// holds a negative keyword, or one rated 2 or less holding a positive keyword.
func IsSentimentInconsistent(r product.Review) bool {
	text := r.Title + "\n" + r.Content
	if r.Rating >= 4 && containsAny(text, NegativeKeywords) {
		return true
	}
	if r.Rating <= 2 && containsAny(text, PositiveKeywords) {
		return true
	}
	return false
}

// AnalyzeSentimentConsistency is the share of reviews whose keywords agree
// with their star rating. No reviews means fully consistent (1.0).
func AnalyzeSentimentConsistency(reviews []product.Review) float64 {
	if len(reviews) == 0 {
		return 1.0
	}
	inconsistent := 0
	for _, r := range reviews {
		if IsSentimentInconsistent(r) {
			inconsistent++
		}
	}
	return math.Max(1.0-float64(inconsistent)/float64(len(reviews)), 0)
}

// ---------------------------------------------------------------------------
// Merchant reliability
// ---------------------------------------------------------------------------

// Merchant reliability levels.
const (
	MerchantReliabilityUnknown    = 0.5
	MerchantReliabilityNormal     = 0.8
	MerchantReliabilityTooGood    = 0.2
	MerchantReliabilityPoor       = 0.3
	MerchantReliabilityTooUniform = 0.3
)

// CalculateMerchantReliability rates a seller from the ratings of its
// products. A mean above 4.7 is too good to be true (0.2), below 3.0 is poor
// (0.3). Otherwise near-identical ratings (std < 0.05) score 0.3 and the rest
// 0.8. No ratings give 0.5.
func CalculateMerchantReliability(ratings []float64) float64 {
	if len(ratings) == 0 {
		return MerchantReliabilityUnknown
	}
	m := mean(ratings)
	switch {
	case m > 4.7:
		return MerchantReliabilityTooGood
	case m < 3.0:
		return MerchantReliabilityPoor
	}
	if len(ratings) > 1 {
		std := populationStd(ratings)
		if std < 0.05 {
			return MerchantReliabilityTooUniform
		}
	}
	return MerchantReliabilityNormal
}

// MerchantRatings collects the known ratings of a seller's products.
func MerchantRatings(products []product.Product) []float64 {
	out := make([]float64, 0, len(products))
	for _, p := range products {
		if r, ok := p.Rating(); ok {
			out = append(out, r)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Comprehensive score
// ---------------------------------------------------------------------------

// comprehensiveWeight applies to each signal present.
const comprehensiveWeight = 0.2

// Signals carries the auxiliary heuristic outputs. Nil fields were not
// measured and are skipped.
type Signals struct {
	DistributionBias     *float64 `json:"distribution_bias,omitempty"`
	CorrelationAnomaly   *float64 `json:"correlation_anomaly,omitempty"`
	ReviewBurst          *float64 `json:"review_burst,omitempty"`
	SentimentConsistency *float64 `json:"sentiment_consistency,omitempty"`
	MerchantReliability  *float64 `json:"merchant_reliability,omitempty"`
}

// Float is a helper for filling Signals literals.
func Float(v float64) *float64 { return &v }

// CalculateComprehensiveScore sums 0.2 × each present signal, inverting
// sentiment consistency and merchant reliability, capped at 1.
func CalculateComprehensiveScore(s Signals) float64 {
	score := 0.0
	add := func(v *float64, invert bool) {
		if v == nil {
			return
		}
		x := *v
		if invert {
			x = 1.0 - x
		}
		score += x * comprehensiveWeight
	}
	add(s.DistributionBias, false)
	add(s.CorrelationAnomaly, false)
	add(s.ReviewBurst, false)
	add(s.SentimentConsistency, true)
	add(s.MerchantReliability, true)
	return clamp01(score)
}

// ComputeSignals runs every auxiliary heuristic whose inputs are available.
// Peers feed the correlation check and merchantProducts the reliability
// check; reviews feed the distribution, burst and sentiment checks.
func ComputeSignals(p product.Product, reviews []product.Review, peers, merchantProducts []product.Product) Signals {
	var s Signals
	if len(reviews) > 0 {
		s.DistributionBias = Float(CalculateDistributionBias(RatingDistribution(reviews)))
		s.ReviewBurst = Float(DetectReviewBurst(reviews))
		s.SentimentConsistency = Float(AnalyzeSentimentConsistency(reviews))
	}
	if len(peers) > 0 {
		s.CorrelationAnomaly = Float(AnalyzeCorrelationAnomaly(p, peers))
	}
	if len(merchantProducts) > 0 {
		s.MerchantReliability = Float(CalculateMerchantReliability(MerchantRatings(merchantProducts)))
	}
	return s
}

// ---------------------------------------------------------------------------
// Basic score
// ---------------------------------------------------------------------------

// CalculateBasicScore is the listing-only heuristic used when no precomputed
// score is available: very high ratings, very many reviews, and both
// together each add suspicion.
func CalculateBasicScore(p product.Product) float64 {
	score := 0.0
	rating, hasRating := p.Rating()
	reviews := p.ReviewsCountOrZero()

	if hasRating {
		switch {
		case rating >= 4.9:
			score += 0.4
		case rating >= 4.8:
			score += 0.3
		}
	}
	switch {
	case reviews > 2000:
		score += 0.3
	case reviews > 1500:
		score += 0.2
	}
	if hasRating && rating >= 4.5 && reviews > 1000 {
		score += 0.2
	}
	return clamp01(score)
}

//Personal.AI order the ending
