package product

import "time"

// SakuraScore thresholds and weights.
const (
	// VelocitySuspicionThreshold is the reviews/day rate above which review
	// velocity is suspicious.
	VelocitySuspicionThreshold = 20.0

	// FiveStarNaturalCeiling is the 5-star share at or above which a rating
	// distribution is unnatural.
	FiveStarNaturalCeiling = 0.8

	// ScoreMediumFloor and ScoreHighFloor bound the SakuraScore risk tiers.
	ScoreMediumFloor = 0.3
	ScoreHighFloor   = 0.7
)

const (
	weightSuspiciousRatio = 0.3
	weightUnverifiedShare = 0.2
	weightUnnaturalDist   = 0.2
	weightHighVelocity    = 0.2
	weightLowMerchant     = 0.1
)

// SakuraScore is the per-product rollup of review-level signals.
type SakuraScore struct {
	ASIN                  string    `json:"asin"`
	TotalReviews          int       `json:"total_reviews"`
	SuspiciousReviews     int       `json:"suspicious_reviews"`
	VerifiedPurchaseRatio float64   `json:"verified_purchase_ratio"`
	RatingDistribution    []int     `json:"rating_distribution"` // counts for 1..5 stars
	ReviewVelocity        float64   `json:"review_velocity"`
	MerchantReliability   float64   `json:"merchant_reliability"`
	AnalysisDate          time.Time `json:"analysis_date"`
}

// SuspiciousRatio is SuspiciousReviews/TotalReviews, 0 when there are none.
func (s SakuraScore) SuspiciousRatio() float64 {
	if s.TotalReviews == 0 {
		return 0
	}
	return float64(s.SuspiciousReviews) / float64(s.TotalReviews)
}

// IsDistributionNatural is false only for a well-formed 5-bucket histogram
// whose 5-star share reaches FiveStarNaturalCeiling.
func (s SakuraScore) IsDistributionNatural() bool {
	if len(s.RatingDistribution) != 5 {
		return true
	}
	total := 0
	for _, c := range s.RatingDistribution {
		total += c
	}
	if total == 0 {
		return true
	}
	return float64(s.RatingDistribution[4])/float64(total) < FiveStarNaturalCeiling
}

// IsVelocitySuspicious is true above VelocitySuspicionThreshold reviews/day.
func (s SakuraScore) IsVelocitySuspicious() bool {
	return s.ReviewVelocity > VelocitySuspicionThreshold
}

const scoreEpsilon = 1e-9

// OverallScore combines the rollup into a 0–1 score.
func (s SakuraScore) OverallScore() float64 {
	score := s.SuspiciousRatio() * weightSuspiciousRatio
	score += (1.0 - s.VerifiedPurchaseRatio) * weightUnverifiedShare
	if !s.IsDistributionNatural() {
		score += weightUnnaturalDist
	}
	if s.IsVelocitySuspicious() {
		score += weightHighVelocity
	}
	score += (1.0 - s.MerchantReliability) * weightLowMerchant
	// the weights sum to 1 but float addition can land a hair below it
	if score >= 1.0-scoreEpsilon {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}

// RiskLevel tiers OverallScore: LOW below 0.3, MEDIUM below 0.7, else HIGH.
func (s SakuraScore) RiskLevel() RiskLevel {
	o := s.OverallScore()
	switch {
	case o < ScoreMediumFloor:
		return RiskLow
	case o < ScoreHighFloor:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ShouldExclude recommends dropping the product; true exactly at HIGH risk.
func (s SakuraScore) ShouldExclude() bool {
	return s.RiskLevel() == RiskHigh
}

//Personal.AI order the ending
