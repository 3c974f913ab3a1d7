package sakura

import (
	"github.com/turtacn/SakuraScope/internal/domain/product"
)

// Review-pattern cutoffs. A batch is suspicious when any one is crossed.
const (
	FiveStarRatioCeiling    = 0.8
	VerifiedRatioFloor      = 0.5
	ContentLengthFloor      = 50.0
	GenericNameRatioCeiling = 0.3
)

// ReviewPattern aggregates a batch of reviews.
type ReviewPattern struct {
	FiveStarRatio         float64 `json:"five_star_ratio"`
	VerifiedPurchaseRatio float64 `json:"verified_purchase_ratio"`
	AverageContentLength  float64 `json:"average_content_length"`
	GenericNameRatio      float64 `json:"generic_name_ratio"`
	HelpfulRatio          float64 `json:"helpful_ratio"`
	HasSuspiciousPattern  bool    `json:"has_suspicious_pattern"`
}

// AnalyzeReviewPattern aggregates reviews. An empty batch yields the zero
// pattern, which is not suspicious.
func AnalyzeReviewPattern(reviews []product.Review) ReviewPattern {
	if len(reviews) == 0 {
		return ReviewPattern{}
	}

	var fiveStar, verified, generic, totalLen int
	var helpfulSum float64
	var voted int
	for _, r := range reviews {
		if r.Rating == 5 {
			fiveStar++
		}
		if r.VerifiedPurchase {
			verified++
		}
		if r.HasGenericReviewerName() {
			generic++
		}
		totalLen += r.ContentLength()
		if ratio, ok := r.HelpfulRatio(); ok {
			helpfulSum += ratio
			voted++
		}
	}

	n := float64(len(reviews))
	p := ReviewPattern{
		FiveStarRatio:         float64(fiveStar) / n,
		VerifiedPurchaseRatio: float64(verified) / n,
		AverageContentLength:  float64(totalLen) / n,
		GenericNameRatio:      float64(generic) / n,
	}
	if voted > 0 {
		p.HelpfulRatio = helpfulSum / float64(voted)
	}
	p.HasSuspiciousPattern = p.FiveStarRatio > FiveStarRatioCeiling ||
		p.VerifiedPurchaseRatio < VerifiedRatioFloor ||
		p.AverageContentLength < ContentLengthFloor ||
		p.GenericNameRatio > GenericNameRatioCeiling
	return p
}

// CalculateReviewVelocity is reviews per day across the batch's date span.
// Fewer than two reviews give 0; a batch posted within one day gives the
// review count.
func CalculateReviewVelocity(reviews []product.Review) float64 {
	if len(reviews) < 2 {
		return 0
	}
	first, last := reviews[0].ReviewDate, reviews[0].ReviewDate
	for _, r := range reviews[1:] {
		if r.ReviewDate.Before(first) {
			first = r.ReviewDate
		}
		if r.ReviewDate.After(last) {
			last = r.ReviewDate
		}
	}
	days := int(last.Sub(first).Hours() / 24)
	if days == 0 {
		return float64(len(reviews))
	}
	return float64(len(reviews)) / float64(days)
}

// IsVelocitySuspicious reports a rate above product.VelocitySuspicionThreshold.
func IsVelocitySuspicious(velocity float64) bool {
	return velocity > product.VelocitySuspicionThreshold
}

// BuildSakuraScore rolls reviews up into a product.SakuraScore. The merchant
// reliability comes from CalculateMerchantReliability over the seller's
// other products.
func BuildSakuraScore(asin string, reviews []product.Review, merchantReliability float64) product.SakuraScore {
	s := product.SakuraScore{
		ASIN:                asin,
		TotalReviews:        len(reviews),
		RatingDistribution:  RatingDistribution(reviews),
		ReviewVelocity:      CalculateReviewVelocity(reviews),
		MerchantReliability: clamp01(merchantReliability),
	}
	verified := 0
	for _, r := range reviews {
		if r.IsSuspicious() {
			s.SuspiciousReviews++
		}
		if r.VerifiedPurchase {
			verified++
		}
	}
	if len(reviews) > 0 {
		s.VerifiedPurchaseRatio = float64(verified) / float64(len(reviews))
	}
	return s
}

// RatingDistribution counts reviews per star, index 0 = 1 star. Ratings
// outside 1..5 are ignored.
func RatingDistribution(reviews []product.Review) []int {
	dist := make([]int, 5)
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			dist[r.Rating-1]++
		}
	}
	return dist
}

//Personal.AI order the ending
