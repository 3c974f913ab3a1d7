package sakura

import (
	"math"

	"github.com/turtacn/SakuraScope/internal/domain/product"
)

// Peer-set z-score cutoffs.
const (
	SingleAxisZThreshold = 2.0
	DualAxisZThreshold   = 1.5
)

// StatisticalAnomaly compares one product's rating and review count against
// a category peer set.
type StatisticalAnomaly struct {
	IsAnomaly           bool    `json:"is_anomaly"`
	ZScoreRating        float64 `json:"z_score_rating"`
	ZScoreReviews       float64 `json:"z_score_reviews"`
	PercentileRating    float64 `json:"percentile_rating"`
	PercentileReviews   float64 `json:"percentile_reviews"`
	CategoryMeanRating  float64 `json:"category_mean_rating"`
	CategoryMeanReviews float64 `json:"category_mean_reviews"`
	CategoryStdRating   float64 `json:"category_std_rating"`
	CategoryStdReviews  float64 `json:"category_std_reviews"`
}

// peerAxes collects the known ratings and review counts of the peer set.
func peerAxes(peers []product.Product) (ratings, reviews []float64) {
	ratings = make([]float64, 0, len(peers))
	reviews = make([]float64, 0, len(peers))
	for _, p := range peers {
		if r, ok := p.Rating(); ok {
			ratings = append(ratings, r)
		}
		if n, ok := p.ReviewsCount(); ok {
			reviews = append(reviews, float64(n))
		}
	}
	return ratings, reviews
}

// DetectStatisticalAnomaly scores p against peers (which may include p).
// Peers with an unknown rating or review count are left out of that axis.
// A z-score is 0 when the axis has no spread or p's own value is unknown, so
// a peer set with a single distinct value never flags through that axis.
func DetectStatisticalAnomaly(p product.Product, peers []product.Product) StatisticalAnomaly {
	ratings, reviews := peerAxes(peers)

	out := StatisticalAnomaly{
		CategoryMeanRating:  mean(ratings),
		CategoryStdRating:   populationStd(ratings),
		CategoryMeanReviews: mean(reviews),
		CategoryStdReviews:  populationStd(reviews),
	}

	if r, ok := p.Rating(); ok {
		out.ZScoreRating = zScore(r, out.CategoryMeanRating, out.CategoryStdRating)
		out.PercentileRating = percentileOfScore(ratings, r)
	}
	if n, ok := p.ReviewsCount(); ok {
		out.ZScoreReviews = zScore(float64(n), out.CategoryMeanReviews, out.CategoryStdReviews)
		out.PercentileReviews = percentileOfScore(reviews, float64(n))
	}

	out.IsAnomaly = out.ZScoreRating > SingleAxisZThreshold ||
		out.ZScoreReviews > SingleAxisZThreshold ||
		(out.ZScoreRating > DualAxisZThreshold && out.ZScoreReviews > DualAxisZThreshold)
	return out
}

// CategoryComparison summarises how far a product deviates from its category.
type CategoryComparison struct {
	NoPeers           bool    `json:"no_peers,omitempty"`
	PercentileRating  float64 `json:"percentile_rating"`
	PercentileReviews float64 `json:"percentile_reviews"`
	DeviationScore    float64 `json:"deviation_score"`
	IsAnomaly         bool    `json:"is_anomaly"`
	ZScoreRating      float64 `json:"z_score_rating"`
	ZScoreReviews     float64 `json:"z_score_reviews"`
}

// CompareWithCategory reports percentiles, z-scores and the mean absolute
// z-score as DeviationScore. An empty peer set yields a zeroed comparison
// with NoPeers set.
func CompareWithCategory(p product.Product, peers []product.Product) CategoryComparison {
	if len(peers) == 0 {
		return CategoryComparison{NoPeers: true}
	}
	a := DetectStatisticalAnomaly(p, peers)
	return CategoryComparison{
		PercentileRating:  a.PercentileRating,
		PercentileReviews: a.PercentileReviews,
		DeviationScore:    (math.Abs(a.ZScoreRating) + math.Abs(a.ZScoreReviews)) / 2,
		IsAnomaly:         a.IsAnomaly,
		ZScoreRating:      a.ZScoreRating,
		ZScoreReviews:     a.ZScoreReviews,
	}
}

//Personal.AI order the ending
