package screening

import "github.com/turtacn/SakuraScope/internal/domain/product"

// Quality score weights (points out of 100).
const (
	ratingPoints = 40.0
	maxQuality   = 100.0
)

// QualityScore rates a candidate on a 0–100 scale: up to 40 points for the
// star rating, up to 20 for review volume and up to 40 for a low sakura
// score. An unknown rating earns no rating points.
func QualityScore(p product.Product, sakuraScore float64) float64 {
	score := 0.0
	if r, ok := p.Rating(); ok {
		score += r / product.MaxRating * ratingPoints
	}
	score += reviewPoints(p.ReviewsCountOrZero())
	score += sakuraPoints(sakuraScore)
	if score > maxQuality {
		return maxQuality
	}
	return score
}

func reviewPoints(n int) float64 {
	switch {
	case n >= 500:
		return 20
	case n >= 100:
		return 15
	case n >= 50:
		return 10
	case n >= 10:
		return 5
	default:
		return 0
	}
}

func sakuraPoints(s float64) float64 {
	switch {
	case s < 0.2:
		return 40
	case s < 0.4:
		return 30
	case s < 0.6:
		return 20
	case s < 0.8:
		return 10
	default:
		return 0
	}
}

// passesEarlyFilter drops listings not worth analysing: a known rating below
// MinRating, fewer than MinReviews reviews, or a known price outside
// [MinPrice, MaxPrice]. An unknown rating fails; an unknown price passes.
func (c Config) passesEarlyFilter(p product.Product) (bool, string) {
	r, ok := p.Rating()
	if !ok || r < c.MinRating {
		return false, "rating"
	}
	if p.ReviewsCountOrZero() < c.MinReviews {
		return false, "reviews"
	}
	if price, ok := p.Price(); ok && (price < c.MinPrice || price > c.MaxPrice) {
		return false, "price"
	}
	return true, ""
}

//Personal.AI order the ending
