package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/SakuraScope/internal/domain/product"
)

func productASINs(ps []product.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ASIN()
	}
	return out
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name   string
		p      product.Product
		sakura float64
		want   float64
	}{
		{"perfect", product.MustNew("Q1", "a", product.WithRating(5), product.WithReviewsCount(1000)), 0, 100},
		{"mid", product.MustNew("Q2", "b", product.WithRating(4), product.WithReviewsCount(120)), 0.3, 32 + 15 + 30},
		{"few reviews", product.MustNew("Q3", "c", product.WithRating(3), product.WithReviewsCount(12)), 0.5, 24 + 5 + 20},
		{"tiny", product.MustNew("Q4", "d", product.WithRating(2.5), product.WithReviewsCount(3)), 0.7, 20 + 0 + 10},
		{"fake", product.MustNew("Q5", "e", product.WithRating(5), product.WithReviewsCount(60)), 0.95, 40 + 10 + 0},
		{"unknown rating", product.MustNew("Q6", "f"), 0.1, 40},
		{"boundary 0.2", product.MustNew("Q7", "g", product.WithReviewsCount(500)), 0.2, 20 + 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, QualityScore(tt.p, tt.sakura), 1e-9)
		})
	}
}

func TestPassesEarlyFilter(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		p      product.Product
		ok     bool
		reason string
	}{
		{"passes", product.MustNew("F1", "a", product.WithRating(4), product.WithReviewsCount(80), product.WithPrice(3000)), true, ""},
		{"unknown price passes", product.MustNew("F2", "b", product.WithRating(4), product.WithReviewsCount(80)), true, ""},
		{"edge values pass", product.MustNew("F3", "c", product.WithRating(3.5), product.WithReviewsCount(50), product.WithPrice(1000)), true, ""},
		{"unknown rating", product.MustNew("F4", "d", product.WithReviewsCount(80)), false, "rating"},
		{"low rating", product.MustNew("F5", "e", product.WithRating(3.4), product.WithReviewsCount(80)), false, "rating"},
		{"few reviews", product.MustNew("F6", "f", product.WithRating(4.9), product.WithReviewsCount(49)), false, "reviews"},
		{"too cheap", product.MustNew("F7", "g", product.WithRating(4), product.WithReviewsCount(80), product.WithPrice(999)), false, "price"},
		{"too expensive", product.MustNew("F8", "h", product.WithRating(4), product.WithReviewsCount(80), product.WithPrice(500001)), false, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := cfg.passesEarlyFilter(tt.p)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

//Personal.AI order the ending
