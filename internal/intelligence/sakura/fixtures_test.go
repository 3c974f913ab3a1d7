package sakura

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/SakuraScope/internal/domain/product"
)

var baseDay = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func longContent() string {
	return strings.Repeat("音質も良く、装着感も快適で毎日使っています。", 3)
}

// organicReview is a verified, long, 4-star review that trips no flag.
func organicReview(i int, at time.Time) product.Review {
	return product.Review{
		ReviewID:         fmt.Sprintf("R%03d", i),
		ASIN:             "B0TEST0001",
		ReviewerName:     fmt.Sprintf("山田%d", i),
		Rating:           4,
		Title:            "満足",
		Content:          longContent(),
		ReviewDate:       at,
		VerifiedPurchase: true,
		HelpfulCount:     3,
		TotalVotes:       4,
	}
}

// shillReview is an unverified, short, 5-star review from a generic name.
func shillReview(i int, at time.Time) product.Review {
	return product.Review{
		ReviewID:     fmt.Sprintf("S%03d", i),
		ASIN:         "B0TEST0001",
		ReviewerName: "Amazon カスタマー",
		Rating:       5,
		Title:        "最高",
		Content:      "最高です",
		ReviewDate:   at,
	}
}

// burstReviews posts n reviews over three consecutive days.
func burstReviews(n int, mk func(int, time.Time) product.Review) []product.Review {
	out := make([]product.Review, n)
	for i := 0; i < n; i++ {
		at := baseDay.AddDate(0, 0, i/17).Add(time.Duration(i%17) * time.Hour)
		out[i] = mk(i, at)
	}
	return out
}

// dailyReviews posts one review per day for n days.
func dailyReviews(n int, mk func(int, time.Time) product.Review) []product.Review {
	out := make([]product.Review, n)
	for i := 0; i < n; i++ {
		out[i] = mk(i, baseDay.AddDate(0, 0, i).Add(10*time.Hour))
	}
	return out
}

func peerSet() []product.Product {
	return []product.Product{
		product.MustNew("P1", "peer 1", product.WithRating(3.2), product.WithReviewsCount(50)),
		product.MustNew("P2", "peer 2", product.WithRating(3.6), product.WithReviewsCount(120)),
		product.MustNew("P3", "peer 3", product.WithRating(3.9), product.WithReviewsCount(250)),
		product.MustNew("P4", "peer 4", product.WithRating(4.2), product.WithReviewsCount(400)),
		product.MustNew("P5", "peer 5", product.WithRating(4.5), product.WithReviewsCount(600)),
	}
}

//Personal.AI order the ending
