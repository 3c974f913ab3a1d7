package sakura

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SakuraScope/internal/domain/product"
)

// Randomised inputs with a fixed seed: every scorer must stay in [0,1] and
// the detector must stay deterministic.

const propertyRounds = 300

func randomProduct(rng *rand.Rand, i int) product.Product {
	var opts []product.Option
	if rng.Intn(5) > 0 {
		opts = append(opts, product.WithRating(1+rng.Float64()*4))
	}
	if rng.Intn(5) > 0 {
		opts = append(opts, product.WithReviewsCount(rng.Intn(6000)))
	}
	if rng.Intn(2) == 0 {
		opts = append(opts, product.WithSakuraScore(rng.Float64()))
	}
	return product.MustNew(fmt.Sprintf("B0RAND%04d", i), "", opts...)
}

func randomReviews(rng *rand.Rand) []product.Review {
	n := rng.Intn(60)
	out := make([]product.Review, n)
	span := 1 + rng.Intn(90)
	for i := range out {
		total := rng.Intn(20)
		helpful := 0
		if total > 0 {
			helpful = rng.Intn(total + 1)
		}
		name := fmt.Sprintf("reviewer%d", i)
		if rng.Intn(3) == 0 {
			name = "Amazon カスタマー"
		}
		content := "良い"
		if rng.Intn(2) == 0 {
			content = longContent()
		}
		out[i] = product.Review{
			ReviewID:         fmt.Sprintf("R%d", i),
			ASIN:             "B0RAND",
			ReviewerName:     name,
			Rating:           1 + rng.Intn(5),
			Content:          content,
			ReviewDate:       baseDay.AddDate(0, 0, rng.Intn(span)).Add(time.Duration(rng.Intn(24)) * time.Hour),
			VerifiedPurchase: rng.Intn(2) == 0,
			HelpfulCount:     helpful,
			TotalVotes:       total,
		}
	}
	return out
}

func randomHistory(rng *rand.Rand) []product.RatingSnapshot {
	n := rng.Intn(8)
	out := make([]product.RatingSnapshot, n)
	for i := range out {
		out[i] = product.RatingSnapshot{
			Date:        baseDay.AddDate(0, 0, rng.Intn(30)),
			Rating:      1 + rng.Float64()*4,
			ReviewCount: rng.Intn(500),
		}
	}
	return out
}

func assertUnit(t *testing.T, name string, v float64) {
	t.Helper()
	assert.GreaterOrEqual(t, v, 0.0, name)
	assert.LessOrEqual(t, v, 1.0, name)
}

func TestProperty_ScoresStayInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(20240301))

	for round := 0; round < propertyRounds; round++ {
		p := randomProduct(rng, round)
		reviews := randomReviews(rng)
		history := randomHistory(rng)
		peers := make([]product.Product, rng.Intn(8))
		for i := range peers {
			peers[i] = randomProduct(rng, 1000+i)
		}

		assertUnit(t, "distribution bias", CalculateDistributionBias(RatingDistribution(reviews)))
		assertUnit(t, "correlation", AnalyzeCorrelationAnomaly(p, peers))
		assertUnit(t, "sentiment", AnalyzeSentimentConsistency(reviews))
		assertUnit(t, "merchant", CalculateMerchantReliability(MerchantRatings(peers)))
		assertUnit(t, "burst", AnalyzeTemporalBurst(reviews))
		assertUnit(t, "window burst", DetectReviewBurst(reviews))
		assertUnit(t, "periodicity", DetectPeriodicPatterns(reviews))
		assertUnit(t, "surge", DetectRatingSurge(history))
		assertUnit(t, "temporal", CalculateTemporalAnalysisScore(history, reviews))
		assertUnit(t, "basic", CalculateBasicScore(p))
		assertUnit(t, "comprehensive", CalculateComprehensiveScore(ComputeSignals(p, reviews, peers, peers)))

		cmp := CompareWithCategory(p, peers)
		assert.GreaterOrEqual(t, cmp.DeviationScore, 0.0)
		assertUnit(t, "percentile rating", cmp.PercentileRating/100)

		for _, r := range reviews {
			assertUnit(t, "review probability", r.SakuraProbability())
		}
	}
}

func TestProperty_DetectorDeterministicAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d, err := NewDetector(DefaultConfig(), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	for round := 0; round < propertyRounds; round++ {
		p := randomProduct(rng, round)
		reviews := randomReviews(rng)
		history := randomHistory(rng)

		a, err := d.AnalyzeProduct(p, reviews, history)
		require.NoError(t, err)
		b, err := d.AnalyzeProduct(p, reviews, history)
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assertUnit(t, "sakura score", a.SakuraScore)
		assertUnit(t, "confidence", a.ConfidenceLevel)
		// The overlays only ever add to the base.
		assert.GreaterOrEqual(t, a.SakuraScore, a.Details.BaseScore)
	}
}

func TestProperty_SuspicionIsStrict(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < propertyRounds; i++ {
		score := float64(rng.Intn(101)) / 100
		threshold := float64(rng.Intn(101)) / 100
		assert.Equal(t, score > threshold, IsSuspicious(score, threshold))
	}
	assert.False(t, IsSuspicious(0.3, 0.3))
}

func TestProperty_PeerAnomalyMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(314))
	peers := peerSet()

	for i := 0; i < propertyRounds; i++ {
		rating := 1 + rng.Float64()*3.5
		count := rng.Intn(3000)
		base := DetectStatisticalAnomaly(product.MustNew("C", "",
			product.WithRating(rating), product.WithReviewsCount(count)), peers)

		higherRating := DetectStatisticalAnomaly(product.MustNew("C", "",
			product.WithRating(rating+rng.Float64()*(5-rating)), product.WithReviewsCount(count)), peers)
		moreReviews := DetectStatisticalAnomaly(product.MustNew("C", "",
			product.WithRating(rating), product.WithReviewsCount(count+rng.Intn(3000))), peers)

		assert.GreaterOrEqual(t, higherRating.ZScoreRating, base.ZScoreRating)
		assert.GreaterOrEqual(t, moreReviews.ZScoreReviews, base.ZScoreReviews)
		if base.IsAnomaly {
			assert.True(t, higherRating.IsAnomaly)
			assert.True(t, moreReviews.IsAnomaly)
		}
	}
}

func TestProperty_BatchIsSortedPermutationOfSingles(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := make([]product.Product, 40)
	for i := range products {
		products[i] = randomProduct(rng, i)
	}

	d, err := NewDetector(Config{AnomalyThreshold: 0.3, MinReviewsForAnalysis: 10, BatchSize: 7},
		WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	batch := d.BatchAnalyze(products)
	require.Len(t, batch, len(products))
	for i := 1; i < len(batch); i++ {
		assert.GreaterOrEqual(t, batch[i-1].SakuraScore, batch[i].SakuraScore)
	}

	singles := make(map[string]*AnalysisResult, len(products))
	for _, p := range products {
		r, err := d.AnalyzeProduct(p, nil, nil)
		require.NoError(t, err)
		singles[p.ASIN()] = r
	}
	for _, r := range batch {
		assert.Equal(t, singles[r.ASIN], r)
	}
}

//Personal.AI order the ending
