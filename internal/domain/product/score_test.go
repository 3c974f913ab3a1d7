package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSakuraScore_SuspiciousRatio(t *testing.T) {
	assert.Equal(t, 0.0, SakuraScore{}.SuspiciousRatio())
	assert.Equal(t, 0.25, SakuraScore{TotalReviews: 8, SuspiciousReviews: 2}.SuspiciousRatio())
}

func TestSakuraScore_IsDistributionNatural(t *testing.T) {
	assert.True(t, SakuraScore{}.IsDistributionNatural())
	assert.True(t, SakuraScore{RatingDistribution: []int{1, 2, 3}}.IsDistributionNatural())
	assert.True(t, SakuraScore{RatingDistribution: []int{0, 0, 0, 0, 0}}.IsDistributionNatural())
	assert.True(t, SakuraScore{RatingDistribution: []int{10, 25, 45, 65, 55}}.IsDistributionNatural())
	assert.False(t, SakuraScore{RatingDistribution: []int{0, 0, 1, 1, 8}}.IsDistributionNatural())
}

func TestSakuraScore_OverallAndRisk(t *testing.T) {
	trusted := SakuraScore{
		TotalReviews:          100,
		SuspiciousReviews:     5,
		VerifiedPurchaseRatio: 0.95,
		RatingDistribution:    []int{5, 10, 20, 35, 30},
		ReviewVelocity:        2,
		MerchantReliability:   0.8,
	}
	// 0.05*0.3 + 0.05*0.2 + 0.2*0.1
	assert.InDelta(t, 0.045, trusted.OverallScore(), 1e-9)
	assert.Equal(t, RiskLow, trusted.RiskLevel())
	assert.False(t, trusted.ShouldExclude())

	manipulated := SakuraScore{
		TotalReviews:          100,
		SuspiciousReviews:     80,
		VerifiedPurchaseRatio: 0.3,
		RatingDistribution:    []int{1, 1, 2, 6, 90},
		ReviewVelocity:        35,
		MerchantReliability:   0.2,
	}
	// 0.24 + 0.14 + 0.2 + 0.2 + 0.08
	assert.InDelta(t, 0.86, manipulated.OverallScore(), 1e-9)
	assert.True(t, manipulated.IsVelocitySuspicious())
	assert.Equal(t, RiskHigh, manipulated.RiskLevel())
	assert.True(t, manipulated.ShouldExclude())

	medium := SakuraScore{
		TotalReviews:          10,
		SuspiciousReviews:     6,
		VerifiedPurchaseRatio: 0.5,
		RatingDistribution:    []int{1, 1, 2, 3, 3},
		MerchantReliability:   0.5,
	}
	// 0.18 + 0.1 + 0.05
	assert.InDelta(t, 0.33, medium.OverallScore(), 1e-9)
	assert.Equal(t, RiskMedium, medium.RiskLevel())
}

func TestSakuraScore_OverallCapped(t *testing.T) {
	s := SakuraScore{
		TotalReviews:          10,
		SuspiciousReviews:     10,
		VerifiedPurchaseRatio: 0,
		RatingDistribution:    []int{0, 0, 0, 0, 10},
		ReviewVelocity:        100,
		MerchantReliability:   0,
	}
	assert.Equal(t, 1.0, s.OverallScore())
	assert.Equal(t, RiskHigh, s.RiskLevel())
	assert.True(t, s.ShouldExclude())

	s.MerchantReliability = 0.5
	assert.InDelta(t, 0.95, s.OverallScore(), 1e-9)
	assert.Less(t, s.OverallScore(), 1.0)
}

func TestSakuraScore_VelocityThresholdIsStrict(t *testing.T) {
	assert.False(t, SakuraScore{ReviewVelocity: 20}.IsVelocitySuspicious())
	assert.True(t, SakuraScore{ReviewVelocity: 20.01}.IsVelocitySuspicious())
}

//Personal.AI order the ending
