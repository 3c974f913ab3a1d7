package sakura

import (
	"math"
	"sort"
	"time"

	"github.com/turtacn/SakuraScope/internal/domain/product"
)

// ─────────────────────────────────────────────────────────────────────────────
// Thresholds
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MinReviewsForBurst and MinReviewsForPeriodicity gate the review-based
	// temporal detectors.
	MinReviewsForBurst       = 10
	MinReviewsForPeriodicity = 20

	// surgeMinJump is the day-over-day rating rise a jump must exceed to count.
	surgeMinJump = 1.0
	// surgeSaturation is the rise at which the surge score reaches 1.
	surgeSaturation = 1.5

	// RatingSurgeSuspicionThreshold and PeriodicitySuspicionThreshold are the
	// scores above which those detectors flag a product.
	RatingSurgeSuspicionThreshold = 0.5
	PeriodicitySuspicionThreshold = 0.6

	burstZThreshold = 3.0
)

// Temporal aggregate weights.
const (
	WeightRatingSurge = 0.4
	WeightReviewBurst = 0.4
	WeightPeriodicity = 0.2
)

// ─────────────────────────────────────────────────────────────────────────────
// Rating surge
// ─────────────────────────────────────────────────────────────────────────────

// DetectRatingSurge scores the largest consecutive-snapshot rating rise.
// Rises of 1.0 star or less are ordinary drift and ignored; the score is the
// qualifying rise over 1.5, capped at 1. Snapshots are ordered by date first.
func DetectRatingSurge(history []product.RatingSnapshot) float64 {
	if len(history) < 2 {
		return 0
	}
	ordered := make([]product.RatingSnapshot, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	maxRise := 0.0
	for i := 1; i < len(ordered); i++ {
		rise := ordered[i].Rating - ordered[i-1].Rating
		if rise > surgeMinJump && rise > maxRise {
			maxRise = rise
		}
	}
	if maxRise <= 0 {
		return 0
	}
	return clamp01(maxRise / surgeSaturation)
}

// IsRatingSurgeSuspicious reports a surge score above 0.5.
func IsRatingSurgeSuspicious(score float64) bool {
	return score > RatingSurgeSuspicionThreshold
}

// ─────────────────────────────────────────────────────────────────────────────
// Daily counts
// ─────────────────────────────────────────────────────────────────────────────

type dayKey struct {
	y int
	m time.Month
	d int
}

func dayOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

func (k dayKey) time() time.Time {
	return time.Date(k.y, k.m, k.d, 0, 0, 0, 0, time.UTC)
}

// dailyCounts groups reviews by calendar date in each timestamp's location.
func dailyCounts(reviews []product.Review) map[dayKey]int {
	counts := make(map[dayKey]int)
	for _, r := range reviews {
		counts[dayOf(r.ReviewDate)]++
	}
	return counts
}

func countValues(counts map[dayKey]int) []float64 {
	out := make([]float64, 0, len(counts))
	for _, c := range counts {
		out = append(out, float64(c))
	}
	return out
}

func maxOf(xs []float64) float64 {
	m := 0.0
	for i, x := range xs {
		if i == 0 || x > m {
			m = x
		}
	}
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Review burst
// ─────────────────────────────────────────────────────────────────────────────

// AnalyzeTemporalBurst scores how concentrated reviews are on a few dates.
//
//   - fewer than 10 reviews or fewer than 2 distinct dates: 0
//   - busiest 3 dates hold ≥70% of reviews: 0.8; ≥50%: 0.6
//   - with ≥3 dates, a busiest day ≥3 sample std above the daily mean scores
//     max(concentration, 0.7)
//   - otherwise concentration × 0.5
func AnalyzeTemporalBurst(reviews []product.Review) float64 {
	if len(reviews) < MinReviewsForBurst {
		return 0
	}
	counts := countValues(dailyCounts(reviews))
	if len(counts) < 2 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(counts)))
	top := 0.0
	for i := 0; i < len(counts) && i < 3; i++ {
		top += counts[i]
	}
	concentration := top / float64(len(reviews))

	switch {
	case concentration >= 0.7:
		return 0.8
	case concentration >= 0.5:
		return 0.6
	}

	if len(counts) >= 3 {
		std := sampleStd(counts)
		if std > 0 && (counts[0]-mean(counts))/std >= burstZThreshold {
			return math.Max(concentration, 0.7)
		}
	}
	return clamp01(concentration * 0.5)
}

// DetectReviewBurst is the window-based burst detector. Any three consecutive
// calendar days holding ≥50% of reviews score 0.85. The window is the start
// date plus the next two dates, so a review dated three days after the start
// is outside it. Otherwise, with more than three distinct dates, a busiest day
// more than 3 sample std above the daily mean scores ratio/5 capped at 1.
// Needs 10 reviews.
func DetectReviewBurst(reviews []product.Review) float64 {
	if len(reviews) < MinReviewsForBurst {
		return 0
	}
	daily := dailyCounts(reviews)

	days := make([]time.Time, 0, len(daily))
	for k := range daily {
		days = append(days, k.time())
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	total := float64(len(reviews))
	for i, start := range days {
		end := start.AddDate(0, 0, 2)
		inWindow := 0
		for j := i; j < len(days) && !days[j].After(end); j++ {
			inWindow += daily[dayOf(days[j])]
		}
		if float64(inWindow)/total >= 0.5 {
			return 0.85
		}
	}

	if len(daily) > 3 {
		counts := countValues(daily)
		std := sampleStd(counts)
		if std > 0 {
			ratio := (maxOf(counts) - mean(counts)) / std
			if ratio > burstZThreshold {
				return clamp01(ratio / 5)
			}
		}
	}
	return 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Periodicity
// ─────────────────────────────────────────────────────────────────────────────

// DetectPeriodicPatterns scores weekday clustering: the busiest weekday's
// share above 80% scores 0.9, above 60% 0.7, above 40% 0.5. Needs 20 reviews.
func DetectPeriodicPatterns(reviews []product.Review) float64 {
	if len(reviews) < MinReviewsForPeriodicity {
		return 0
	}
	var byWeekday [7]int
	for _, r := range reviews {
		byWeekday[r.ReviewDate.Weekday()]++
	}
	busiest := 0
	for _, c := range byWeekday {
		if c > busiest {
			busiest = c
		}
	}
	share := float64(busiest) / float64(len(reviews))
	switch {
	case share > 0.8:
		return 0.9
	case share > 0.6:
		return 0.7
	case share > 0.4:
		return 0.5
	default:
		return 0
	}
}

// IsPeriodicPatternSuspicious reports a periodicity score above 0.6.
func IsPeriodicPatternSuspicious(score float64) bool {
	return score > PeriodicitySuspicionThreshold
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregate
// ─────────────────────────────────────────────────────────────────────────────

// TemporalBreakdown records which temporal detectors ran and their scores.
type TemporalBreakdown struct {
	TemporalScore           float64 `json:"temporal_score"`
	RatingSurge             bool    `json:"rating_surge"`
	ReviewBurstAnalysis     bool    `json:"review_burst_analysis"`
	PeriodicPatternAnalysis bool    `json:"periodic_pattern_analysis"`
	RatingSurgeScore        float64 `json:"rating_surge_score"`
	ReviewBurstScore        float64 `json:"review_burst_score"`
	PeriodicityScore        float64 `json:"periodicity_score"`
}

// AnalyzeTemporal runs every eligible temporal detector. Rating surge is
// eligible with any history, burst with 10 reviews, periodicity with 20.
// The score is the weighted mean over eligible detectors only, 0 when none
// is eligible, capped at 1.
func AnalyzeTemporal(history []product.RatingSnapshot, reviews []product.Review) TemporalBreakdown {
	b := TemporalBreakdown{
		RatingSurge:             len(history) > 0,
		ReviewBurstAnalysis:     len(reviews) >= MinReviewsForBurst,
		PeriodicPatternAnalysis: len(reviews) >= MinReviewsForPeriodicity,
	}

	var weighted, weights float64
	if b.RatingSurge {
		b.RatingSurgeScore = DetectRatingSurge(history)
		weighted += b.RatingSurgeScore * WeightRatingSurge
		weights += WeightRatingSurge
	}
	if b.ReviewBurstAnalysis {
		b.ReviewBurstScore = AnalyzeTemporalBurst(reviews)
		weighted += b.ReviewBurstScore * WeightReviewBurst
		weights += WeightReviewBurst
	}
	if b.PeriodicPatternAnalysis {
		b.PeriodicityScore = DetectPeriodicPatterns(reviews)
		weighted += b.PeriodicityScore * WeightPeriodicity
		weights += WeightPeriodicity
	}
	if weights == 0 {
		return b
	}
	b.TemporalScore = clamp01(weighted / weights)
	return b
}

// CalculateTemporalAnalysisScore is AnalyzeTemporal reduced to its score.
func CalculateTemporalAnalysisScore(history []product.RatingSnapshot, reviews []product.Review) float64 {
	return AnalyzeTemporal(history, reviews).TemporalScore
}

//Personal.AI order the ending
