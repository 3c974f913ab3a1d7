package product

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/turtacn/SakuraScope/pkg/errors"
)

// GenericReviewerNames are display-name fragments typical of throwaway
// reviewer accounts.
var GenericReviewerNames = []string{"レビュアー", "カスタマー", "購入者", "ユーザー"}

// Review-level thresholds.
const (
	// ShortContentChars is the content length, in characters, below which a
	// review counts as short.
	ShortContentChars = 50

	// LowHelpfulRatio is the helpful/total vote ratio below which a voted
	// review counts as unhelpful.
	LowHelpfulRatio = 0.3

	// ReviewSuspicionThreshold is the probability above which a single
	// review is suspicious.
	ReviewSuspicionThreshold = 0.5
)

// Per-review sakura probability weights.
const (
	weightUnverified  = 0.3
	weightFiveStar    = 0.2
	weightShort       = 0.2
	weightGenericName = 0.2
	weightLowHelpful  = 0.1
)

// Review is one customer review of a product.
type Review struct {
	ReviewID         string    `json:"review_id"`
	ASIN             string    `json:"asin"`
	ReviewerName     string    `json:"reviewer_name"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	ReviewDate       time.Time `json:"review_date"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	HelpfulCount     int       `json:"helpful_count"`
	TotalVotes       int       `json:"total_votes"`
}

// Validate checks the invariants a review must satisfy before analysis.
func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New(errors.ErrCodeReviewInvalid, "review rating must be between 1 and 5").
			WithDetail(fmt.Sprintf("review_id=%s rating=%d", r.ReviewID, r.Rating))
	}
	if r.HelpfulCount < 0 || r.TotalVotes < 0 {
		return errors.New(errors.ErrCodeReviewInvalid, "vote counts must not be negative").
			WithDetail("review_id=" + r.ReviewID)
	}
	if r.HelpfulCount > r.TotalVotes {
		return errors.New(errors.ErrCodeReviewInvalid, "helpful votes exceed total votes").
			WithDetail(fmt.Sprintf("review_id=%s helpful=%d total=%d", r.ReviewID, r.HelpfulCount, r.TotalVotes))
	}
	if r.ReviewDate.IsZero() {
		return errors.New(errors.ErrCodeReviewInvalid, "review date is required").
			WithDetail("review_id=" + r.ReviewID)
	}
	return nil
}

// ContentLength is the review body length in characters.
func (r Review) ContentLength() int {
	return utf8.RuneCountInString(r.Content)
}

// HasGenericReviewerName reports whether the display name contains one of
// GenericReviewerNames.
func (r Review) HasGenericReviewerName() bool {
	for _, g := range GenericReviewerNames {
		if strings.Contains(r.ReviewerName, g) {
			return true
		}
	}
	return false
}

// HelpfulRatio returns helpful/total votes, and false when nobody voted.
func (r Review) HelpfulRatio() (float64, bool) {
	if r.TotalVotes <= 0 {
		return 0, false
	}
	return float64(r.HelpfulCount) / float64(r.TotalVotes), true
}

// SakuraProbability scores a single review from fixed red flags, capped at 1.
func (r Review) SakuraProbability() float64 {
	p := 0.0
	if !r.VerifiedPurchase {
		p += weightUnverified
	}
	if r.Rating == 5 {
		p += weightFiveStar
	}
	if r.ContentLength() < ShortContentChars {
		p += weightShort
	}
	if r.HasGenericReviewerName() {
		p += weightGenericName
	}
	if ratio, ok := r.HelpfulRatio(); ok && ratio < LowHelpfulRatio {
		p += weightLowHelpful
	}
	if p > 1.0 {
		return 1.0
	}
	return p
}

// IsSuspicious is true when SakuraProbability exceeds ReviewSuspicionThreshold.
func (r Review) IsSuspicious() bool {
	return r.SakuraProbability() > ReviewSuspicionThreshold
}

// RatingSnapshot is one point of a product's rating history.
type RatingSnapshot struct {
	Date        time.Time `json:"date"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
}

//Personal.AI order the ending
