// Package product holds the domain values the sakura detection engine works
// on: products, individual reviews, rating history snapshots and the
// per-product SakuraScore rollup.
//
// Every "unknown" numeric field is a pointer or a (value, ok) accessor so an
// unmeasured rating is never confused with a zero rating.
package product

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// Rating and score bounds enforced at construction.
const (
	MinRating      = 1.0
	MaxRating      = 5.0
	MinSakuraScore = 0.0
	MaxSakuraScore = 1.0
)

// Defaults for MeetsQualityCriteria.
const (
	DefaultMinQualityRating  = 4.0
	DefaultMinQualityReviews = 500
)

// highQualitySakuraCutoff is the stored-score ceiling for IsHighQuality.
const highQualitySakuraCutoff = 0.5

// Product is an immutable listing snapshot. Construct it with New; invalid
// ratings and scores are coerced to unset rather than stored.
type Product struct {
	asin         string
	name         string
	model        string
	brand        string
	amazonURL    string
	affiliateURL string
	merchantID   string

	price        *float64
	rating       *float64
	reviewsCount *int
	sakuraScore  *float64
}

// Option sets an optional Product field during New.
type Option func(*Product)

// WithRating sets the average star rating (1.0–5.0).
func WithRating(r float64) Option {
	return func(p *Product) { p.rating = &r }
}

// WithReviewsCount sets the number of reviews. Negative counts become 0.
func WithReviewsCount(n int) Option {
	return func(p *Product) { p.reviewsCount = &n }
}

// WithSakuraScore sets a precomputed 0–1 sakura score.
func WithSakuraScore(s float64) Option {
	return func(p *Product) { p.sakuraScore = &s }
}

// WithPrice sets the listing price in yen.
func WithPrice(v float64) Option {
	return func(p *Product) { p.price = &v }
}

// WithBrand sets the brand name.
func WithBrand(b string) Option {
	return func(p *Product) { p.brand = b }
}

// WithModel sets the manufacturer part number.
func WithModel(m string) Option {
	return func(p *Product) { p.model = m }
}

// WithMerchantID sets the seller identity.
func WithMerchantID(id string) Option {
	return func(p *Product) { p.merchantID = id }
}

// WithURLs sets the product page and affiliate URLs.
func WithURLs(amazonURL, affiliateURL string) Option {
	return func(p *Product) {
		p.amazonURL = amazonURL
		p.affiliateURL = affiliateURL
	}
}

// New builds a Product. The ASIN is required; everything else is optional.
// Out-of-range values are coerced and reported through the process default
// logger.
func New(asin, name string, opts ...Option) (Product, error) {
	asin = strings.TrimSpace(asin)
	if asin == "" {
		return Product{}, errors.New(errors.ErrCodeProductInvalid, "asin must not be empty")
	}
	p := Product{asin: asin, name: name}
	for _, opt := range opts {
		opt(&p)
	}
	p.normalize(logging.Default())
	return p, nil
}

// MustNew is New that panics on error. Intended for tests and fixtures.
func MustNew(asin, name string, opts ...Option) Product {
	p, err := New(asin, name, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Product) normalize(log logging.Logger) {
	if p.rating != nil {
		r := *p.rating
		if math.IsNaN(r) || r < MinRating || r > MaxRating {
			log.Warn("invalid rating coerced to unset", logging.ASIN(p.asin), logging.Float64("rating", r))
			p.rating = nil
		}
	}
	if p.sakuraScore != nil {
		s := *p.sakuraScore
		if math.IsNaN(s) || s < MinSakuraScore || s > MaxSakuraScore {
			log.Warn("invalid sakura score coerced to unset", logging.ASIN(p.asin), logging.Float64("sakura_score", s))
			p.sakuraScore = nil
		}
	}
	if p.reviewsCount != nil && *p.reviewsCount < 0 {
		log.Warn("negative reviews count coerced to 0", logging.ASIN(p.asin), logging.Int("reviews_count", *p.reviewsCount))
		zero := 0
		p.reviewsCount = &zero
	}
	if p.price != nil && (math.IsNaN(*p.price) || *p.price < 0) {
		log.Warn("negative price coerced to unset", logging.ASIN(p.asin), logging.Float64("price", *p.price))
		p.price = nil
	}
}

func (p Product) ASIN() string         { return p.asin }
func (p Product) Name() string         { return p.name }
func (p Product) Model() string        { return p.model }
func (p Product) Brand() string        { return p.brand }
func (p Product) AmazonURL() string    { return p.amazonURL }
func (p Product) AffiliateURL() string { return p.affiliateURL }
func (p Product) MerchantID() string   { return p.merchantID }

// Rating returns the average star rating and whether it is known.
func (p Product) Rating() (float64, bool) {
	if p.rating == nil {
		return 0, false
	}
	return *p.rating, true
}

// ReviewsCount returns the review count and whether it is known.
func (p Product) ReviewsCount() (int, bool) {
	if p.reviewsCount == nil {
		return 0, false
	}
	return *p.reviewsCount, true
}

// ReviewsCountOrZero treats an unknown review count as zero reviews.
func (p Product) ReviewsCountOrZero() int {
	n, _ := p.ReviewsCount()
	return n
}

// SakuraScore returns the precomputed score and whether one was supplied.
func (p Product) SakuraScore() (float64, bool) {
	if p.sakuraScore == nil {
		return 0, false
	}
	return *p.sakuraScore, true
}

// Price returns the listing price and whether it is known.
func (p Product) Price() (float64, bool) {
	if p.price == nil {
		return 0, false
	}
	return *p.price, true
}

// IsHighQuality is true when no sakura score is stored or the stored score
// is below 0.5.
func (p Product) IsHighQuality() bool {
	s, ok := p.SakuraScore()
	return !ok || s < highQualitySakuraCutoff
}

// MeetsQualityCriteria reports whether the rating and review count are both
// known and at least the given minimums.
func (p Product) MeetsQualityCriteria(minRating float64, minReviews int) bool {
	r, ok := p.Rating()
	if !ok {
		return false
	}
	n, ok := p.ReviewsCount()
	if !ok {
		return false
	}
	return r >= minRating && n >= minReviews
}

// WithScore returns a copy carrying the given sakura score (validated as in New).
func (p Product) WithScore(score float64) Product {
	out := p
	out.sakuraScore = &score
	out.normalize(logging.Default())
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// JSON
// ─────────────────────────────────────────────────────────────────────────────

type productJSON struct {
	ASIN         string   `json:"asin"`
	Name         string   `json:"name"`
	Model        string   `json:"model,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	AmazonURL    string   `json:"amazon_url,omitempty"`
	AffiliateURL string   `json:"affiliate_url,omitempty"`
	MerchantID   string   `json:"merchant_id,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewsCount *int     `json:"reviews_count,omitempty"`
	SakuraScore  *float64 `json:"sakura_score,omitempty"`
}

// MarshalJSON encodes the product with unset fields omitted.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productJSON{
		ASIN:         p.asin,
		Name:         p.name,
		Model:        p.model,
		Brand:        p.brand,
		AmazonURL:    p.amazonURL,
		AffiliateURL: p.affiliateURL,
		MerchantID:   p.merchantID,
		Price:        p.price,
		Rating:       p.rating,
		ReviewsCount: p.reviewsCount,
		SakuraScore:  p.sakuraScore,
	})
}

// UnmarshalJSON decodes and validates through New.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeProductInvalid, "malformed product json")
	}
	opts := []Option{
		WithBrand(raw.Brand),
		WithModel(raw.Model),
		WithMerchantID(raw.MerchantID),
		WithURLs(raw.AmazonURL, raw.AffiliateURL),
	}
	if raw.Rating != nil {
		opts = append(opts, WithRating(*raw.Rating))
	}
	if raw.ReviewsCount != nil {
		opts = append(opts, WithReviewsCount(*raw.ReviewsCount))
	}
	if raw.SakuraScore != nil {
		opts = append(opts, WithSakuraScore(*raw.SakuraScore))
	}
	if raw.Price != nil {
		opts = append(opts, WithPrice(*raw.Price))
	}
	built, err := New(raw.ASIN, raw.Name, opts...)
	if err != nil {
		return err
	}
	*p = built
	return nil
}

//Personal.AI order the ending
