package client

import "time"

// Product is a listing as accepted by the API. Only ASIN is required; nil
// pointers are sent as unknown.
type Product struct {
	ASIN         string   `json:"asin"`
	Name         string   `json:"name,omitempty"`
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

// Review is one customer review. Rating is 1..5 and ReviewDate is required.
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

// RatingSnapshot is one point of a product's rating history.
type RatingSnapshot struct {
	Date        time.Time `json:"date"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
}

// Float and Int build optional Product fields.
func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }

// ─────────────────────────────────────────────────────────────────────────────
// Analysis
// ─────────────────────────────────────────────────────────────────────────────

type AnalyzeRequest struct {
	Product          *Product         `json:"product"`
	Reviews          []Review         `json:"reviews,omitempty"`
	History          []RatingSnapshot `json:"history,omitempty"`
	Peers            []Product        `json:"peers,omitempty"`
	MerchantProducts []Product        `json:"merchant_products,omitempty"`
	// Threshold overrides the server's suspicion threshold.
	Threshold *float64 `json:"threshold,omitempty"`
}

// Report is the presentation form of one analysis. RiskLevel is "LOW",
// "MEDIUM" or "HIGH".
type Report struct {
	ProductASIN       string                 `json:"product_asin"`
	SakuraScore       float64                `json:"sakura_score"`
	RiskLevel         string                 `json:"risk_level"`
	ConfidenceLevel   float64                `json:"confidence_level"`
	AnalysisTimestamp string                 `json:"analysis_timestamp"`
	Warnings          []string               `json:"warnings"`
	Recommendations   []string               `json:"recommendations"`
	AnalysisDetails   map[string]interface{} `json:"analysis_details"`
}

// CategoryComparison places a product within its peers.
type CategoryComparison struct {
	NoPeers           bool    `json:"no_peers,omitempty"`
	PercentileRating  float64 `json:"percentile_rating"`
	PercentileReviews float64 `json:"percentile_reviews"`
	DeviationScore    float64 `json:"deviation_score"`
	IsAnomaly         bool    `json:"is_anomaly"`
	ZScoreRating      float64 `json:"z_score_rating"`
	ZScoreReviews     float64 `json:"z_score_reviews"`
}

// Signals are the auxiliary heuristics; nil fields were not measured.
type Signals struct {
	DistributionBias     *float64 `json:"distribution_bias,omitempty"`
	CorrelationAnomaly   *float64 `json:"correlation_anomaly,omitempty"`
	ReviewBurst          *float64 `json:"review_burst,omitempty"`
	SentimentConsistency *float64 `json:"sentiment_consistency,omitempty"`
	MerchantReliability  *float64 `json:"merchant_reliability,omitempty"`
}

type AnalyzeResponse struct {
	Report             Report              `json:"report"`
	Suspicious         bool                `json:"suspicious"`
	Threshold          float64             `json:"threshold"`
	Category           *CategoryComparison `json:"category,omitempty"`
	Signals            *Signals            `json:"signals,omitempty"`
	ComprehensiveScore *float64            `json:"comprehensive_score,omitempty"`
}

type BatchRequest struct {
	Products  []Product `json:"products"`
	Threshold *float64  `json:"threshold,omitempty"`
}

type BatchItem struct {
	ASIN        string   `json:"product_asin"`
	SakuraScore float64  `json:"sakura_score"`
	RiskLevel   string   `json:"risk_level"`
	Suspicious  bool     `json:"suspicious"`
	Warnings    []string `json:"warnings"`
}

// BatchResponse lists analyzed products from most to least suspicious.
type BatchResponse struct {
	Total     int         `json:"total"`
	Analyzed  int         `json:"analyzed"`
	Failed    int         `json:"failed"`
	Flagged   int         `json:"flagged"`
	Threshold float64     `json:"threshold"`
	Results   []BatchItem `json:"results"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Screening
// ─────────────────────────────────────────────────────────────────────────────

type ScreenRequest struct {
	Keyword         string `json:"keyword"`
	Max             int    `json:"max,omitempty"`
	RecommendedOnly bool   `json:"recommended_only,omitempty"`
}

// CheckOutcome is the external checker's second opinion on a candidate.
type CheckOutcome struct {
	Kind            string  `json:"kind"`
	ASIN            string  `json:"asin"`
	SakuraScore     float64 `json:"sakura_score"`
	SuspiciousCount int     `json:"suspicious_count"`
	TotalCount      int     `json:"total_count"`
	Confidence      float64 `json:"confidence"`
	Reason          string  `json:"reason,omitempty"`
}

// Candidate is one screened product. Disposition is one of "recommended",
// "suspicious", "low_quality" or "failed".
type Candidate struct {
	Product      Product       `json:"product"`
	Check        *CheckOutcome `json:"check,omitempty"`
	SakuraScore  float64       `json:"sakura_score"`
	ScoreSource  string        `json:"score_source,omitempty"`
	QualityScore float64       `json:"quality_score"`
	Suspicious   bool          `json:"suspicious"`
	Recommended  bool          `json:"recommended"`
	Disposition  string        `json:"disposition"`
	CacheHit     bool          `json:"cache_hit"`
	Error        string        `json:"error,omitempty"`
}

// ScreenResult summarises one screening run, candidates in rank order.
type ScreenResult struct {
	RunID            string        `json:"run_id"`
	Keyword          string        `json:"keyword"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration_ns"`
	Found            int           `json:"found"`
	Filtered         int           `json:"filtered"`
	Processed        int           `json:"processed"`
	Failed           int           `json:"failed"`
	RecommendedCount int           `json:"recommended_count"`
	QualityScore     float64       `json:"quality_score"`
	Candidates       []Candidate   `json:"candidates"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

type Liveness struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Readiness struct {
	Status     string                    `json:"status"`
	Version    string                    `json:"version,omitempty"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

//Personal.AI order the ending
