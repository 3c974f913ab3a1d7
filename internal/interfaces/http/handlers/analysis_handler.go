package handlers

import (
	"net/http"

	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// MaxBatchProducts bounds one batch request.
const MaxBatchProducts = 1000

// Analyzer is the detector surface the analysis endpoints use.
type Analyzer interface {
	AnalyzeProduct(p product.Product, reviews []product.Review, history []product.RatingSnapshot) (*sakura.AnalysisResult, error)
	BatchAnalyze(products []product.Product) []*sakura.AnalysisResult
}

// AnalysisHandler serves single-product, batch and heuristic analysis.
type AnalysisHandler struct {
	analyzer  Analyzer
	threshold float64
	maxBody   int64
	logger    logging.Logger
}

// NewAnalysisHandler creates an AnalysisHandler. threshold is the default
// suspicion threshold; requests may override it.
func NewAnalysisHandler(analyzer Analyzer, threshold float64, maxBody int64, logger logging.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnalysisHandler{
		analyzer:  analyzer,
		threshold: threshold,
		maxBody:   maxBody,
		logger:    logger.Named("analysis_handler"),
	}
}

// AnalyzeRequest is the body of POST /api/v1/analyze. Peers and merchant
// products are optional and enable the category comparison and auxiliary
// signals.
type AnalyzeRequest struct {
	Product          *product.Product         `json:"product"`
	Reviews          []product.Review         `json:"reviews,omitempty"`
	History          []product.RatingSnapshot `json:"history,omitempty"`
	Peers            []product.Product        `json:"peers,omitempty"`
	MerchantProducts []product.Product        `json:"merchant_products,omitempty"`
	Threshold        *float64                 `json:"threshold,omitempty"`
}

type AnalyzeResponse struct {
	Report             sakura.Report              `json:"report"`
	Suspicious         bool                       `json:"suspicious"`
	Threshold          float64                    `json:"threshold"`
	Category           *sakura.CategoryComparison `json:"category,omitempty"`
	Signals            *sakura.Signals            `json:"signals,omitempty"`
	ComprehensiveScore *float64                   `json:"comprehensive_score,omitempty"`
}

func (h *AnalysisHandler) resolveThreshold(override *float64) (float64, error) {
	if override == nil {
		return h.threshold, nil
	}
	if *override < 0 || *override > 1 {
		return 0, errors.InvalidParam("threshold must be within [0, 1]")
	}
	return *override, nil
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.Product == nil {
		writeAppError(w, errors.New(errors.ErrCodeProductInvalid, "product is required"))
		return
	}
	threshold, err := h.resolveThreshold(req.Threshold)
	if err != nil {
		writeAppError(w, err)
		return
	}

	res, err := h.analyzer.AnalyzeProduct(*req.Product, req.Reviews, req.History)
	if err != nil {
		h.logger.Warn("analysis rejected", logging.ASIN(req.Product.ASIN()), logging.Err(err))
		writeAppError(w, err)
		return
	}

	resp := AnalyzeResponse{
		Report:     res.ToReport(),
		Suspicious: res.IsSuspicious(threshold),
		Threshold:  threshold,
	}
	if len(req.Peers) > 0 {
		cmp := sakura.CompareWithCategory(*req.Product, req.Peers)
		resp.Category = &cmp
	}
	if len(req.Reviews) > 0 || len(req.Peers) > 0 || len(req.MerchantProducts) > 0 {
		signals := sakura.ComputeSignals(*req.Product, req.Reviews, req.Peers, req.MerchantProducts)
		resp.Signals = &signals
		resp.ComprehensiveScore = sakura.Float(sakura.CalculateComprehensiveScore(signals))
	}
	writeJSON(w, http.StatusOK, resp)
}

// BatchRequest is the body of POST /api/v1/analyze/batch.
type BatchRequest struct {
	Products  []product.Product `json:"products"`
	Threshold *float64          `json:"threshold,omitempty"`
}

type BatchItem struct {
	ASIN        string            `json:"product_asin"`
	SakuraScore float64           `json:"sakura_score"`
	RiskLevel   product.RiskLevel `json:"risk_level"`
	Suspicious  bool              `json:"suspicious"`
	Warnings    []string          `json:"warnings"`
}

type BatchResponse struct {
	Total     int         `json:"total"`
	Analyzed  int         `json:"analyzed"`
	Failed    int         `json:"failed"`
	Flagged   int         `json:"flagged"`
	Threshold float64     `json:"threshold"`
	Results   []BatchItem `json:"results"`
}

// Batch handles POST /api/v1/analyze/batch. Results are sorted by
// descending sakura score; products that fail analysis are counted and
// left out.
func (h *AnalysisHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if len(req.Products) == 0 {
		writeAppError(w, errors.InvalidParam("products must not be empty"))
		return
	}
	if len(req.Products) > MaxBatchProducts {
		writeAppError(w, errors.InvalidParam("too many products in batch").WithDetail("max=1000"))
		return
	}
	threshold, err := h.resolveThreshold(req.Threshold)
	if err != nil {
		writeAppError(w, err)
		return
	}

	results := h.analyzer.BatchAnalyze(req.Products)
	resp := BatchResponse{
		Total:     len(req.Products),
		Analyzed:  len(results),
		Failed:    len(req.Products) - len(results),
		Threshold: threshold,
		Results:   make([]BatchItem, 0, len(results)),
	}
	for _, res := range results {
		item := BatchItem{
			ASIN:        res.ASIN,
			SakuraScore: res.SakuraScore,
			RiskLevel:   sakura.ClassifyReportRisk(res.SakuraScore),
			Suspicious:  res.IsSuspicious(threshold),
			Warnings:    res.Warnings,
		}
		if item.Warnings == nil {
			item.Warnings = []string{}
		}
		if item.Suspicious {
			resp.Flagged++
		}
		resp.Results = append(resp.Results, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────────────────────────────────────
// Heuristics
// ─────────────────────────────────────────────────────────────────────────────

type DistributionRequest struct {
	// Distribution is the 1★..5★ review histogram.
	Distribution []int `json:"distribution"`
}

type DistributionResponse struct {
	Bias float64 `json:"bias"`
}

// Distribution handles POST /api/v1/heuristics/distribution.
func (h *AnalysisHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	var req DistributionRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if len(req.Distribution) != 5 {
		writeAppError(w, errors.InvalidParam("distribution must have 5 buckets"))
		return
	}
	for _, c := range req.Distribution {
		if c < 0 {
			writeAppError(w, errors.InvalidParam("distribution counts must not be negative"))
			return
		}
	}
	writeJSON(w, http.StatusOK, DistributionResponse{Bias: sakura.CalculateDistributionBias(req.Distribution)})
}

type MerchantRequest struct {
	Ratings  []float64         `json:"ratings,omitempty"`
	Products []product.Product `json:"products,omitempty"`
}

type MerchantResponse struct {
	Reliability float64 `json:"reliability"`
	Ratings     int     `json:"ratings"`
}

// Merchant handles POST /api/v1/heuristics/merchant. Ratings may be given
// directly, through the seller's products, or both.
func (h *AnalysisHandler) Merchant(w http.ResponseWriter, r *http.Request) {
	var req MerchantRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeAppError(w, err)
		return
	}
	ratings := append([]float64(nil), req.Ratings...)
	ratings = append(ratings, sakura.MerchantRatings(req.Products)...)
	for _, v := range ratings {
		if v < product.MinRating || v > product.MaxRating {
			writeAppError(w, errors.InvalidParam("ratings must be within [1, 5]"))
			return
		}
	}
	writeJSON(w, http.StatusOK, MerchantResponse{
		Reliability: sakura.CalculateMerchantReliability(ratings),
		Ratings:     len(ratings),
	})
}

//Personal.AI order the ending
