package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/turtacn/SakuraScope/pkg/errors"
)

const apiPrefix = "/api/v1"

// Analyze scores one product. The server rejects a missing product with
// SAK_001 and an invalid review with SAK_002.
func (c *Client) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if req == nil || req.Product == nil {
		return nil, errors.New(errors.ErrCodeProductInvalid, "product is required")
	}
	var resp AnalyzeResponse
	if err := c.post(ctx, apiPrefix+"/analyze", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchAnalyze scores many products and returns them ranked by suspicion.
func (c *Client) BatchAnalyze(ctx context.Context, req *BatchRequest) (*BatchResponse, error) {
	if req == nil || len(req.Products) == 0 {
		return nil, errors.InvalidParam("at least one product is required")
	}
	var resp BatchResponse
	if err := c.post(ctx, apiPrefix+"/analyze/batch", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Screen runs a keyword screening on the server's catalog.
func (c *Client) Screen(ctx context.Context, req *ScreenRequest) (*ScreenResult, error) {
	if req == nil || req.Keyword == "" {
		return nil, errors.InvalidParam("keyword is required")
	}
	if req.Max < 0 {
		return nil, errors.InvalidParam("max must not be negative")
	}
	var resp ScreenResult
	if err := c.post(ctx, apiPrefix+"/screen", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DistributionBias returns the bias score of a 1★..5★ histogram.
func (c *Client) DistributionBias(ctx context.Context, distribution []int) (float64, error) {
	if len(distribution) != 5 {
		return 0, errors.InvalidParam("distribution must have 5 buckets")
	}
	var resp struct {
		Bias float64 `json:"bias"`
	}
	body := map[string][]int{"distribution": distribution}
	if err := c.post(ctx, apiPrefix+"/heuristics/distribution", body, &resp); err != nil {
		return 0, err
	}
	return resp.Bias, nil
}

// MerchantReliability scores a seller from the ratings of its products.
// Ratings and products are combined server side.
func (c *Client) MerchantReliability(ctx context.Context, ratings []float64, products []Product) (float64, error) {
	var resp struct {
		Reliability float64 `json:"reliability"`
	}
	body := struct {
		Ratings  []float64 `json:"ratings,omitempty"`
		Products []Product `json:"products,omitempty"`
	}{Ratings: ratings, Products: products}
	if err := c.post(ctx, apiPrefix+"/heuristics/merchant", body, &resp); err != nil {
		return 0, err
	}
	return resp.Reliability, nil
}

// Health calls the liveness probe.
func (c *Client) Health(ctx context.Context) (*Liveness, error) {
	var resp Liveness
	if err := c.get(ctx, "/healthz", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ready calls the readiness probe once. A 503 is not an error: the
// returned Readiness carries the failing components.
func (c *Client) Ready(ctx context.Context) (*Readiness, error) {
	var resp Readiness
	err := c.send(ctx, http.MethodGet, "/readyz", nil, &resp, 0)
	if err == nil {
		return &resp, nil
	}
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.StatusCode != http.StatusServiceUnavailable {
		return nil, err
	}
	resp = Readiness{Status: "not_ready"}
	_ = json.Unmarshal(apiErr.body, &resp)
	return &resp, nil
}

//Personal.AI order the ending
