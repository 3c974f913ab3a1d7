package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
)

// CheckKind tags a CheckOutcome.
type CheckKind int

const (
	CheckUnavailable CheckKind = iota
	CheckValid
	CheckInvalid
)

func (k CheckKind) String() string {
	switch k {
	case CheckValid:
		return "valid"
	case CheckInvalid:
		return "invalid"
	default:
		return "unavailable"
	}
}

func (k CheckKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// CheckOutcome is the external checker's verdict on one product. Only a
// Valid outcome carries a usable score; Invalid and Unavailable carry a
// Reason.
type CheckOutcome struct {
	Kind            CheckKind `json:"kind"`
	ASIN            string    `json:"asin"`
	SakuraScore     float64   `json:"sakura_score"`
	SuspiciousCount int       `json:"suspicious_count"`
	TotalCount      int       `json:"total_count"`
	Confidence      float64   `json:"confidence"`
	Reason          string    `json:"reason,omitempty"`
}

func (o CheckOutcome) Valid() bool { return o.Kind == CheckValid }

// SuspiciousRatio is SuspiciousCount/TotalCount, 0 without reviews.
func (o CheckOutcome) SuspiciousRatio() float64 {
	if o.TotalCount <= 0 {
		return 0
	}
	return float64(o.SuspiciousCount) / float64(o.TotalCount)
}

func unavailable(asin, reason string) CheckOutcome {
	return CheckOutcome{Kind: CheckUnavailable, ASIN: asin, Reason: reason}
}

func invalid(asin, reason string) CheckOutcome {
	return CheckOutcome{Kind: CheckInvalid, ASIN: asin, Reason: reason}
}

type checkerPayload struct {
	ASIN            string   `json:"asin"`
	Status          string   `json:"status"`
	Error           string   `json:"error"`
	SakuraScore     *float64 `json:"sakura_score"`
	SuspiciousCount *int     `json:"suspicious_count"`
	TotalCount      *int     `json:"total_count"`
}

// ParseCheckerResponse validates a raw checker response for asin.
//
// Scores above 1 are read as percentages and divided by 100; anything
// outside [0, 100] is Invalid. suspicious_count must not exceed
// total_count. An empty body, an error status or an error message is
// Unavailable.
func ParseCheckerResponse(asin string, raw []byte) CheckOutcome {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return unavailable(asin, "empty response")
	}
	var p checkerPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return invalid(asin, "malformed json: "+err.Error())
	}
	switch strings.ToLower(p.Status) {
	case "", "ok", "success":
	default:
		return unavailable(asin, "checker status "+p.Status)
	}
	if p.Error != "" {
		return unavailable(asin, p.Error)
	}
	if p.ASIN != "" && !strings.EqualFold(p.ASIN, asin) {
		return invalid(asin, fmt.Sprintf("asin mismatch: got %s", p.ASIN))
	}
	if p.SakuraScore == nil {
		return invalid(asin, "missing sakura_score")
	}

	score := *p.SakuraScore
	if math.IsNaN(score) || score < 0 || score > 100 {
		return invalid(asin, fmt.Sprintf("sakura_score %v out of range", score))
	}
	if score > 1 {
		score /= 100
	}

	var suspicious, total int
	if p.SuspiciousCount != nil {
		suspicious = *p.SuspiciousCount
	}
	if p.TotalCount != nil {
		total = *p.TotalCount
	}
	if suspicious < 0 || total < 0 {
		return invalid(asin, "negative review counts")
	}
	if suspicious > total {
		return invalid(asin, fmt.Sprintf("suspicious_count %d exceeds total_count %d", suspicious, total))
	}

	return CheckOutcome{
		Kind:            CheckValid,
		ASIN:            asin,
		SakuraScore:     score,
		SuspiciousCount: suspicious,
		TotalCount:      total,
		Confidence:      checkerConfidence(total),
	}
}

// checkerConfidence grows with the number of reviews the checker saw.
func checkerConfidence(total int) float64 {
	switch {
	case total >= 500:
		return 0.95
	case total >= 100:
		return 0.85
	case total >= 50:
		return 0.75
	case total >= 10:
		return 0.65
	default:
		return 0.5
	}
}

// ============================================================================
// Checker client
// ============================================================================

// Checker asks an external service for a second opinion. Implementations
// report failures through the outcome kind rather than an error.
type Checker interface {
	Check(ctx context.Context, asin string) CheckOutcome
}

const maxCheckerBody = 1 << 20

// HTTPChecker GETs an endpoint template in which "{asin}" is replaced by the
// escaped ASIN.
type HTTPChecker struct {
	endpoint string
	client   *http.Client
	logger   logging.Logger
}

func NewHTTPChecker(endpoint string, timeout time.Duration, log logging.Logger) *HTTPChecker {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HTTPChecker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   log.Named("checker"),
	}
}

func (c *HTTPChecker) Check(ctx context.Context, asin string) CheckOutcome {
	target := strings.ReplaceAll(c.endpoint, "{asin}", url.PathEscape(asin))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return invalid(asin, "bad checker endpoint: "+err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("checker request failed", logging.ASIN(asin), logging.Err(err))
		return unavailable(asin, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxCheckerBody))
		return unavailable(asin, fmt.Sprintf("checker returned HTTP %d", resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCheckerBody))
	if err != nil {
		return unavailable(asin, "reading checker body: "+err.Error())
	}
	out := ParseCheckerResponse(asin, body)
	if out.Kind == CheckInvalid {
		c.logger.Warn("checker response rejected", logging.ASIN(asin), logging.String("reason", out.Reason))
	}
	return out
}

//Personal.AI order the ending
