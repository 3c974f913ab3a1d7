package handlers

import (
	"context"
	"net/http"

	"github.com/turtacn/SakuraScope/internal/application/screening"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// Screener runs one screening workflow.
type Screener interface {
	Screen(ctx context.Context, keyword string, max int) (*screening.Result, error)
}

type ScreeningHandler struct {
	screener Screener
	maxBody  int64
	logger   logging.Logger
}

func NewScreeningHandler(s Screener, maxBody int64, logger logging.Logger) *ScreeningHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ScreeningHandler{screener: s, maxBody: maxBody, logger: logger.Named("screening_handler")}
}

// ScreenRequest is the body of POST /api/v1/screen. Max ≤ 0 uses the
// configured result limit.
type ScreenRequest struct {
	Keyword string `json:"keyword"`
	Max     int    `json:"max,omitempty"`
	// RecommendedOnly drops non-recommended candidates from the response.
	RecommendedOnly bool `json:"recommended_only,omitempty"`
}

// Screen handles POST /api/v1/screen.
func (h *ScreeningHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req ScreenRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.Max < 0 {
		writeAppError(w, errors.InvalidParam("max must not be negative"))
		return
	}

	res, err := h.screener.Screen(r.Context(), req.Keyword, req.Max)
	if err != nil {
		h.logger.Warn("screening failed", logging.String("keyword", req.Keyword), logging.Err(err))
		writeAppError(w, err)
		return
	}
	if req.RecommendedOnly {
		res.Candidates = res.Recommended()
	}
	writeJSON(w, http.StatusOK, res)
}

//Personal.AI order the ending
