package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// ResultInvalidator drops cached analysis results.
type ResultInvalidator interface {
	Invalidate(ctx context.Context, asins ...string) error
	InvalidateAll(ctx context.Context) (int64, error)
}

// CacheHandler purges the analysis result cache, e.g. after the detector
// configuration changed and cached scores are stale.
type CacheHandler struct {
	cache  ResultInvalidator
	logger logging.Logger
}

func NewCacheHandler(cache ResultInvalidator, logger logging.Logger) *CacheHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CacheHandler{cache: cache, logger: logger.Named("cache_handler")}
}

// PurgeResponse is the body of DELETE /api/v1/cache/analysis.
type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}

// InvalidateAll handles DELETE /api/v1/cache/analysis.
func (h *CacheHandler) InvalidateAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.cache.InvalidateAll(r.Context())
	if err != nil {
		h.logger.Error("analysis cache purge failed", logging.Err(err))
		writeAppError(w, err)
		return
	}
	h.logger.Info("analysis cache purged", logging.Int64("deleted", n))
	writeJSON(w, http.StatusOK, PurgeResponse{Deleted: n})
}

// Invalidate handles DELETE /api/v1/cache/analysis/{asin}.
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	asin := strings.TrimSpace(chi.URLParam(r, "asin"))
	if asin == "" {
		writeAppError(w, errors.InvalidParam("asin is required"))
		return
	}
	if err := h.cache.Invalidate(r.Context(), asin); err != nil {
		h.logger.Error("analysis cache invalidation failed", logging.ASIN(asin), logging.Err(err))
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//Personal.AI order the ending
