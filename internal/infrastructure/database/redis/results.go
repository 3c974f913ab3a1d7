package redis

import (
	"context"
	"time"

	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

const analysisKeyPrefix = "analysis:"

// AnalysisCache stores detector results keyed by ASIN.
type AnalysisCache struct {
	cache Cache
	ttl   time.Duration
}

func NewAnalysisCache(cache Cache, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{cache: cache, ttl: ttl}
}

func analysisKey(asin string) string { return analysisKeyPrefix + asin }

// GetOrAnalyze returns the cached result for asin or runs analyze and
// stores its result. Concurrent lookups for the same ASIN share one analyze
// call. hit is false only for the caller whose analyze actually ran.
func (a *AnalysisCache) GetOrAnalyze(ctx context.Context, asin string, analyze func(ctx context.Context) (*sakura.AnalysisResult, error)) (res *sakura.AnalysisResult, hit bool, err error) {
	if asin == "" {
		return nil, false, errors.InvalidParam("analysis cache: asin is required")
	}
	ran := false
	var out sakura.AnalysisResult
	err = a.cache.GetOrSet(ctx, analysisKey(asin), &out, a.ttl, func(ctx context.Context) (interface{}, error) {
		ran = true
		r, err := analyze(ctx)
		if err != nil || r == nil {
			return nil, err
		}
		return r, nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, !ran, nil
}

func (a *AnalysisCache) Invalidate(ctx context.Context, asins ...string) error {
	keys := make([]string, len(asins))
	for i, asin := range asins {
		keys[i] = analysisKey(asin)
	}
	return a.cache.Delete(ctx, keys...)
}

func (a *AnalysisCache) InvalidateAll(ctx context.Context) (int64, error) {
	return a.cache.DeleteByPrefix(ctx, analysisKeyPrefix)
}

//Personal.AI order the ending
