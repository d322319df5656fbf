package ml

import (
	"context"
	"encoding/binary"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedPredictor memoizes results by exact feature values. Prediction is
// deterministic, so a hit is indistinguishable from a fresh run.
type CachedPredictor struct {
	inner ModelProvider
	cache *lru.Cache[string, Result]
}

func NewCachedPredictor(inner ModelProvider, size int) (*CachedPredictor, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, Result](size)
	if err != nil {
		return nil, err
	}
	return &CachedPredictor{inner: inner, cache: cache}, nil
}

func (c *CachedPredictor) Predict(ctx context.Context, features []float64) (Result, error) {
	key := cacheKey(features)
	if result, ok := c.cache.Get(key); ok {
		return result, nil
	}
	result, err := c.inner.Predict(ctx, features)
	if err != nil {
		return Result{}, err
	}
	c.cache.Add(key, result)
	return result, nil
}

func (c *CachedPredictor) Len() int {
	return c.cache.Len()
}

func cacheKey(features []float64) string {
	buf := make([]byte, 8*len(features))
	for i, f := range features {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return string(buf)
}
