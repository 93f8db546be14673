package cache

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"evdsrates/internal/domain"

	"github.com/dgraph-io/ristretto"
)

type RistrettoResultCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewResultCache(maxItems int64, ttl time.Duration) (*RistrettoResultCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create result cache failed: %w", err)
	}
	return &RistrettoResultCache{cache: c, ttl: ttl}, nil
}

// Get returns a copy of the cached records; callers may not mutate shared state.
func (c *RistrettoResultCache) Get(key string) ([]domain.RateRecord, bool) {
	if v, ok := c.cache.Get(key); ok {
		records, ok := v.([]domain.RateRecord)
		return cloneRecords(records), ok
	}
	return nil, false
}

// Set stores a copy of records; a non-positive ttl disables caching.
func (c *RistrettoResultCache) Set(key string, records []domain.RateRecord) {
	if c.ttl <= 0 {
		return
	}
	c.cache.SetWithTTL(key, cloneRecords(records), 1, c.ttl)
}

// cloneRecords copies the slice and each record's OriginalData map. Item values are
// JSON scalars, so one level is enough.
func cloneRecords(records []domain.RateRecord) []domain.RateRecord {
	if records == nil {
		return nil
	}
	out := slices.Clone(records)
	for i := range out {
		out[i].Meta.OriginalData = maps.Clone(out[i].Meta.OriginalData)
	}
	return out
}

func (c *RistrettoResultCache) Close() { c.cache.Close() }
