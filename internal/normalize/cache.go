package normalize

import (
	"time"

	"evdsrates/internal/domain"
)

// RateCache holds the rates produced so far in one normalization pass, per series
// and date. It only ever stores strictly positive values.
type RateCache struct {
	rates map[domain.SeriesKey]map[time.Time]float64
}

func NewRateCache() *RateCache {
	return &RateCache{rates: make(map[domain.SeriesKey]map[time.Time]float64)}
}

func (c *RateCache) Get(key domain.SeriesKey, date time.Time) (float64, bool) {
	v, ok := c.rates[key][domain.DateOnly(date)]
	return v, ok && v > 0
}

// Put records a rate and reports whether it was stored; non-positive rates are ignored.
func (c *RateCache) Put(key domain.SeriesKey, date time.Time, rate float64) bool {
	if !(rate > 0) {
		return false
	}
	byDate, ok := c.rates[key]
	if !ok {
		byDate = make(map[time.Time]float64)
		c.rates[key] = byDate
	}
	byDate[domain.DateOnly(date)] = rate
	return true
}

// Len is the number of cached (series, date) entries.
func (c *RateCache) Len() int {
	n := 0
	for _, byDate := range c.rates {
		n += len(byDate)
	}
	return n
}

// Each calls fn for every cached entry, in no particular order.
func (c *RateCache) Each(fn func(key domain.SeriesKey, date time.Time, rate float64)) {
	for key, byDate := range c.rates {
		for d, v := range byDate {
			fn(key, d, v)
		}
	}
}
