package normalize

import (
	"time"

	"evdsrates/internal/domain"
)

// previousDayLookback is how far back previous_day searches for a usable rate.
const previousDayLookback = 7

// Resolve finds a substitute for a missing rate of key on date.
// The cache is consulted first, then the records produced so far in the same pass.
// ok is false when nothing usable exists; for skip it is always false.
func Resolve(key domain.SeriesKey, date time.Time, strategy domain.NullStrategy, cache *RateCache, produced []domain.RateRecord) (rate float64, ok bool) {
	date = domain.DateOnly(date)

	switch strategy {
	case domain.PreviousDay:
		for i := 1; i <= previousDayLookback; i++ {
			if v, found := lookup(key, date.AddDate(0, 0, -i), cache, produced); found {
				return v, true
			}
		}
		return 0, false

	case domain.LastWeekAvg:
		prev := date.AddDate(0, 0, -7)
		from, to := domain.StartOfWeek(prev), domain.EndOfWeek(prev)

		var sum float64
		var n int
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if v, found := lookup(key, d, cache, produced); found {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true

	default:
		return 0, false
	}
}

// lookup returns a positive rate known for key on date.
func lookup(key domain.SeriesKey, date time.Time, cache *RateCache, produced []domain.RateRecord) (float64, bool) {
	if v, ok := cache.Get(key, date); ok {
		return v, true
	}
	for _, r := range produced {
		if r.Key() == key && r.Date.Equal(date) && r.Rate > 0 {
			return r.Rate, true
		}
	}
	return 0, false
}
