package normalize

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"
	"evdsrates/internal/series"

	"github.com/araddon/dateparse"
	"github.com/jonboulle/clockwork"
)

// GapHook is notified about every (series, date) pair whose missing value could not be filled.
type GapHook func(key domain.SeriesKey, date time.Time, strategy domain.NullStrategy)

// Normalizer turns raw EVDS payloads into rate records, filling gaps per the
// query's null handling strategy. It holds no state between calls.
type Normalizer struct {
	clock clockwork.Clock
	onGap GapHook
}

type Option func(*Normalizer)

func WithClock(c clockwork.Clock) Option {
	return func(n *Normalizer) { n.clock = c }
}

func WithGapHook(h GapHook) Option {
	return func(n *Normalizer) { n.onGap = h }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize is a convenience wrapper using a default Normalizer.
func Normalize(payload any, spec query.Spec) []domain.RateRecord {
	return New().Normalize(payload, spec)
}

// Normalize maps payload onto rate records, ordered by payload item and then by
// the series order of spec. Malformed items and unknown series are skipped;
// an unrecognized payload shape yields an empty result.
func (n *Normalizer) Normalize(payload any, spec query.Spec) []domain.RateRecord {
	items, ok := extractItems(payload)
	if !ok {
		return []domain.RateRecord{}
	}

	codes := spec.SeriesCodes()
	strategy := spec.EffectiveStrategy()

	cache := NewRateCache()
	records := make([]domain.RateRecord, 0, len(items)*len(codes))

	for _, raw := range items {
		item, isObject := raw.(map[string]any)
		if !isObject {
			continue
		}

		date, ok := n.itemDate(item, spec)
		if !ok {
			continue
		}

		for _, code := range codes {
			key, ok := series.Decode(code)
			if !ok {
				continue
			}
			field := series.FieldName(code)

			value, present := item[field]
			missing := !present || isMissing(value)

			var rate float64
			if missing {
				filled, resolved := Resolve(key, date, strategy, cache, records)
				if !resolved {
					if n.onGap != nil {
						n.onGap(key, date, strategy)
					}
					continue
				}
				rate = filled
			} else {
				rate = toFloat(value)
			}

			cache.Put(key, date, rate)

			records = append(records, domain.RateRecord{
				Currency: key.Currency,
				Type:     key.Type,
				Market:   key.Market,
				Date:     date,
				Rate:     rate,
				Meta: domain.RecordMeta{
					SeriesCode:   code,
					ResponseKey:  field,
					OriginalData: maps.Clone(item),
					NullHandled:  missing,
				},
			})
		}
	}

	return records
}

// extractItems accepts {"items": [...]} or a bare list of objects.
func extractItems(payload any) ([]any, bool) {
	switch p := payload.(type) {
	case map[string]any:
		items, ok := p["items"].([]any)
		return items, ok
	case []any:
		if len(p) == 0 {
			return nil, false
		}
		if _, ok := p[0].(map[string]any); !ok {
			return nil, false
		}
		return p, true
	case []map[string]any:
		items := make([]any, len(p))
		for i, m := range p {
			items[i] = m
		}
		return items, len(items) > 0
	}
	return nil, false
}

func (n *Normalizer) itemDate(item map[string]any, spec query.Spec) (time.Time, bool) {
	for _, field := range []string{"Tarih", "date"} {
		if v, ok := item[field]; ok && v != nil {
			return parseDate(fmt.Sprint(v))
		}
	}
	if !spec.Start().IsZero() {
		return domain.DateOnly(spec.Start()), true
	}
	return domain.DateOnly(n.clock.Now()), true
}

// parseDate reads DD-MM-YYYY first and falls back to flexible parsing.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{query.WireDateLayout, "2-1-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return domain.DateOnly(t), true
}

// isMissing reports the values EVDS uses for weekends and holidays.
func isMissing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == "" || val == "null"
	}
	return false
}

// toFloat coerces a raw value to a rate; anything unreadable or non-finite becomes 0.
func toFloat(v any) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
