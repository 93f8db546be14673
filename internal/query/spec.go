package query

import (
	"net/url"
	"slices"
	"time"

	"evdsrates/internal/domain"
	"evdsrates/internal/series"
)

// WireDateLayout is the DD-MM-YYYY date format used by the EVDS API.
const WireDateLayout = "02-01-2006"

// Spec is an immutable description of what to fetch. Create it with Builder.Build.
type Spec struct {
	currencies      []string
	start           time.Time
	end             time.Time
	types           []domain.RateType
	markets         []domain.MarketType
	strategy        domain.NullStrategy
	defaultStrategy domain.NullStrategy
}

func (s Spec) Currencies() []string { return slices.Clone(s.currencies) }
func (s Spec) Start() time.Time { return s.start }
func (s Spec) End() time.Time { return s.end }
func (s Spec) Types() []domain.RateType { return slices.Clone(s.types) }
func (s Spec) Markets() []domain.MarketType { return slices.Clone(s.markets) }

// resolvedTypes returns the type filter, or every type when unfiltered.
func (s Spec) resolvedTypes() []domain.RateType {
	if len(s.types) == 0 {
		return domain.RateTypes
	}
	return s.types
}

func (s Spec) resolvedMarkets() []domain.MarketType {
	if len(s.markets) == 0 {
		return domain.MarketTypes
	}
	return s.markets
}

// Keys returns the series keys to fetch: currency outer, type middle, market inner.
func (s Spec) Keys() []domain.SeriesKey {
	types := s.resolvedTypes()
	markets := s.resolvedMarkets()

	keys := make([]domain.SeriesKey, 0, len(s.currencies)*len(types)*len(markets))
	for _, ccy := range s.currencies {
		for _, typ := range types {
			for _, market := range markets {
				keys = append(keys, domain.SeriesKey{Currency: ccy, Type: typ, Market: market})
			}
		}
	}
	return keys
}

// SeriesCodes returns the wire series codes in the same order as Keys.
func (s Spec) SeriesCodes() []string {
	keys := s.Keys()
	codes := make([]string, len(keys))
	for i, k := range keys {
		codes[i] = series.Encode(k)
	}
	return codes
}

// EffectiveStrategy is the explicit strategy, else the configured default, else previous_day.
func (s Spec) EffectiveStrategy() domain.NullStrategy {
	if s.strategy != "" {
		return s.strategy
	}
	if s.defaultStrategy != "" {
		return s.defaultStrategy
	}
	return domain.PreviousDay
}

// Params returns the query string for the EVDS request. The API key is never part of it.
func (s Spec) Params() url.Values {
	params := url.Values{}
	params.Set("series", series.Join(s.SeriesCodes()))
	params.Set("startDate", s.start.Format(WireDateLayout))
	params.Set("endDate", s.end.Format(WireDateLayout))
	params.Set("type", "json")
	return params
}
