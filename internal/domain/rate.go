package domain

import (
	"fmt"
	"time"
)

// RateType is the side of the quote: buying or selling.
type RateType string

const (
	Buy  RateType = "buy"
	Sell RateType = "sell"
)

// RateTypes lists rate types in declaration order.
var RateTypes = []RateType{Buy, Sell}

func ParseRateType(s string) (RateType, error) {
	switch RateType(s) {
	case Buy, Sell:
		return RateType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRateType, s)
}

// MarketType distinguishes the forex ("Döviz") rate from the banknote ("Efektif") rate.
type MarketType string

const (
	Forex    MarketType = "forex"
	Banknote MarketType = "banknote"
)

// MarketTypes lists market types in declaration order.
var MarketTypes = []MarketType{Forex, Banknote}

func ParseMarketType(s string) (MarketType, error) {
	switch MarketType(s) {
	case Forex, Banknote:
		return MarketType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMarketType, s)
}

// SeriesKey identifies a single observed rate series.
type SeriesKey struct {
	Currency string
	Type     RateType
	Market   MarketType
}

func (k SeriesKey) String() string {
	return k.Currency + "_" + string(k.Type) + "_" + string(k.Market)
}

type RecordMeta struct {
	SeriesCode   string         `json:"series_code"`
	ResponseKey  string         `json:"response_key"`
	OriginalData map[string]any `json:"original_data"`
	NullHandled  bool           `json:"is_null_handled"`
}

// RateRecord is one normalized observation.
type RateRecord struct {
	Currency string     `json:"code"`
	Type     RateType   `json:"type"`
	Market   MarketType `json:"market_type"`
	Date     time.Time  `json:"date"`
	Rate     float64    `json:"rate"`
	Meta     RecordMeta `json:"meta"`
}

func (r RateRecord) Key() SeriesKey {
	return SeriesKey{Currency: r.Currency, Type: r.Type, Market: r.Market}
}

// StoredRate is a persisted rate row.
type StoredRate struct {
	ID        int64      `json:"id"`
	Currency  string     `json:"code"`
	Type      RateType   `json:"type"`
	Market    MarketType `json:"market_type"`
	Date      time.Time  `json:"date"`
	Rate      float64    `json:"rate"`
	Meta      RecordMeta `json:"meta"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RateFilter selects stored rates of one currency. Empty type or market lists
// and zero dates do not restrict the result.
type RateFilter struct {
	Currency string
	Types    []RateType
	Markets  []MarketType
	From     time.Time
	To       time.Time
}
