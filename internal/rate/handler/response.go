package handler

import (
	"time"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"
)

type RecordResponse struct {
	Code       string            `json:"code" example:"USD"`
	Type       domain.RateType   `json:"type" example:"sell"`
	MarketType domain.MarketType `json:"market_type" example:"forex"`
	Date       string            `json:"date" example:"2024-01-02"`
	Rate       float64           `json:"rate" example:"30.5"`
	Meta       domain.RecordMeta `json:"meta"`
}

type StoredRateResponse struct {
	ID int64 `json:"id" example:"42"`
	RecordResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RatesResponse struct {
	Count   int              `json:"count" example:"2"`
	Records []RecordResponse `json:"records"`
}

type StoredRatesResponse struct {
	Count int                  `json:"count" example:"2"`
	Rates []StoredRateResponse `json:"rates"`
}

func toRecordResponses(records []domain.RateRecord) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i, r := range records {
		out[i] = RecordResponse{
			Code:       r.Currency,
			Type:       r.Type,
			MarketType: r.Market,
			Date:       r.Date.Format(query.InputDateLayout),
			Rate:       r.Rate,
			Meta:       r.Meta,
		}
	}
	return out
}

func toStoredRateResponse(r domain.StoredRate) StoredRateResponse {
	return StoredRateResponse{
		ID: r.ID,
		RecordResponse: RecordResponse{
			Code:       r.Currency,
			Type:       r.Type,
			MarketType: r.Market,
			Date:       r.Date.Format(query.InputDateLayout),
			Rate:       r.Rate,
			Meta:       r.Meta,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
