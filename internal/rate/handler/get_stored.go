package handler

import (
	"net/http"
	"strings"
	"time"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func parseTypes(literals []string) ([]domain.RateType, error) {
	types := make([]domain.RateType, 0, len(literals))
	for _, l := range literals {
		t, err := domain.ParseRateType(strings.ToLower(l))
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func parseMarkets(literals []string) ([]domain.MarketType, error) {
	markets := make([]domain.MarketType, 0, len(literals))
	for _, l := range literals {
		m, err := domain.ParseMarketType(strings.ToLower(l))
		if err != nil {
			return nil, err
		}
		markets = append(markets, m)
	}
	return markets, nil
}

func parseOptionalDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(query.InputDateLayout, s)
	return t, err == nil
}

// GetStored godoc
// @Summary Get stored rates
// @Description List persisted rates of a currency ordered by date
// @Tags Rates
// @Produce json
// @Param code path string true "Currency code" example(USD)
// @Param type query string false "Comma-separated rate types" Enums(buy, sell)
// @Param market query string false "Comma-separated market types" Enums(forex, banknote)
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} StoredRatesResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/stored/{code} [get]
func (h *Handler) GetStored(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if err := h.validator.ValidateCodes(code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	types, err := parseTypes(splitList(q["type"]))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	markets, err := parseMarkets(splitList(q["market"]))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, ok := parseOptionalDate(q.Get("start"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid start date: expected YYYY-MM-DD")
		return
	}
	to, ok := parseOptionalDate(q.Get("end"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid end date: expected YYYY-MM-DD")
		return
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidDateRange.Error())
		return
	}

	stored, err := h.service.Stored(r.Context(), domain.RateFilter{
		Currency: code,
		Types:    types,
		Markets:  markets,
		From:     from,
		To:       to,
	})
	if err != nil {
		writeServiceError(w, err, logrus.Fields{"handler": "GetStored", "code": code})
		return
	}

	res := StoredRatesResponse{Count: len(stored), Rates: make([]StoredRateResponse, len(stored))}
	for i, s := range stored {
		res.Rates[i] = toStoredRateResponse(s)
	}
	writeJSON(w, http.StatusOK, res)
}

// GetLatest godoc
// @Summary Get latest stored rate
// @Description Most recent persisted rate of one series; type defaults to buy and market to forex
// @Tags Rates
// @Produce json
// @Param code path string true "Currency code" example(USD)
// @Param type query string false "Rate type" Enums(buy, sell)
// @Param market query string false "Market type" Enums(forex, banknote)
// @Success 200 {object} StoredRateResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/stored/{code}/latest [get]
func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if err := h.validator.ValidateCodes(code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := domain.SeriesKey{Currency: code, Type: domain.Buy, Market: domain.Forex}
	if t := r.URL.Query().Get("type"); t != "" {
		parsed, err := domain.ParseRateType(strings.ToLower(t))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		key.Type = parsed
	}
	if m := r.URL.Query().Get("market"); m != "" {
		parsed, err := domain.ParseMarketType(strings.ToLower(m))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		key.Market = parsed
	}

	latest, err := h.service.Latest(r.Context(), key)
	if err != nil {
		writeServiceError(w, err, logrus.Fields{"handler": "GetLatest", "series": key.String()})
		return
	}

	writeJSON(w, http.StatusOK, toStoredRateResponse(latest))
}
