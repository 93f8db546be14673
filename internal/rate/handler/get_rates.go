package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"evdsrates/internal/query"

	"github.com/sirupsen/logrus"
)

// applyPeriod sets a named date range on b; explicit start/end parameters are applied afterwards.
func applyPeriod(b *query.Builder, period, days string) error {
	switch period {
	case "":
	case "today":
		b.Today()
	case "yesterday":
		b.Yesterday()
	case "this_week":
		b.ThisWeek()
	case "last_week":
		b.LastWeek()
	case "this_month":
		b.ThisMonth()
	case "last_month":
		b.LastMonth()
	default:
		return fmt.Errorf("unknown period %q", period)
	}

	if days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid days %q", days)
		}
		b.LastDays(n)
	}
	return nil
}

// GetRates godoc
// @Summary Get live rates
// @Description Fetch rates from EVDS, normalize them and fill missing days
// @Tags Rates
// @Produce json
// @Param currencies query string false "Comma-separated currency codes" example(USD,EUR)
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Named range" Enums(today, yesterday, this_week, last_week, this_month, last_month)
// @Param days query int false "Last N days, today included"
// @Param type query string false "Comma-separated rate types" Enums(buy, sell)
// @Param market query string false "Comma-separated market types" Enums(forex, banknote)
// @Param null_handling query string false "Missing value strategy" Enums(previous_day, last_week_avg, skip)
// @Success 200 {object} RatesResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates [get]
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	b := h.newQuery()
	if err := applyPeriod(b, q.Get("period"), q.Get("days")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if currencies := upperAll(splitList(q["currencies"])); len(currencies) > 0 {
		if err := h.validator.ValidateCodes(currencies...); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		b.Currency(currencies...)
	}
	if start := q.Get("start"); start != "" {
		b.StartDateString(start)
	}
	if end := q.Get("end"); end != "" {
		b.EndDateString(end)
	}
	if types := splitList(q["type"]); len(types) > 0 {
		b.Types(types...)
	}
	if markets := splitList(q["market"]); len(markets) > 0 {
		b.Markets(markets...)
	}
	if strategy := q.Get("null_handling"); strategy != "" {
		b.Strategy(strategy)
	}

	spec, err := b.Build()
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	records, err := h.service.Get(r.Context(), spec)
	if err != nil {
		writeServiceError(w, err, logrus.Fields{"handler": "GetRates", "currencies": spec.Currencies()})
		return
	}

	writeJSON(w, http.StatusOK, RatesResponse{
		Count:   len(records),
		Records: toRecordResponses(records),
	})
}
