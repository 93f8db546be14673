package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const maxSyncBodyBytes = 4 << 10

var validate = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type SyncRatesRequest struct {
	Currencies   []string `json:"currencies" validate:"omitempty,max=25,dive,len=3,alpha" example:"USD,EUR"`
	Start        string   `json:"start" validate:"omitempty,datetime=2006-01-02" example:"2024-01-01"`
	End          string   `json:"end" validate:"omitempty,datetime=2006-01-02" example:"2024-01-31"`
	Types        []string `json:"type" validate:"omitempty,dive,oneof=buy sell" example:"buy,sell"`
	Markets      []string `json:"market" validate:"omitempty,dive,oneof=forex banknote" example:"forex"`
	NullHandling string   `json:"null_handling" validate:"omitempty,oneof=previous_day last_week_avg skip" example:"previous_day"`
}

type SyncRatesResponse struct {
	Saved   int              `json:"saved" example:"42"`
	Records []RecordResponse `json:"records"`
}

// validationMessage turns validator errors into "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// SyncRates godoc
// @Summary Fetch and store rates
// @Description Fetch rates from EVDS, fill missing days and upsert them by currency, type, market and date
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body SyncRatesRequest true "Rates to sync; empty fields fall back to configured defaults"
// @Success 200 {object} SyncRatesResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/sync [post]
func (h *Handler) SyncRates(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSyncBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req SyncRatesRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	b := h.newQuery()
	if len(req.Currencies) > 0 {
		currencies := upperAll(req.Currencies)
		if err := h.validator.ValidateCodes(currencies...); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		b.Currency(currencies...)
	}
	if req.Start != "" {
		b.StartDateString(req.Start)
	}
	if req.End != "" {
		b.EndDateString(req.End)
	}
	if len(req.Types) > 0 {
		b.Types(req.Types...)
	}
	if len(req.Markets) > 0 {
		b.Markets(req.Markets...)
	}
	if req.NullHandling != "" {
		b.Strategy(req.NullHandling)
	}

	spec, err := b.Build()
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	saved, err := h.service.Save(r.Context(), spec)
	if err != nil {
		writeServiceError(w, err, logrus.Fields{"handler": "SyncRates", "currencies": spec.Currencies()})
		return
	}

	writeJSON(w, http.StatusOK, SyncRatesResponse{
		Saved:   len(saved),
		Records: toRecordResponses(saved),
	})
}
