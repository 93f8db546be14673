package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

type Validator interface {
	ValidateCodes(codes ...string) error
	SupportedCodes() []string
}

type Service interface {
	Get(ctx context.Context, spec query.Spec) ([]domain.RateRecord, error)
	Save(ctx context.Context, spec query.Spec) ([]domain.RateRecord, error)
	Stored(ctx context.Context, filter domain.RateFilter) ([]domain.StoredRate, error)
	Latest(ctx context.Context, key domain.SeriesKey) (domain.StoredRate, error)
}

type Handler struct {
	validator Validator
	service   Service
	defaults  query.Defaults
	clock     clockwork.Clock
}

func NewRateHandler(v Validator, s Service, defaults query.Defaults, clock clockwork.Clock) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{validator: v, service: s, defaults: defaults, clock: clock}
}

func (h *Handler) newQuery() *query.Builder {
	return query.New(h.defaults, query.WithClock(h.clock))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeBadRequest flattens joined errors into a single line.
func writeBadRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, strings.ReplaceAll(err.Error(), "\n", "; "))
}

// writeServiceError maps service failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error, fields logrus.Fields) {
	switch {
	case errors.Is(err, domain.ErrRateNotFound):
		writeError(w, http.StatusNotFound, "rate not found")
	case errors.Is(err, domain.ErrConfiguration), errors.Is(err, domain.ErrAPI):
		logrus.WithError(err).WithFields(fields).Warn("EVDS request failed")
		writeError(w, http.StatusBadGateway, "evds api request failed")
	default:
		msg := "ups, couldn't process rates this time"
		logrus.WithError(err).WithFields(fields).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// splitList reads comma-separated and repeated query values, e.g. ?type=buy,sell or ?type=buy&type=sell.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func upperAll(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return out
}
