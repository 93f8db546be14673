package rate

import (
	"context"
	"fmt"
	"math"
	"time"

	"evdsrates/internal/adapters"
	"evdsrates/internal/domain"
	"evdsrates/internal/metrics"
	"evdsrates/internal/normalize"
	"evdsrates/internal/query"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

type Service struct {
	client  adapters.RateClient
	repo    adapters.RateRepository
	cache   adapters.ResultCache
	metrics *metrics.Metrics
	clock   clockwork.Clock
}

// Get fetches and normalizes the rates described by spec. Results are cached
// by request URL, so repeated identical queries do not hit the API.
func (s *Service) Get(ctx context.Context, spec query.Spec) ([]domain.RateRecord, error) {
	cacheKey := s.client.URL(spec) + "&null_handling=" + string(spec.EffectiveStrategy())
	if s.cache != nil {
		if records, ok := s.cache.Get(cacheKey); ok {
			s.metrics.CacheHitsTotal.Inc()
			return records, nil
		}
	}

	records, err := s.fetch(ctx, spec)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, records)
	}
	return records, nil
}

// Save fetches and normalizes spec, then persists every record that has a
// currency, a positive rate and a date. It returns the persisted records.
func (s *Service) Save(ctx context.Context, spec query.Spec) ([]domain.RateRecord, error) {
	records, err := s.fetch(ctx, spec)
	if err != nil {
		return nil, err
	}

	savable := FilterSavable(records)
	if len(savable) < len(records) {
		logrus.WithFields(logrus.Fields{
			"currencies": spec.Currencies(),
			"dropped":    len(records) - len(savable),
		}).Debug("Dropped records that cannot be persisted")
	}

	if len(savable) == 0 {
		return savable, nil
	}

	affected, err := s.repo.Upsert(ctx, savable)
	if err != nil {
		return nil, fmt.Errorf("failed to save rates: %w", err)
	}
	s.metrics.SavedRowsTotal.Add(float64(affected))

	return savable, nil
}

func (s *Service) Stored(ctx context.Context, filter domain.RateFilter) ([]domain.StoredRate, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Latest(ctx context.Context, key domain.SeriesKey) (domain.StoredRate, error) {
	return s.repo.Latest(ctx, key)
}

func (s *Service) fetch(ctx context.Context, spec query.Spec) ([]domain.RateRecord, error) {
	started := s.clock.Now()
	payload, err := s.client.Fetch(ctx, spec)
	if err != nil {
		s.metrics.FetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	s.metrics.FetchesTotal.WithLabelValues("success").Inc()

	n := normalize.New(
		normalize.WithClock(s.clock),
		normalize.WithGapHook(func(key domain.SeriesKey, date time.Time, strategy domain.NullStrategy) {
			s.metrics.UnresolvedTotal.WithLabelValues(string(strategy)).Inc()
		}),
	)
	records := n.Normalize(payload, spec)

	filled := 0
	for _, r := range records {
		if r.Meta.NullHandled {
			filled++
		}
	}
	s.metrics.RecordsTotal.Add(float64(len(records)))
	s.metrics.NullFilledTotal.Add(float64(filled))

	logrus.WithFields(logrus.Fields{
		"series":   len(spec.SeriesCodes()),
		"records":  len(records),
		"filled":   filled,
		"strategy": spec.EffectiveStrategy(),
		"took":     s.clock.Since(started),
	}).Debug("Normalized EVDS response")

	return records, nil
}

// FilterSavable drops records without a currency, without a date, or whose rate is not a positive finite number.
func FilterSavable(records []domain.RateRecord) []domain.RateRecord {
	savable := make([]domain.RateRecord, 0, len(records))
	for _, r := range records {
		if r.Currency == "" || !(r.Rate > 0) || math.IsInf(r.Rate, 1) || r.Date.IsZero() {
			continue
		}
		savable = append(savable, r)
	}
	return savable
}

// NewService wires the read and write paths. cache may be nil.
func NewService(client adapters.RateClient, repo adapters.RateRepository, cache adapters.ResultCache, m *metrics.Metrics, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{client: client, repo: repo, cache: cache, metrics: m, clock: clock}
}
