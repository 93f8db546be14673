package adapters

import (
	"context"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"
)

type RateClient interface {
	Fetch(ctx context.Context, spec query.Spec) (any, error)
	URL(spec query.Spec) string
}

type RateRepository interface {
	Upsert(ctx context.Context, records []domain.RateRecord) (int, error)
	List(ctx context.Context, filter domain.RateFilter) ([]domain.StoredRate, error)
	Latest(ctx context.Context, key domain.SeriesKey) (domain.StoredRate, error)
}

// ResultCache holds normalized live query results keyed by request URL.
type ResultCache interface {
	Get(key string) ([]domain.RateRecord, bool)
	Set(key string, records []domain.RateRecord)
}
