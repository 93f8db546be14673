package rate

import (
	"context"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"

	"github.com/stretchr/testify/mock"
)

// --- Testify mocks ---

type MockRateClient struct{ mock.Mock }

func (m *MockRateClient) Fetch(ctx context.Context, spec query.Spec) (any, error) {
	args := m.Called(ctx, spec)
	return args.Get(0), args.Error(1)
}

func (m *MockRateClient) URL(spec query.Spec) string {
	return "https://evds.test/service/evds?" + spec.Params().Encode()
}

type MockRateRepository struct{ mock.Mock }

func (m *MockRateRepository) Upsert(ctx context.Context, records []domain.RateRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockRateRepository) List(ctx context.Context, filter domain.RateFilter) ([]domain.StoredRate, error) {
	args := m.Called(ctx, filter)
	rates, _ := args.Get(0).([]domain.StoredRate)
	return rates, args.Error(1)
}

func (m *MockRateRepository) Latest(ctx context.Context, key domain.SeriesKey) (domain.StoredRate, error) {
	args := m.Called(ctx, key)
	r, _ := args.Get(0).(domain.StoredRate)
	return r, args.Error(1)
}

type MockResultCache struct{ mock.Mock }

func (m *MockResultCache) Get(key string) ([]domain.RateRecord, bool) {
	args := m.Called(key)
	records, _ := args.Get(0).([]domain.RateRecord)
	return records, args.Bool(1)
}

func (m *MockResultCache) Set(key string, records []domain.RateRecord) {
	m.Called(key, records)
}

type MockSaver struct{ mock.Mock }

func (m *MockSaver) Save(ctx context.Context, spec query.Spec) ([]domain.RateRecord, error) {
	args := m.Called(ctx, spec)
	records, _ := args.Get(0).([]domain.RateRecord)
	return records, args.Error(1)
}
