package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"evdsrates/internal/adapters/postgres"
	"evdsrates/internal/domain"
	"evdsrates/internal/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})
	require.NotEmpty(t, pgConnStr, "postgres container failed to start")

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	_, err = pool.Exec(ctx, `truncate table evds_currency_rates restart identity`)
	require.NoError(t, err)

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)
	pgContainer = pg

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return db.Migrate(pingCtx, dsn) == nil
	}, 15*time.Second, 500*time.Millisecond)

	pgConnStr = dsn
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func record(ccy string, typ domain.RateType, market domain.MarketType, date time.Time, rate float64) domain.RateRecord {
	return domain.RateRecord{
		Currency: ccy,
		Type:     typ,
		Market:   market,
		Date:     date,
		Rate:     rate,
		Meta: domain.RecordMeta{
			SeriesCode:   "TP.DK." + ccy,
			ResponseKey:  "TP_DK_" + ccy,
			OriginalData: map[string]any{"Tarih": date.Format("02-01-2006")},
		},
	}
}

func TestRateRepository_Upsert_EmptyNoop(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	n, err := repo.Upsert(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = repo.Upsert(ctx, make([]domain.RateRecord, 0))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRateRepository_Upsert_InsertAndList(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	filled := record("USD", domain.Sell, domain.Forex, day(2), 30.5)
	filled.Meta.NullHandled = true

	n, err := repo.Upsert(ctx, []domain.RateRecord{
		record("USD", domain.Buy, domain.Forex, day(1), 30.45),
		record("USD", domain.Sell, domain.Forex, day(1), 30.5),
		filled,
		record("EUR", domain.Buy, domain.Forex, day(1), 33.1),
	})
	require.NoError(t, err)
	require.Equal(t, 4, n)

	stored, err := repo.List(ctx, domain.RateFilter{Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, stored, 3)

	require.Equal(t, "USD", stored[0].Currency)
	require.Equal(t, domain.Buy, stored[0].Type)
	require.Equal(t, domain.Forex, stored[0].Market)
	require.Equal(t, day(1), stored[0].Date)
	require.InDelta(t, 30.45, stored[0].Rate, 1e-9)
	require.Equal(t, "01-01-2024", stored[0].Meta.OriginalData["Tarih"])
	require.False(t, stored[0].CreatedAt.IsZero())

	require.Equal(t, day(2), stored[2].Date)
	require.True(t, stored[2].Meta.NullHandled)
}

func TestRateRepository_Upsert_RoundsToFourDecimals(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, []domain.RateRecord{record("GBP", domain.Buy, domain.Banknote, day(3), 38.123456)})
	require.NoError(t, err)

	stored, err := repo.List(ctx, domain.RateFilter{Currency: "GBP"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.InDelta(t, 38.1235, stored[0].Rate, 0.00001)
}

func TestRateRepository_Upsert_ConflictUpdatesRateAndMeta(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, []domain.RateRecord{record("USD", domain.Sell, domain.Forex, day(1), 30.5)})
	require.NoError(t, err)

	updated := record("USD", domain.Sell, domain.Forex, day(1), 31.25)
	updated.Meta.NullHandled = true
	n, err := repo.Upsert(ctx, []domain.RateRecord{updated})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from evds_currency_rates`).Scan(&count))
	require.Equal(t, 1, count)

	latest, err := repo.Latest(ctx, domain.SeriesKey{Currency: "USD", Type: domain.Sell, Market: domain.Forex})
	require.NoError(t, err)
	require.InDelta(t, 31.25, latest.Rate, 1e-9)
	require.True(t, latest.Meta.NullHandled)
	require.False(t, latest.UpdatedAt.Before(latest.CreatedAt))
}

func TestRateRepository_Upsert_RepeatedKeyInBatchLastWins(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	n, err := repo.Upsert(ctx, []domain.RateRecord{
		record("USD", domain.Buy, domain.Forex, day(1), 1),
		record("USD", domain.Buy, domain.Forex, day(1), 2),
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	stored, err := repo.List(ctx, domain.RateFilter{Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.InDelta(t, 2.0, stored[0].Rate, 1e-9)
}

func TestRateRepository_Upsert_InvalidTypeRejected(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	_, err := repo.Upsert(context.Background(), []domain.RateRecord{record("USD", "mid", domain.Forex, day(1), 1)})
	require.Error(t, err)
}

func TestRateRepository_List_Filters(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	var records []domain.RateRecord
	for d := 1; d <= 5; d++ {
		for _, typ := range domain.RateTypes {
			for _, market := range domain.MarketTypes {
				records = append(records, record("EUR", typ, market, day(d), float64(30+d)))
			}
		}
	}
	_, err := repo.Upsert(ctx, records)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter domain.RateFilter
		want   int
	}{
		{"all", domain.RateFilter{Currency: "EUR"}, 20},
		{"sell only", domain.RateFilter{Currency: "EUR", Types: []domain.RateType{domain.Sell}}, 10},
		{"banknote only", domain.RateFilter{Currency: "EUR", Markets: []domain.MarketType{domain.Banknote}}, 10},
		{"buy forex", domain.RateFilter{Currency: "EUR", Types: []domain.RateType{domain.Buy}, Markets: []domain.MarketType{domain.Forex}}, 5},
		{"from", domain.RateFilter{Currency: "EUR", From: day(4)}, 8},
		{"to", domain.RateFilter{Currency: "EUR", To: day(2)}, 8},
		{"range", domain.RateFilter{Currency: "EUR", From: day(2), To: day(3)}, 8},
		{"other currency", domain.RateFilter{Currency: "USD"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			require.Len(t, stored, tt.want)
			for i := 1; i < len(stored); i++ {
				require.False(t, stored[i].Date.Before(stored[i-1].Date))
			}
		})
	}
}

func TestRateRepository_List_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.List(ctx, domain.RateFilter{Currency: "USD"})
	require.Error(t, err)
}

func TestRateRepository_Latest_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	_, err := repo.Latest(context.Background(), domain.SeriesKey{Currency: "USD", Type: domain.Buy, Market: domain.Forex})
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestRateRepository_Latest_MostRecentDate(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, []domain.RateRecord{
		record("USD", domain.Buy, domain.Forex, day(3), 3),
		record("USD", domain.Buy, domain.Forex, day(5), 5),
		record("USD", domain.Buy, domain.Forex, day(4), 4),
		record("USD", domain.Buy, domain.Banknote, day(9), 9),
	})
	require.NoError(t, err)

	latest, err := repo.Latest(ctx, domain.SeriesKey{Currency: "USD", Type: domain.Buy, Market: domain.Forex})
	require.NoError(t, err)
	require.Equal(t, day(5), latest.Date)
	require.InDelta(t, 5.0, latest.Rate, 1e-9)
}

func TestRateRepository_Latest_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	// a canceled context fails distinctly from ErrRateNotFound
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Latest(ctx, domain.SeriesKey{Currency: "USD", Type: domain.Buy, Market: domain.Forex})
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrRateNotFound)
}
