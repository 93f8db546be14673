package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"evdsrates/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ratePrecision matches the numeric(10,4) rate column.
const ratePrecision = 4

const dateLayout = "2006-01-02"

type RateRepository struct {
	pool *pgxpool.Pool
}

type upsertRow struct {
	Code       string          `json:"code"`
	Type       string          `json:"type"`
	MarketType string          `json:"market_type"`
	Date       string          `json:"date"`
	Rate       decimal.Decimal `json:"rate"`
	Meta       json.RawMessage `json:"meta"`
}

// Upsert writes records keyed by (code, type, market_type, date); existing rows
// get their rate and meta replaced. When a batch repeats a key the last record wins.
// It returns the number of rows inserted or updated.
func (r *RateRepository) Upsert(ctx context.Context, records []domain.RateRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows, err := toUpsertRows(records)
	if err != nil {
		return 0, err
	}

	payloadJSON, err := json.Marshal(rows)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal rates: %w", err)
	}

	const q = `
		insert into evds_currency_rates (code, type, market_type, date, rate, meta, created_at, updated_at)
		select ir.code, ir.type, ir.market_type, ir.date, ir.rate, ir.meta, now(), now()
		from json_to_recordset($1::json) as ir(code text, type text, market_type text, date date, rate numeric, meta jsonb)
		on conflict (code, type, market_type, date) do update
		set rate = excluded.rate, meta = excluded.meta, updated_at = now();
	`

	tag, err := r.pool.Exec(ctx, q, json.RawMessage(payloadJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %d rates: %w", len(rows), err)
	}
	return int(tag.RowsAffected()), nil
}

func toUpsertRows(records []domain.RateRecord) ([]upsertRow, error) {
	index := make(map[string]int, len(records))
	rows := make([]upsertRow, 0, len(records))

	for _, rec := range records {
		if math.IsInf(rec.Rate, 0) || math.IsNaN(rec.Rate) {
			return nil, fmt.Errorf("invalid rate %v for %s on %s", rec.Rate, rec.Key(), rec.Date.Format(dateLayout))
		}
		meta, err := json.Marshal(rec.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal meta for %s on %s: %w", rec.Key(), rec.Date.Format(dateLayout), err)
		}
		row := upsertRow{
			Code:       rec.Currency,
			Type:       string(rec.Type),
			MarketType: string(rec.Market),
			Date:       rec.Date.Format(dateLayout),
			Rate:       decimal.NewFromFloat(rec.Rate).Round(ratePrecision),
			Meta:       meta,
		}

		naturalKey := rec.Key().String() + "|" + row.Date
		if i, ok := index[naturalKey]; ok {
			rows[i] = row
			continue
		}
		index[naturalKey] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *RateRepository) List(ctx context.Context, filter domain.RateFilter) ([]domain.StoredRate, error) {
	const q = `
		select id, code, type, market_type, date, rate::float8, meta, created_at, updated_at
		from evds_currency_rates
		where code = $1
		  and (cardinality($2::text[]) = 0 or type = any($2::text[]))
		  and (cardinality($3::text[]) = 0 or market_type = any($3::text[]))
		  and ($4::date is null or date >= $4::date)
		  and ($5::date is null or date <= $5::date)
		order by date, type, market_type;
	`

	types := make([]string, 0, len(filter.Types))
	for _, t := range filter.Types {
		types = append(types, string(t))
	}
	markets := make([]string, 0, len(filter.Markets))
	for _, m := range filter.Markets {
		markets = append(markets, string(m))
	}

	rows, err := r.pool.Query(ctx, q, filter.Currency, types, markets, nullableDate(filter.From), nullableDate(filter.To))
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for %q: %w", filter.Currency, err)
	}
	defer rows.Close()

	stored := make([]domain.StoredRate, 0, 64)
	for rows.Next() {
		rate, err := scanStoredRate(rows)
		if err != nil {
			return nil, err
		}
		stored = append(stored, rate)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rates for %q: %w", filter.Currency, err)
	}
	return stored, nil
}

// Latest returns the most recent stored rate for the series, or domain.ErrRateNotFound.
func (r *RateRepository) Latest(ctx context.Context, key domain.SeriesKey) (domain.StoredRate, error) {
	const q = `
		select id, code, type, market_type, date, rate::float8, meta, created_at, updated_at
		from evds_currency_rates
		where code = $1 and type = $2 and market_type = $3
		order by date desc
		limit 1;
	`

	rate, err := scanStoredRate(r.pool.QueryRow(ctx, q, key.Currency, string(key.Type), string(key.Market)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StoredRate{}, domain.ErrRateNotFound
		}
		return domain.StoredRate{}, fmt.Errorf("failed to select latest rate for %s: %w", key, err)
	}
	return rate, nil
}

func scanStoredRate(row pgx.Row) (domain.StoredRate, error) {
	var (
		rate    domain.StoredRate
		code    string
		typ     string
		market  string
		rawMeta []byte
	)
	if err := row.Scan(
		&rate.ID,
		&code,
		&typ,
		&market,
		&rate.Date,
		&rate.Rate,
		&rawMeta,
		&rate.CreatedAt,
		&rate.UpdatedAt,
	); err != nil {
		return domain.StoredRate{}, fmt.Errorf("failed to scan rate: %w", err)
	}

	rate.Currency = code
	rate.Type = domain.RateType(typ)
	rate.Market = domain.MarketType(market)
	rate.Date = domain.DateOnly(rate.Date)

	if len(rawMeta) > 0 {
		if err := json.Unmarshal(rawMeta, &rate.Meta); err != nil {
			return domain.StoredRate{}, fmt.Errorf("failed to decode meta of rate %d: %w", rate.ID, err)
		}
	}
	return rate, nil
}

// nullableDate maps the zero time to SQL null.
func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := domain.DateOnly(t)
	return &d
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}
