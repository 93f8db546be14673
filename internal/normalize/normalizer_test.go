package normalize

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var payload any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func usdSpec(t *testing.T, strategy domain.NullStrategy, start, end time.Time) query.Spec {
	t.Helper()
	spec, err := query.New(query.Defaults{}).
		Currency("USD").
		StartDate(start).
		EndDate(end).
		NullHandling(strategy).
		Build()
	require.NoError(t, err)
	return spec
}

const scenarioB = `{"items":[
	{"Tarih":"01-01-2024","TP_DK_USD_A_YTL":"30.45","TP_DK_USD_S_YTL":"30.50"},
	{"Tarih":"02-01-2024","TP_DK_USD_A_YTL":"30.60","TP_DK_USD_S_YTL":"null"}
]}`

func TestNormalize_SingleDay(t *testing.T) {
	payload := decode(t, `{"items":[{"Tarih":"01-01-2024","TP_DK_USD_A_YTL":"30.45","TP_DK_USD_S_YTL":"30.50"}]}`)
	spec := usdSpec(t, domain.PreviousDay, date(2024, 1, 1), date(2024, 1, 1))

	records := Normalize(payload, spec)

	require.Len(t, records, 2)

	buy := records[0]
	require.Equal(t, "USD", buy.Currency)
	require.Equal(t, domain.Buy, buy.Type)
	require.Equal(t, domain.Forex, buy.Market)
	require.Equal(t, date(2024, 1, 1), buy.Date)
	require.InDelta(t, 30.45, buy.Rate, 1e-9)
	require.Equal(t, "TP.DK.USD.A.YTL", buy.Meta.SeriesCode)
	require.Equal(t, "TP_DK_USD_A_YTL", buy.Meta.ResponseKey)
	require.Equal(t, "01-01-2024", buy.Meta.OriginalData["Tarih"])
	require.False(t, buy.Meta.NullHandled)

	sell := records[1]
	require.Equal(t, domain.Sell, sell.Type)
	require.Equal(t, domain.Forex, sell.Market)
	require.InDelta(t, 30.50, sell.Rate, 1e-9)
	require.False(t, sell.Meta.NullHandled)
}

func TestNormalize_PreviousDayFillsNullString(t *testing.T) {
	spec := usdSpec(t, domain.PreviousDay, date(2024, 1, 1), date(2024, 1, 2))

	records := Normalize(decode(t, scenarioB), spec)

	require.Len(t, records, 4)
	filled := records[3]
	require.Equal(t, domain.Sell, filled.Type)
	require.Equal(t, domain.Forex, filled.Market)
	require.Equal(t, date(2024, 1, 2), filled.Date)
	require.InDelta(t, 30.50, filled.Rate, 1e-9)
	require.True(t, filled.Meta.NullHandled)
	require.Equal(t, "null", filled.Meta.OriginalData["TP_DK_USD_S_YTL"])
}

func TestNormalize_SkipDropsMissingValue(t *testing.T) {
	withFill := Normalize(decode(t, scenarioB), usdSpec(t, domain.PreviousDay, date(2024, 1, 1), date(2024, 1, 2)))
	skipped := Normalize(decode(t, scenarioB), usdSpec(t, domain.Skip, date(2024, 1, 1), date(2024, 1, 2)))

	require.Len(t, skipped, len(withFill)-1)
	for _, r := range skipped {
		require.False(t, r.Meta.NullHandled)
		require.False(t, r.Type == domain.Sell && r.Date.Equal(date(2024, 1, 2)))
	}
}

func TestNormalize_FillIsFlaggedForEveryMissingForm(t *testing.T) {
	payload := decode(t, `{"items":[
		{"Tarih":"01-01-2024","TP_DK_USD_S_YTL":"10"},
		{"Tarih":"02-01-2024","TP_DK_USD_S_YTL":""},
		{"Tarih":"03-01-2024","TP_DK_USD_S_YTL":null},
		{"Tarih":"04-01-2024"}
	]}`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Sell).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 4)).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)

	require.Len(t, records, 4)
	require.False(t, records[0].Meta.NullHandled)
	for _, r := range records[1:] {
		require.True(t, r.Meta.NullHandled)
		require.InDelta(t, 10.0, r.Rate, 1e-9)
	}
}

func TestNormalize_FilledValuesCascade(t *testing.T) {
	// a gap longer than the lookback still resolves because filled values are cached
	items := `{"Tarih":"01-01-2024","TP_DK_USD_S_YTL":"5"}`
	for d := 2; d <= 12; d++ {
		items += `,{"Tarih":"` + date(2024, 1, d).Format(query.WireDateLayout) + `","TP_DK_USD_S_YTL":"null"}`
	}
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Sell).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 12)).Build()
	require.NoError(t, err)

	records := Normalize(decode(t, `{"items":[`+items+`]}`), spec)

	require.Len(t, records, 12)
	require.InDelta(t, 5.0, records[11].Rate, 1e-9)
}

func TestNormalize_PreviousDayGivesUpAfterSevenDays(t *testing.T) {
	payload := decode(t, `{"items":[
		{"Tarih":"01-01-2024","TP_DK_USD_S_YTL":"5"},
		{"Tarih":"09-01-2024","TP_DK_USD_S_YTL":"null"}
	]}`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Sell).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 9)).Build()
	require.NoError(t, err)

	var gaps []time.Time
	n := New(WithGapHook(func(_ domain.SeriesKey, d time.Time, s domain.NullStrategy) {
		require.Equal(t, domain.PreviousDay, s)
		gaps = append(gaps, d)
	}))
	records := n.Normalize(payload, spec)

	require.Len(t, records, 1)
	require.Equal(t, []time.Time{date(2024, 1, 9)}, gaps)
}

func TestNormalize_LastWeekAverage(t *testing.T) {
	// 2024-01-01 is a Monday; values on Mon, Tue, Wed of that week, gap on Wed of the next
	payload := decode(t, `{"items":[
		{"Tarih":"01-01-2024","TP_DK_USD_S_YTL":"10"},
		{"Tarih":"02-01-2024","TP_DK_USD_S_YTL":"20"},
		{"Tarih":"03-01-2024","TP_DK_USD_S_YTL":"30"},
		{"Tarih":"10-01-2024","TP_DK_USD_S_YTL":"null"}
	]}`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Sell).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 10)).NullHandling(domain.LastWeekAvg).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)

	require.Len(t, records, 4)
	require.InDelta(t, 20.0, records[3].Rate, 1e-9)
	require.True(t, records[3].Meta.NullHandled)
}

func TestNormalize_LastWeekAverageUnresolvedWithoutHistory(t *testing.T) {
	payload := decode(t, `{"items":[
		{"Tarih":"08-01-2024","TP_DK_USD_S_YTL":"10"},
		{"Tarih":"09-01-2024","TP_DK_USD_S_YTL":"null"}
	]}`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Sell).Market(domain.Forex).
		StartDate(date(2024, 1, 8)).EndDate(date(2024, 1, 9)).NullHandling(domain.LastWeekAvg).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)

	require.Len(t, records, 1)
	require.Equal(t, date(2024, 1, 8), records[0].Date)
}

func TestNormalize_NonPositiveRatesAreKeptButNeverUsedForFill(t *testing.T) {
	payload := decode(t, `{"items":[
		{"Tarih":"01-01-2024","TP_DK_USD_S_YTL":"0"},
		{"Tarih":"02-01-2024","TP_DK_USD_S_YTL":"-3"},
		{"Tarih":"03-01-2024","TP_DK_USD_S_YTL":"null"}
	]}`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Sell).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 3)).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)

	require.Len(t, records, 2)
	require.Equal(t, 0.0, records[0].Rate)
	require.Equal(t, -3.0, records[1].Rate)
}

func TestNormalize_NonFiniteRatesBecomeZero(t *testing.T) {
	payload := decode(t, `{"items":[
		{"Tarih":"01-01-2024","TP_DK_USD_S_YTL":"Inf"},
		{"Tarih":"02-01-2024","TP_DK_USD_S_YTL":"null"},
		{"Tarih":"03-01-2024","TP_DK_USD_S_YTL":"NaN"},
		{"Tarih":"04-01-2024","TP_DK_USD_S_YTL":"-Infinity"}
	]}`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Sell).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 4)).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)

	require.Len(t, records, 3, "the missing day has nothing finite to fill from")
	for _, r := range records {
		require.Equal(t, 0.0, r.Rate)
		require.False(t, r.Meta.NullHandled)
	}
	require.Equal(t, date(2024, 1, 3), records[1].Date)
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 30.5, 30.5},
		{"string", " 30.5 ", 30.5},
		{"json number", json.Number("12.25"), 12.25},
		{"int", 3, 3},
		{"garbage", "abc", 0},
		{"inf string", "+Infinity", 0},
		{"nan string", "NaN", 0},
		{"inf float", math.Inf(1), 0},
		{"nan float", math.NaN(), 0},
		{"inf json number", json.Number("Inf"), 0},
		{"bool", true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, toFloat(tc.in))
		})
	}
}

func TestNormalize_AcceptsBareList(t *testing.T) {
	payload := decode(t, `[{"Tarih":"01-01-2024","TP_DK_USD_A_YTL":"30.45"}]`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Buy).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 1)).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)

	require.Len(t, records, 1)
	require.InDelta(t, 30.45, records[0].Rate, 1e-9)
}

func TestNormalize_UnknownShapesYieldEmpty(t *testing.T) {
	spec := usdSpec(t, domain.PreviousDay, date(2024, 1, 1), date(2024, 1, 1))

	for _, raw := range []string{
		`{"totalCount":0}`,
		`{"items":"nope"}`,
		`[]`,
		`[1,2,3]`,
		`"text"`,
		`null`,
	} {
		records := Normalize(decode(t, raw), spec)
		require.NotNil(t, records, raw)
		require.Empty(t, records, raw)
	}
}

func TestNormalize_SkipsMalformedItems(t *testing.T) {
	payload := decode(t, `{"items":[
		"not an object",
		{"Tarih":"not a date","TP_DK_USD_A_YTL":"1"},
		{"Tarih":"","TP_DK_USD_A_YTL":"2"},
		{"Tarih":"05-01-2024","TP_DK_USD_A_YTL":"3"}
	]}`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Buy).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 5)).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)

	require.Len(t, records, 1)
	require.Equal(t, date(2024, 1, 5), records[0].Date)
}

func TestNormalize_DateFallbacks(t *testing.T) {
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Buy).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 31)).Build()
	require.NoError(t, err)

	t.Run("date field", func(t *testing.T) {
		records := Normalize(decode(t, `[{"date":"2024-01-15","TP_DK_USD_A_YTL":"1.5"}]`), spec)
		require.Len(t, records, 1)
		require.Equal(t, date(2024, 1, 15), records[0].Date)
	})

	t.Run("spec start date", func(t *testing.T) {
		records := Normalize(decode(t, `[{"TP_DK_USD_A_YTL":"1.5"}]`), spec)
		require.Len(t, records, 1)
		require.Equal(t, date(2024, 1, 1), records[0].Date)
	})

	t.Run("single digit day and month", func(t *testing.T) {
		records := Normalize(decode(t, `[{"Tarih":"2-1-2024","TP_DK_USD_A_YTL":"1.5"}]`), spec)
		require.Len(t, records, 1)
		require.Equal(t, date(2024, 1, 2), records[0].Date)
	})
}

func TestNormalizer_TodayFallbackUsesClock(t *testing.T) {
	n := New(WithClock(clockwork.NewFakeClockAt(time.Date(2024, 7, 3, 18, 0, 0, 0, time.UTC))))
	// zero-value spec has no start date
	records := n.Normalize(decode(t, `[{"TP_DK_USD_A_YTL":"1"}]`), query.Spec{})
	require.Empty(t, records, "zero spec resolves no series")

	item, ok := n.itemDate(map[string]any{}, query.Spec{})
	require.True(t, ok)
	require.Equal(t, date(2024, 7, 3), item)
}

func TestNormalize_AcceptsNumericValues(t *testing.T) {
	payload := decode(t, `[{"Tarih":"01-01-2024","TP_DK_USD_A_YTL":30.45}]`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Buy).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 1)).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)
	require.Len(t, records, 1)
	require.InDelta(t, 30.45, records[0].Rate, 1e-9)
}

func TestNormalize_IsIdempotent(t *testing.T) {
	spec, err := query.New(query.Defaults{}).Currency("USD", "EUR").
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 2)).Build()
	require.NoError(t, err)

	first, err := json.Marshal(Normalize(decode(t, scenarioB), spec))
	require.NoError(t, err)
	second, err := json.Marshal(Normalize(decode(t, scenarioB), spec))
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}

func TestNormalize_OriginalDataIsACopy(t *testing.T) {
	payload := decode(t, `[{"Tarih":"01-01-2024","TP_DK_USD_A_YTL":"1"}]`)
	spec, err := query.New(query.Defaults{}).Currency("USD").Type(domain.Buy).Market(domain.Forex).
		StartDate(date(2024, 1, 1)).EndDate(date(2024, 1, 1)).Build()
	require.NoError(t, err)

	records := Normalize(payload, spec)
	payload.([]any)[0].(map[string]any)["Tarih"] = "changed"

	require.Equal(t, "01-01-2024", records[0].Meta.OriginalData["Tarih"])
}
