package query

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"evdsrates/internal/domain"

	"github.com/jonboulle/clockwork"
)

// InputDateLayout is the layout accepted by the string date setters.
const InputDateLayout = "2006-01-02"

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Defaults carries the configured fallbacks applied when a builder leaves a field unset.
type Defaults struct {
	Currencies   []string
	StartDate    time.Time
	EndDate      time.Time
	NullStrategy domain.NullStrategy
}

// Builder accumulates filters for a Spec. Invalid inputs are collected and
// reported by Build, so setters can be chained.
type Builder struct {
	defaults Defaults
	clock    clockwork.Clock

	currencies []string
	start      time.Time
	end        time.Time
	types      []domain.RateType
	markets    []domain.MarketType
	strategy   domain.NullStrategy

	errs []error
}

type Option func(*Builder)

func WithClock(c clockwork.Clock) Option {
	return func(b *Builder) { b.clock = c }
}

func New(defaults Defaults, opts ...Option) *Builder {
	b := &Builder{defaults: defaults, clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Builder) Currency(codes ...string) *Builder {
	b.currencies = codes
	return b
}

func (b *Builder) StartDate(t time.Time) *Builder {
	b.start = domain.DateOnly(t)
	return b
}

func (b *Builder) EndDate(t time.Time) *Builder {
	b.end = domain.DateOnly(t)
	return b
}

// StartDateString parses a YYYY-MM-DD start date.
func (b *Builder) StartDateString(s string) *Builder {
	if t, ok := b.parseDate(s); ok {
		b.start = t
	}
	return b
}

// EndDateString parses a YYYY-MM-DD end date.
func (b *Builder) EndDateString(s string) *Builder {
	if t, ok := b.parseDate(s); ok {
		b.end = t
	}
	return b
}

func (b *Builder) parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(InputDateLayout, strings.TrimSpace(s))
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s))
		return time.Time{}, false
	}
	return t, true
}

func (b *Builder) Type(types ...domain.RateType) *Builder {
	b.types = dedupe(types)
	return b
}

// Types sets the rate type filter from literals, rejecting unknown ones.
func (b *Builder) Types(literals ...string) *Builder {
	types := make([]domain.RateType, 0, len(literals))
	for _, l := range literals {
		t, err := domain.ParseRateType(strings.ToLower(strings.TrimSpace(l)))
		if err != nil {
			b.errs = append(b.errs, err)
			continue
		}
		types = append(types, t)
	}
	return b.Type(types...)
}

func (b *Builder) Market(markets ...domain.MarketType) *Builder {
	b.markets = dedupe(markets)
	return b
}

// Markets sets the market filter from literals, rejecting unknown ones.
func (b *Builder) Markets(literals ...string) *Builder {
	markets := make([]domain.MarketType, 0, len(literals))
	for _, l := range literals {
		m, err := domain.ParseMarketType(strings.ToLower(strings.TrimSpace(l)))
		if err != nil {
			b.errs = append(b.errs, err)
			continue
		}
		markets = append(markets, m)
	}
	return b.Market(markets...)
}

func (b *Builder) NullHandling(strategy domain.NullStrategy) *Builder {
	if _, err := domain.ParseNullStrategy(string(strategy)); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.strategy = strategy
	return b
}

// Strategy sets the null handling strategy from its literal name.
func (b *Builder) Strategy(literal string) *Builder {
	return b.NullHandling(domain.NullStrategy(strings.ToLower(strings.TrimSpace(literal))))
}

func (b *Builder) dateRange(start, end time.Time) *Builder {
	b.start = domain.DateOnly(start)
	b.end = domain.DateOnly(end)
	return b
}

func (b *Builder) today() time.Time {
	return domain.DateOnly(b.clock.Now())
}

func (b *Builder) Today() *Builder {
	return b.dateRange(b.today(), b.today())
}

func (b *Builder) Yesterday() *Builder {
	y := b.today().AddDate(0, 0, -1)
	return b.dateRange(y, y)
}

// LastDays covers the last n days, today included.
func (b *Builder) LastDays(n int) *Builder {
	if n < 1 {
		b.errs = append(b.errs, fmt.Errorf("invalid day count %d", n))
		return b
	}
	today := b.today()
	return b.dateRange(today.AddDate(0, 0, -(n - 1)), today)
}

func (b *Builder) ThisWeek() *Builder {
	today := b.today()
	return b.dateRange(domain.StartOfWeek(today), domain.EndOfWeek(today))
}

func (b *Builder) LastWeek() *Builder {
	prev := b.today().AddDate(0, 0, -7)
	return b.dateRange(domain.StartOfWeek(prev), domain.EndOfWeek(prev))
}

func (b *Builder) ThisMonth() *Builder {
	first := firstOfMonth(b.today())
	return b.dateRange(first, first.AddDate(0, 1, -1))
}

func (b *Builder) LastMonth() *Builder {
	first := firstOfMonth(b.today()).AddDate(0, -1, 0)
	return b.dateRange(first, first.AddDate(0, 1, -1))
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Build validates the accumulated filters and resolves defaults.
func (b *Builder) Build() (Spec, error) {
	errs := slices.Clone(b.errs)

	currencies := b.currencies
	if len(currencies) == 0 {
		currencies = b.defaults.Currencies
	}
	normalized := make([]string, 0, len(currencies))
	for _, c := range currencies {
		code := strings.ToUpper(strings.TrimSpace(c))
		if !currencyPattern.MatchString(code) {
			errs = append(errs, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, c))
			continue
		}
		normalized = append(normalized, code)
	}
	normalized = dedupe(normalized)
	if len(currencies) == 0 {
		errs = append(errs, domain.ErrNoCurrencies)
	}

	start := firstSet(b.start, b.defaults.StartDate, b.today())
	end := firstSet(b.end, b.defaults.EndDate, b.today())
	if start.After(end) {
		errs = append(errs, fmt.Errorf("%w: %s > %s", domain.ErrInvalidDateRange,
			start.Format(InputDateLayout), end.Format(InputDateLayout)))
	}

	defaultStrategy := b.defaults.NullStrategy
	if defaultStrategy != "" {
		if _, err := domain.ParseNullStrategy(string(defaultStrategy)); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Spec{}, err
	}

	return Spec{
		currencies:      normalized,
		start:           start,
		end:             end,
		types:           slices.Clone(b.types),
		markets:         slices.Clone(b.markets),
		strategy:        b.strategy,
		defaultStrategy: defaultStrategy,
	}, nil
}

func firstSet(dates ...time.Time) time.Time {
	for _, d := range dates {
		if !d.IsZero() {
			return domain.DateOnly(d)
		}
	}
	return time.Time{}
}

func dedupe[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
