package rate

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var (
	ErrCurrencyRequired    = errors.New("currency is required")
	ErrCurrencyFormat      = errors.New("currency must be a 3-letter code")
	ErrCurrencyUnsupported = errors.New("currency not supported")
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// DefaultSupportedCurrencies are the currencies the TCMB publishes indicative rates for.
var DefaultSupportedCurrencies = []string{
	"USD", "AUD", "DKK", "EUR", "GBP", "CHF", "SEK", "CAD", "KWD", "NOK", "SAR",
	"JPY", "BGN", "RON", "RUB", "IRR", "CNY", "PKR", "QAR", "KRW", "AZN", "AED",
}

type CurrencyValidator struct {
	supportedCodesSet map[string]struct{} // read only copy
	supportedCodesLst []string            // read only copy
}

// ValidateCodes checks that every code is an upper-case 3-letter code the service supports.
func (v *CurrencyValidator) ValidateCodes(codes ...string) error {
	if len(codes) == 0 {
		return ErrCurrencyRequired
	}
	for _, code := range codes {
		if code == "" {
			return ErrCurrencyRequired
		}
		if !currencyCodeRe.MatchString(code) {
			return fmt.Errorf("%w: %q", ErrCurrencyFormat, code)
		}
		if _, ok := v.supportedCodesSet[code]; !ok {
			return fmt.Errorf("%w: %q", ErrCurrencyUnsupported, code)
		}
	}
	return nil
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

func NewValidator(supportedCurrencies []string) *CurrencyValidator {
	codesSet := make(map[string]struct{}, len(supportedCurrencies))
	for _, c := range supportedCurrencies {
		codesSet[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	codesLst := slices.Collect(maps.Keys(codesSet))
	slices.Sort(codesLst)

	return &CurrencyValidator{
		supportedCodesSet: codesSet,
		supportedCodesLst: codesLst,
	}
}
