package series

import (
	"regexp"
	"strings"

	"evdsrates/internal/domain"
)

const prefix = "TP.DK."

var codePattern = regexp.MustCompile(`^TP\.DK\.([A-Z]{3})\.([AS])\.(YTL|EF\.YTL)$`)

// Encode builds the EVDS series code for a key: TP.DK.<CCY>.<A|S>.<YTL|EF.YTL>.
func Encode(key domain.SeriesKey) string {
	typeCode := "S"
	if key.Type == domain.Buy {
		typeCode = "A"
	}
	marketCode := "EF.YTL"
	if key.Market == domain.Forex {
		marketCode = "YTL"
	}
	return prefix + key.Currency + "." + typeCode + "." + marketCode
}

// Decode parses a generated series code back into its key.
// ok is false for anything that is not a recognized series.
func Decode(code string) (key domain.SeriesKey, ok bool) {
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return domain.SeriesKey{}, false
	}

	key.Currency = m[1]
	key.Type = domain.Sell
	if m[2] == "A" {
		key.Type = domain.Buy
	}
	key.Market = domain.Banknote
	if m[3] == "YTL" {
		key.Market = domain.Forex
	}
	return key, true
}

// FieldName returns the response field carrying a series: every "." becomes "_".
// The mapping is one-way; TP_DK_USD_A_EF_YTL cannot be split back unambiguously.
func FieldName(code string) string {
	return strings.ReplaceAll(code, ".", "_")
}

// Join renders codes in the hyphen-separated form expected by the series parameter.
func Join(codes []string) string {
	return strings.Join(codes, "-")
}
