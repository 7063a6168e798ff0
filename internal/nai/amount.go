// =============================================================================
// NAI File Parser - Amount Parsing
// =============================================================================
//
// NAI amounts are integers with two implied decimal places and an optional
// trailing minus sign: "130000" means 1300.00 and "20000-" means -200.00.
// Amounts are parsed into shopspring decimals so control total comparisons
// are exact; float arithmetic would make the one-cent checks unreliable.
//
// =============================================================================

package nai

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseImpliedDecimal converts an implied-two-decimal NAI amount string into
// a decimal value. An empty string is a valid absent amount and returns an
// invalid NullDecimal with no error, mirroring how trailer fields may simply
// be missing from short records.
func ParseImpliedDecimal(value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}, nil
	}

	negative := strings.HasSuffix(value, "-")
	if negative {
		value = value[:len(value)-1]
	}

	for _, r := range value {
		if r < '0' || r > '9' {
			return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: non-digit character", value)
		}
	}
	if value == "" {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount: bare sign")
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}

	d = d.Shift(-2)
	if negative {
		d = d.Neg()
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// ParseCount parses a trailer count field (number of groups, accounts or
// records). Counts are plain integers without implied decimals.
func ParseCount(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty count field")
	}
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid count %q: non-digit character", value)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
