// Package numeric implements the fixed-precision amount math used by
// the aggregation engine: decimal string parsing, the V2 and V3
// pricing formulas, price impact, and slippage bounds. All on-chain
// amounts are carried as *big.Int; percentages are carried as
// decimal.Decimal and never feed back into integer amount arithmetic.
package numeric

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseAmount shifts a decimal string by decimals fractional places
// into an integer number of base units, e.g. ParseAmount("1.5", 18)
// == 1_500_000_000_000_000_000.
func ParseAmount(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac, hasFrac := s, "", false
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		hasFrac = true
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) {
		return nil, fmt.Errorf("%q is not a valid decimal amount", s)
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("%q has more than %d fractional digits", s, decimals)
	}
	frac = frac + strings.Repeat("0", int(decimals)-len(frac))

	combined := whole + frac
	combined = strings.TrimLeft(combined, "0")
	if combined == "" {
		combined = "0"
	}

	out, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not a valid decimal amount", s)
	}
	if neg {
		out.Neg(out)
	}
	return out, nil
}

// FormatAmount is the inverse of ParseAmount: it renders amount (in
// base units) as a decimal string with at most decimals fractional
// digits, trimming superfluous trailing zeros and a bare ".".
func FormatAmount(amount *big.Int, decimals uint8) string {
	if amount == nil {
		amount = big.NewInt(0)
	}
	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)
	s := abs.String()

	if decimals == 0 {
		if neg && abs.Sign() != 0 {
			return "-" + s
		}
		return s
	}

	for len(s) <= int(decimals) {
		s = "0" + s
	}
	splitAt := len(s) - int(decimals)
	whole, frac := s[:splitAt], s[splitAt:]
	frac = strings.TrimRight(frac, "0")

	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}

	result := whole
	if frac != "" {
		result += "." + frac
	}
	if neg && (whole != "0" || frac != "") {
		result = "-" + result
	}
	return result
}

func isDigits(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
