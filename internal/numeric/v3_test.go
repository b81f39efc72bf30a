package numeric

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSqrtPriceX96RoundTrip(t *testing.T) {
	price := decimal.NewFromFloat(1800.5)
	sqrtPriceX96 := PriceToSqrtPriceX96(price, 18, 18)
	got := SqrtPriceX96ToPrice(sqrtPriceX96, 18, 18)

	diff := got.Sub(price).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(0.01)) {
		t.Errorf("round trip price = %s, want ~%s (diff %s)", got, price, diff)
	}
}

func TestSqrtPriceX96ToPriceZero(t *testing.T) {
	if got := SqrtPriceX96ToPrice(nil, 18, 18); !got.IsZero() {
		t.Errorf("got %s, want zero for nil input", got)
	}
	if got := SqrtPriceX96ToPrice(big.NewInt(0), 18, 18); !got.IsZero() {
		t.Errorf("got %s, want zero for zero input", got)
	}
}

func TestV3PriceImpactNoMovement(t *testing.T) {
	sqrtPrice := new(big.Int).Lsh(big.NewInt(1), 96)
	impact := V3PriceImpact(sqrtPrice, sqrtPrice)
	if !impact.IsZero() {
		t.Errorf("impact = %s, want 0 for unchanged price", impact)
	}
}

func TestV3PriceImpactSymmetricMagnitude(t *testing.T) {
	before := new(big.Int).Lsh(big.NewInt(1), 96)
	// after = before * 1.1 -> ratio^2 - 1 = 0.21
	after := new(big.Int).Mul(before, big.NewInt(11))
	after.Div(after, big.NewInt(10))

	impact := V3PriceImpact(before, after)
	want := decimal.NewFromFloat(21)
	diff := impact.Sub(want).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(0.5)) {
		t.Errorf("impact = %s, want ~%s", impact, want)
	}
}

func TestSqrtPriceAfterFromImpactRoundTrip(t *testing.T) {
	before := new(big.Int).Lsh(big.NewInt(1), 96)
	impact := decimal.NewFromFloat(5)

	after := SqrtPriceAfterFromImpact(before, impact, true)
	recomputed := V3PriceImpact(before, after)

	diff := recomputed.Sub(impact).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(0.1)) {
		t.Errorf("recomputed impact = %s, want ~%s", recomputed, impact)
	}
}

func TestDecimalSqrtKnownValues(t *testing.T) {
	cases := []struct {
		in   decimal.Decimal
		want decimal.Decimal
	}{
		{decimal.NewFromInt(4), decimal.NewFromInt(2)},
		{decimal.NewFromInt(9), decimal.NewFromInt(3)},
		{decimal.NewFromInt(2), decimal.NewFromFloat(1.41421356)},
	}
	for _, c := range cases {
		got := decimalSqrt(c.in)
		diff := got.Sub(c.want).Abs()
		if diff.GreaterThan(decimal.NewFromFloat(0.0001)) {
			t.Errorf("decimalSqrt(%s) = %s, want ~%s", c.in, got, c.want)
		}
	}
}
