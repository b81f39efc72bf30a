package numeric

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// q96 is 2^96, the fixed-point base of Uniswap V3's sqrtPriceX96.
var q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// SqrtPriceX96ToPrice converts a pool's sqrtPriceX96 into the
// instantaneous price of token0 in terms of token1:
//
//	price = (sqrtPriceX96 / 2^96)^2 * 10^(decimals0 - decimals1)
func SqrtPriceX96ToPrice(sqrtPriceX96 *big.Int, decimals0, decimals1 uint8) decimal.Decimal {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return decimal.Zero
	}
	ratio := decimal.NewFromBigInt(sqrtPriceX96, 0).Div(decimal.NewFromBigInt(q96, 0))
	price := ratio.Mul(ratio)
	scale := decimal.New(1, int32(decimals0)-int32(decimals1))
	return price.Mul(scale)
}

// PriceToSqrtPriceX96 is the inverse of SqrtPriceX96ToPrice.
func PriceToSqrtPriceX96(price decimal.Decimal, decimals0, decimals1 uint8) *big.Int {
	if price.Sign() <= 0 {
		return big.NewInt(0)
	}
	scale := decimal.New(1, int32(decimals0)-int32(decimals1))
	adjusted := price.Div(scale)
	sqrtRatio := decimalSqrt(adjusted)
	sqrtPriceX96 := sqrtRatio.Mul(decimal.NewFromBigInt(q96, 0))
	return sqrtPriceX96.BigInt()
}

// V3PriceImpact computes the industry-standard simple form:
// priceRatio = (after/before)^2; impact = |priceRatio - 1| * 100. This
// does not require knowing which side of the pool the swap moved.
func V3PriceImpact(sqrtPriceBefore, sqrtPriceAfter *big.Int) decimal.Decimal {
	if sqrtPriceBefore == nil || sqrtPriceBefore.Sign() <= 0 || sqrtPriceAfter == nil {
		return decimal.Zero
	}
	before := decimal.NewFromBigInt(sqrtPriceBefore, 0)
	after := decimal.NewFromBigInt(sqrtPriceAfter, 0)
	ratio := after.Div(before)
	priceRatio := ratio.Mul(ratio)
	return priceRatio.Sub(decimal.NewFromInt(1)).Abs().Mul(decimal.NewFromInt(100))
}

// SqrtPriceAfterFromImpact reconstructs a post-swap sqrtPriceX96 from
// the execution/mid-price impact percentage, for quoters that return
// only amountOut. Prefer a quoter that reports the post-swap sqrt
// price directly when the target chain's quoter supports it.
func SqrtPriceAfterFromImpact(sqrtPriceBefore *big.Int, impactPercent decimal.Decimal, outputIncreased bool) *big.Int {
	if sqrtPriceBefore == nil || sqrtPriceBefore.Sign() <= 0 {
		return big.NewInt(0)
	}
	one := decimal.NewFromInt(1)
	impactFraction := impactPercent.Div(decimal.NewFromInt(100)).Abs()
	var ratio decimal.Decimal
	if outputIncreased {
		ratio = one.Add(impactFraction)
	} else {
		ratio = one.Sub(impactFraction).Abs()
	}
	sqrtRatio := decimalSqrt(ratio)
	before := decimal.NewFromBigInt(sqrtPriceBefore, 0)
	after := before.Mul(sqrtRatio)
	return after.BigInt()
}

// decimalSqrt approximates sqrt(d) with Newton's method (at most 64
// iterations) and rounds the result to 18 decimal places; d must be
// non-negative.
func decimalSqrt(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	const precision = 18
	x := d
	guess := d
	if guess.GreaterThan(decimal.NewFromInt(1)) {
		guess = guess.Div(decimal.NewFromInt(2))
	}
	if guess.IsZero() {
		guess = decimal.NewFromFloat(1)
	}
	two := decimal.NewFromInt(2)
	for i := 0; i < 64; i++ {
		next := guess.Add(x.Div(guess)).Div(two)
		if next.Sub(guess).Abs().LessThan(decimal.New(1, -precision)) {
			guess = next
			break
		}
		guess = next
	}
	return guess.Round(precision)
}
