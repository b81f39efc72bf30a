package numeric

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// bpsDenominator is the fixed-point base slippage is expressed in:
// slippagePercent is converted to basis points via floor(percent*100).
var bpsDenominator = big.NewInt(10000)

// SlippageBps converts a slippagePercent in [0,100] to basis points,
// floored.
func SlippageBps(slippagePercent decimal.Decimal) int64 {
	bps := slippagePercent.Mul(decimal.NewFromInt(100)).Floor()
	return bps.IntPart()
}

// MinimumAmountOut computes the minimum acceptable output for a given
// slippage tolerance: amountOut * (10000 - bps) / 10000.
func MinimumAmountOut(amountOut *big.Int, slippagePercent decimal.Decimal) *big.Int {
	if amountOut == nil {
		return big.NewInt(0)
	}
	bps := SlippageBps(slippagePercent)
	multiplier := new(big.Int).Sub(bpsDenominator, big.NewInt(bps))
	result := new(big.Int).Mul(amountOut, multiplier)
	return result.Div(result, bpsDenominator)
}

// MaximumAmountIn computes the symmetric maximum acceptable input:
// amountIn * (10000 + bps) / 10000.
func MaximumAmountIn(amountIn *big.Int, slippagePercent decimal.Decimal) *big.Int {
	if amountIn == nil {
		return big.NewInt(0)
	}
	bps := SlippageBps(slippagePercent)
	multiplier := new(big.Int).Add(bpsDenominator, big.NewInt(bps))
	result := new(big.Int).Mul(amountIn, multiplier)
	return result.Div(result, bpsDenominator)
}
