package numeric

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrInsufficientLiquidity is returned by V2AmountOut when either
// reserve is non-positive, or amountIn is non-positive.
var ErrInsufficientLiquidity = fmt.Errorf("insufficient liquidity")

var (
	v2FeeNumerator   = big.NewInt(997)
	v2FeeDenominator = big.NewInt(1000)
)

// V2AmountOut implements the Uniswap-V2 constant-product identity with
// the 0.3% fee folded in:
//
//	amountInWithFee = amountIn * 997
//	amountOut = (amountInWithFee * reserveOut) / (reserveIn*1000 + amountInWithFee)
func V2AmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}

	amountInWithFee := new(big.Int).Mul(amountIn, v2FeeNumerator)

	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)

	denominator := new(big.Int).Mul(reserveIn, v2FeeDenominator)
	denominator.Add(denominator, amountInWithFee)

	amountOut := new(big.Int).Div(numerator, denominator)
	if amountOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	return amountOut, nil
}

// V2PriceImpact computes |executionPrice - midPrice| / midPrice * 100
// for a V2 swap, renormalized so both prices are expressed in output
// units per input unit regardless of each token's decimals.
func V2PriceImpact(amountIn, amountOut, reserveIn, reserveOut *big.Int, decimalsIn, decimalsOut uint8) decimal.Decimal {
	if amountIn == nil || amountIn.Sign() == 0 || reserveIn == nil || reserveIn.Sign() == 0 {
		return decimal.Zero
	}

	scaleIn := decimal.New(1, int32(decimalsIn))
	scaleOut := decimal.New(1, int32(decimalsOut))

	dAmountIn := decimal.NewFromBigInt(amountIn, 0).Div(scaleIn)
	dAmountOut := decimal.NewFromBigInt(amountOut, 0).Div(scaleOut)
	dReserveIn := decimal.NewFromBigInt(reserveIn, 0).Div(scaleIn)
	dReserveOut := decimal.NewFromBigInt(reserveOut, 0).Div(scaleOut)

	if dReserveIn.IsZero() || dAmountIn.IsZero() {
		return decimal.Zero
	}

	mid := dReserveOut.Div(dReserveIn)
	if mid.IsZero() {
		return decimal.Zero
	}
	exec := dAmountOut.Div(dAmountIn)

	impact := exec.Sub(mid).Abs().Div(mid).Mul(decimal.NewFromInt(100))
	return impact
}
