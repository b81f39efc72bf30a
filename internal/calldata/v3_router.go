package calldata

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ExactInputSingleParams mirrors the V3 swap-router's tuple argument:
// (tokenIn, tokenOut, fee, recipient, deadline, amountIn,
// amountOutMinimum, sqrtPriceLimitX96).
type ExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               uint32
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// ExactInputSingle encodes exactInputSingle(params). The tuple is a
// static (fixed-width-field) struct, so it's packed inline after the
// selector with no offset/length header.
func ExactInputSingle(p ExactInputSingleParams) []byte {
	sqrtPriceLimit := p.SqrtPriceLimitX96
	if sqrtPriceLimit == nil {
		sqrtPriceLimit = big.NewInt(0)
	}

	data := make([]byte, 0, 4+32*8)
	data = append(data, exactInputSingleSelector...)
	data = append(data, addressWord(p.TokenIn)...)
	data = append(data, addressWord(p.TokenOut)...)
	data = append(data, pad32(big.NewInt(int64(p.Fee)).Bytes())...)
	data = append(data, addressWord(p.Recipient)...)
	data = append(data, pad32(p.Deadline.Bytes())...)
	data = append(data, pad32(p.AmountIn.Bytes())...)
	data = append(data, pad32(p.AmountOutMinimum.Bytes())...)
	data = append(data, pad32(sqrtPriceLimit.Bytes())...)
	return data
}
