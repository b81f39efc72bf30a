package calldata

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// pathTail ABI-encodes a dynamic address[] argument: a length word
// followed by one address word per element.
func pathTail(path []common.Address) []byte {
	tail := make([]byte, 0, 32+32*len(path))
	tail = append(tail, pad32(big.NewInt(int64(len(path))).Bytes())...)
	for _, addr := range path {
		tail = append(tail, addressWord(addr)...)
	}
	return tail
}

// SwapExactETHForTokens encodes swapExactETHForTokens(amountOutMin,
// path, to, deadline). The router takes the ETH value out-of-band via
// the call's value field, not as a calldata argument.
func SwapExactETHForTokens(amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) []byte {
	const headWords = 4
	offsetToPath := big.NewInt(int64(headWords * 32))

	data := make([]byte, 0, 4+headWords*32+32+32*len(path))
	data = append(data, swapExactETHForTokensSelector...)
	data = append(data, pad32(amountOutMin.Bytes())...)
	data = append(data, pad32(offsetToPath.Bytes())...)
	data = append(data, addressWord(to)...)
	data = append(data, pad32(deadline.Bytes())...)
	data = append(data, pathTail(path)...)
	return data
}

// SwapExactTokensForETH encodes swapExactTokensForETH(amountIn,
// amountOutMin, path, to, deadline).
func SwapExactTokensForETH(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) []byte {
	return encodeTokenSwap(swapExactTokensForETHSelector, amountIn, amountOutMin, path, to, deadline)
}

// SwapExactTokensForTokens encodes swapExactTokensForTokens(amountIn,
// amountOutMin, path, to, deadline).
func SwapExactTokensForTokens(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) []byte {
	return encodeTokenSwap(swapExactTokensForTokensSelector, amountIn, amountOutMin, path, to, deadline)
}

func encodeTokenSwap(selector []byte, amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) []byte {
	const headWords = 5
	offsetToPath := big.NewInt(int64(headWords * 32))

	data := make([]byte, 0, 4+headWords*32+32+32*len(path))
	data = append(data, selector...)
	data = append(data, pad32(amountIn.Bytes())...)
	data = append(data, pad32(amountOutMin.Bytes())...)
	data = append(data, pad32(offsetToPath.Bytes())...)
	data = append(data, addressWord(to)...)
	data = append(data, pad32(deadline.Bytes())...)
	data = append(data, pathTail(path)...)
	return data
}
