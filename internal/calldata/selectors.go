package calldata

import "github.com/ethereum/go-ethereum/common"

// Canonical Uniswap V2 router and V3 swap-router function selectors,
// keccak256(signature)[:4].
var (
	// swapExactETHForTokens(uint256,address[],address,uint256)
	swapExactETHForTokensSelector = common.Hex2Bytes("7ff36ab5")
	// swapExactTokensForETH(uint256,uint256,address[],address,uint256)
	swapExactTokensForETHSelector = common.Hex2Bytes("18cbafe5")
	// swapExactTokensForTokens(uint256,uint256,address[],address,uint256)
	swapExactTokensForTokensSelector = common.Hex2Bytes("38ed1739")
	// exactInputSingle((address,address,uint24,address,uint256,uint256,uint256,uint160))
	exactInputSingleSelector = common.Hex2Bytes("414bf389")
)

func pad32(b []byte) []byte {
	word := make([]byte, 32)
	copy(word[32-len(b):], b)
	return word
}

func addressWord(addr common.Address) []byte {
	word := make([]byte, 32)
	copy(word[12:], addr.Bytes())
	return word
}
