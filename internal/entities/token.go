package entities

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NativeAddress is the sentinel that denotes the chain's native gas
// token. No ERC-20 calls are ever issued against it and it never
// requires approval.
var NativeAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// Token is an immutable description of an ERC-20 (or the native gas
// token) used throughout the engine.
type Token struct {
	Address  common.Address
	Symbol   string
	Name     string
	Decimals uint8
	IsNative bool
}

// NewToken constructs a Token and sets IsNative from the address. The
// address is stored as given; case-insensitive comparisons go through
// AddressKey.
func NewToken(addr common.Address, symbol, name string, decimals uint8) Token {
	return Token{
		Address:  addr,
		Symbol:   symbol,
		Name:     name,
		Decimals: decimals,
		IsNative: IsNativeAddress(addr),
	}
}

// IsNativeAddress reports whether addr denotes the native gas token
// under case-insensitive comparison.
func IsNativeAddress(addr common.Address) bool {
	return strings.EqualFold(addr.Hex(), NativeAddress.Hex())
}

// AddressKey is the canonical lowercase key used for registry and
// cache lookups.
func AddressKey(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// Well-known mainnet tokens, seeded into the default registry.
var (
	Native = Token{
		Address:  NativeAddress,
		Symbol:   "ETH",
		Name:     "Ether",
		Decimals: 18,
		IsNative: true,
	}
	WETH = NewToken(
		common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		"WETH", "Wrapped Ether", 18,
	)
	USDC = NewToken(
		common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		"USDC", "USD Coin", 6,
	)
	USDT = NewToken(
		common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
		"USDT", "Tether USD", 6,
	)
	DAI = NewToken(
		common.HexToAddress("0x6B175474E89094C44Da98b954EedFdfdAd3Ef9FB"),
		"DAI", "Dai Stablecoin", 18,
	)
)
