package httpapi

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// lowerHex renders an address in the lowercase-hex form every response
// field uses, per the address-normalization rule. common.Address.Hex()
// returns EIP-55 checksum casing, which this explicitly overrides.
func lowerHex(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

func hexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}
