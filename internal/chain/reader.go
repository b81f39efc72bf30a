package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Reader is the capability surface every dex.Adapter depends on. All
// methods are pure reads: no method ever builds or sends a
// transaction. Implementations must distinguish transport failure
// from a clean revert from a successful-but-empty result, so callers
// can tell "pool does not exist" (ErrNotFound) apart from "the node
// is down" (ErrTransport).
type Reader interface {
	ERC20Metadata(ctx context.Context, token common.Address) (symbol, name string, decimals uint8, err error)
	ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)

	V2GetPair(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error)
	V2GetReserves(ctx context.Context, pair common.Address) (reserve0, reserve1 *big.Int, err error)
	V2Token0(ctx context.Context, pair common.Address) (common.Address, error)

	V3GetPool(ctx context.Context, factory, tokenA, tokenB common.Address, fee uint32) (common.Address, error)
	V3Slot0(ctx context.Context, pool common.Address) (sqrtPriceX96 *big.Int, tick int32, err error)
	V3Liquidity(ctx context.Context, pool common.Address) (*big.Int, error)
	V3QuoteExactInputSingle(ctx context.Context, quoter, tokenIn, tokenOut common.Address, fee uint32, amountIn *big.Int) (amountOut *big.Int, sqrtPriceX96After *big.Int, ok bool, err error)
}
