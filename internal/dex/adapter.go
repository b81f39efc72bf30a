package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arcnode/quote-aggregator/internal/entities"
)

// Adapter is one venue's pricing surface. Implementations never
// return an error for "no liquidity here" — that's an empty quote
// slice — only for transport/RPC failure, which the aggregator logs
// and drops for that venue without aborting the whole fan-out.
type Adapter interface {
	// QuoteAll returns zero or more quotes for trading amountIn of
	// tokenIn into tokenOut through this venue. A V2 adapter returns at
	// most one quote; a V3 adapter returns up to one per fee tier.
	QuoteAll(ctx context.Context, tokenIn, tokenOut entities.Token, amountIn *big.Int) ([]entities.VenueQuote, error)

	// PoolExists reports whether this venue has any pool for the pair,
	// without pricing it.
	PoolExists(ctx context.Context, tokenIn, tokenOut entities.Token) (bool, error)

	// TokenInfo resolves on-chain ERC-20 metadata through this venue's
	// chain reader, for tokens the registry doesn't already know.
	TokenInfo(ctx context.Context, addr common.Address) (entities.Token, error)

	Name() string
	Version() entities.ProtocolVersion
}
