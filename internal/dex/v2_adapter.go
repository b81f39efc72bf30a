package dex

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/arcnode/quote-aggregator/internal/chain"
	"github.com/arcnode/quote-aggregator/internal/entities"
	"github.com/arcnode/quote-aggregator/internal/numeric"
)

// v2FeeBps is the fixed 0.3% fee every V2-style venue charges.
const v2FeeBps = 30

// V2Adapter prices a pair through a single Uniswap-V2-shaped
// factory/pair/router trio.
type V2Adapter struct {
	name    string
	factory common.Address
	router  common.Address
	reader  chain.Reader
	log     *zap.Logger
}

// NewV2Adapter builds a V2Adapter for one configured venue.
func NewV2Adapter(cfg entities.VenueConfig, reader chain.Reader, log *zap.Logger) *V2Adapter {
	return &V2Adapter{
		name:    cfg.Name,
		factory: cfg.Factory,
		router:  cfg.Router,
		reader:  reader,
		log:     log,
	}
}

func (a *V2Adapter) Name() string                     { return a.name }
func (a *V2Adapter) Version() entities.ProtocolVersion { return entities.ProtocolV2 }

func (a *V2Adapter) PoolExists(ctx context.Context, tokenIn, tokenOut entities.Token) (bool, error) {
	_, err := a.pair(ctx, tokenIn, tokenOut)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *V2Adapter) TokenInfo(ctx context.Context, addr common.Address) (entities.Token, error) {
	symbol, name, decimals, err := a.reader.ERC20Metadata(ctx, addr)
	if err != nil {
		return entities.Token{}, err
	}
	return entities.NewToken(addr, symbol, name, decimals), nil
}

func (a *V2Adapter) QuoteAll(ctx context.Context, tokenIn, tokenOut entities.Token, amountIn *big.Int) ([]entities.VenueQuote, error) {
	pair, err := a.pair(ctx, tokenIn, tokenOut)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) || errors.Is(err, chain.ErrReverted) {
			return nil, nil
		}
		return nil, err
	}

	reserve0, reserve1, err := a.reader.V2GetReserves(ctx, pair)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) || errors.Is(err, chain.ErrReverted) {
			return nil, nil
		}
		return nil, err
	}
	if reserve0.Sign() == 0 || reserve1.Sign() == 0 {
		return nil, nil
	}

	token0, err := a.reader.V2Token0(ctx, pair)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) || errors.Is(err, chain.ErrReverted) {
			return nil, nil
		}
		return nil, err
	}

	reserveIn, reserveOut := reserve0, reserve1
	if !addressEqual(tokenIn.Address, token0) {
		reserveIn, reserveOut = reserve1, reserve0
	}

	amountOut, err := numeric.V2AmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		if errors.Is(err, numeric.ErrInsufficientLiquidity) {
			return nil, nil
		}
		return nil, err
	}

	impact := numeric.V2PriceImpact(amountIn, amountOut, reserveIn, reserveOut, tokenIn.Decimals, tokenOut.Decimals)
	warning, shouldBlock := numeric.WarningLevelFor(impact)

	quote := entities.VenueQuote{
		VenueName:   a.name,
		Protocol:    entities.ProtocolV2,
		AmountOut:   amountOut,
		PriceImpact: impact,
		GasEstimate: 150_000,
		FeeTier:     nil,
		PoolAddress: pair,
		Warning:     warning,
		ShouldBlock: shouldBlock,
	}
	return []entities.VenueQuote{quote}, nil
}

func (a *V2Adapter) pair(ctx context.Context, tokenIn, tokenOut entities.Token) (common.Address, error) {
	return a.reader.V2GetPair(ctx, a.factory, tokenIn.Address, tokenOut.Address)
}

func addressEqual(a, b common.Address) bool {
	return entities.AddressKey(a) == entities.AddressKey(b)
}
