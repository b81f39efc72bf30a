package dex

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arcnode/quote-aggregator/internal/chain"
	"github.com/arcnode/quote-aggregator/internal/entities"
	"github.com/arcnode/quote-aggregator/internal/numeric"
)

// v3DefaultGasEstimate is used when a venue's quoter doesn't surface
// a gas estimate.
const v3DefaultGasEstimate = 150_000

// V3Adapter prices a pair across every fee tier of a single
// concentrated-liquidity venue, querying each tier concurrently.
type V3Adapter struct {
	name    string
	factory common.Address
	quoter  common.Address
	reader  chain.Reader
	log     *zap.Logger
}

// NewV3Adapter builds a V3Adapter for one configured venue.
func NewV3Adapter(cfg entities.VenueConfig, reader chain.Reader, log *zap.Logger) *V3Adapter {
	return &V3Adapter{
		name:    cfg.Name,
		factory: cfg.Factory,
		quoter:  cfg.Quoter,
		reader:  reader,
		log:     log,
	}
}

func (a *V3Adapter) Name() string                     { return a.name }
func (a *V3Adapter) Version() entities.ProtocolVersion { return entities.ProtocolV3 }

func (a *V3Adapter) TokenInfo(ctx context.Context, addr common.Address) (entities.Token, error) {
	symbol, name, decimals, err := a.reader.ERC20Metadata(ctx, addr)
	if err != nil {
		return entities.Token{}, err
	}
	return entities.NewToken(addr, symbol, name, decimals), nil
}

func (a *V3Adapter) PoolExists(ctx context.Context, tokenIn, tokenOut entities.Token) (bool, error) {
	for _, fee := range entities.V3FeeTiers {
		pool, err := a.reader.V3GetPool(ctx, a.factory, tokenIn.Address, tokenOut.Address, fee)
		if err != nil {
			if errors.Is(err, chain.ErrNotFound) {
				continue
			}
			return false, err
		}
		if pool != (common.Address{}) {
			return true, nil
		}
	}
	return false, nil
}

type tierResult struct {
	quote entities.VenueQuote
	ok    bool
	err   error
}

// QuoteAll fans out one goroutine per fee tier; a per-tier revert or
// missing pool is absorbed (ok=false, err=nil), while a transport
// failure on any tier surfaces as the overall error.
func (a *V3Adapter) QuoteAll(ctx context.Context, tokenIn, tokenOut entities.Token, amountIn *big.Int) ([]entities.VenueQuote, error) {
	results := make([]tierResult, len(entities.V3FeeTiers))

	var wg sync.WaitGroup
	for i, fee := range entities.V3FeeTiers {
		wg.Add(1)
		go func(idx int, fee uint32) {
			defer wg.Done()
			results[idx] = a.quoteTier(ctx, tokenIn, tokenOut, amountIn, fee)
		}(i, fee)
	}
	wg.Wait()

	quotes := make([]entities.VenueQuote, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.ok {
			quotes = append(quotes, r.quote)
		}
	}
	return quotes, nil
}

func (a *V3Adapter) quoteTier(ctx context.Context, tokenIn, tokenOut entities.Token, amountIn *big.Int, fee uint32) tierResult {
	pool, err := a.reader.V3GetPool(ctx, a.factory, tokenIn.Address, tokenOut.Address, fee)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) || errors.Is(err, chain.ErrReverted) {
			return tierResult{}
		}
		return tierResult{err: err}
	}
	if pool == (common.Address{}) {
		return tierResult{}
	}

	sqrtPriceBefore, _, err := a.reader.V3Slot0(ctx, pool)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) || errors.Is(err, chain.ErrReverted) {
			return tierResult{}
		}
		return tierResult{err: err}
	}

	liquidity, err := a.reader.V3Liquidity(ctx, pool)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) || errors.Is(err, chain.ErrReverted) {
			return tierResult{}
		}
		return tierResult{err: err}
	}
	if liquidity == nil || liquidity.Sign() == 0 {
		return tierResult{}
	}

	amountOut, sqrtPriceAfter, gotSqrtAfter, err := a.reader.V3QuoteExactInputSingle(ctx, a.quoter, tokenIn.Address, tokenOut.Address, fee, amountIn)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) || errors.Is(err, chain.ErrReverted) {
			return tierResult{}
		}
		return tierResult{err: err}
	}
	if amountOut == nil || amountOut.Sign() <= 0 {
		return tierResult{}
	}

	impact := a.priceImpact(amountIn, amountOut, tokenIn, tokenOut, sqrtPriceBefore, sqrtPriceAfter, gotSqrtAfter)
	warning, shouldBlock := numeric.WarningLevelFor(impact)

	feeTier := fee
	quote := entities.VenueQuote{
		VenueName:   a.name,
		Protocol:    entities.ProtocolV3,
		AmountOut:   amountOut,
		PriceImpact: impact,
		GasEstimate: v3DefaultGasEstimate,
		FeeTier:     &feeTier,
		PoolAddress: pool,
		Warning:     warning,
		ShouldBlock: shouldBlock,
	}
	return tierResult{quote: quote, ok: true}
}

// priceImpact prefers the quoter's reported post-swap sqrt price; when
// the quoter only returns the legacy 1-word amountOut shape, it falls
// back to reconstructing a post-swap sqrt price from the ratio of
// execution price to nominal mid price.
func (a *V3Adapter) priceImpact(amountIn, amountOut *big.Int, tokenIn, tokenOut entities.Token, sqrtPriceBefore, sqrtPriceAfter *big.Int, gotSqrtAfter bool) decimal.Decimal {
	if gotSqrtAfter && sqrtPriceAfter != nil {
		return numeric.V3PriceImpact(sqrtPriceBefore, sqrtPriceAfter)
	}

	midPrice := numeric.SqrtPriceX96ToPrice(sqrtPriceBefore, tokenIn.Decimals, tokenOut.Decimals)
	if midPrice.IsZero() || amountIn.Sign() == 0 {
		return decimal.Zero
	}
	execPrice := decimal.NewFromBigInt(amountOut, 0).Div(decimal.NewFromBigInt(amountIn, 0))
	impactFraction := execPrice.Div(midPrice).Sub(decimal.NewFromInt(1)).Abs()
	outputIncreased := execPrice.GreaterThan(midPrice)

	after := numeric.SqrtPriceAfterFromImpact(sqrtPriceBefore, impactFraction.Mul(decimal.NewFromInt(100)), outputIncreased)
	return numeric.V3PriceImpact(sqrtPriceBefore, after)
}
