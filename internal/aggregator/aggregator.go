package aggregator

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arcnode/quote-aggregator/internal/cache"
	"github.com/arcnode/quote-aggregator/internal/chain"
	"github.com/arcnode/quote-aggregator/internal/dex"
	"github.com/arcnode/quote-aggregator/internal/entities"
	"github.com/arcnode/quote-aggregator/internal/registry"
)

// tokenCacheTTL bounds how long an on-chain-resolved token's metadata
// is trusted before the next request re-reads it.
const tokenCacheTTL = 1 * time.Hour

// Aggregator fans a quote request out to every configured venue, ranks
// the surviving quotes, and builds a route for each. Apart from the
// token cache, which synchronizes its own writes, it holds only shared,
// read-only state: safe for concurrent use across requests.
type Aggregator struct {
	adapters []dex.Adapter
	venues   map[string]entities.VenueConfig
	registry *registry.Registry
	reader   chain.Reader
	tokens   cache.TokenCache
	log      *zap.Logger
}

// New builds an Aggregator over a fixed adapter set. venues maps each
// adapter's Name() to the VenueConfig it was constructed from, so
// BuildRoute can recover the router address a quote's venue targets.
// tokens may be nil, in which case tokens outside the static registry
// are re-resolved on chain on every request.
func New(adapters []dex.Adapter, venues map[string]entities.VenueConfig, reg *registry.Registry, reader chain.Reader, tokens cache.TokenCache, log *zap.Logger) *Aggregator {
	return &Aggregator{adapters: adapters, venues: venues, registry: reg, reader: reader, tokens: tokens, log: log}
}

// ResolveToken looks a token up in the registry first, then the token
// cache, falling back to an on-chain ERC20Metadata read when it isn't
// known by either.
func (a *Aggregator) ResolveToken(ctx context.Context, addr common.Address) (entities.Token, error) {
	if a.registry.IsNative(addr) {
		return entities.Native, nil
	}
	if token, ok := a.registry.GetByAddress(addr); ok {
		return token, nil
	}

	key := cache.TokenCacheKey(entities.AddressKey(addr))
	if a.tokens != nil {
		if cached, err := a.tokens.GetToken(ctx, key); err == nil && cached != nil {
			return *cached, nil
		}
	}

	symbol, name, decimals, err := a.reader.ERC20Metadata(ctx, addr)
	if err != nil {
		return entities.Token{}, entities.NewUnknownToken(addr, err)
	}
	token := entities.NewToken(addr, symbol, name, decimals)

	if a.tokens != nil {
		if err := a.tokens.SetToken(ctx, key, token, tokenCacheTTL); err != nil {
			a.log.Warn("failed to cache resolved token", zap.String("token", addr.Hex()), zap.Error(err))
		}
	}
	return token, nil
}

type adapterResult struct {
	quotes []entities.VenueQuote
	err    error
}

// Aggregate resolves both tokens, fans out to every adapter
// concurrently, merges and ranks the surviving quotes, and computes
// savings of the best quote over the worst.
func (a *Aggregator) Aggregate(ctx context.Context, tokenInAddr, tokenOutAddr common.Address, amountInRaw *big.Int) (*entities.AggregatedQuote, error) {
	tokenIn, err := a.ResolveToken(ctx, tokenInAddr)
	if err != nil {
		return nil, err
	}
	tokenOut, err := a.ResolveToken(ctx, tokenOutAddr)
	if err != nil {
		return nil, err
	}

	results := make([]adapterResult, len(a.adapters))
	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		wg.Add(1)
		go func(idx int, ad dex.Adapter) {
			defer wg.Done()
			quotes, err := ad.QuoteAll(ctx, tokenIn, tokenOut, amountInRaw)
			if err != nil {
				a.log.Warn("venue quote failed", zap.String("venue", ad.Name()), zap.Error(err))
				results[idx] = adapterResult{err: err}
				return
			}
			results[idx] = adapterResult{quotes: quotes}
		}(i, adapter)
	}
	wg.Wait()

	var all []entities.VenueQuote
	for _, r := range results {
		all = append(all, r.quotes...)
	}

	if len(all) == 0 {
		return nil, entities.NewNoLiquidity("no surviving quotes across any configured venue")
	}

	rankQuotes(all)
	best := all[0]
	worst := all[len(all)-1]

	savings := computeSavings(best, worst)

	return &entities.AggregatedQuote{
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		AmountIn:       amountInRaw,
		AllQuotes:      all,
		BestQuote:      best,
		Savings:        savings,
		Recommendation: recommendationFor(best, savings.Percentage, len(all)),
	}, nil
}

// rankQuotes sorts in place by the tie-break chain: amountOut
// descending, then price impact ascending, then fee tier ascending
// (quotes without a fee tier sort after those with one), then venue
// name ascending.
func rankQuotes(quotes []entities.VenueQuote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		a, b := quotes[i], quotes[j]

		if cmp := a.AmountOut.Cmp(b.AmountOut); cmp != 0 {
			return cmp > 0
		}
		if !a.PriceImpact.Equal(b.PriceImpact) {
			return a.PriceImpact.LessThan(b.PriceImpact)
		}
		if feeCmp, ok := compareFeeTiers(a.FeeTier, b.FeeTier); ok {
			return feeCmp
		}
		return a.VenueName < b.VenueName
	})
}

func compareFeeTiers(a, b *uint32) (less bool, decided bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return false, true
	case b == nil:
		return true, true
	case *a == *b:
		return false, false
	default:
		return *a < *b, true
	}
}

func computeSavings(best, worst entities.VenueQuote) entities.Savings {
	if worst.AmountOut == nil || worst.AmountOut.Sign() == 0 {
		return entities.Savings{Percentage: decimal.Zero, AbsoluteAmount: big.NewInt(0)}
	}
	absolute := new(big.Int).Sub(best.AmountOut, worst.AmountOut)
	percentage := decimal.NewFromBigInt(absolute, 0).
		Div(decimal.NewFromBigInt(worst.AmountOut, 0)).
		Mul(decimal.NewFromInt(100))
	return entities.Savings{Percentage: percentage, AbsoluteAmount: absolute}
}

// recommendationFor renders the human-readable line surfaced alongside
// a quote. With only one surviving venue there is nothing to compare
// against, so it names the venue rather than claiming a percentage
// improvement over itself.
func recommendationFor(best entities.VenueQuote, savingsPercent decimal.Decimal, venueCount int) string {
	if venueCount == 1 {
		return "only " + best.VenueName + " has liquidity for this pair"
	}
	pct := savingsPercent.StringFixed(2)
	if best.Protocol == entities.ProtocolV3 && best.FeeTier != nil {
		feeTierPercent := decimal.NewFromInt(int64(*best.FeeTier)).Div(decimal.NewFromInt(10000)).StringFixed(2)
		return "Use " + best.VenueName + " V3 (" + feeTierPercent + "% fee tier) for " + pct + "% better price"
	}
	return "Use " + best.VenueName + " V2 for " + pct + "% better price"
}
