package aggregator

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arcnode/quote-aggregator/internal/cache"
	"github.com/arcnode/quote-aggregator/internal/dex"
	"github.com/arcnode/quote-aggregator/internal/entities"
	"github.com/arcnode/quote-aggregator/internal/registry"
)

// mockAdapter is a fixed-response stand-in for a dex.Adapter.
type mockAdapter struct {
	name    string
	version entities.ProtocolVersion
	quotes  []entities.VenueQuote
	err     error
}

func (m *mockAdapter) Name() string                     { return m.name }
func (m *mockAdapter) Version() entities.ProtocolVersion { return m.version }
func (m *mockAdapter) PoolExists(ctx context.Context, tokenIn, tokenOut entities.Token) (bool, error) {
	return len(m.quotes) > 0, m.err
}
func (m *mockAdapter) TokenInfo(ctx context.Context, addr common.Address) (entities.Token, error) {
	return entities.Token{}, nil
}
func (m *mockAdapter) QuoteAll(ctx context.Context, tokenIn, tokenOut entities.Token, amountIn *big.Int) ([]entities.VenueQuote, error) {
	return m.quotes, m.err
}

var _ dex.Adapter = (*mockAdapter)(nil)

type mockReader struct {
	allowance     *big.Int
	allowErr      error
	metadataCalls int
}

func (m *mockReader) ERC20Metadata(ctx context.Context, token common.Address) (string, string, uint8, error) {
	m.metadataCalls++
	return "FOO", "Foo Token", 18, nil
}
func (m *mockReader) ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	if m.allowErr != nil {
		return nil, m.allowErr
	}
	return m.allowance, nil
}
func (m *mockReader) V2GetPair(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error) {
	return common.Address{}, nil
}
func (m *mockReader) V2GetReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error) {
	return nil, nil, nil
}
func (m *mockReader) V2Token0(ctx context.Context, pair common.Address) (common.Address, error) {
	return common.Address{}, nil
}
func (m *mockReader) V3GetPool(ctx context.Context, factory, tokenA, tokenB common.Address, fee uint32) (common.Address, error) {
	return common.Address{}, nil
}
func (m *mockReader) V3Slot0(ctx context.Context, pool common.Address) (*big.Int, int32, error) {
	return nil, 0, nil
}
func (m *mockReader) V3Liquidity(ctx context.Context, pool common.Address) (*big.Int, error) {
	return nil, nil
}
func (m *mockReader) V3QuoteExactInputSingle(ctx context.Context, quoter, tokenIn, tokenOut common.Address, fee uint32, amountIn *big.Int) (*big.Int, *big.Int, bool, error) {
	return nil, nil, false, nil
}

func tier(fee uint32) *uint32 { return &fee }

func TestAggregateRanksByAmountOutDescending(t *testing.T) {
	v2 := &mockAdapter{
		name:    "uniswap-v2",
		version: entities.ProtocolV2,
		quotes: []entities.VenueQuote{
			{VenueName: "uniswap-v2", Protocol: entities.ProtocolV2, AmountOut: big.NewInt(900), PriceImpact: decimal.NewFromFloat(0.5)},
		},
	}
	v3 := &mockAdapter{
		name:    "uniswap-v3",
		version: entities.ProtocolV3,
		quotes: []entities.VenueQuote{
			{VenueName: "uniswap-v3", Protocol: entities.ProtocolV3, AmountOut: big.NewInt(1000), PriceImpact: decimal.NewFromFloat(0.3), FeeTier: tier(3000)},
		},
	}

	reg := registry.DefaultRegistry()
	agg := New([]dex.Adapter{v2, v3}, nil, reg, &mockReader{}, nil, zap.NewNop())

	result, err := agg.Aggregate(context.Background(), entities.NativeAddress, entities.USDC.Address, big.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BestQuote.VenueName != "uniswap-v3" {
		t.Errorf("best venue = %s, want uniswap-v3", result.BestQuote.VenueName)
	}
	if len(result.AllQuotes) != 2 {
		t.Errorf("got %d quotes, want 2", len(result.AllQuotes))
	}
}

func TestAggregateNoLiquidity(t *testing.T) {
	reg := registry.DefaultRegistry()
	agg := New([]dex.Adapter{&mockAdapter{name: "empty", version: entities.ProtocolV2}}, nil, reg, &mockReader{}, nil, zap.NewNop())

	_, err := agg.Aggregate(context.Background(), entities.NativeAddress, entities.USDC.Address, big.NewInt(1_000_000))
	if err == nil {
		t.Fatal("expected NoLiquidity error")
	}
	var engineErr *entities.Error
	if !errors.As(err, &engineErr) || engineErr.Kind != entities.ErrNoLiquidity {
		t.Errorf("got %v, want NoLiquidity", err)
	}
}

func TestAggregateOneVenueFailsOthersSurvive(t *testing.T) {
	failing := &mockAdapter{name: "broken", version: entities.ProtocolV2, err: errors.New("transport failure")}
	working := &mockAdapter{
		name:    "uniswap-v2",
		version: entities.ProtocolV2,
		quotes: []entities.VenueQuote{
			{VenueName: "uniswap-v2", Protocol: entities.ProtocolV2, AmountOut: big.NewInt(500), PriceImpact: decimal.Zero},
		},
	}
	reg := registry.DefaultRegistry()
	agg := New([]dex.Adapter{failing, working}, nil, reg, &mockReader{}, nil, zap.NewNop())

	result, err := agg.Aggregate(context.Background(), entities.NativeAddress, entities.USDC.Address, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AllQuotes) != 1 {
		t.Errorf("got %d quotes, want 1 surviving", len(result.AllQuotes))
	}
}

func TestSavingsComputation(t *testing.T) {
	best := entities.VenueQuote{AmountOut: big.NewInt(1100)}
	worst := entities.VenueQuote{AmountOut: big.NewInt(1000)}
	savings := computeSavings(best, worst)

	if !savings.Percentage.Equal(decimal.NewFromInt(10)) {
		t.Errorf("savings percentage = %s, want 10", savings.Percentage)
	}
	if savings.AbsoluteAmount.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("savings absolute = %s, want 100", savings.AbsoluteAmount)
	}
}

func TestBuildRouteNativeInputNeedsNoApproval(t *testing.T) {
	reg := registry.DefaultRegistry()
	venues := map[string]entities.VenueConfig{
		"uniswap-v2": {
			Name:     "uniswap-v2",
			Protocol: entities.ProtocolV2,
			Router:   common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		},
	}
	agg := New(nil, venues, reg, &mockReader{}, nil, zap.NewNop())

	quote := entities.VenueQuote{VenueName: "uniswap-v2", Protocol: entities.ProtocolV2, AmountOut: big.NewInt(1000)}
	artifact, err := agg.BuildRoute(context.Background(), quote, entities.Native, entities.USDC, big.NewInt(1_000_000_000_000_000_000), decimal.NewFromFloat(0.5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Approval.Needed {
		t.Error("native input should never need approval")
	}
	if artifact.Value.Cmp(big.NewInt(1_000_000_000_000_000_000)) != 0 {
		t.Errorf("value = %s, want amountIn for native input", artifact.Value)
	}
}

func TestBuildRouteMissingUserAddressNeedsApproval(t *testing.T) {
	reg := registry.DefaultRegistry()
	venues := map[string]entities.VenueConfig{
		"uniswap-v2": {
			Name:     "uniswap-v2",
			Protocol: entities.ProtocolV2,
			Router:   common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		},
	}
	agg := New(nil, venues, reg, &mockReader{}, nil, zap.NewNop())

	quote := entities.VenueQuote{VenueName: "uniswap-v2", Protocol: entities.ProtocolV2, AmountOut: big.NewInt(1000)}
	artifact, err := agg.BuildRoute(context.Background(), quote, entities.USDC, entities.DAI, big.NewInt(1_000_000), decimal.NewFromFloat(0.5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !artifact.Approval.Needed {
		t.Error("missing userAddress should default to approval needed")
	}
}

func TestBuildRouteSufficientAllowanceNeedsNoApproval(t *testing.T) {
	reg := registry.DefaultRegistry()
	venues := map[string]entities.VenueConfig{
		"uniswap-v2": {
			Name:     "uniswap-v2",
			Protocol: entities.ProtocolV2,
			Router:   common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		},
	}
	reader := &mockReader{allowance: big.NewInt(2_000_000)}
	agg := New(nil, venues, reg, reader, nil, zap.NewNop())

	user := common.HexToAddress("0x9999999999999999999999999999999999999999")
	quote := entities.VenueQuote{VenueName: "uniswap-v2", Protocol: entities.ProtocolV2, AmountOut: big.NewInt(1000)}
	artifact, err := agg.BuildRoute(context.Background(), quote, entities.USDC, entities.DAI, big.NewInt(1_000_000), decimal.NewFromFloat(0.5), &user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Approval.Needed {
		t.Error("sufficient allowance should not require approval")
	}
}

func TestResolveTokenCachesUnknownTokenAfterChainRead(t *testing.T) {
	reg := registry.DefaultRegistry()
	reader := &mockReader{}
	tokenCache := cache.NewInMemoryTokenCache()
	agg := New(nil, nil, reg, reader, tokenCache, zap.NewNop())

	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	first, err := agg.ResolveToken(context.Background(), addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Symbol != "FOO" {
		t.Fatalf("symbol = %s, want FOO", first.Symbol)
	}
	if reader.metadataCalls != 1 {
		t.Fatalf("metadataCalls = %d, want 1 after first resolve", reader.metadataCalls)
	}

	second, err := agg.ResolveToken(context.Background(), addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Symbol != "FOO" {
		t.Fatalf("symbol = %s, want FOO", second.Symbol)
	}
	if reader.metadataCalls != 1 {
		t.Errorf("metadataCalls = %d, want still 1 after cached resolve", reader.metadataCalls)
	}
}
