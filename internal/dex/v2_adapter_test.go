package dex

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/arcnode/quote-aggregator/internal/chain"
	"github.com/arcnode/quote-aggregator/internal/entities"
)

// v2MockReader is a chain.Reader stand-in that answers exactly the
// calls V2Adapter makes: getPair, getReserves, token0.
type v2MockReader struct {
	pair        common.Address
	pairErr     error
	reserve0    *big.Int
	reserve1    *big.Int
	reservesErr error
	token0      common.Address
	token0Err   error
}

func (m *v2MockReader) ERC20Metadata(ctx context.Context, token common.Address) (string, string, uint8, error) {
	return "", "", 0, nil
}
func (m *v2MockReader) ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	return nil, nil
}
func (m *v2MockReader) V2GetPair(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error) {
	return m.pair, m.pairErr
}
func (m *v2MockReader) V2GetReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error) {
	return m.reserve0, m.reserve1, m.reservesErr
}
func (m *v2MockReader) V2Token0(ctx context.Context, pair common.Address) (common.Address, error) {
	return m.token0, m.token0Err
}
func (m *v2MockReader) V3GetPool(ctx context.Context, factory, tokenA, tokenB common.Address, fee uint32) (common.Address, error) {
	return common.Address{}, nil
}
func (m *v2MockReader) V3Slot0(ctx context.Context, pool common.Address) (*big.Int, int32, error) {
	return nil, 0, nil
}
func (m *v2MockReader) V3Liquidity(ctx context.Context, pool common.Address) (*big.Int, error) {
	return nil, nil
}
func (m *v2MockReader) V3QuoteExactInputSingle(ctx context.Context, quoter, tokenIn, tokenOut common.Address, fee uint32, amountIn *big.Int) (*big.Int, *big.Int, bool, error) {
	return nil, nil, false, nil
}

var _ chain.Reader = (*v2MockReader)(nil)

var v2TestPair = common.HexToAddress("0xAAAAaaaaAaAaAaAAAAAaaaaaaAaaaAAAaAaAAaAA")

func TestV2QuoteAllOrdersReservesByToken0(t *testing.T) {
	reader := &v2MockReader{
		pair:     v2TestPair,
		reserve0: new(big.Int).Mul(big.NewInt(10000), big.NewInt(1e18)),
		reserve1: new(big.Int).Mul(big.NewInt(5_000_000), big.NewInt(1e6)),
		token0:   entities.WETH.Address,
	}
	adapter := NewV2Adapter(entities.VenueConfig{Name: "uniswap-v2"}, reader, zap.NewNop())

	amountIn := big.NewInt(1_000_000_000_000_000_000) // 1 WETH
	quotes, err := adapter.QuoteAll(context.Background(), entities.WETH, entities.USDC, amountIn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
	q := quotes[0]
	if q.VenueName != "uniswap-v2" || q.Protocol != entities.ProtocolV2 {
		t.Errorf("unexpected venue/protocol: %+v", q)
	}
	if q.FeeTier != nil {
		t.Error("V2 quote must not carry a fee tier")
	}
	if q.GasEstimate != 150_000 {
		t.Errorf("gasEstimate = %d, want 150000", q.GasEstimate)
	}

	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(997))
	numerator := new(big.Int).Mul(amountInWithFee, reader.reserve1)
	denominator := new(big.Int).Mul(reader.reserve0, big.NewInt(1000))
	denominator.Add(denominator, amountInWithFee)
	want := new(big.Int).Div(numerator, denominator)
	if q.AmountOut.Cmp(want) != 0 {
		t.Errorf("amountOut = %s, want %s", q.AmountOut, want)
	}

	// tokenIn (WETH) is token0, so reserveIn/reserveOut must not be
	// swapped: reversing the quote direction must flip the result.
	reversed, err := adapter.QuoteAll(context.Background(), entities.USDC, entities.WETH, big.NewInt(1_000_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reversed[0].AmountOut.Cmp(q.AmountOut) == 0 {
		t.Error("reversing tokenIn/tokenOut must not yield the same amountOut")
	}
}

func TestV2QuoteAllNoPairIsEmptyNotError(t *testing.T) {
	reader := &v2MockReader{pairErr: chain.ErrNotFound}
	adapter := NewV2Adapter(entities.VenueConfig{Name: "uniswap-v2"}, reader, zap.NewNop())

	quotes, err := adapter.QuoteAll(context.Background(), entities.WETH, entities.USDC, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quotes != nil {
		t.Errorf("got %v, want nil quotes for missing pair", quotes)
	}
}

func TestV2QuoteAllZeroReservesIsEmptyNotError(t *testing.T) {
	reader := &v2MockReader{
		pair:     v2TestPair,
		reserve0: big.NewInt(0),
		reserve1: big.NewInt(1000),
		token0:   entities.WETH.Address,
	}
	adapter := NewV2Adapter(entities.VenueConfig{Name: "uniswap-v2"}, reader, zap.NewNop())

	quotes, err := adapter.QuoteAll(context.Background(), entities.WETH, entities.USDC, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quotes != nil {
		t.Errorf("got %v, want nil quotes for zero reserves", quotes)
	}
}

func TestV2QuoteAllTransportFailurePropagates(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")
	reader := &v2MockReader{pair: v2TestPair, reservesErr: transportErr}
	adapter := NewV2Adapter(entities.VenueConfig{Name: "uniswap-v2"}, reader, zap.NewNop())

	_, err := adapter.QuoteAll(context.Background(), entities.WETH, entities.USDC, big.NewInt(1))
	if !errors.Is(err, transportErr) {
		t.Errorf("got %v, want transport error to propagate", err)
	}
}

func TestV2PoolExists(t *testing.T) {
	found := &v2MockReader{pair: v2TestPair}
	adapter := NewV2Adapter(entities.VenueConfig{Name: "uniswap-v2"}, found, zap.NewNop())
	ok, err := adapter.PoolExists(context.Background(), entities.WETH, entities.USDC)
	if err != nil || !ok {
		t.Errorf("PoolExists = %v, %v; want true, nil", ok, err)
	}

	missing := &v2MockReader{pairErr: chain.ErrNotFound}
	adapter = NewV2Adapter(entities.VenueConfig{Name: "uniswap-v2"}, missing, zap.NewNop())
	ok, err = adapter.PoolExists(context.Background(), entities.WETH, entities.USDC)
	if err != nil || ok {
		t.Errorf("PoolExists = %v, %v; want false, nil", ok, err)
	}
}
