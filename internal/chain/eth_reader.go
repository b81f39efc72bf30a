package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC-20 and Uniswap V2/V3 function selectors, keccak256(signature)[:4].
var (
	symbolSelector    = common.Hex2Bytes("95d89b41")
	nameSelector      = common.Hex2Bytes("06fdde03")
	decimalsSelector  = common.Hex2Bytes("313ce567")
	allowanceSelector = common.Hex2Bytes("dd62ed3e")

	v2GetPairSelector     = common.Hex2Bytes("e6a43905")
	v2GetReservesSelector = common.Hex2Bytes("0902f1ac")
	v2Token0Selector      = common.Hex2Bytes("0dfe1681")

	v3GetPoolSelector               = common.Hex2Bytes("1698ee82")
	v3Slot0Selector                 = common.Hex2Bytes("3850c7bd")
	v3LiquiditySelector             = common.Hex2Bytes("1a686502")
	v3QuoteExactInputSingleSelector = common.Hex2Bytes("c6a5026a")
)

// perCallTimeout bounds each eth_call; a tighter deadline already on
// the caller's context still wins.
const perCallTimeout = 30 * time.Second

// EthReader implements Reader against a live JSON-RPC node via
// go-ethereum's ethclient. It never builds or signs transactions:
// every method is eth_call under the hood.
type EthReader struct {
	client *ethclient.Client
}

// NewEthReader dials rpcURL and returns a ready Reader.
func NewEthReader(ctx context.Context, rpcURL string) (*EthReader, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return &EthReader{client: client}, nil
}

// Close releases the underlying RPC connection.
func (r *EthReader) Close() {
	r.client.Close()
}

func (r *EthReader) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, perCallTimeout)
	defer cancel()
	result, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: %v", ErrReverted, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return result, nil
}

func isRevert(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "revert") ||
		strings.Contains(strings.ToLower(err.Error()), "execution failed")
}

func (r *EthReader) ERC20Metadata(ctx context.Context, token common.Address) (symbol, name string, decimals uint8, err error) {
	symResult, err := r.call(ctx, token, symbolSelector)
	if err != nil {
		return "", "", 0, fmt.Errorf("symbol: %w", err)
	}
	symbol, err = decodeString(symResult)
	if err != nil {
		return "", "", 0, fmt.Errorf("symbol: decode: %w", err)
	}

	nameResult, err := r.call(ctx, token, nameSelector)
	if err != nil {
		return "", "", 0, fmt.Errorf("name: %w", err)
	}
	name, err = decodeString(nameResult)
	if err != nil {
		return "", "", 0, fmt.Errorf("name: decode: %w", err)
	}

	decResult, err := r.call(ctx, token, decimalsSelector)
	if err != nil {
		return "", "", 0, fmt.Errorf("decimals: %w", err)
	}
	if len(decResult) < 32 {
		return "", "", 0, fmt.Errorf("decimals: %w", ErrNotFound)
	}
	decimals = uint8(new(big.Int).SetBytes(decResult[0:32]).Uint64())

	return symbol, name, decimals, nil
}

func (r *EthReader) ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	data := make([]byte, 4+64)
	copy(data[0:4], allowanceSelector)
	copy(data[4+12:4+32], owner.Bytes())
	copy(data[36+12:36+32], spender.Bytes())

	result, err := r.call(ctx, token, data)
	if err != nil {
		return nil, fmt.Errorf("allowance: %w", err)
	}
	if len(result) < 32 {
		return nil, fmt.Errorf("allowance: %w", ErrNotFound)
	}
	return new(big.Int).SetBytes(result[0:32]), nil
}

func (r *EthReader) V2GetPair(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error) {
	data := make([]byte, 4+64)
	copy(data[0:4], v2GetPairSelector)
	copy(data[4+12:4+32], tokenA.Bytes())
	copy(data[36+12:36+32], tokenB.Bytes())

	result, err := r.call(ctx, factory, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("getPair: %w", err)
	}
	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("getPair: %w", ErrNotFound)
	}
	pair := common.BytesToAddress(result[12:32])
	if pair == (common.Address{}) {
		return common.Address{}, fmt.Errorf("getPair: %w", ErrNotFound)
	}
	return pair, nil
}

func (r *EthReader) V2GetReserves(ctx context.Context, pair common.Address) (reserve0, reserve1 *big.Int, err error) {
	result, err := r.call(ctx, pair, v2GetReservesSelector)
	if err != nil {
		return nil, nil, fmt.Errorf("getReserves: %w", err)
	}
	if len(result) < 64 {
		return nil, nil, fmt.Errorf("getReserves: %w", ErrNotFound)
	}
	reserve0 = new(big.Int).SetBytes(result[0:32])
	reserve1 = new(big.Int).SetBytes(result[32:64])
	return reserve0, reserve1, nil
}

func (r *EthReader) V2Token0(ctx context.Context, pair common.Address) (common.Address, error) {
	result, err := r.call(ctx, pair, v2Token0Selector)
	if err != nil {
		return common.Address{}, fmt.Errorf("token0: %w", err)
	}
	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("token0: %w", ErrNotFound)
	}
	return common.BytesToAddress(result[12:32]), nil
}

func (r *EthReader) V3GetPool(ctx context.Context, factory, tokenA, tokenB common.Address, fee uint32) (common.Address, error) {
	data := make([]byte, 4+96)
	copy(data[0:4], v3GetPoolSelector)
	copy(data[4+12:4+32], tokenA.Bytes())
	copy(data[36+12:36+32], tokenB.Bytes())
	feeBytes := big.NewInt(int64(fee)).Bytes()
	copy(data[68+32-len(feeBytes):68+32], feeBytes)

	result, err := r.call(ctx, factory, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("getPool: %w", err)
	}
	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("getPool: %w", ErrNotFound)
	}
	pool := common.BytesToAddress(result[12:32])
	if pool == (common.Address{}) {
		return common.Address{}, fmt.Errorf("getPool: %w", ErrNotFound)
	}
	return pool, nil
}

func (r *EthReader) V3Slot0(ctx context.Context, pool common.Address) (sqrtPriceX96 *big.Int, tick int32, err error) {
	result, err := r.call(ctx, pool, v3Slot0Selector)
	if err != nil {
		return nil, 0, fmt.Errorf("slot0: %w", err)
	}
	if len(result) < 64 {
		return nil, 0, fmt.Errorf("slot0: %w", ErrNotFound)
	}
	sqrtPriceX96 = new(big.Int).SetBytes(result[0:32])
	tickRaw := new(big.Int).SetBytes(result[32:64])
	tick = int32(asSigned(tickRaw, 32))
	return sqrtPriceX96, tick, nil
}

func (r *EthReader) V3Liquidity(ctx context.Context, pool common.Address) (*big.Int, error) {
	result, err := r.call(ctx, pool, v3LiquiditySelector)
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}
	if len(result) < 32 {
		return nil, fmt.Errorf("liquidity: %w", ErrNotFound)
	}
	return new(big.Int).SetBytes(result[0:32]), nil
}

// V3QuoteExactInputSingle calls QuoterV2.quoteExactInputSingle, whose
// struct parameter and 4-tuple return are packed/unpacked manually,
// matching the raw calldata style used elsewhere rather than an ABI
// binding. sqrtPriceX96After is only returned (ok=true) when the
// quoter is the 4-word QuoterV2 shape; legacy 1-word quoters report
// ok=false so callers fall back to the impact-derived heuristic.
func (r *EthReader) V3QuoteExactInputSingle(ctx context.Context, quoter, tokenIn, tokenOut common.Address, fee uint32, amountIn *big.Int) (amountOut *big.Int, sqrtPriceX96After *big.Int, ok bool, err error) {
	data := make([]byte, 4+32*5)
	copy(data[0:4], v3QuoteExactInputSingleSelector)
	copy(data[4+12:4+32], tokenIn.Bytes())
	copy(data[36+12:36+32], tokenOut.Bytes())
	amountInBytes := amountIn.Bytes()
	copy(data[68+32-len(amountInBytes):68+32], amountInBytes)
	feeBytes := big.NewInt(int64(fee)).Bytes()
	copy(data[100+32-len(feeBytes):100+32], feeBytes)
	// sqrtPriceLimitX96 at offset 132 left zero: no limit.

	result, err := r.call(ctx, quoter, data)
	if err != nil {
		return nil, nil, false, fmt.Errorf("quoteExactInputSingle: %w", err)
	}
	if len(result) < 32 {
		return nil, nil, false, fmt.Errorf("quoteExactInputSingle: %w", ErrNotFound)
	}
	amountOut = new(big.Int).SetBytes(result[0:32])
	if len(result) >= 64 {
		sqrtPriceX96After = new(big.Int).SetBytes(result[32:64])
		return amountOut, sqrtPriceX96After, true, nil
	}
	return amountOut, nil, false, nil
}

func decodeString(data []byte) (string, error) {
	if len(data) < 64 {
		return "", fmt.Errorf("short abi-encoded string: %d bytes", len(data))
	}
	length := new(big.Int).SetBytes(data[32:64]).Uint64()
	start := uint64(64)
	if uint64(len(data)) < start+length {
		return "", fmt.Errorf("abi-encoded string overruns buffer")
	}
	return strings.TrimRight(string(data[start:start+length]), "\x00"), nil
}

func asSigned(v *big.Int, bytesWide int) int64 {
	bits := uint(bytesWide * 8)
	max := new(big.Int).Lsh(big.NewInt(1), bits-1)
	if v.Cmp(max) >= 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), bits)
		v = new(big.Int).Sub(v, mod)
	}
	return v.Int64()
}
