package aggregator

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/arcnode/quote-aggregator/internal/calldata"
	"github.com/arcnode/quote-aggregator/internal/chain"
	"github.com/arcnode/quote-aggregator/internal/entities"
	"github.com/arcnode/quote-aggregator/internal/numeric"
)

// routeDeadlineSeconds is how far in the future a built transaction's
// deadline argument is set, per the swap-router convention.
const routeDeadlineSeconds = 1800

// BuildRoute turns one ranked VenueQuote into an executable
// RouteArtifact: calldata, value, and a per-route approval
// pre-check. Unknown venue configuration is an internal error, never
// a silently-wrong transaction.
func (a *Aggregator) BuildRoute(ctx context.Context, quote entities.VenueQuote, tokenIn, tokenOut entities.Token, amountIn *big.Int, slippagePercent decimal.Decimal, userAddress *common.Address) (*entities.RouteArtifact, error) {
	venue, ok := a.venues[quote.VenueName]
	if !ok {
		return nil, entities.NewInternal("unknown venue configuration: "+quote.VenueName, nil)
	}

	minAmountOut := numeric.MinimumAmountOut(quote.AmountOut, slippagePercent)
	deadline := big.NewInt(time.Now().Unix() + routeDeadlineSeconds)

	wrappedIn := wrappedAddress(tokenIn)
	wrappedOut := wrappedAddress(tokenOut)

	var to common.Address
	var data []byte
	var value *big.Int

	switch quote.Protocol {
	case entities.ProtocolV2:
		to = venue.Router
		path := []common.Address{wrappedIn, wrappedOut}
		switch {
		case tokenIn.IsNative:
			data = calldata.SwapExactETHForTokens(minAmountOut, path, common.Address{}, deadline)
			value = amountIn
		case tokenOut.IsNative:
			data = calldata.SwapExactTokensForETH(amountIn, minAmountOut, path, common.Address{}, deadline)
			value = big.NewInt(0)
		default:
			data = calldata.SwapExactTokensForTokens(amountIn, minAmountOut, path, common.Address{}, deadline)
			value = big.NewInt(0)
		}

	case entities.ProtocolV3:
		if quote.FeeTier == nil {
			return nil, entities.NewInternal("V3 quote missing fee tier", nil)
		}
		to = venue.V3Router
		data = calldata.ExactInputSingle(calldata.ExactInputSingleParams{
			TokenIn:          wrappedIn,
			TokenOut:         wrappedOut,
			Fee:              *quote.FeeTier,
			Recipient:        common.Address{},
			Deadline:         deadline,
			AmountIn:         amountIn,
			AmountOutMinimum: minAmountOut,
		})
		if tokenIn.IsNative {
			value = amountIn
		} else {
			value = big.NewInt(0)
		}

	default:
		return nil, entities.NewInternal("unknown protocol version: "+string(quote.Protocol), nil)
	}

	approval := a.checkApproval(ctx, tokenIn, to, userAddress, amountIn)

	return &entities.RouteArtifact{
		To:       to,
		Data:     data,
		Value:    value,
		Approval: approval,
	}, nil
}

// wrappedAddress returns the ERC-20 address a router expects in its
// path/params for this token: the native sentinel is never a valid
// calldata argument, so native legs are represented by WETH.
func wrappedAddress(token entities.Token) common.Address {
	if token.IsNative {
		return entities.WETH.Address
	}
	return token.Address
}

// checkApproval is conservative: native input never needs approval;
// a missing caller address means approval status can't be checked, so
// it's reported needed; a failed allowance read fails safe to needed.
func (a *Aggregator) checkApproval(ctx context.Context, tokenIn entities.Token, spender common.Address, userAddress *common.Address, amountIn *big.Int) entities.ApprovalDescriptor {
	if tokenIn.IsNative {
		return entities.ApprovalDescriptor{Needed: false, Message: "native token transfers require no approval"}
	}
	if userAddress == nil {
		return entities.ApprovalDescriptor{
			Needed:  true,
			Message: "no caller address supplied; assume approval is required",
			Token:   &tokenIn.Address,
			Spender: &spender,
			Amount:  amountIn,
		}
	}

	allowance, err := a.reader.ERC20Allowance(ctx, tokenIn.Address, *userAddress, spender)
	if err != nil {
		if !errors.Is(err, chain.ErrNotFound) {
			a.log.Warn("allowance read failed, defaulting to approval required")
		}
		return entities.ApprovalDescriptor{
			Needed:  true,
			Message: "could not verify existing allowance; approval required",
			Token:   &tokenIn.Address,
			Spender: &spender,
			Amount:  amountIn,
		}
	}

	if allowance.Cmp(amountIn) >= 0 {
		return entities.ApprovalDescriptor{Needed: false, Message: "sufficient allowance already granted"}
	}
	return entities.ApprovalDescriptor{
		Needed:  true,
		Message: "insufficient allowance for this trade size",
		Token:   &tokenIn.Address,
		Spender: &spender,
		Amount:  amountIn,
	}
}
