// Package httpapi adapts the aggregation engine to an HTTP surface:
// request validation, JSON shaping, and the single ErrorKind → status
// mapping for the whole repo.
package httpapi

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arcnode/quote-aggregator/internal/aggregator"
	"github.com/arcnode/quote-aggregator/internal/entities"
	"github.com/arcnode/quote-aggregator/internal/numeric"
)

const requestDeadline = 10 * time.Second

const defaultSlippagePercent = 0.5

// Handler wires the aggregation engine to the JSON request/response
// shapes of the quote and build-tx endpoints.
type Handler struct {
	agg *aggregator.Aggregator
	log *zap.Logger
}

func NewHandler(agg *aggregator.Aggregator, log *zap.Logger) *Handler {
	return &Handler{agg: agg, log: log}
}

// parsedRequest is the validated, typed form of quoteRequest.
type parsedRequest struct {
	tokenIn     common.Address
	tokenOut    common.Address
	amountInRaw string
	slippage    decimal.Decimal
	userAddress *common.Address
}

func (h *Handler) parse(r *http.Request) (*parsedRequest, error) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, entities.NewInvalidInput("request body is not valid JSON")
	}

	if req.TokenIn == "" || req.TokenOut == "" || req.AmountIn == "" {
		return nil, entities.NewInvalidInput("tokenIn, tokenOut, and amountIn are required")
	}
	if !common.IsHexAddress(req.TokenIn) {
		return nil, entities.NewInvalidInput("tokenIn is not a valid address")
	}
	if !common.IsHexAddress(req.TokenOut) {
		return nil, entities.NewInvalidInput("tokenOut is not a valid address")
	}

	slippage := decimal.NewFromFloat(defaultSlippagePercent)
	if req.Slippage != nil {
		slippage = decimal.NewFromFloat(*req.Slippage)
		if slippage.LessThan(decimal.Zero) || slippage.GreaterThan(decimal.NewFromInt(100)) {
			return nil, entities.NewInvalidInput("slippage must be between 0 and 100")
		}
	}

	var userAddr *common.Address
	if req.UserAddress != "" {
		if !common.IsHexAddress(req.UserAddress) {
			return nil, entities.NewInvalidInput("userAddress is not a valid address")
		}
		addr := common.HexToAddress(req.UserAddress)
		userAddr = &addr
	}

	return &parsedRequest{
		tokenIn:     common.HexToAddress(req.TokenIn),
		tokenOut:    common.HexToAddress(req.TokenOut),
		amountInRaw: req.AmountIn,
		slippage:    slippage,
		userAddress: userAddr,
	}, nil
}

// Quote handles POST /quote: the full ranked-quote response.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	req, err := h.parse(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline)
	defer cancel()

	result, amountIn, err := h.resolveAndAggregate(ctx, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// AllQuotes[0] is always BestQuote: the aggregator ranks in place
	// before returning, so building routes once over AllQuotes covers
	// both fields without recomputing the best route twice.
	routes := make([]routeView, len(result.AllQuotes))
	for i, q := range result.AllQuotes {
		route, err := h.routeViewFor(ctx, q, result.TokenIn, result.TokenOut, amountIn, req.slippage, req.userAddress)
		if err != nil {
			h.writeError(w, err)
			return
		}
		routes[i] = route
	}

	minOut := numeric.MinimumAmountOut(result.BestQuote.AmountOut, req.slippage)

	data := quoteResponseData{
		TokenIn:             tokenViewFor(result.TokenIn, amountIn),
		TokenOut:            tokenViewFor(result.TokenOut, result.BestQuote.AmountOut),
		BestRoute:           routes[0],
		AllQuotes:           routes,
		Savings:             savingsViewFor(result.Savings, result.TokenOut.Decimals),
		Slippage:            req.slippage.String() + "%",
		MinimumAmountOut:    numeric.FormatAmount(minOut, result.TokenOut.Decimals),
		MinimumAmountOutWei: minOut.String(),
		Recommendation:      result.Recommendation,
	}
	h.writeJSON(w, http.StatusOK, data)
}

// BuildTx handles POST /build-tx: the best route's transaction only.
func (h *Handler) BuildTx(w http.ResponseWriter, r *http.Request) {
	req, err := h.parse(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline)
	defer cancel()

	result, amountIn, err := h.resolveAndAggregate(ctx, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	route, err := h.routeViewFor(ctx, result.BestQuote, result.TokenIn, result.TokenOut, amountIn, req.slippage, req.userAddress)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, buildTxResponseData{
		To:             route.Transaction.To,
		Data:           route.Transaction.Data,
		Value:          route.Transaction.Value,
		ApprovalNeeded: route.Approval.Needed,
		Route:          route,
	})
}

func (h *Handler) resolveAndAggregate(ctx context.Context, req *parsedRequest) (*entities.AggregatedQuote, *big.Int, error) {
	tokenIn, err := h.agg.ResolveToken(ctx, req.tokenIn)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, entities.NewTimeout(ctx.Err())
		}
		return nil, nil, err
	}
	amountIn, err := numeric.ParseAmount(req.amountInRaw, tokenIn.Decimals)
	if err != nil {
		return nil, nil, entities.NewInvalidInput("amountIn: %v", err)
	}
	if amountIn.Sign() < 0 {
		return nil, nil, entities.NewInvalidInput("amountIn must not be negative")
	}

	result, err := h.agg.Aggregate(ctx, req.tokenIn, req.tokenOut, amountIn)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, entities.NewTimeout(ctx.Err())
		}
		return nil, nil, err
	}
	return result, amountIn, nil
}

func (h *Handler) routeViewFor(ctx context.Context, q entities.VenueQuote, tokenIn, tokenOut entities.Token, amountIn *big.Int, slippage decimal.Decimal, userAddress *common.Address) (routeView, error) {
	artifact, err := h.agg.BuildRoute(ctx, q, tokenIn, tokenOut, amountIn, slippage, userAddress)
	if err != nil {
		return routeView{}, err
	}

	var approval approvalView
	approval.Needed = artifact.Approval.Needed
	approval.Message = artifact.Approval.Message
	if artifact.Approval.Token != nil {
		s := lowerHex(*artifact.Approval.Token)
		approval.Token = &s
	}
	if artifact.Approval.Spender != nil {
		s := lowerHex(*artifact.Approval.Spender)
		approval.Spender = &s
	}
	if artifact.Approval.Amount != nil {
		s := artifact.Approval.Amount.String()
		approval.Amount = &s
	}

	dex := "V2"
	if q.Protocol == entities.ProtocolV3 {
		dex = "V3"
	}

	return routeView{
		Dex:          dex,
		DexName:      q.VenueName,
		FeeTier:      q.FeeTier,
		AmountOut:    numeric.FormatAmount(q.AmountOut, tokenOut.Decimals),
		AmountOutWei: q.AmountOut.String(),
		PriceImpact:  q.PriceImpact.StringFixed(4) + "%",
		GasEstimate:  q.GasEstimate,
		PoolAddress:  lowerHex(q.PoolAddress),
		Transaction: transactionView{
			To:    lowerHex(artifact.To),
			Data:  "0x" + hexEncode(artifact.Data),
			Value: bigOrZero(artifact.Value).String(),
			From:  lowerHex(artifact.From),
		},
		Approval: approval,
	}, nil
}

func tokenViewFor(token entities.Token, amount *big.Int) tokenView {
	return tokenView{
		Address:   lowerHex(token.Address),
		Symbol:    token.Symbol,
		Amount:    numeric.FormatAmount(amount, token.Decimals),
		AmountWei: bigOrZero(amount).String(),
	}
}

func savingsViewFor(s entities.Savings, decimals uint8) savingsView {
	return savingsView{
		Percentage: s.Percentage.StringFixed(2) + "%",
		Amount:     numeric.FormatAmount(s.AbsoluteAmount, decimals),
		AmountWei:  bigOrZero(s.AbsoluteAmount).String(),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("internal error serving request", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{Success: false, Error: err.Error()})
}
