package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// WarningLevel bands a quote's price impact for client-side display.
type WarningLevel string

const (
	WarningLow      WarningLevel = "low"
	WarningMedium   WarningLevel = "medium"
	WarningHigh     WarningLevel = "high"
	WarningVeryHigh WarningLevel = "very-high"
	WarningExtreme  WarningLevel = "extreme"
)

// VenueQuote is a single adapter's priced route for one token pair.
// Invariant: AmountOut > 0; FeeTier is present iff Protocol == V3.
type VenueQuote struct {
	VenueName   string
	Protocol    ProtocolVersion
	AmountOut   *big.Int
	PriceImpact decimal.Decimal
	GasEstimate uint64
	FeeTier     *uint32 // V3 only
	PoolAddress common.Address
	Warning     WarningLevel
	ShouldBlock bool
}

// Savings describes the improvement of the best quote over the worst
// surviving quote in an aggregated response.
type Savings struct {
	Percentage     decimal.Decimal
	AbsoluteAmount *big.Int
}

// AggregatedQuote is the fully-ranked result of one aggregate() call.
type AggregatedQuote struct {
	TokenIn        Token
	TokenOut       Token
	AmountIn       *big.Int
	AllQuotes      []VenueQuote
	BestQuote      VenueQuote
	Savings        Savings
	Recommendation string
}
