package numeric

import (
	"github.com/shopspring/decimal"

	"github.com/arcnode/quote-aggregator/internal/entities"
)

var (
	oneBand     = decimal.NewFromInt(1)
	threeBand   = decimal.NewFromInt(3)
	fiveBand    = decimal.NewFromInt(5)
	fifteenBand = decimal.NewFromInt(15)
)

// WarningLevelFor bands a price-impact percentage into a warning
// level. Only "extreme" sets shouldBlock.
func WarningLevelFor(impactPercent decimal.Decimal) (level entities.WarningLevel, shouldBlock bool) {
	switch {
	case impactPercent.LessThan(oneBand):
		return entities.WarningLow, false
	case impactPercent.LessThan(threeBand):
		return entities.WarningMedium, false
	case impactPercent.LessThan(fiveBand):
		return entities.WarningHigh, false
	case impactPercent.LessThan(fifteenBand):
		return entities.WarningVeryHigh, false
	default:
		return entities.WarningExtreme, true
	}
}
