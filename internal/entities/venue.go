package entities

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ProtocolVersion identifies a venue's AMM family.
type ProtocolVersion string

const (
	ProtocolV2 ProtocolVersion = "V2"
	ProtocolV3 ProtocolVersion = "V3"
)

// V3FeeTiers is the canonical set of Uniswap V3 fee tiers, in
// hundredths of a basis point.
var V3FeeTiers = []uint32{100, 500, 3000, 10000}

// V3TickSpacings maps each fee tier to its tick spacing.
var V3TickSpacings = map[uint32]int{
	100:   1,
	500:   10,
	3000:  60,
	10000: 200,
}

// VenueConfig describes one configured liquidity venue. Loaded once
// at startup; never mutated.
type VenueConfig struct {
	Name     string
	Protocol ProtocolVersion
	Factory  common.Address
	Router   common.Address // V2 only: the swap router quotes and transactions both target
	Quoter   common.Address // V3 only: read-only quoter, distinct from the swap router
	V3Router common.Address // V3 only: the swap router transactions target
}

// Validate enforces the per-protocol required-field invariant: a V3
// config must carry factory, quoter and swap router (V3Router), a V2
// config both factory and router.
func (c VenueConfig) Validate() error {
	zero := common.Address{}
	if c.Factory == zero {
		return fmt.Errorf("venue %q: factory address is required", c.Name)
	}
	switch c.Protocol {
	case ProtocolV2:
		if c.Router == zero {
			return fmt.Errorf("venue %q: V2 router address is required", c.Name)
		}
	case ProtocolV3:
		if c.Quoter == zero {
			return fmt.Errorf("venue %q: V3 quoter address is required", c.Name)
		}
		if c.V3Router == zero {
			return fmt.Errorf("venue %q: V3 swap router address is required", c.Name)
		}
	default:
		return fmt.Errorf("venue %q: unknown protocol %q", c.Name, c.Protocol)
	}
	return nil
}
