package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ApprovalDescriptor is the per-route allowance pre-check result.
// Different routes may target different routers, so this is computed
// independently for every route, never once per request.
type ApprovalDescriptor struct {
	Needed  bool
	Message string
	Token   *common.Address
	Spender *common.Address
	Amount  *big.Int
}

// RouteArtifact is the ready-to-send call payload for one quote.
type RouteArtifact struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	From     common.Address // caller-filled placeholder, all zero
	Approval ApprovalDescriptor
}
