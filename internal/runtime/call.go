package runtime

import (
	"github.com/congo-pay/congo_chain/internal/balances"
	"github.com/congo-pay/congo_chain/internal/poe"
	"github.com/congo-pay/congo_chain/internal/support"
	"github.com/congo-pay/congo_chain/internal/system"
	"github.com/congo-pay/congo_chain/internal/types"
)

type (
	systemPallet   = system.Pallet[types.AccountID, types.BlockNumber, types.Nonce]
	balancesPallet = balances.Pallet[types.AccountID, types.Balance]
	poePallet      = poe.Pallet[types.AccountID, types.Content]

	// Transfer is the balances transfer call of this runtime.
	Transfer = balances.Transfer[types.AccountID, types.Balance]
	// CreateClaim is the registry create call of this runtime.
	CreateClaim = poe.CreateClaim[types.AccountID, types.Content]
	// RevokeClaim is the registry revoke call of this runtime.
	RevokeClaim = poe.RevokeClaim[types.AccountID, types.Content]

	// Extrinsic is a caller-attributed runtime call.
	Extrinsic = support.Extrinsic[types.AccountID, RuntimeCall]
	// Header is the runtime block header.
	Header = support.Header[types.BlockNumber]
	// Block is the unit ExecuteBlock consumes.
	Block = support.Block[types.BlockNumber, types.AccountID, RuntimeCall]
)

// RuntimeCall is the call of one pallet wrapped for the runtime. Adding a
// pallet means adding a variant here; block execution does not change.
type RuntimeCall interface {
	route(r *Runtime, caller types.AccountID) error
	// Pallet names the pallet the call is routed to.
	Pallet() string
}

// BalancesCall routes a call to the balances pallet.
type BalancesCall struct {
	Call balances.Call[types.AccountID, types.Balance]
}

func (c BalancesCall) route(r *Runtime, caller types.AccountID) error {
	return r.balances.Dispatch(caller, c.Call)
}

// Pallet implements RuntimeCall.
func (BalancesCall) Pallet() string { return "balances" }

// ProofOfExistenceCall routes a call to the existence registry.
type ProofOfExistenceCall struct {
	Call poe.Call[types.AccountID, types.Content]
}

func (c ProofOfExistenceCall) route(r *Runtime, caller types.AccountID) error {
	return r.poe.Dispatch(caller, c.Call)
}

// Pallet implements RuntimeCall.
func (ProofOfExistenceCall) Pallet() string { return "proof_of_existence" }

var _ support.Dispatcher[types.AccountID, RuntimeCall] = (*Runtime)(nil)

// Dispatch forwards call to the pallet that owns it.
func (r *Runtime) Dispatch(caller types.AccountID, call RuntimeCall) error {
	if call == nil {
		return support.ErrUnknownCall
	}
	return call.route(r, caller)
}
