// Package runtime composes the system, balances and proof-of-existence pallets
// into a single state machine that executes blocks of extrinsics.
package runtime

import (
	"github.com/congo-pay/congo_chain/internal/balances"
	"github.com/congo-pay/congo_chain/internal/poe"
	"github.com/congo-pay/congo_chain/internal/support"
	"github.com/congo-pay/congo_chain/internal/system"
	"github.com/congo-pay/congo_chain/internal/types"
)

var (
	_ support.Dispatcher[types.AccountID, balances.Call[types.AccountID, types.Balance]] = (*balancesPallet)(nil)
	_ support.Dispatcher[types.AccountID, poe.Call[types.AccountID, types.Content]]      = (*poePallet)(nil)
)

// ErrBlockNumberMismatch aborts a block whose header number is not the next
// chain height.
var ErrBlockNumberMismatch = &support.Error{Kind: support.BlockNumberMismatch}

// Runtime owns one instance of every pallet. It is not safe for concurrent use.
type Runtime struct {
	system   *systemPallet
	balances *balancesPallet
	poe      *poePallet
	reporter Reporter
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithReporter sets where extrinsic failures and block aborts are reported.
func WithReporter(rep Reporter) Option {
	return func(r *Runtime) {
		if rep != nil {
			r.reporter = rep
		}
	}
}

// New creates a runtime with empty pallets.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		system:   system.New[types.AccountID, types.BlockNumber, types.Nonce](),
		balances: balances.New[types.AccountID, types.Balance](),
		poe:      poe.New[types.AccountID, types.Content](),
		reporter: nopReporter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExecuteBlock advances the chain by one block.
//
// The block number is incremented before the header is checked, so a block
// with the wrong number still consumes a height. A mismatch aborts the block
// before any extrinsic runs. Otherwise every extrinsic bumps its caller's
// nonce and is dispatched; a failing extrinsic is reported and skipped, never
// aborting the rest of the block.
func (r *Runtime) ExecuteBlock(block Block) (Receipt, error) {
	r.system.IncBlockNumber()
	current := r.system.BlockNumber()

	if current != block.Header.BlockNumber {
		err := support.Errorf(support.BlockNumberMismatch,
			"system block_number %d; block_number %d", current, block.Header.BlockNumber)
		r.reporter.BlockAborted(BlockAbort{
			SystemBlockNumber: current,
			HeaderBlockNumber: block.Header.BlockNumber,
			Err:               err,
		})
		return Receipt{BlockNumber: block.Header.BlockNumber}, err
	}

	receipt := Receipt{
		BlockNumber: current,
		Extrinsics:  make([]ExtrinsicResult, 0, len(block.Extrinsics)),
	}
	for i, ext := range block.Extrinsics {
		r.system.IncNonce(ext.Caller)
		err := r.Dispatch(ext.Caller, ext.Call)
		receipt.Extrinsics = append(receipt.Extrinsics, ExtrinsicResult{Index: i, Caller: ext.Caller, Err: err})
		if err != nil {
			r.reporter.ExtrinsicFailed(ExtrinsicFailure{
				BlockNumber: block.Header.BlockNumber,
				Index:       i,
				Caller:      ext.Caller,
				Err:         err,
			})
		}
	}
	return receipt, nil
}

// SetBalance writes a balance directly, bypassing dispatch. It is meant for
// genesis and tests.
func (r *Runtime) SetBalance(who types.AccountID, amount types.Balance) {
	r.balances.SetBalance(who, amount)
}

// Balance returns the balance of who.
func (r *Runtime) Balance(who types.AccountID) types.Balance {
	return r.balances.Balance(who)
}

// Nonce returns the number of extrinsics who has submitted.
func (r *Runtime) Nonce(who types.AccountID) types.Nonce {
	return r.system.Nonce(who)
}

// BlockNumber returns the current chain height.
func (r *Runtime) BlockNumber() types.BlockNumber {
	return r.system.BlockNumber()
}

// Claim returns the owner of content.
func (r *Runtime) Claim(content types.Content) (types.AccountID, bool) {
	return r.poe.Claim(content)
}
