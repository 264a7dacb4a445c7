// Package support holds the pieces every pallet and the runtime agree on: the
// type constraints a runtime must satisfy, the dispatch contract, the block
// envelopes and the error kinds.
package support

import "golang.org/x/exp/constraints"

// AccountID is satisfied by identifiers that can key pallet storage.
type AccountID interface {
	constraints.Ordered
}

// Counter is satisfied by block numbers and nonces.
type Counter interface {
	constraints.Unsigned
}

// Balance is satisfied by amounts with overflow-checked arithmetic. The zero
// value of B is the zero balance. The boolean result is false on overflow or
// underflow.
type Balance[B any] interface {
	comparable
	CheckedAdd(B) (B, bool)
	CheckedSub(B) (B, bool)
}

// Content is satisfied by values that can be claimed in the existence registry.
type Content interface {
	constraints.Ordered
}

// Dispatcher routes a call made by caller to the state transition implementing
// it. Errors from the state transition are returned unchanged.
type Dispatcher[Caller, Call any] interface {
	Dispatch(caller Caller, call Call) error
}

// Header carries block metadata. Only the height is tracked.
type Header[N Counter] struct {
	BlockNumber N `json:"block_number"`
}

// Extrinsic is a single caller-attributed request for a state transition.
type Extrinsic[Caller, Call any] struct {
	Caller Caller
	Call   Call
}

// Block is a numbered batch of extrinsics executed in order.
type Block[N Counter, Caller, Call any] struct {
	Header     Header[N]
	Extrinsics []Extrinsic[Caller, Call]
}
