// Package system tracks the chain height and how many extrinsics each account
// has submitted.
package system

import (
	"maps"

	"github.com/congo-pay/congo_chain/internal/support"
)

// Pallet holds the low level chain state.
type Pallet[AccountID support.AccountID, BlockNumber, Nonce support.Counter] struct {
	blockNumber BlockNumber
	nonce       map[AccountID]Nonce
}

// New creates a pallet at height zero with no nonces recorded.
func New[AccountID support.AccountID, BlockNumber, Nonce support.Counter]() *Pallet[AccountID, BlockNumber, Nonce] {
	return &Pallet[AccountID, BlockNumber, Nonce]{
		nonce: make(map[AccountID]Nonce),
	}
}

// BlockNumber returns the current height.
func (p *Pallet[AccountID, BlockNumber, Nonce]) BlockNumber() BlockNumber {
	return p.blockNumber
}

// IncBlockNumber advances the height by one.
func (p *Pallet[AccountID, BlockNumber, Nonce]) IncBlockNumber() {
	p.blockNumber++
}

// IncNonce counts one more extrinsic for who.
func (p *Pallet[AccountID, BlockNumber, Nonce]) IncNonce(who AccountID) {
	p.nonce[who] = p.nonce[who] + 1
}

// Nonce returns the number of extrinsics submitted by who, zero if none.
func (p *Pallet[AccountID, BlockNumber, Nonce]) Nonce(who AccountID) Nonce {
	return p.nonce[who]
}

// Nonces returns a copy of every recorded nonce.
func (p *Pallet[AccountID, BlockNumber, Nonce]) Nonces() map[AccountID]Nonce {
	return maps.Clone(p.nonce)
}
