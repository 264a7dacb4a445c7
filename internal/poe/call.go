package poe

import "github.com/congo-pay/congo_chain/internal/support"

// Call is a dispatchable registry call. Only the variants in this package
// implement it.
type Call[AccountID support.AccountID, Content support.Content] interface {
	dispatch(p *Pallet[AccountID, Content], caller AccountID) error
}

// CreateClaim claims Content for the caller.
type CreateClaim[AccountID support.AccountID, Content support.Content] struct {
	Content Content
}

func (c CreateClaim[AccountID, Content]) dispatch(p *Pallet[AccountID, Content], caller AccountID) error {
	return p.CreateClaim(caller, c.Content)
}

// RevokeClaim gives up the caller's claim on Content.
type RevokeClaim[AccountID support.AccountID, Content support.Content] struct {
	Content Content
}

func (c RevokeClaim[AccountID, Content]) dispatch(p *Pallet[AccountID, Content], caller AccountID) error {
	return p.RevokeClaim(caller, c.Content)
}

// Dispatch routes call to the method implementing it with caller as the origin.
func (p *Pallet[AccountID, Content]) Dispatch(caller AccountID, call Call[AccountID, Content]) error {
	if call == nil {
		return support.ErrUnknownCall
	}
	return call.dispatch(p, caller)
}
