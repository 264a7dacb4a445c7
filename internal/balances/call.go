package balances

import "github.com/congo-pay/congo_chain/internal/support"

// Call is a dispatchable balances call. Only the variants in this package
// implement it.
type Call[AccountID support.AccountID, Balance support.Balance[Balance]] interface {
	dispatch(p *Pallet[AccountID, Balance], caller AccountID) error
}

// Transfer moves Amount from the caller to To.
type Transfer[AccountID support.AccountID, Balance support.Balance[Balance]] struct {
	To     AccountID
	Amount Balance
}

func (c Transfer[AccountID, Balance]) dispatch(p *Pallet[AccountID, Balance], caller AccountID) error {
	return p.Transfer(caller, c.To, c.Amount)
}

// Dispatch routes call to the method implementing it with caller as the origin.
func (p *Pallet[AccountID, Balance]) Dispatch(caller AccountID, call Call[AccountID, Balance]) error {
	if call == nil {
		return support.ErrUnknownCall
	}
	return call.dispatch(p, caller)
}
