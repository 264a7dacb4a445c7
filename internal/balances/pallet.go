// Package balances keeps the amount held by every account and moves it between
// them.
package balances

import (
	"maps"

	"github.com/congo-pay/congo_chain/internal/support"
)

var (
	// ErrInsufficientBalance occurs when the caller holds less than the amount
	// being transferred.
	ErrInsufficientBalance = &support.Error{Kind: support.InsufficientBalance}

	// ErrBalanceOverflow occurs when crediting the recipient would exceed the
	// range of the balance type.
	ErrBalanceOverflow = &support.Error{Kind: support.BalanceOverflow}
)

// Pallet maps accounts to balances. Absent accounts hold zero.
type Pallet[AccountID support.AccountID, Balance support.Balance[Balance]] struct {
	balances map[AccountID]Balance
}

// New creates an empty ledger.
func New[AccountID support.AccountID, Balance support.Balance[Balance]]() *Pallet[AccountID, Balance] {
	return &Pallet[AccountID, Balance]{balances: make(map[AccountID]Balance)}
}

// Balance returns the stored balance of who, or zero.
func (p *Pallet[AccountID, Balance]) Balance(who AccountID) Balance {
	return p.balances[who]
}

// SetBalance overwrites the balance of who.
func (p *Pallet[AccountID, Balance]) SetBalance(who AccountID, amount Balance) {
	p.balances[who] = amount
}

// Transfer moves amount from caller to to. Both new balances are computed
// before either is written, so a failed transfer leaves the ledger untouched.
func (p *Pallet[AccountID, Balance]) Transfer(caller, to AccountID, amount Balance) error {
	callerBalance := p.Balance(caller)
	toBalance := p.Balance(to)

	newCallerBalance, ok := callerBalance.CheckedSub(amount)
	if !ok {
		return support.Errorf(support.InsufficientBalance, "%v holds %v, needs %v", caller, callerBalance, amount)
	}
	newToBalance, ok := toBalance.CheckedAdd(amount)
	if !ok {
		return support.Errorf(support.BalanceOverflow, "crediting %v to %v overflows", amount, to)
	}

	// Moving funds to oneself must not mint the amount.
	if caller == to {
		return nil
	}

	p.balances[caller] = newCallerBalance
	p.balances[to] = newToBalance
	return nil
}

// Balances returns a copy of every stored balance.
func (p *Pallet[AccountID, Balance]) Balances() map[AccountID]Balance {
	return maps.Clone(p.balances)
}
