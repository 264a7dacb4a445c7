// Package poe implements a proof-of-existence registry: accounts claim content
// and only the owner can give a claim up.
package poe

import (
	"maps"

	"github.com/congo-pay/congo_chain/internal/support"
)

var (
	// ErrAlreadyClaimed occurs when the content already has an owner.
	ErrAlreadyClaimed = &support.Error{Kind: support.AlreadyClaimed}
	// ErrClaimNotFound occurs when revoking content that was never claimed.
	ErrClaimNotFound = &support.Error{Kind: support.ClaimNotFound}
	// ErrNotClaimOwner occurs when the caller revokes someone else's claim.
	ErrNotClaimOwner = &support.Error{Kind: support.NotClaimOwner}
)

// Pallet maps claimed content to its owner. Accounts can hold many claims but
// each claim has exactly one owner.
type Pallet[AccountID support.AccountID, Content support.Content] struct {
	claims map[Content]AccountID
}

// New creates an empty registry.
func New[AccountID support.AccountID, Content support.Content]() *Pallet[AccountID, Content] {
	return &Pallet[AccountID, Content]{claims: make(map[Content]AccountID)}
}

// Claim returns the owner of content, if any.
func (p *Pallet[AccountID, Content]) Claim(content Content) (AccountID, bool) {
	owner, ok := p.claims[content]
	return owner, ok
}

// CreateClaim records caller as the owner of content.
func (p *Pallet[AccountID, Content]) CreateClaim(caller AccountID, content Content) error {
	if owner, exists := p.claims[content]; exists {
		return support.Errorf(support.AlreadyClaimed, "%v is owned by %v", content, owner)
	}
	p.claims[content] = caller
	return nil
}

// RevokeClaim removes the claim on content. Only its owner may do so.
func (p *Pallet[AccountID, Content]) RevokeClaim(caller AccountID, content Content) error {
	owner, ok := p.claims[content]
	if !ok {
		return support.Errorf(support.ClaimNotFound, "%v", content)
	}
	if owner != caller {
		return support.Errorf(support.NotClaimOwner, "%v does not own %v", caller, content)
	}
	delete(p.claims, content)
	return nil
}

// Claims returns a copy of every claim.
func (p *Pallet[AccountID, Content]) Claims() map[Content]AccountID {
	return maps.Clone(p.claims)
}
