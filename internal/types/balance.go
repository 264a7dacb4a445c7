package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Balance is an unsigned 256-bit amount with overflow-checked arithmetic. The
// zero value is a zero balance.
type Balance struct {
	v uint256.Int
}

// NewBalance returns a balance of n.
func NewBalance(n uint64) Balance {
	var b Balance
	b.v.SetUint64(n)
	return b
}

// MaxBalance returns the largest representable balance.
func MaxBalance() Balance {
	var b Balance
	b.v.SetAllOne()
	return b
}

// ParseBalance reads a decimal amount, or a hex amount prefixed with 0x.
func ParseBalance(s string) (Balance, error) {
	var b Balance
	if err := b.UnmarshalText([]byte(s)); err != nil {
		return Balance{}, err
	}
	return b, nil
}

// CheckedAdd returns b+o and false when the sum overflows.
func (b Balance) CheckedAdd(o Balance) (Balance, bool) {
	var out Balance
	_, overflow := out.v.AddOverflow(&b.v, &o.v)
	return out, !overflow
}

// CheckedSub returns b-o and false when o exceeds b.
func (b Balance) CheckedSub(o Balance) (Balance, bool) {
	var out Balance
	_, underflow := out.v.SubOverflow(&b.v, &o.v)
	return out, !underflow
}

// IsZero reports whether b is zero.
func (b Balance) IsZero() bool {
	return b.v.IsZero()
}

// Cmp compares b and o, returning -1, 0 or +1.
func (b Balance) Cmp(o Balance) int {
	return b.v.Cmp(&o.v)
}

func (b Balance) String() string {
	return b.v.Dec()
}

// MarshalText encodes the balance in decimal.
func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.v.Dec()), nil
}

// UnmarshalText decodes a decimal or 0x-prefixed hex amount.
func (b *Balance) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", s, err)
	}
	b.v = *v
	return nil
}

// UnmarshalJSON accepts both JSON strings and bare JSON numbers.
func (b *Balance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("invalid balance: %w", err)
		}
		return b.UnmarshalText([]byte(text))
	}
	return b.UnmarshalText(data)
}
