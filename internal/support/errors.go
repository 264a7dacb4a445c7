package support

import (
	"errors"
	"fmt"
)

// Kind enumerates the failures a state transition can report. The set is closed.
type Kind uint8

const (
	// InsufficientBalance is raised when a debit would take a balance below zero.
	InsufficientBalance Kind = iota + 1
	// BalanceOverflow is raised when a credit would exceed the balance type's range.
	BalanceOverflow
	// AlreadyClaimed is raised when content already has an owner.
	AlreadyClaimed
	// ClaimNotFound is raised when revoking content nobody owns.
	ClaimNotFound
	// NotClaimOwner is raised when someone other than the owner revokes a claim.
	NotClaimOwner
	// BlockNumberMismatch aborts a block whose header disagrees with the chain height.
	BlockNumberMismatch
	// UnknownCall is raised when a dispatcher receives a nil call.
	UnknownCall
)

var kindNames = map[Kind]string{
	InsufficientBalance: "InsufficientBalance",
	BalanceOverflow:     "BalanceOverflow",
	AlreadyClaimed:      "AlreadyClaimed",
	ClaimNotFound:       "ClaimNotFound",
	NotClaimOwner:       "NotClaimOwner",
	BlockNumberMismatch: "BlockNumberMismatch",
	UnknownCall:         "UnknownCall",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is a dispatch failure of a given kind with an optional detail message.
type Error struct {
	Kind Kind
	Msg  string
}

// Errorf builds an Error of kind k with a formatted detail message.
func Errorf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is an *Error of the same kind. A target without a
// message matches every error of its kind, which is how the sentinels work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// KindOf returns the kind carried by err, or zero when err is not a dispatch error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// ErrUnknownCall is returned by dispatchers handed a nil call.
var ErrUnknownCall = &Error{Kind: UnknownCall}
