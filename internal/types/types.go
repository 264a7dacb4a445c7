// Package types defines the concrete types the runtime instantiates its
// pallets with.
package types

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

type (
	// AccountID names a participant. On a real chain this would be a public key.
	AccountID string
	// BlockNumber is the chain height.
	BlockNumber uint32
	// Nonce counts the extrinsics an account has submitted.
	Nonce uint32
	// Content is the hex blake2b-256 digest of claimed bytes.
	Content string
)

// HashContent returns the registry key for data.
func HashContent(data []byte) Content {
	sum := blake2b.Sum256(data)
	return Content("0x" + hex.EncodeToString(sum[:]))
}

// ContentOf is HashContent for text.
func ContentOf(s string) Content {
	return HashContent([]byte(s))
}
