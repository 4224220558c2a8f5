// Package binary implements an RFC 6962-style Merkle tree over an ordered
// list of leaves: domain-separated leaf/internal hashing, a right-spine
// construction that computes the root in a single streaming pass, and
// membership-proof generation and verification.
package binary

import (
	"golang.org/x/crypto/sha3"

	"github.com/fuelvm-go/fuelvm/types"
)

// Digest is a single node hash in the tree.
type Digest = types.Hash

const (
	leafPrefix     = 0x00
	internalPrefix = 0x01
)

// LeafSum hashes a leaf's raw data as H(0x00 || data).
func LeafSum(data []byte) Digest {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{leafPrefix})
	h.Write(data)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// NodeSum hashes two child digests as H(0x01 || left || right).
func NodeSum(left, right Digest) Digest {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{internalPrefix})
	h.Write(left[:])
	h.Write(right[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// EmptySum is the root of a tree with no leaves: H() over the empty input,
// consistent with the RFC 6962 definition of MTH({}).
func EmptySum() Digest {
	h := sha3.NewLegacyKeccak256()
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
