// Package sparse implements a sparse Merkle tree keyed by 32-byte hashed
// keys: every possible key has a defined position, absent keys hash to a
// shared zero placeholder, and insertion/update/removal all recompute only
// the O(log n) nodes on the affected path.
package sparse

import (
	"golang.org/x/crypto/sha3"

	"github.com/fuelvm-go/fuelvm/types"
)

const (
	leafPrefix     = 0x00
	internalPrefix = 0x01
)

// zeroSum is the placeholder hash of an empty subtree at any depth.
var zeroSum = types.Hash{}

func hash(parts ...[]byte) types.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// leafSum computes a leaf node's hash: H(0x00 || key || H(value)).
func leafSum(key types.Hash, value []byte) types.Hash {
	vh := hash(value)
	return hash([]byte{leafPrefix}, key[:], vh[:])
}

// internalSum computes a branch node's hash: H(0x01 || left || right).
func internalSum(left, right types.Hash) types.Hash {
	return hash([]byte{internalPrefix}, left[:], right[:])
}

// HashKey hashes an arbitrary-length key into the tree's fixed 32-byte
// key space.
func HashKey(key []byte) types.Hash {
	return hash(key)
}

// bit returns the bit at position pos (0 = most significant) of a 32-byte key.
func bit(k types.Hash, pos int) byte {
	byteIdx := pos / 8
	bitIdx := 7 - (pos % 8)
	if byteIdx >= types.HashLength {
		return 0
	}
	return (k[byteIdx] >> uint(bitIdx)) & 1
}
