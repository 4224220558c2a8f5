// Package predicate verifies predicate-owned inputs: it computes a
// predicate's address (the Merkle root of its bytecode) and runs the
// bytecode in a restricted interpreter to decide whether it authorizes the
// transaction that references it.
package predicate

import (
	merklebinary "github.com/fuelvm-go/fuelvm/merkle/binary"
	"github.com/fuelvm-go/fuelvm/types"
)

// leafChunkSize is the chunk width predicate bytecode is split into before
// Merkleizing, matching the code-root convention used for deployed
// contracts.
const leafChunkSize = 16 * 1024

// Root computes the predicate address: the binary Merkle root of code split
// into leafChunkSize-byte chunks, the final chunk zero-padded to a multiple
// of 8 bytes.
func Root(code []byte) types.Address {
	tree := merklebinary.NewTree()
	for i := 0; i < len(code); i += leafChunkSize {
		end := i + leafChunkSize
		if end > len(code) {
			end = len(code)
		}
		chunk := code[i:end]
		if pad := (8 - len(chunk)%8) % 8; pad > 0 {
			chunk = append(append([]byte(nil), chunk...), make([]byte, pad)...)
		}
		tree.Push(chunk)
	}
	return types.Address(tree.Root())
}
