// Package crypto provides the hash and signature primitives the instruction
// set's crypto opcodes (k256, s256, ecr/eck1/ecr1, ed19) are built on.
package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // legacy digest used by some ecal handlers
	"golang.org/x/crypto/sha3"

	"github.com/fuelvm-go/fuelvm/types"
)

// Keccak256 hashes data with Keccak-256, backing the k256 opcode and the
// transaction ID. The Merkle packages hash with sha3 directly.
func Keccak256(data ...[]byte) types.Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	var out types.Hash
	copy(out[:], d.Sum(nil))
	return out
}

// SHA256 hashes data with SHA-256, backing the s256 opcode. The standard
// library is the canonical Go implementation; nothing in the corpus
// provides a third-party alternative worth preferring over it.
func SHA256(data ...[]byte) types.Hash {
	h := sha256.New()
	for _, b := range data {
		h.Write(b)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// RIPEMD160 is available to ecal syscall handlers that need the legacy
// digest (e.g. bridging to UTXO-model address formats).
func RIPEMD160(data []byte) []byte {
	h := ripemd160.New()
	h.Write(data)
	return h.Sum(nil)
}

// Ed25519Verify backs the ed19 opcode. crypto/ed25519 is the standard
// library's canonical implementation; no ecosystem package in the corpus
// offers anything beyond it for this curve.
func Ed25519Verify(pub, sig, msg []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}
