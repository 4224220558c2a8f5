package crypto

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// CompactSignature is a 64-byte ECDSA signature: R (32) || S (32), with the
// recovery ID carried separately, as stored in an eck1/ecr1 signature slot.
type CompactSignature struct {
	R          [32]byte
	S          [32]byte
	RecoveryID byte
}

var (
	ErrInvalidSignatureLength = errors.New("crypto: signature must be 64 bytes")
	ErrInvalidRecoveryID      = errors.New("crypto: recovery id must be 0-3")
	ErrRecoveryFailed         = errors.New("crypto: public key recovery failed")
)

// ParseCompactSignature splits a 64-byte R||S signature plus a recovery ID.
func ParseCompactSignature(sig []byte, recoveryID byte) (CompactSignature, error) {
	if len(sig) != 64 {
		return CompactSignature{}, ErrInvalidSignatureLength
	}
	if recoveryID > 3 {
		return CompactSignature{}, ErrInvalidRecoveryID
	}
	var cs CompactSignature
	copy(cs.R[:], sig[:32])
	copy(cs.S[:], sig[32:])
	cs.RecoveryID = recoveryID
	return cs, nil
}

// RecoverPublicKey recovers the 64-byte uncompressed (X||Y) public key that
// produced sig over the 32-byte message hash, backing the eck1 opcode.
func RecoverPublicKey(sig CompactSignature, hash [32]byte) ([64]byte, error) {
	// dcrd's RecoverCompact expects a 65-byte [recovery-id+27 || R || S]
	// signature, the format historically used by Bitcoin Core.
	compact := make([]byte, 65)
	compact[0] = sig.RecoveryID + 27
	copy(compact[1:33], sig.R[:])
	copy(compact[33:], sig.S[:])

	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return [64]byte{}, ErrRecoveryFailed
	}

	var out [64]byte
	full := pub.SerializeUncompressed() // 0x04 || X || Y
	copy(out[:], full[1:])
	return out, nil
}

// RecoverAddress recovers the 64-byte public key and returns its full
// 32-byte Keccak256 digest as the address; the ecr opcode uses it.
func RecoverAddress(sig CompactSignature, hash [32]byte) ([32]byte, error) {
	pub, err := RecoverPublicKey(sig, hash)
	if err != nil {
		return [32]byte{}, err
	}
	return Keccak256(pub[:]), nil
}

// VerifySignature reports whether sig is a valid secp256k1 ECDSA signature
// by pub (33-byte compressed or 65-byte uncompressed) over hash.
func VerifySignature(pubBytes []byte, sig CompactSignature, hash [32]byte) bool {
	pub, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}
	r := new(secp256k1.ModNScalar)
	s := new(secp256k1.ModNScalar)
	var rb, sb [32]byte
	rb, sb = sig.R, sig.S
	if r.SetByteSlice(rb[:]) || s.SetByteSlice(sb[:]) {
		return false
	}
	signature := ecdsa.NewSignature(r, s)
	return signature.Verify(hash[:], pub)
}
