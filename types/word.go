// Package types defines the fixed-width scalar and array types shared across
// the instruction set, VM, Merkle trees, and transaction model: the native
// Word, register identifiers, and the 32-byte identifier families (Address,
// AssetId, ContractId, Hash).
package types

// Word is the VM's native 64-bit unsigned scalar. It is always big-endian
// on the wire regardless of host byte order.
type Word = uint64

// RegId identifies one of the 64 VM registers. Only the low 6 bits are
// significant; callers must mask before use if the value came off the wire.
type RegId uint8

// Reserved register identifiers with fixed VM semantics. See spec register
// file table: IDs 0-15 are reserved, 16-63 are general purpose.
const (
	RegZero RegId = iota
	RegOne
	RegOf
	RegErr
	RegPC
	RegIS
	RegSSP
	RegSP
	RegFP
	RegHP
	RegRet
	RegRetL
	RegFlag
	RegGGas
	RegCGas
	RegBal
)

// RegCount is the total number of registers in the VM register file.
const RegCount = 64

// RegWritableBoundary is the first writable (non-reserved) register ID.
const RegWritableBoundary = RegId(16)

// IsReserved reports whether r is one of the fixed-semantics registers
// (0..15), writes to which panic with ReservedRegisterNotWritable.
func (r RegId) IsReserved() bool {
	return r < RegWritableBoundary
}

// Flag bits for the FLAG register.
const (
	FlagUnsafeMath Word = 1 << 0
	FlagWrapping   Word = 1 << 1
)
