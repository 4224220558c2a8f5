package vm

import "github.com/fuelvm-go/fuelvm/types"

// Frame is a call frame pushed by CALL and popped on RET/RETD (RVRT and
// panics halt execution without popping it). It
// carries the information needed to resume the caller exactly as it was,
// plus the callee's execution context.
type Frame struct {
	ContractId types.ContractId
	AssetId    types.AssetId
	Amount     types.Word

	// CodeSize is the length, in bytes, of the code loaded at the moment of
	// CALL (the caller's code). No opcode reads it.
	CodeSize types.Word

	// SavedRegisters is the caller's register file at the moment of CALL,
	// restored verbatim on return.
	SavedRegisters Registers

	// SavedCode is the caller's loaded bytecode, restored on return since
	// CALL replaces the interpreter's code with the callee's.
	SavedCode []byte

	// SavedPC/SavedIS are the caller's program counter and instruction
	// start, restored on return.
	SavedPC types.Word
	SavedIS types.Word

	// SavedSSP is the caller's stack-start pointer, restored so the callee's
	// stack frame is unlocked from the caller's perspective on return.
	SavedSSP types.Word

	// ReceiptsRootAtCall snapshots how many receipts existed before the
	// call, so a panic mid-call can be attributed precisely.
	ReceiptsRootAtCall int

	// ForwardedGas is the $cgas the callee was started with (min of the
	// caller's $cgas and the call's forwarded-gas operand). RET/RETD
	// use it to credit back whatever the callee didn't spend rather than
	// restoring the caller's $cgas verbatim.
	ForwardedGas types.Word
}
