package vm

import (
	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/tx"
	"github.com/fuelvm-go/fuelvm/types"
)

// execControl dispatches jumps, returns, and the control-flow metadata
// opcodes. It returns jumped=true when it has already updated PC itself, so
// the caller's default pc+=4 must be skipped.
func (vm *Interpreter) execControl(in asm.Instruction) (jumped bool, p *Panic) {
	switch in.Op {
	case asm.NOOP:
		return false, nil

	case asm.FLAG:
		vm.regs.Set(types.RegFlag, vm.regs.Get(in.RA))
		return false, nil

	case asm.JMP:
		return vm.jumpAbsolute(vm.regs.Get(in.RA), in)

	case asm.JI:
		return vm.jumpAbsolute(types.Word(in.Imm), in)

	case asm.JNE:
		if vm.regs.Get(in.RA) != vm.regs.Get(in.RB) {
			return vm.jumpAbsolute(vm.regs.Get(in.RC), in)
		}
		return false, nil

	case asm.JNEI:
		if vm.regs.Get(in.RA) != vm.regs.Get(in.RB) {
			return vm.jumpAbsolute(types.Word(in.Imm), in)
		}
		return false, nil

	case asm.JNZI:
		if vm.regs.Get(in.RA) != 0 {
			return vm.jumpAbsolute(types.Word(in.Imm), in)
		}
		return false, nil

	case asm.CIMV:
		// Check input maturity: $rA = 1 if the input at index $rC has
		// reached the maturity block height given in $rB, else 0.
		ok := vm.checkInputMaturity(vm.regs.Get(in.RC), vm.regs.Get(in.RB))
		vm.regs.Set(in.RA, boolWord(ok))
		return false, nil

	case asm.CTMV:
		// Check transaction maturity against $rB.
		ok := vm.txMaturity() >= vm.regs.Get(in.RB)
		vm.regs.Set(in.RA, boolWord(ok))
		return false, nil

	case asm.CFEI:
		_, reason, ok := vm.mem.Grow(types.Word(in.Imm))
		if !ok {
			return false, newPanic(reason, in)
		}
		vm.regs.Set(types.RegSP, vm.mem.SP())
		return false, nil

	case asm.CFSI:
		reason, ok := vm.mem.Shrink(types.Word(in.Imm))
		if !ok {
			return false, newPanic(reason, in)
		}
		vm.regs.Set(types.RegSP, vm.mem.SP())
		return false, nil

	case asm.RET:
		return vm.execRet(in, nil)

	case asm.RETD:
		data, reason, ok := vm.mem.Read(vm.regs.Get(in.RA), vm.regs.Get(in.RB))
		if !ok {
			return false, newPanic(reason, in)
		}
		return vm.execRet(in, data)

	case asm.RVRT:
		vm.emit(tx.Receipt{
			Kind:    tx.ReceiptRevert,
			From:    vm.contractID,
			RA:      vm.regs.Get(in.RA),
			GasUsed: vm.gasUsed(),
		})
		return true, haltErrPanic()
	}
	return false, newPanic(asm.PanicReasonInvalidImmediateValue, in)
}

// jumpAbsolute sets PC to target*4 bytes (FuelVM jump targets are
// instruction-indexed, not byte-indexed), rejecting out-of-range or, in
// predicate mode, backward jumps.
func (vm *Interpreter) jumpAbsolute(target types.Word, in asm.Instruction) (bool, *Panic) {
	addr := target * 4
	if addr+4 > types.Word(len(vm.code)) {
		return false, newPanic(asm.PanicReasonMemoryOverflow, in)
	}
	if vm.predicateMode && addr <= vm.pc {
		return false, newPanic(asm.PanicReasonIllegalJump, in)
	}
	vm.pc = addr
	return true, nil
}

// execRet pops the current call frame if one exists, or halts the top-level
// script. data is nil for RET (value-only) and the read memory for RETD.
func (vm *Interpreter) execRet(in asm.Instruction, data []byte) (bool, *Panic) {
	val := vm.regs.Get(in.RA)
	kind := tx.ReceiptReturn
	if data != nil {
		kind = tx.ReceiptReturnData
	}
	vm.emit(tx.Receipt{
		Kind:    kind,
		From:    vm.contractID,
		RA:      val,
		Data:    data,
		GasUsed: vm.gasUsed(),
	})

	if len(vm.frames) == 0 {
		return true, haltErrPanic()
	}

	frame := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	// $ggas is global and keeps draining across the call. $cgas is
	// per-frame: the caller's pre-call value is restored minus whatever the
	// callee actually consumed, i.e. the callee's unspent $cgas is credited
	// back rather than the caller's saved $cgas being dropped in favor of a
	// fresh snapshot.
	remainingGGas := vm.regs.Get(types.RegGGas)
	calleeRemainingCGas := vm.regs.Get(types.RegCGas)
	vm.regs = frame.SavedRegisters
	vm.regs.Set(types.RegGGas, remainingGGas)
	vm.regs.Set(types.RegCGas, vm.regs.Get(types.RegCGas)-frame.ForwardedGas+calleeRemainingCGas)
	vm.regs.Set(types.RegRet, val)
	vm.mem.PopStackFrame(frame.SavedSSP)
	vm.code = frame.SavedCode
	vm.contractID = frame.ContractId
	vm.pc = frame.SavedPC + 4
	return true, nil
}

// haltErrPanic packages the sentinel halt signal as the *Panic return type
// used throughout the dispatch table; Run() special-cases it before
// treating it as a fault.
func haltErrPanic() *Panic { return haltMarker }

var haltMarker = &Panic{Reason: 0}

func (vm *Interpreter) checkInputMaturity(inputIndex, height types.Word) bool {
	if vm.checked == nil || vm.checked.Tx == nil {
		return false
	}
	if int(inputIndex) >= len(vm.checked.Tx.Inputs) {
		return false
	}
	// Maturity is tracked per-transaction in this protocol revision rather
	// than per-input; callers comparing against a specific input index get
	// the transaction-wide maturity height.
	return vm.txMaturity() >= height
}

func (vm *Interpreter) txMaturity() types.Word {
	if vm.checked == nil || vm.checked.Tx == nil {
		return 0
	}
	return types.Word(vm.checked.Tx.Policies.Maturity)
}
