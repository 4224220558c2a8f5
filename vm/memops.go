package vm

import (
	"bytes"
	"encoding/binary"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
)

// execMemory dispatches the heap/stack allocation and raw memory
// read/write/compare opcodes.
func (vm *Interpreter) execMemory(in asm.Instruction) *Panic {
	switch in.Op {
	case asm.ALOC:
		if p := vm.chargeGas(vm.params.GasCosts.MemoryOwnership); p != nil {
			return p
		}
		n := vm.regs.Get(in.RA)
		_, reason, ok := vm.mem.Alloc(n)
		if !ok {
			return newPanic(reason, in)
		}
		vm.regs.Set(types.RegHP, vm.mem.HP())
		return nil

	case asm.MCL:
		return vm.memClear(in, vm.regs.Get(in.RA), vm.regs.Get(in.RB), vm.params.GasCosts.MCL)

	case asm.MCLI:
		return vm.memClear(in, vm.regs.Get(in.RA), types.Word(in.Imm), vm.params.GasCosts.MCLI)

	case asm.MCP:
		return vm.memCopy(in, vm.regs.Get(in.RA), vm.regs.Get(in.RB), vm.regs.Get(in.RC), vm.params.GasCosts.MCP)

	case asm.MCPI:
		return vm.memCopy(in, vm.regs.Get(in.RA), vm.regs.Get(in.RB), types.Word(in.Imm), vm.params.GasCosts.MCPI)

	case asm.MEQ:
		// Only two address operands fit this instruction's register
		// operands, so the comparison width is fixed at one word rather
		// than taken from a fourth, nonexistent register.
		if p := vm.chargeGas(vm.params.GasCosts.MEQ.Cost(8)); p != nil {
			return p
		}
		a, reason, ok := vm.mem.Read(vm.regs.Get(in.RB), 8)
		if !ok {
			return newPanic(reason, in)
		}
		b, reason, ok := vm.mem.Read(vm.regs.Get(in.RC), 8)
		if !ok {
			return newPanic(reason, in)
		}
		vm.regs.Set(in.RA, boolWord(bytes.Equal(a, b)))
		return nil

	case asm.LB:
		if p := vm.chargeGas(vm.params.GasCosts.MemoryRead); p != nil {
			return p
		}
		data, reason, ok := vm.mem.Read(vm.regs.Get(in.RB)+types.Word(in.Imm), 1)
		if !ok {
			return newPanic(reason, in)
		}
		vm.regs.Set(in.RA, types.Word(data[0]))
		return nil

	case asm.LW:
		if p := vm.chargeGas(vm.params.GasCosts.MemoryRead); p != nil {
			return p
		}
		data, reason, ok := vm.mem.Read(vm.regs.Get(in.RB)+types.Word(in.Imm), 8)
		if !ok {
			return newPanic(reason, in)
		}
		vm.regs.Set(in.RA, binary.BigEndian.Uint64(data))
		return nil

	case asm.SB:
		if p := vm.chargeGas(vm.params.GasCosts.MemoryWrite); p != nil {
			return p
		}
		reason, ok := vm.mem.Write(vm.regs.Get(in.RA)+types.Word(in.Imm), []byte{byte(vm.regs.Get(in.RB))})
		if !ok {
			return newPanic(reason, in)
		}
		return nil

	case asm.SW:
		if p := vm.chargeGas(vm.params.GasCosts.MemoryWrite); p != nil {
			return p
		}
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], vm.regs.Get(in.RB))
		reason, ok := vm.mem.Write(vm.regs.Get(in.RA)+types.Word(in.Imm), buf[:])
		if !ok {
			return newPanic(reason, in)
		}
		return nil

	case asm.GM:
		return vm.execGM(in)
	}
	return newPanic(asm.PanicReasonInvalidImmediateValue, in)
}

func (vm *Interpreter) memClear(in asm.Instruction, addr, n types.Word, cost dependentCoster) *Panic {
	if p := vm.chargeGas(cost.Cost(n)); p != nil {
		return p
	}
	reason, ok := vm.mem.Write(addr, make([]byte, n))
	if !ok {
		return newPanic(reason, in)
	}
	return nil
}

func (vm *Interpreter) memCopy(in asm.Instruction, dst, src, n types.Word, cost dependentCoster) *Panic {
	if p := vm.chargeGas(cost.Cost(n)); p != nil {
		return p
	}
	data, reason, ok := vm.mem.Read(src, n)
	if !ok {
		return newPanic(reason, in)
	}
	reason, ok = vm.mem.Write(dst, data)
	if !ok {
		return newPanic(reason, in)
	}
	return nil
}

// dependentCoster is the subset of tx.DependentCost's interface used here,
// named locally so memops.go does not need to import tx just for this shape.
type dependentCoster interface {
	Cost(units types.Word) types.Word
}

// GM metadata selectors. Only a small, self-contained subset of the
// reference protocol's selector space is implemented.
const (
	gmIsCallerExternal types.Word = 1
	gmCallDepth        types.Word = 2
)

func (vm *Interpreter) execGM(in asm.Instruction) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.RegisterWrite); p != nil {
		return p
	}
	switch types.Word(in.Imm) {
	case gmIsCallerExternal:
		vm.regs.Set(in.RA, boolWord(len(vm.frames) == 0))
	case gmCallDepth:
		vm.regs.Set(in.RA, types.Word(len(vm.frames)))
	default:
		return newPanic(asm.PanicReasonInvalidMetadataIdentifier, in)
	}
	return nil
}
