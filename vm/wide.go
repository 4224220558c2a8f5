package vm

import (
	"encoding/binary"
	"math/big"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
	"github.com/holiman/uint256"
)

// Operand widths for the "D" (double, 128-bit) and "Q" (quad, 256-bit) wide
// integer families.
const (
	wideD = 16
	wideQ = 32
)

// execWide dispatches the 128/256-bit integer opcodes. The instruction set's
// register budget (two registers plus a 12-bit immediate, or three bare
// registers) has no room for the three or four pointer operands these
// operations conceptually take, so every multi-operand wide op packs its
// operands contiguously starting at the address in $rB: first operand at
// $rB, second immediately after it, and a third (for the mod-reducing
// opcodes) after that.
func (vm *Interpreter) execWide(in asm.Instruction) *Panic {
	switch in.Op {
	case asm.XIL:
		return vm.wideCopy(in, wideD)
	case asm.XIS:
		return vm.wideCopy(in, wideQ)
	case asm.XOL:
		return vm.wideNot(in, wideD)
	case asm.XOS:
		return vm.wideNot(in, wideQ)
	case asm.XWL:
		return vm.wideExtend(in, wideD)
	case asm.XWS:
		return vm.wideExtend(in, wideQ)

	case asm.WDCM:
		return vm.wideCompare(in, wideD)
	case asm.WQCM:
		return vm.wideCompare(in, wideQ)

	case asm.WDOP:
		return vm.wideBitwise(in, wideD)
	case asm.WQOP:
		return vm.wideBitwise(in, wideQ)

	case asm.WDML:
		return vm.wideMul(in, wideD)
	case asm.WQML:
		return vm.wideMul(in, wideQ)

	case asm.WDDV:
		return vm.wideDiv(in, wideD)
	case asm.WQDV:
		return vm.wideDiv(in, wideQ)

	case asm.WDMD:
		return vm.wideMulDiv(in, wideD)
	case asm.WQMD:
		return vm.wideMulDiv(in, wideQ)

	case asm.WDAM:
		return vm.wideAddMod(in, wideD)
	case asm.WQAM:
		return vm.wideAddMod(in, wideQ)

	case asm.WDMM:
		return vm.wideMulMod(in, wideD)
	case asm.WQMM:
		return vm.wideMulMod(in, wideQ)
	}
	return newPanic(asm.PanicReasonInvalidImmediateValue, in)
}

func (vm *Interpreter) wideCopy(in asm.Instruction, width types.Word) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.MemoryWrite); p != nil {
		return p
	}
	data, pp := vm.readMem(in, vm.regs.Get(in.RB), width)
	if pp != nil {
		return pp
	}
	return vm.writeMem(in, vm.regs.Get(in.RA), data)
}

func (vm *Interpreter) wideNot(in asm.Instruction, width types.Word) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.MemoryWrite); p != nil {
		return p
	}
	data, pp := vm.readMem(in, vm.regs.Get(in.RB), width)
	if pp != nil {
		return pp
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = ^b
	}
	return vm.writeMem(in, vm.regs.Get(in.RA), out)
}

func (vm *Interpreter) wideExtend(in asm.Instruction, width types.Word) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.MemoryWrite); p != nil {
		return p
	}
	out := make([]byte, width)
	binary.BigEndian.PutUint64(out[width-8:], vm.regs.Get(in.RB))
	return vm.writeMem(in, vm.regs.Get(in.RA), out)
}

// loadWideOperand reads a width-byte big-endian integer at base+offset*width
// and zero-extends it into a 256-bit value for computation.
func (vm *Interpreter) loadWideOperand(in asm.Instruction, base types.Word, width types.Word, index types.Word) (*uint256.Int, *Panic) {
	data, pp := vm.readMem(in, base+index*width, width)
	if pp != nil {
		return nil, pp
	}
	return new(uint256.Int).SetBytes(data), nil
}

// storeWideResult writes v's low width bytes to addr, reporting ArithmeticOverflow
// (subject to FLAG.WRAPPING/FLAG.UNSAFE_MATH) if v does not fit in width bytes.
func (vm *Interpreter) storeWideResult(in asm.Instruction, addr types.Word, width types.Word, v *uint256.Int) *Panic {
	full := v.Bytes32()
	overflowBytes := full[:wideQ-width]
	if !allZero(overflowBytes) {
		flags := vm.regs.Get(types.RegFlag)
		switch {
		case flags&types.FlagWrapping != 0:
		case flags&types.FlagUnsafeMath != 0:
			vm.regs.Set(types.RegOf, 1)
			return vm.writeMem(in, addr, make([]byte, width))
		default:
			return newPanic(asm.PanicReasonArithmeticOverflow, in)
		}
	}
	return vm.writeMem(in, addr, full[wideQ-width:])
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func (vm *Interpreter) wideCompare(in asm.Instruction, width types.Word) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.Arithmetic); p != nil {
		return p
	}
	base := vm.regs.Get(in.RB)
	a, pp := vm.loadWideOperand(in, base, width, 0)
	if pp != nil {
		return pp
	}
	b, pp := vm.loadWideOperand(in, base, width, 1)
	if pp != nil {
		return pp
	}
	switch a.Cmp(b) {
	case 0:
		vm.regs.Set(in.RA, 0)
	case -1:
		vm.regs.Set(in.RA, 1)
	default:
		vm.regs.Set(in.RA, 2)
	}
	return nil
}

func (vm *Interpreter) wideBitwise(in asm.Instruction, width types.Word) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.Arithmetic); p != nil {
		return p
	}
	base := vm.regs.Get(in.RB)
	a, pp := vm.readMem(in, base, width)
	if pp != nil {
		return pp
	}
	b, pp := vm.readMem(in, base+width, width)
	if pp != nil {
		return pp
	}
	out := make([]byte, width)
	switch in.Imm {
	case 0:
		for i := range out {
			out[i] = a[i] & b[i]
		}
	case 1:
		for i := range out {
			out[i] = a[i] | b[i]
		}
	case 2:
		for i := range out {
			out[i] = a[i] ^ b[i]
		}
	default:
		return newPanic(asm.PanicReasonInvalidImmediateValue, in)
	}
	return vm.writeMem(in, vm.regs.Get(in.RA), out)
}

func (vm *Interpreter) wideMul(in asm.Instruction, width types.Word) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.ArithmeticExpensive); p != nil {
		return p
	}
	base := vm.regs.Get(in.RB)
	a, pp := vm.loadWideOperand(in, base, width, 0)
	if pp != nil {
		return pp
	}
	b, pp := vm.loadWideOperand(in, base, width, 1)
	if pp != nil {
		return pp
	}
	result := new(uint256.Int).Mul(a, b)
	return vm.storeWideResult(in, vm.regs.Get(in.RA), width, result)
}

func (vm *Interpreter) wideDiv(in asm.Instruction, width types.Word) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.ArithmeticExpensive); p != nil {
		return p
	}
	base := vm.regs.Get(in.RB)
	a, pp := vm.loadWideOperand(in, base, width, 0)
	if pp != nil {
		return pp
	}
	b, pp := vm.loadWideOperand(in, base, width, 1)
	if pp != nil {
		return pp
	}
	if b.IsZero() {
		if vm.regs.Get(types.RegFlag)&types.FlagUnsafeMath != 0 {
			return vm.writeMem(in, vm.regs.Get(in.RA), make([]byte, width))
		}
		return newPanic(asm.PanicReasonArithmeticOverflow, in)
	}
	result := new(uint256.Int).Div(a, b)
	return vm.storeWideResult(in, vm.regs.Get(in.RA), width, result)
}

// wideMulDiv computes (a*b)/c without intermediate overflow. uint256 itself
// cannot hold a full-width product (two 256-bit operands multiply to up to
// 512 bits), so the intermediate product is computed with math/big rather
// than truncated early.
func (vm *Interpreter) wideMulDiv(in asm.Instruction, width types.Word) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.ArithmeticExpensive); p != nil {
		return p
	}
	base := vm.regs.Get(in.RB)
	a, pp := vm.loadWideOperand(in, base, width, 0)
	if pp != nil {
		return pp
	}
	b, pp := vm.loadWideOperand(in, base, width, 1)
	if pp != nil {
		return pp
	}
	c, pp := vm.loadWideOperand(in, base, width, 2)
	if pp != nil {
		return pp
	}
	cBig := new(big.Int).SetBytes(c.Bytes())
	if cBig.Sign() == 0 {
		if vm.regs.Get(types.RegFlag)&types.FlagUnsafeMath != 0 {
			return vm.writeMem(in, vm.regs.Get(in.RA), make([]byte, width))
		}
		return newPanic(asm.PanicReasonArithmeticOverflow, in)
	}
	prod := new(big.Int).Mul(new(big.Int).SetBytes(a.Bytes()), new(big.Int).SetBytes(b.Bytes()))
	prod.Div(prod, cBig)
	result := new(uint256.Int).SetBytes(prod.Bytes())
	return vm.storeWideResult(in, vm.regs.Get(in.RA), width, result)
}

func (vm *Interpreter) wideAddMod(in asm.Instruction, width types.Word) *Panic {
	return vm.wideMod(in, width, func(a, b, m *uint256.Int) *uint256.Int {
		return new(uint256.Int).AddMod(a, b, m)
	})
}

func (vm *Interpreter) wideMulMod(in asm.Instruction, width types.Word) *Panic {
	return vm.wideMod(in, width, func(a, b, m *uint256.Int) *uint256.Int {
		return new(uint256.Int).MulMod(a, b, m)
	})
}

func (vm *Interpreter) wideMod(in asm.Instruction, width types.Word, op func(a, b, m *uint256.Int) *uint256.Int) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.ArithmeticExpensive); p != nil {
		return p
	}
	base := vm.regs.Get(in.RB)
	a, pp := vm.loadWideOperand(in, base, width, 0)
	if pp != nil {
		return pp
	}
	b, pp := vm.loadWideOperand(in, base, width, 1)
	if pp != nil {
		return pp
	}
	m, pp := vm.loadWideOperand(in, base, width, 2)
	if pp != nil {
		return pp
	}
	if m.IsZero() {
		if vm.regs.Get(types.RegFlag)&types.FlagUnsafeMath != 0 {
			return vm.writeMem(in, vm.regs.Get(in.RA), make([]byte, width))
		}
		return newPanic(asm.PanicReasonArithmeticOverflow, in)
	}
	result := op(a, b, m)
	// Modular results are already bounded by the modulus, which fits in
	// width bytes by construction, so this write cannot overflow.
	return vm.storeWideResult(in, vm.regs.Get(in.RA), width, result)
}
