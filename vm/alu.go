package vm

import (
	"math/bits"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
)

// execALU dispatches the register-register-register arithmetic, logic, and
// comparison opcodes. Overflow/div-by-zero behavior depends on FLAG: by
// default both panic, FlagUnsafeMath converts overflow into $of and
// div/mod-by-zero into a zero result, FlagWrapping converts overflow into a
// wrapped result instead of a panic.
func (vm *Interpreter) execALU(in asm.Instruction) *Panic {
	a := vm.regs.Get(in.RB)
	b := vm.regs.Get(in.RC)
	flags := vm.regs.Get(types.RegFlag)

	var result types.Word
	switch in.Op {
	case asm.ADD:
		sum, carry := bits.Add64(a, b, 0)
		if carry != 0 {
			if p := vm.handleOverflow(flags, &result, sum); p != nil {
				return p
			}
		} else {
			result = sum
		}
	case asm.SUB:
		diff, borrow := bits.Sub64(a, b, 0)
		if borrow != 0 {
			if p := vm.handleOverflow(flags, &result, diff); p != nil {
				return p
			}
		} else {
			result = diff
		}
	case asm.MUL:
		hi, lo := bits.Mul64(a, b)
		if hi != 0 {
			if p := vm.handleOverflow(flags, &result, lo); p != nil {
				return p
			}
		} else {
			result = lo
		}
	case asm.DIV:
		if b == 0 {
			if flags&types.FlagUnsafeMath != 0 {
				result = 0
			} else {
				return newPanic(asm.PanicReasonArithmeticOverflow, in)
			}
		} else {
			result = a / b
		}
	case asm.MOD:
		if b == 0 {
			if flags&types.FlagUnsafeMath != 0 {
				result = 0
			} else {
				return newPanic(asm.PanicReasonArithmeticOverflow, in)
			}
		} else {
			result = a % b
		}
	case asm.AND:
		result = a & b
	case asm.OR:
		result = a | b
	case asm.XOR:
		result = a ^ b
	case asm.SLL:
		result = shiftLeft(a, b)
	case asm.SRL:
		result = shiftRight(a, b)
	case asm.EQ:
		result = boolWord(a == b)
	case asm.GT:
		result = boolWord(a > b)
	case asm.LT:
		result = boolWord(a < b)
	case asm.NOT:
		result = ^a
	case asm.MOVE:
		result = a
	case asm.EXP:
		r, overflow := wordPow(a, b)
		if overflow {
			if p := vm.handleOverflow(flags, &result, r); p != nil {
				return p
			}
		} else {
			result = r
		}
	case asm.MLOG:
		if a == 0 || b < 2 {
			return newPanic(asm.PanicReasonArithmeticOverflow, in)
		}
		result = wordLog(a, b)
	case asm.MROO:
		if b == 0 {
			return newPanic(asm.PanicReasonArithmeticOverflow, in)
		}
		result = wordRoot(a, b)
	}

	vm.regs.Set(in.RA, result)
	return nil
}

// execALUI handles the immediate-12 arithmetic/logic family, identical to
// their register-register-register counterparts with RC replaced by Imm.
func (vm *Interpreter) execALUI(in asm.Instruction) *Panic {
	a := vm.regs.Get(in.RB)
	b := types.Word(in.Imm)
	flags := vm.regs.Get(types.RegFlag)

	var result types.Word
	switch in.Op {
	case asm.ADDI:
		sum, carry := bits.Add64(a, b, 0)
		if carry != 0 {
			if p := vm.handleOverflow(flags, &result, sum); p != nil {
				return p
			}
		} else {
			result = sum
		}
	case asm.SUBI:
		diff, borrow := bits.Sub64(a, b, 0)
		if borrow != 0 {
			if p := vm.handleOverflow(flags, &result, diff); p != nil {
				return p
			}
		} else {
			result = diff
		}
	case asm.MULI:
		hi, lo := bits.Mul64(a, b)
		if hi != 0 {
			if p := vm.handleOverflow(flags, &result, lo); p != nil {
				return p
			}
		} else {
			result = lo
		}
	case asm.DIVI:
		if b == 0 {
			if flags&types.FlagUnsafeMath != 0 {
				result = 0
			} else {
				return newPanic(asm.PanicReasonArithmeticOverflow, in)
			}
		} else {
			result = a / b
		}
	case asm.MODI:
		if b == 0 {
			if flags&types.FlagUnsafeMath != 0 {
				result = 0
			} else {
				return newPanic(asm.PanicReasonArithmeticOverflow, in)
			}
		} else {
			result = a % b
		}
	case asm.ANDI:
		result = a & b
	case asm.ORI:
		result = a | b
	case asm.XORI:
		result = a ^ b
	case asm.SLLI:
		result = shiftLeft(a, b)
	case asm.SRLI:
		result = shiftRight(a, b)
	case asm.EXPI:
		r, overflow := wordPow(a, b)
		if overflow {
			if p := vm.handleOverflow(flags, &result, r); p != nil {
				return p
			}
		} else {
			result = r
		}
	}

	vm.regs.Set(in.RA, result)
	return nil
}

// handleOverflow applies FLAG.WRAPPING/FLAG.UNSAFE_MATH semantics to an
// overflowed operation: wrapping returns the truncated value, unsafe-math
// sets $of and zeroes the result, and the default is a panic.
func (vm *Interpreter) handleOverflow(flags types.Word, result *types.Word, wrapped types.Word) *Panic {
	switch {
	case flags&types.FlagWrapping != 0:
		*result = wrapped
		return nil
	case flags&types.FlagUnsafeMath != 0:
		vm.regs.Set(types.RegOf, 1)
		*result = 0
		return nil
	default:
		return &Panic{Reason: asm.PanicReasonArithmeticOverflow}
	}
}

func shiftLeft(a, n types.Word) types.Word {
	if n >= 64 {
		return 0
	}
	return a << n
}

func shiftRight(a, n types.Word) types.Word {
	if n >= 64 {
		return 0
	}
	return a >> n
}

func boolWord(b bool) types.Word {
	if b {
		return 1
	}
	return 0
}

// wordPow computes a**b over 64-bit words, reporting overflow rather than
// wrapping silently.
func wordPow(a, b types.Word) (types.Word, bool) {
	result := types.Word(1)
	for i := types.Word(0); i < b; i++ {
		hi, lo := bits.Mul64(result, a)
		if hi != 0 {
			return lo, true
		}
		result = lo
	}
	return result, false
}

// wordLog computes floor(log_base(a)).
func wordLog(a, base types.Word) types.Word {
	var result types.Word
	for a >= base {
		a /= base
		result++
	}
	return result
}

// wordRoot computes floor(a ** (1/n)) via integer binary search.
func wordRoot(a, n types.Word) types.Word {
	if a == 0 {
		return 0
	}
	lo, hi := types.Word(1), a
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		p, overflow := wordPow(mid, n)
		if overflow || p > a {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	return lo
}
