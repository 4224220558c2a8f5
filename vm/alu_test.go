package vm

import (
	"testing"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
)

func TestALUArithmetic(t *testing.T) {
	cases := []struct {
		name string
		op   asm.Opcode
		a, b types.Word
		want types.Word
	}{
		{"add", asm.ADD, 2, 3, 5},
		{"sub", asm.SUB, 10, 3, 7},
		{"mul", asm.MUL, 6, 7, 42},
		{"div", asm.DIV, 42, 6, 7},
		{"mod", asm.MOD, 10, 3, 1},
		{"and", asm.AND, 0b1100, 0b1010, 0b1000},
		{"or", asm.OR, 0b1100, 0b1010, 0b1110},
		{"xor", asm.XOR, 0b1100, 0b1010, 0b0110},
		{"eq-true", asm.EQ, 5, 5, 1},
		{"eq-false", asm.EQ, 5, 6, 0},
		{"gt", asm.GT, 5, 3, 1},
		{"lt", asm.LT, 3, 5, 1},
		{"sll", asm.SLL, 1, 4, 16},
		{"srl", asm.SRL, 16, 4, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vm := newTestVM(t)
			vm.regs.Set(r17, tc.a)
			vm.regs.Set(r18, tc.b)
			vm.LoadCode(assemble(t, rrr(tc.op, r16, r17, r18)))
			if p := vm.Step(); p != nil {
				t.Fatalf("unexpected panic: %v", p)
			}
			if got := vm.regs.Get(r16); got != tc.want {
				t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
			}
		})
	}
}

func TestDivByZeroPanicsByDefault(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(r17, 10)
	vm.regs.Set(r18, 0)
	vm.LoadCode(assemble(t, rrr(asm.DIV, r16, r17, r18)))
	p := vm.Step()
	if p == nil || p.Reason != asm.PanicReasonArithmeticOverflow {
		t.Fatalf("expected ArithmeticOverflow panic, got %v", p)
	}
}

func TestDivByZeroUnsafeMathYieldsZero(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(types.RegFlag, types.FlagUnsafeMath)
	vm.regs.Set(r17, 10)
	vm.regs.Set(r18, 0)
	vm.LoadCode(assemble(t, rrr(asm.DIV, r16, r17, r18)))
	if p := vm.Step(); p != nil {
		t.Fatalf("unexpected panic: %v", p)
	}
	if got := vm.regs.Get(r16); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestAddOverflowPanicsByDefault(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(r17, ^types.Word(0))
	vm.regs.Set(r18, 1)
	vm.LoadCode(assemble(t, rrr(asm.ADD, r16, r17, r18)))
	p := vm.Step()
	if p == nil || p.Reason != asm.PanicReasonArithmeticOverflow {
		t.Fatalf("expected ArithmeticOverflow panic, got %v", p)
	}
}

func TestAddOverflowWrappingFlag(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(types.RegFlag, types.FlagWrapping)
	vm.regs.Set(r17, ^types.Word(0))
	vm.regs.Set(r18, 1)
	vm.LoadCode(assemble(t, rrr(asm.ADD, r16, r17, r18)))
	if p := vm.Step(); p != nil {
		t.Fatalf("unexpected panic: %v", p)
	}
	if got := vm.regs.Get(r16); got != 0 {
		t.Fatalf("expected wrapped result 0, got %d", got)
	}
}

func TestAddOverflowUnsafeMathSetsOfFlag(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(types.RegFlag, types.FlagUnsafeMath)
	vm.regs.Set(r17, ^types.Word(0))
	vm.regs.Set(r18, 1)
	vm.LoadCode(assemble(t, rrr(asm.ADD, r16, r17, r18)))
	if p := vm.Step(); p != nil {
		t.Fatalf("unexpected panic: %v", p)
	}
	if got := vm.regs.Get(r16); got != 0 {
		t.Fatalf("expected zeroed result on unsafe-math overflow, got %d", got)
	}
	if vm.regs.Get(types.RegOf) != 1 {
		t.Fatalf("expected $of to be set")
	}
}

func TestALUIImmediateVariant(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(r17, 10)
	vm.LoadCode(assemble(t, rri(asm.ADDI, r16, r17, 5)))
	if p := vm.Step(); p != nil {
		t.Fatalf("unexpected panic: %v", p)
	}
	if got := vm.regs.Get(r16); got != 15 {
		t.Fatalf("got %d want 15", got)
	}
}

func TestReservedRegisterWriteRejected(t *testing.T) {
	vm := newTestVM(t)
	vm.LoadCode(assemble(t, rrr(asm.ADD, types.RegOne, types.RegZero, types.RegZero)))
	p := vm.Step()
	if p == nil || p.Reason != asm.PanicReasonReservedRegisterNotWritable {
		t.Fatalf("expected ReservedRegisterNotWritable, got %v", p)
	}
}

func TestMoveCopiesRegister(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(r17, 123)
	vm.LoadCode(assemble(t, rrr(asm.MOVE, r16, r17, 0)))
	if p := vm.Step(); p != nil {
		t.Fatalf("unexpected panic: %v", p)
	}
	if got := vm.regs.Get(r16); got != 123 {
		t.Fatalf("got %d want 123", got)
	}
}
