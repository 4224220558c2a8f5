package vm

import (
	"math/big"
	"testing"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
)

func writeWideWord(t *testing.T, vm *Interpreter, addr types.Word, width types.Word, v uint64) {
	t.Helper()
	buf := make([]byte, width)
	for i := types.Word(0); i < 8; i++ {
		buf[width-1-i] = byte(v >> (8 * i))
	}
	if _, ok := vm.mem.Write(addr, buf); !ok {
		t.Fatalf("write wide operand failed")
	}
}

func readWideWord(t *testing.T, vm *Interpreter, addr types.Word, width types.Word) *big.Int {
	t.Helper()
	data, _, ok := vm.mem.Read(addr, width)
	if !ok {
		t.Fatalf("read wide result failed")
	}
	return new(big.Int).SetBytes(data)
}

func TestWdmlMultipliesOperands(t *testing.T) {
	vm := newTestVM(t)
	if _, _, ok := vm.mem.Grow(256); !ok {
		t.Fatalf("Grow failed")
	}
	base := types.Word(0)
	writeWideWord(t, vm, base, wideD, 6)
	writeWideWord(t, vm, base+wideD, wideD, 7)

	vm.regs.Set(r16, 64) // dst
	vm.regs.Set(r17, base)
	vm.LoadCode(assemble(t, rrr(asm.WDML, r16, r17, 0)))
	if p := vm.Step(); p != nil {
		t.Fatalf("WDML panicked: %v", p)
	}
	got := readWideWord(t, vm, 64, wideD)
	if got.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("got %s want 42", got.String())
	}
}

func TestWqdvDividesOperands(t *testing.T) {
	vm := newTestVM(t)
	if _, _, ok := vm.mem.Grow(256); !ok {
		t.Fatalf("Grow failed")
	}
	base := types.Word(0)
	writeWideWord(t, vm, base, wideQ, 100)
	writeWideWord(t, vm, base+wideQ, wideQ, 9)

	vm.regs.Set(r16, 128)
	vm.regs.Set(r17, base)
	vm.LoadCode(assemble(t, rrr(asm.WQDV, r16, r17, 0)))
	if p := vm.Step(); p != nil {
		t.Fatalf("WQDV panicked: %v", p)
	}
	got := readWideWord(t, vm, 128, wideQ)
	if got.Cmp(big.NewInt(11)) != 0 {
		t.Fatalf("got %s want 11", got.String())
	}
}

func TestWqdvByZeroPanicsByDefault(t *testing.T) {
	vm := newTestVM(t)
	if _, _, ok := vm.mem.Grow(256); !ok {
		t.Fatalf("Grow failed")
	}
	base := types.Word(0)
	writeWideWord(t, vm, base, wideQ, 100)
	writeWideWord(t, vm, base+wideQ, wideQ, 0)

	vm.regs.Set(r16, 128)
	vm.regs.Set(r17, base)
	vm.LoadCode(assemble(t, rrr(asm.WQDV, r16, r17, 0)))
	p := vm.Step()
	if p == nil || p.Reason != asm.PanicReasonArithmeticOverflow {
		t.Fatalf("expected ArithmeticOverflow, got %v", p)
	}
}

func TestWqmdComputesMulDivWithoutIntermediateOverflow(t *testing.T) {
	vm := newTestVM(t)
	if _, _, ok := vm.mem.Grow(256); !ok {
		t.Fatalf("Grow failed")
	}
	base := types.Word(0)
	// (2^255) * 2 / 2 would overflow a naive 256-bit multiply; the mulDiv
	// path must compute it via the wider intermediate product instead.
	huge := new(big.Int).Lsh(big.NewInt(1), 255)
	hugeBytes := make([]byte, wideQ)
	huge.FillBytes(hugeBytes)
	if _, ok := vm.mem.Write(base, hugeBytes); !ok {
		t.Fatalf("write a failed")
	}
	writeWideWord(t, vm, base+wideQ, wideQ, 2)
	writeWideWord(t, vm, base+2*wideQ, wideQ, 2)

	vm.regs.Set(r16, 3*wideQ) // dst
	vm.regs.Set(r17, base)
	vm.LoadCode(assemble(t, rrr(asm.WQMD, r16, r17, 0)))
	if p := vm.Step(); p != nil {
		t.Fatalf("WQMD panicked: %v", p)
	}
	got := readWideWord(t, vm, 3*wideQ, wideQ)
	if got.Cmp(huge) != 0 {
		t.Fatalf("got %s want %s", got.String(), huge.String())
	}
}

func TestWdcmCompareOperands(t *testing.T) {
	vm := newTestVM(t)
	if _, _, ok := vm.mem.Grow(256); !ok {
		t.Fatalf("Grow failed")
	}
	base := types.Word(0)
	writeWideWord(t, vm, base, wideD, 5)
	writeWideWord(t, vm, base+wideD, wideD, 9)

	vm.regs.Set(r17, base)
	vm.LoadCode(assemble(t, rrr(asm.WDCM, r16, r17, 0)))
	if p := vm.Step(); p != nil {
		t.Fatalf("WDCM panicked: %v", p)
	}
	if got := vm.regs.Get(r16); got != 1 {
		t.Fatalf("expected a<b to report 1, got %d", got)
	}
}

func TestXwlExtendsRegisterIntoWideWord(t *testing.T) {
	vm := newTestVM(t)
	if _, _, ok := vm.mem.Grow(64); !ok {
		t.Fatalf("Grow failed")
	}
	vm.regs.Set(r17, 0x1234)
	vm.regs.Set(r16, 0) // dst
	vm.LoadCode(assemble(t, rrr(asm.XWL, r16, r17, 0)))
	if p := vm.Step(); p != nil {
		t.Fatalf("XWL panicked: %v", p)
	}
	got := readWideWord(t, vm, 0, wideD)
	if got.Cmp(big.NewInt(0x1234)) != 0 {
		t.Fatalf("got %s want 0x1234", got.String())
	}
}
