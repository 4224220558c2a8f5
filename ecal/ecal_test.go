package ecal

import (
	"testing"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/storage"
	"github.com/fuelvm-go/fuelvm/tx"
	"github.com/fuelvm-go/fuelvm/types"
	"github.com/fuelvm-go/fuelvm/vm"
)

func assemble(t *testing.T, ins ...asm.Instruction) []byte {
	t.Helper()
	out := make([]byte, 0, len(ins)*4)
	for _, in := range ins {
		w := in.Encode()
		out = append(out, w[:]...)
	}
	return out
}

func newTestVM(t *testing.T) *vm.Interpreter {
	t.Helper()
	checked := &tx.CheckedTransaction{Tx: &tx.Transaction{GasLimit: 1_000_000}}
	return vm.New(checked, storage.NewMemory(), tx.DefaultParameters())
}

func TestUnregisteredSelectorFaults(t *testing.T) {
	m := newTestVM(t)
	m.SetECALHandler(NewRegistry().Handler())
	m.LoadCode(assemble(t,
		asm.Instruction{Op: asm.ADDI, RA: SelectorRegister, RB: types.RegZero, Imm: 99},
		asm.Instruction{Op: asm.ECAL},
	))
	if p := m.Step(); p != nil {
		t.Fatalf("unexpected panic on ADDI: %v", p)
	}
	p := m.Step()
	if p == nil || p.Reason != asm.PanicReasonErrorFlag {
		t.Fatalf("expected ErrorFlag for unregistered selector, got %v", p)
	}
}

func TestTimestampSyscall(t *testing.T) {
	m := newTestVM(t)
	m.SetBlockContext(0, 123456)
	m.SetECALHandler(Builtins().Handler())
	m.LoadCode(assemble(t,
		asm.Instruction{Op: asm.ADDI, RA: SelectorRegister, RB: types.RegZero, Imm: uint32(SelectorTimestamp)},
		asm.Instruction{Op: asm.ECAL},
	))
	if p := m.Step(); p != nil {
		t.Fatalf("unexpected panic on ADDI: %v", p)
	}
	if p := m.Step(); p != nil {
		t.Fatalf("ECAL panicked: %v", p)
	}
	if got := m.Regs().Get(SelectorRegister); got != 123456 {
		t.Fatalf("got %d want 123456", got)
	}
}

func TestBalanceOfSyscall(t *testing.T) {
	st := storage.NewMemory()
	checked := &tx.CheckedTransaction{Tx: &tx.Transaction{GasLimit: 1_000_000}}
	m := vm.New(checked, st, tx.DefaultParameters())

	// A top-level script (no enclosing CALL) runs with the zero ContractId,
	// so seed the balance the syscall will look up under that same id.
	var asset types.AssetId
	asset[31] = 0x02
	if err := st.SetBalance(types.ContractId{}, asset, 7_000); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}

	m.SetECALHandler(Builtins().Handler())
	code := assemble(t,
		asm.Instruction{Op: asm.ADDI, RA: Arg1Register, RB: types.RegZero, Imm: 0},
		asm.Instruction{Op: asm.ADDI, RA: SelectorRegister, RB: types.RegZero, Imm: uint32(SelectorBalanceOf)},
		asm.Instruction{Op: asm.ECAL},
	)
	m.LoadCode(code)

	if _, _, ok := m.Mem().Grow(32); !ok {
		t.Fatalf("Grow failed")
	}
	if _, ok := m.Mem().Write(0, asset[:]); !ok {
		t.Fatalf("write asset id failed")
	}

	for i := 0; i < 2; i++ {
		if p := m.Step(); p != nil {
			t.Fatalf("setup step %d panicked: %v", i, p)
		}
	}
	if p := m.Step(); p != nil {
		t.Fatalf("ECAL panicked: %v", p)
	}
	if got := m.Regs().Get(SelectorRegister); got != 7_000 {
		t.Fatalf("got %d want 7000", got)
	}
}
