package vm

import (
	"testing"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/tx"
	"github.com/fuelvm-go/fuelvm/types"
)

func TestJumpAbsoluteRejectsOutOfRange(t *testing.T) {
	vm := newTestVM(t)
	vm.LoadCode(assemble(t, i24(asm.NOOP, 0))) // 4 bytes of code

	if _, p := vm.jumpAbsolute(1, asm.Instruction{Op: asm.JI}); p == nil {
		t.Fatalf("expected panic jumping past end of code")
	}
	if _, p := vm.jumpAbsolute(0, asm.Instruction{Op: asm.JI}); p != nil {
		t.Fatalf("unexpected panic jumping to the only instruction: %v", p)
	}
}

func TestJumpAbsoluteRejectsBackwardInPredicateMode(t *testing.T) {
	vm := NewPredicate(assemble(t, i24(asm.NOOP, 0), i24(asm.NOOP, 0)), 1_000_000, tx.DefaultParameters(), nil)
	vm.pc = 4
	if _, p := vm.jumpAbsolute(0, asm.Instruction{Op: asm.JI}); p == nil || p.Reason != asm.PanicReasonIllegalJump {
		t.Fatalf("expected IllegalJump panic on backward jump, got %v", p)
	}
}

func TestJiJumpsToTarget(t *testing.T) {
	vm := newTestVM(t)
	// ji 2; noop; addi r16,r0,7 <- landing pad
	code := assemble(t,
		i24(asm.JI, 2),
		i24(asm.NOOP, 0),
		rri(asm.ADDI, r16, types.RegZero, 7),
		ri(asm.RET, r16, 0),
	)
	vm.LoadCode(code)
	receipts, err := vm.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.regs.Get(r16) != 7 {
		t.Fatalf("expected landing-pad instruction to run, r16=%d", vm.regs.Get(r16))
	}
	if len(receipts) != 1 {
		t.Fatalf("expected exactly one receipt, got %d", len(receipts))
	}
}

func TestCtmvComparesTransactionMaturity(t *testing.T) {
	vm := newTestVM(t)
	vm.checked.Tx.Policies.Maturity = 10
	vm.regs.Set(r16, 5)
	code := assemble(t, rrr(asm.CTMV, r17, r16, 0))
	vm.LoadCode(code)
	if p := vm.Step(); p != nil {
		t.Fatalf("unexpected panic: %v", p)
	}
	if vm.regs.Get(r17) != 1 {
		t.Fatalf("expected maturity check to pass, got %d", vm.regs.Get(r17))
	}
}

func TestRetHaltsTopLevelScript(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(r16, 42)
	vm.LoadCode(assemble(t, ri(asm.RET, r16, 0)))
	receipts, err := vm.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("expected exactly one receipt, got %d", len(receipts))
	}
	if receipts[0].RA != 42 {
		t.Fatalf("expected return value 42, got %d", receipts[0].RA)
	}
}

func TestRvrtHaltsWithRevertReceipt(t *testing.T) {
	vm := newTestVM(t)
	vm.regs.Set(r16, 1)
	vm.LoadCode(assemble(t, ri(asm.RVRT, r16, 0)))
	receipts, err := vm.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("expected exactly one receipt, got %d", len(receipts))
	}
}

func TestCallThenRetRestoresCallerState(t *testing.T) {
	vm := newTestVM(t)

	calleeCode := assemble(t,
		rri(asm.ADDI, r18, types.RegZero, 99),
		ri(asm.RET, r18, 0),
	)
	calleeID := types.ContractId{0xaa}
	if err := vm.storage.PutCode(calleeID, calleeCode); err != nil {
		t.Fatalf("PutCode: %v", err)
	}

	// Write the callee's contract ID and an arbitrary zero asset ID into
	// memory so CALL's register operands (which hold pointers) resolve.
	base := types.Word(0)
	if _, _, ok := vm.mem.Grow(64); !ok {
		t.Fatalf("Grow failed")
	}
	if reason, ok := vm.mem.Write(base, calleeID[:]); !ok {
		t.Fatalf("write contract id failed: %v", reason)
	}
	assetBase := base + 32
	if reason, ok := vm.mem.Write(assetBase, make([]byte, 32)); !ok {
		t.Fatalf("write asset id failed: %v", reason)
	}
	vm.regs.Set(r16, base)
	vm.regs.Set(r17, 0) // amount
	vm.regs.Set(r18, assetBase)

	callerCode := assemble(t,
		rrrr(asm.CALL, r16, r17, r18, types.RegCGas),
		rri(asm.ADDI, r19, types.RegZero, 5),
		ri(asm.RET, r19, 0),
	)
	vm.LoadCode(callerCode)

	savedCode := vm.code
	savedPC := vm.pc

	if p := vm.Step(); p != nil {
		t.Fatalf("CALL step panicked: %v", p)
	}
	if vm.contractID != calleeID {
		t.Fatalf("expected contractID to switch to callee")
	}
	if vm.pc != 0 {
		t.Fatalf("expected callee PC to start at 0, got %d", vm.pc)
	}

	// Run the callee to completion (ADDI then RET), which should restore
	// the caller's code, contract ID, and resume at the call site+4.
	for i := 0; i < 2; i++ {
		if p := vm.Step(); p != nil {
			t.Fatalf("callee step %d panicked: %v", i, p)
		}
	}

	if string(vm.code) != string(savedCode) {
		t.Fatalf("expected caller code to be restored after return")
	}
	if vm.contractID != (types.ContractId{}) {
		t.Fatalf("expected contractID to revert to the top-level zero value")
	}
	if vm.pc != savedPC+4 {
		t.Fatalf("expected PC to resume after the call instruction, got %d want %d", vm.pc, savedPC+4)
	}
	if vm.regs.Get(types.RegRet) != 99 {
		t.Fatalf("expected $ret to carry the callee's return value, got %d", vm.regs.Get(types.RegRet))
	}
}

func TestCallPreservesGlobalGasAcrossReturn(t *testing.T) {
	vm := newTestVM(t)
	calleeCode := assemble(t,
		rri(asm.ADDI, r18, types.RegZero, 1),
		ri(asm.RET, r18, 0),
	)
	calleeID := types.ContractId{0xbb}
	if err := vm.storage.PutCode(calleeID, calleeCode); err != nil {
		t.Fatalf("PutCode: %v", err)
	}
	if _, _, ok := vm.mem.Grow(64); !ok {
		t.Fatalf("Grow failed")
	}
	if _, ok := vm.mem.Write(0, calleeID[:]); !ok {
		t.Fatalf("write contract id failed")
	}
	if _, ok := vm.mem.Write(32, make([]byte, 32)); !ok {
		t.Fatalf("write asset id failed")
	}
	vm.regs.Set(r16, 0)
	vm.regs.Set(r17, 0)
	vm.regs.Set(r18, 32)

	vm.LoadCode(assemble(t, rrrr(asm.CALL, r16, r17, r18, types.RegCGas)))

	ggasBefore := vm.regs.Get(types.RegGGas)
	for i := 0; i < 3; i++ {
		if p := vm.Step(); p != nil {
			t.Fatalf("step %d panicked: %v", i, p)
		}
	}
	ggasAfter := vm.regs.Get(types.RegGGas)
	if ggasAfter >= ggasBefore {
		t.Fatalf("expected global gas to have drained across the call, before=%d after=%d", ggasBefore, ggasAfter)
	}
}

func TestCallForwardsOnlyRequestedGasAndCreditsUnspentBack(t *testing.T) {
	vm := newTestVM(t)
	calleeCode := assemble(t,
		rri(asm.ADDI, r18, types.RegZero, 1),
		ri(asm.RET, r18, 0),
	)
	calleeID := types.ContractId{0xcc}
	if err := vm.storage.PutCode(calleeID, calleeCode); err != nil {
		t.Fatalf("PutCode: %v", err)
	}
	if _, _, ok := vm.mem.Grow(64); !ok {
		t.Fatalf("Grow failed")
	}
	if _, ok := vm.mem.Write(0, calleeID[:]); !ok {
		t.Fatalf("write contract id failed")
	}
	if _, ok := vm.mem.Write(32, make([]byte, 32)); !ok {
		t.Fatalf("write asset id failed")
	}
	vm.regs.Set(r16, 0)
	vm.regs.Set(r17, 0)
	vm.regs.Set(r18, 32)

	const forward = types.Word(500)
	vm.regs.Set(r20, forward)
	vm.LoadCode(assemble(t, rrrr(asm.CALL, r16, r17, r18, r20)))

	callerCGasBefore := vm.regs.Get(types.RegCGas)
	if p := vm.Step(); p != nil {
		t.Fatalf("CALL step panicked: %v", p)
	}
	if got := vm.regs.Get(types.RegCGas); got != forward {
		t.Fatalf("expected callee $cgas to be clamped to the forwarded amount %d, got %d", forward, got)
	}

	// Run the callee (ADDI then RET) to completion.
	for i := 0; i < 2; i++ {
		if p := vm.Step(); p != nil {
			t.Fatalf("callee step %d panicked: %v", i, p)
		}
	}

	callerCGasAfter := vm.regs.Get(types.RegCGas)
	if callerCGasAfter >= callerCGasBefore {
		t.Fatalf("expected caller $cgas to reflect actual consumption, before=%d after=%d", callerCGasBefore, callerCGasAfter)
	}
	if callerCGasAfter <= callerCGasBefore-forward {
		t.Fatalf("expected unspent callee gas to be credited back to the caller, before=%d forwarded=%d after=%d", callerCGasBefore, forward, callerCGasAfter)
	}
}
