package vm

import (
	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
)

// chargeGas deducts cost from both the global gas register ($ggas) and the
// current call's gas register ($cgas), panicking with OutOfGas if either
// would go negative. A predicate interpreter starts both registers at its
// own gas limit, so the same check bounds predicate execution.
func (vm *Interpreter) chargeGas(cost types.Word) *Panic {
	if cost > vm.regs.Get(types.RegCGas) || cost > vm.regs.Get(types.RegGGas) {
		return &Panic{Reason: asm.PanicReasonOutOfGas}
	}
	vm.regs.Set(types.RegCGas, vm.regs.Get(types.RegCGas)-cost)
	vm.regs.Set(types.RegGGas, vm.regs.Get(types.RegGGas)-cost)
	return nil
}

// gasAtom returns the fixed per-instruction base cost charged before any
// opcode-specific dependent cost.
func (vm *Interpreter) gasAtom() types.Word {
	return vm.params.GasCosts.Atom
}
