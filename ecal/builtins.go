package ecal

import (
	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
	"github.com/fuelvm-go/fuelvm/vm"
)

// Selector values for the built-in syscalls registered by Builtins.
const (
	// SelectorTimestamp writes the current block timestamp to
	// SelectorRegister.
	SelectorTimestamp types.Word = 1

	// SelectorBalanceOf reads the calling contract's balance of the asset
	// whose 32-byte id is pointed to by Arg1Register, writing it to
	// SelectorRegister.
	SelectorBalanceOf types.Word = 2
)

// Builtins returns a Registry preloaded with a small set of host syscalls
// safe to expose to any contract: nothing here mutates state or crosses a
// trust boundary the contract doesn't already have access to through other
// opcodes, it simply offers them via the ecal calling convention as well.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(SelectorTimestamp, timestampSyscall)
	r.Register(SelectorBalanceOf, balanceOfSyscall)
	return r
}

func timestampSyscall(m *vm.Interpreter, in asm.Instruction) *vm.Panic {
	m.Regs().Set(SelectorRegister, m.Timestamp())
	return nil
}

func balanceOfSyscall(m *vm.Interpreter, in asm.Instruction) *vm.Panic {
	addr := m.Regs().Get(Arg1Register)
	data, reason, ok := m.Mem().Read(addr, 32)
	if !ok {
		return &vm.Panic{Reason: reason}
	}
	var asset types.AssetId
	copy(asset[:], data)
	bal, err := m.Storage().GetBalance(m.ContractID(), asset)
	if err != nil {
		return &vm.Panic{Reason: asm.PanicReasonAssetIdNotFound}
	}
	m.Regs().Set(SelectorRegister, bal)
	return nil
}
