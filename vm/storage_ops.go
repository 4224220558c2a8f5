package vm

import (
	"encoding/binary"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
)

// execStorage dispatches the persistent key-value opcodes. srw/sww address a
// single word-sized slot (the low 8 bytes of a 32-byte state entry); srwq/
// swwq address the full 32-byte entry directly. Both granularities share the
// same underlying ContractState table.
func (vm *Interpreter) execStorage(in asm.Instruction) *Panic {
	switch in.Op {
	case asm.SRW:
		if p := vm.chargeGas(vm.params.GasCosts.StorageReadTree); p != nil {
			return p
		}
		key, pp := vm.readHash(in.RB)
		if pp != nil {
			return pp
		}
		val, found, err := vm.storage.GetState(vm.contractID, key)
		if err != nil {
			return newPanic(asm.PanicReasonErrorFlag, in)
		}
		if !found {
			vm.regs.Set(in.RA, 0)
			return nil
		}
		vm.regs.Set(in.RA, binary.BigEndian.Uint64(val[:8]))
		return nil

	case asm.SWW:
		if p := vm.chargeGas(vm.params.GasCosts.StorageWriteWord); p != nil {
			return p
		}
		key, pp := vm.readHash(in.RA)
		if pp != nil {
			return pp
		}
		var val types.Hash
		binary.BigEndian.PutUint64(val[:8], vm.regs.Get(in.RB))
		if err := vm.storage.PutState(vm.contractID, key, val); err != nil {
			return newPanic(asm.PanicReasonErrorFlag, in)
		}
		return nil

	case asm.SRWQ:
		if p := vm.chargeGas(vm.params.GasCosts.SRWQ.Cost(32)); p != nil {
			return p
		}
		key, pp := vm.readHash(in.RB)
		if pp != nil {
			return pp
		}
		val, _, err := vm.storage.GetState(vm.contractID, key)
		if err != nil {
			return newPanic(asm.PanicReasonErrorFlag, in)
		}
		return vm.writeMem(in, vm.regs.Get(in.RA), val[:])

	case asm.SWWQ:
		if p := vm.chargeGas(vm.params.GasCosts.SWWQ.Cost(32)); p != nil {
			return p
		}
		key, pp := vm.readHash(in.RA)
		if pp != nil {
			return pp
		}
		val, pp := vm.readHash(in.RB)
		if pp != nil {
			return pp
		}
		if err := vm.storage.PutState(vm.contractID, key, val); err != nil {
			return newPanic(asm.PanicReasonErrorFlag, in)
		}
		return nil
	}
	return newPanic(asm.PanicReasonInvalidImmediateValue, in)
}
