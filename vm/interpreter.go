// Package vm implements the register-based interpreter that executes
// scripts, contract calls, and predicates over a flat linear memory,
// dispatching the instruction set defined in package asm.
package vm

import (
	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/internal/logger"
	"github.com/fuelvm-go/fuelvm/storage"
	"github.com/fuelvm-go/fuelvm/tx"
	"github.com/fuelvm-go/fuelvm/types"
)

var log = logger.Module("vm")

// Interpreter executes one script or predicate to completion. It owns its
// own memory and register file; nothing is shared across instances, which
// is what lets predicate verification run many interpreters in parallel.
type Interpreter struct {
	mem   *Memory
	regs  Registers
	pc    types.Word
	code  []byte
	frames []Frame

	storage storage.Storage
	params  tx.Parameters
	checked *tx.CheckedTransaction

	receipts []tx.Receipt

	predicateMode bool
	contractID    types.ContractId
	gasLimit      types.Word

	blockHeight types.Word
	timestamp   types.Word

	ecal func(*Interpreter, asm.Instruction) *Panic

	// availableBalance tracks the transaction's free (script-context)
	// balance per asset: coin and message input amounts, debited as CALL
	// moves value out of the top-level context (TR/TRO fault there with
	// ExpectedInternalContext). It is distinct
	// from storage.Storage's balances, which are persistent per-contract
	// account state, not a per-transaction spending budget.
	availableBalance map[types.AssetId]types.Word

	// initialNonRetryableBalance snapshots availableBalance as it stood
	// before execution, used to reset Change outputs on revert.
	initialNonRetryableBalance map[types.AssetId]types.Word
}

// SetBlockContext installs the block height and timestamp visible to BHEI
// and TIME. Unset, both read as zero.
func (vm *Interpreter) SetBlockContext(height, timestamp types.Word) {
	vm.blockHeight = height
	vm.timestamp = timestamp
}

// SetECALHandler installs the external-call dispatcher used by the ecal
// opcode. Unset, ecal panics with ErrorFlag.
func (vm *Interpreter) SetECALHandler(h func(*Interpreter, asm.Instruction) *Panic) {
	vm.ecal = h
}

// Storage exposes the interpreter's backing store to an ecal handler.
func (vm *Interpreter) Storage() storage.Storage { return vm.storage }

// Checked exposes the transaction being executed to an ecal handler.
func (vm *Interpreter) Checked() *tx.CheckedTransaction { return vm.checked }

// ContractID returns the contract currently executing, or the zero value at
// the top level of a script.
func (vm *Interpreter) ContractID() types.ContractId { return vm.contractID }

// Mem exposes the interpreter's linear memory to an ecal handler.
func (vm *Interpreter) Mem() *Memory { return vm.mem }

// Regs exposes the interpreter's register file to an ecal handler.
func (vm *Interpreter) Regs() *Registers { return &vm.regs }

// Timestamp returns the block timestamp installed by SetBlockContext.
func (vm *Interpreter) Timestamp() types.Word { return vm.timestamp }

// BlockHeight returns the block height installed by SetBlockContext.
func (vm *Interpreter) BlockHeight() types.Word { return vm.blockHeight }

// New constructs an interpreter ready to run code against st, charging gas
// according to params and the transaction's remaining gas budget.
func New(checked *tx.CheckedTransaction, st storage.Storage, params tx.Parameters) *Interpreter {
	vm := &Interpreter{
		mem:              NewMemory(),
		regs:             NewRegisters(),
		storage:          st,
		params:           params,
		checked:          checked,
		availableBalance: map[types.AssetId]types.Word{},
	}
	if checked != nil && checked.Tx != nil {
		vm.gasLimit = checked.Tx.GasLimit
		vm.regs.Set(types.RegGGas, checked.Tx.GasLimit)
		vm.regs.Set(types.RegCGas, checked.Tx.GasLimit)
		for _, in := range checked.Tx.Inputs {
			switch {
			case in.IsCoin():
				vm.availableBalance[in.AssetId] += in.Amount
			case in.IsMessage():
				vm.availableBalance[params.BaseAssetId] += in.Amount
			}
		}
	}
	vm.initialNonRetryableBalance = make(map[types.AssetId]types.Word, len(vm.availableBalance))
	for asset, amount := range vm.availableBalance {
		vm.initialNonRetryableBalance[asset] = amount
	}
	return vm
}

// NewPredicate constructs an interpreter restricted to the predicate-allowed
// opcode subset, with its own isolated gas bound. checked may be nil if the
// caller has no use for the predicate observing transaction fields via gtf.
func NewPredicate(code []byte, gasLimit types.Word, params tx.Parameters, checked *tx.CheckedTransaction) *Interpreter {
	vm := &Interpreter{
		mem:           NewMemory(),
		regs:          NewRegisters(),
		params:        params,
		predicateMode: true,
		code:          code,
		gasLimit:      gasLimit,
		checked:       checked,
	}
	vm.regs.Set(types.RegGGas, gasLimit)
	vm.regs.Set(types.RegCGas, gasLimit)
	return vm
}

// LoadCode installs the bytecode to execute and resets the program counter.
func (vm *Interpreter) LoadCode(code []byte) {
	vm.code = code
	vm.pc = 0
	vm.regs.Set(types.RegPC, 0)
	vm.regs.Set(types.RegIS, 0)
}

// Receipts returns the receipt log accumulated so far.
func (vm *Interpreter) Receipts() []tx.Receipt { return append([]tx.Receipt(nil), vm.receipts...) }

func (vm *Interpreter) emit(r tx.Receipt) { vm.receipts = append(vm.receipts, r) }

// Run executes instructions until the program halts (via RET/RETD/RVRT) or
// faults, appending the corresponding receipt in either case. A halt via
// haltMarker is not itself a fault: the RET/RETD/RVRT handler has already
// emitted its own receipt, so Run just stops.
func (vm *Interpreter) Run() ([]tx.Receipt, error) {
	for {
		p := vm.Step()
		if p == nil {
			continue
		}
		if p != haltMarker {
			vm.emit(tx.Receipt{
				Kind:    tx.ReceiptPanic,
				Result:  asm.InstructionResult{Reason: p.Reason, Instruction: p.Instruction}.Word(),
				GasUsed: vm.gasUsed(),
			})
		}
		if rp := vm.reconcileOutputs(); rp != nil {
			vm.emit(tx.Receipt{
				Kind:    tx.ReceiptPanic,
				Result:  asm.InstructionResult{Reason: rp.Reason, Instruction: rp.Instruction}.Word(),
				GasUsed: vm.gasUsed(),
			})
		}
		return vm.Receipts(), nil
	}
}

// reverted reports whether the run just completed with a revert or a fault,
// as opposed to an ordinary return, by inspecting the receipt log's tail.
func (vm *Interpreter) reverted() bool {
	if len(vm.receipts) == 0 {
		return false
	}
	switch vm.receipts[len(vm.receipts)-1].Kind {
	case tx.ReceiptRevert, tx.ReceiptPanic:
		return true
	default:
		return false
	}
}

// reconcileOutputs sets the final amount of every Change and Variable
// output once execution has stopped. Change receives whatever free balance
// remains for its asset, or is reset to the balance the transaction started
// with if the run reverted; in both cases a base-asset Change also receives
// the unspent gas. Variable outputs keep the amount the transaction gave
// them on success (TRO emits a receipt but does not write to any output)
// and are zeroed on revert. Coin, Contract, and ContractCreated outputs are
// untouched: they are fixed by the transaction itself, not by execution.
func (vm *Interpreter) reconcileOutputs() *Panic {
	if vm.checked == nil || vm.checked.Tx == nil {
		return nil
	}
	reverted := vm.reverted()
	gasRefund := vm.regs.Get(types.RegGGas)
	outputs := vm.checked.Tx.Outputs
	for i := range outputs {
		switch outputs[i].Kind {
		case tx.OutputKindChange:
			base := vm.availableBalance[outputs[i].AssetId]
			if reverted {
				base = vm.initialNonRetryableBalance[outputs[i].AssetId]
			}
			amount := base
			if outputs[i].AssetId == vm.params.BaseAssetId {
				amount = base + gasRefund
				if amount < base {
					return &Panic{Reason: asm.PanicReasonBalanceOverflow}
				}
			}
			outputs[i].Amount = amount
		case tx.OutputKindVariable:
			if reverted {
				outputs[i].Amount = 0
			}
		}
	}
	return nil
}

func (vm *Interpreter) gasUsed() types.Word {
	return vm.gasLimit - vm.regs.Get(types.RegGGas)
}

// Step decodes and executes a single instruction, advancing PC unless the
// instruction itself branches. A non-nil return is either a fault or, if it
// is haltMarker, a clean halt already recorded by the handler that raised it.
func (vm *Interpreter) Step() *Panic {
	// The active frame's loaded code is its entire executable region: PC
	// below zero can't occur, and PC past len(vm.code) has walked off the
	// end of it. RegIS marks the start of this window (set once by
	// LoadCode/execCall, not touched per instruction) for anything that
	// needs to re-derive the frame's code bounds from the register file.
	if vm.pc+4 > types.Word(len(vm.code)) {
		return newPanic(asm.PanicReasonMemoryNotExecutable, asm.Instruction{})
	}
	var word [4]byte
	copy(word[:], vm.code[vm.pc:vm.pc+4])
	in, err := asm.Decode(word)
	if err != nil {
		return newPanic(asm.PanicReasonInvalidImmediateValue, in)
	}

	if vm.predicateMode && !in.Op.IsPredicateAllowed() {
		return newPanic(asm.PanicReasonContractInstructionNotAllowed, in)
	}

	if err := vm.checkRegisterWrites(in); err != nil {
		return err
	}

	if p := vm.chargeGas(vm.gasAtom()); p != nil {
		return p
	}

	vm.regs.Set(types.RegPC, vm.pc)

	jumped, p := vm.execute(in)
	if p != nil {
		return p
	}
	if !jumped {
		vm.pc += 4
	}
	return nil
}

// checkRegisterWrites rejects instructions that target a reserved register
// as a write operand, mirroring the protocol's uniform validity rule rather
// than re-deriving it per opcode.
func (vm *Interpreter) checkRegisterWrites(in asm.Instruction) *Panic {
	if !writesToRA(in.Op) {
		return nil
	}
	if in.RA.IsReserved() {
		return newPanic(asm.PanicReasonReservedRegisterNotWritable, in)
	}
	return nil
}
