package asm

import "github.com/fuelvm-go/fuelvm/types"

// PanicReason enumerates why the interpreter halted a predicate or script
// with a non-revert panic. Values and byte assignments follow the protocol's
// published reason codes; 0x00 is reserved and never produced.
type PanicReason uint8

const (
	PanicReasonReserved                     PanicReason = 0x00
	PanicReasonRevert                       PanicReason = 0x01
	PanicReasonOutOfGas                     PanicReason = 0x02
	PanicReasonTransactionValidity          PanicReason = 0x03
	PanicReasonMemoryOverflow               PanicReason = 0x04
	PanicReasonArithmeticOverflow           PanicReason = 0x05
	PanicReasonContractNotFound             PanicReason = 0x06
	PanicReasonMemoryOwnership              PanicReason = 0x07
	PanicReasonNotEnoughBalance             PanicReason = 0x08
	PanicReasonExpectedInternalContext      PanicReason = 0x09
	PanicReasonAssetIdNotFound              PanicReason = 0x0a
	PanicReasonInputNotFound                PanicReason = 0x0b
	PanicReasonOutputNotFound               PanicReason = 0x0c
	PanicReasonWitnessNotFound              PanicReason = 0x0d
	PanicReasonTransactionMaturity          PanicReason = 0x0e
	PanicReasonInvalidMetadataIdentifier    PanicReason = 0x0f
	PanicReasonMalformedCallStructure       PanicReason = 0x10
	PanicReasonReservedRegisterNotWritable  PanicReason = 0x11
	PanicReasonErrorFlag                    PanicReason = 0x12
	PanicReasonInvalidImmediateValue        PanicReason = 0x13
	PanicReasonExpectedCoinInput            PanicReason = 0x14
	PanicReasonMaxMemoryAccess              PanicReason = 0x15
	PanicReasonMemoryWriteOverlap           PanicReason = 0x16
	PanicReasonContractNotInInputs          PanicReason = 0x17
	PanicReasonInternalBalanceOverflow      PanicReason = 0x18
	PanicReasonContractMaxSize              PanicReason = 0x19
	PanicReasonExpectedUnallocatedStack     PanicReason = 0x1a
	PanicReasonMaxStaticContractsReached    PanicReason = 0x1b
	PanicReasonTransferAmountCannotBeZero   PanicReason = 0x1c
	PanicReasonExpectedOutputVariable       PanicReason = 0x1d
	PanicReasonExpectedParentInternalContext PanicReason = 0x1e
	// PanicReasonPredicateGasExceeded names a predicate exceeding its own
	// gas bound. No code path in this module produces it: a predicate that
	// runs out of gas faults with OutOfGas.
	PanicReasonPredicateGasExceeded PanicReason = 0x1f
	PanicReasonIllegalJump           PanicReason = 0x20
	// PanicReasonContractInstructionNotAllowed is reported when predicate
	// context hits an opcode reserved for contract execution, distinct from
	// ErrorFlag (which stays reserved for ALU-level unsafe-math faults).
	PanicReasonContractInstructionNotAllowed PanicReason = 0x21
	// PanicReasonMemoryNotExecutable is reported when the program counter
	// leaves the bytecode loaded for the active frame.
	PanicReasonMemoryNotExecutable PanicReason = 0x22
	// PanicReasonBalanceOverflow is reported when post-execution output
	// reconciliation cannot represent a Change or Variable amount.
	PanicReasonBalanceOverflow PanicReason = 0x23
)

var panicReasonNames = map[PanicReason]string{
	PanicReasonRevert:                        "Revert",
	PanicReasonOutOfGas:                      "OutOfGas",
	PanicReasonTransactionValidity:           "TransactionValidity",
	PanicReasonMemoryOverflow:                "MemoryOverflow",
	PanicReasonArithmeticOverflow:            "ArithmeticOverflow",
	PanicReasonContractNotFound:              "ContractNotFound",
	PanicReasonMemoryOwnership:               "MemoryOwnership",
	PanicReasonNotEnoughBalance:              "NotEnoughBalance",
	PanicReasonExpectedInternalContext:       "ExpectedInternalContext",
	PanicReasonAssetIdNotFound:               "AssetIdNotFound",
	PanicReasonInputNotFound:                 "InputNotFound",
	PanicReasonOutputNotFound:                "OutputNotFound",
	PanicReasonWitnessNotFound:               "WitnessNotFound",
	PanicReasonTransactionMaturity:           "TransactionMaturity",
	PanicReasonInvalidMetadataIdentifier:     "InvalidMetadataIdentifier",
	PanicReasonMalformedCallStructure:        "MalformedCallStructure",
	PanicReasonReservedRegisterNotWritable:   "ReservedRegisterNotWritable",
	PanicReasonErrorFlag:                     "ErrorFlag",
	PanicReasonInvalidImmediateValue:         "InvalidImmediateValue",
	PanicReasonExpectedCoinInput:             "ExpectedCoinInput",
	PanicReasonMaxMemoryAccess:               "MaxMemoryAccess",
	PanicReasonMemoryWriteOverlap:            "MemoryWriteOverlap",
	PanicReasonContractNotInInputs:           "ContractNotInInputs",
	PanicReasonInternalBalanceOverflow:       "InternalBalanceOverflow",
	PanicReasonContractMaxSize:               "ContractMaxSize",
	PanicReasonExpectedUnallocatedStack:      "ExpectedUnallocatedStack",
	PanicReasonMaxStaticContractsReached:     "MaxStaticContractsReached",
	PanicReasonTransferAmountCannotBeZero:    "TransferAmountCannotBeZero",
	PanicReasonExpectedOutputVariable:        "ExpectedOutputVariable",
	PanicReasonExpectedParentInternalContext: "ExpectedParentInternalContext",
	PanicReasonPredicateGasExceeded:          "PredicateGasExceeded",
	PanicReasonIllegalJump:                   "IllegalJump",
	PanicReasonContractInstructionNotAllowed: "ContractInstructionNotAllowed",
	PanicReasonMemoryNotExecutable:           "MemoryNotExecutable",
	PanicReasonBalanceOverflow:               "BalanceOverflow",
}

func (r PanicReason) String() string {
	if n, ok := panicReasonNames[r]; ok {
		return n
	}
	return "Unknown"
}

const (
	reasonOffset      = 56
	instructionOffset = 24
)

// InstructionResult packs a panic reason and the instruction word that
// caused it into a single Word, as stored in the ERR register and surfaced
// on Panic receipts.
type InstructionResult struct {
	Reason      PanicReason
	Instruction uint32
}

// Word packs r into the VM's ERR-register representation:
// reason:u8 occupies the top byte, the offending instruction's 32 bits sit
// just below it, and the low 24 bits are always zero.
func (r InstructionResult) Word() types.Word {
	if r.Reason == PanicReasonReserved {
		return 0
	}
	return types.Word(r.Reason)<<reasonOffset | types.Word(r.Instruction)<<instructionOffset
}

// InstructionResultFromWord unpacks a Word previously produced by Word.
func InstructionResultFromWord(w types.Word) InstructionResult {
	reason := PanicReason(w >> reasonOffset)
	if reason == PanicReasonReserved {
		return InstructionResult{}
	}
	instr := uint32(w >> instructionOffset)
	return InstructionResult{Reason: reason, Instruction: instr}
}
