// Package tx implements the transaction model: the Script/Create/Mint/
// Upgrade/Upload/Blob transaction types, their inputs/outputs/witnesses,
// consensus-configurable parameters, and the two-phase checking pipeline
// (format validity, then signature/predicate verification) that produces a
// CheckedTransaction ready for execution.
package tx

import "github.com/fuelvm-go/fuelvm/types"

const maxGas types.Word = 100_000_000
const maxSize types.Word = 17 * 1024 * 1024

// TxParams bounds the shape of every transaction regardless of type.
type TxParams struct {
	MaxInputs    types.Word
	MaxOutputs   types.Word
	MaxWitnesses types.Word
	MaxGasPerTx  types.Word
	MaxSize      types.Word
}

// DefaultTxParams mirrors the values suggested by the reference protocol.
func DefaultTxParams() TxParams {
	return TxParams{
		MaxInputs:    255,
		MaxOutputs:   255,
		MaxWitnesses: 255,
		MaxGasPerTx:  maxGas,
		MaxSize:      maxSize,
	}
}

// TxOffset returns the byte offset of the serialized transaction body within
// VM memory, following the TxID | length | balance-table layout.
func (p TxParams) TxOffset() int {
	return types.HashLength + 8 + int(p.MaxInputs)*(types.HashLength+8)
}

func (p TxParams) WithMaxInputs(v types.Word) TxParams    { p.MaxInputs = v; return p }
func (p TxParams) WithMaxOutputs(v types.Word) TxParams   { p.MaxOutputs = v; return p }
func (p TxParams) WithMaxWitnesses(v types.Word) TxParams { p.MaxWitnesses = v; return p }
func (p TxParams) WithMaxGasPerTx(v types.Word) TxParams  { p.MaxGasPerTx = v; return p }
func (p TxParams) WithMaxSize(v types.Word) TxParams      { p.MaxSize = v; return p }

// PredicateParams bounds predicate bytecode and its gas budget.
type PredicateParams struct {
	MaxPredicateLength     types.Word
	MaxPredicateDataLength types.Word
	MaxMessageDataLength   types.Word
	MaxGasPerPredicate     types.Word
}

func DefaultPredicateParams() PredicateParams {
	return PredicateParams{
		MaxPredicateLength:     1024 * 1024,
		MaxPredicateDataLength: 1024 * 1024,
		MaxMessageDataLength:   1024 * 1024,
		MaxGasPerPredicate:     maxGas,
	}
}

func (p PredicateParams) WithMaxPredicateLength(v types.Word) PredicateParams {
	p.MaxPredicateLength = v
	return p
}

func (p PredicateParams) WithMaxGasPerPredicate(v types.Word) PredicateParams {
	p.MaxGasPerPredicate = v
	return p
}

// ScriptParams bounds script bytecode and its input data.
type ScriptParams struct {
	MaxScriptLength     types.Word
	MaxScriptDataLength types.Word
}

func DefaultScriptParams() ScriptParams {
	return ScriptParams{MaxScriptLength: 1024 * 1024, MaxScriptDataLength: 1024 * 1024}
}

// ContractParams bounds contract bytecode and its initial storage.
type ContractParams struct {
	ContractMaxSize types.Word
	MaxStorageSlots types.Word
}

func DefaultContractParams() ContractParams {
	return ContractParams{ContractMaxSize: 16 * 1024 * 1024, MaxStorageSlots: 255}
}

// FeeParams converts metered gas and bytes into the transaction's fee.
type FeeParams struct {
	GasPriceFactor types.Word
	GasPerByte     types.Word
}

func DefaultFeeParams() FeeParams {
	return FeeParams{GasPriceFactor: 1_000_000_000, GasPerByte: 4}
}

// DependentCost models a cost that grows with an operand's size:
// cost(units) = Base + units/PerUnit, saturating on overflow.
type DependentCost struct {
	Base    types.Word
	PerUnit types.Word
}

// Cost evaluates the dependent cost for the given unit count.
func (d DependentCost) Cost(units types.Word) types.Word {
	if d.PerUnit == 0 {
		return d.Base
	}
	extra := units / d.PerUnit
	sum := d.Base + extra
	if sum < d.Base {
		return ^types.Word(0)
	}
	return sum
}

// GasCosts prices every opcode category named by the instruction set, plus
// the length-dependent opcodes that additionally scale with their operand
// size.
type GasCosts struct {
	Atom                types.Word
	Arithmetic          types.Word
	ArithmeticExpensive types.Word
	RegisterWrite       types.Word
	Branching           types.Word
	Hash                types.Word
	MemoryOwnership     types.Word
	MemoryRead          types.Word
	MemoryWrite         types.Word
	Recover             types.Word
	StorageReadTree     types.Word
	StorageWriteTree    types.Word
	StorageWriteWord    types.Word

	Call  DependentCost
	CCP   DependentCost
	CSIZ  DependentCost
	K256  DependentCost
	LDC   DependentCost
	LOGD  DependentCost
	MCL   DependentCost
	MCLI  DependentCost
	MCP   DependentCost
	MCPI  DependentCost
	MEQ   DependentCost
	RETD  DependentCost
	S256  DependentCost
	SMO   DependentCost
	SRWQ  DependentCost
	SWWQ  DependentCost
}

// DefaultGasCosts returns benchmark-derived constants consistent with the
// reference protocol's published values. Every dependent cost defaults to
// per-byte linear pricing (PerUnit=1) with a small fixed base.
func DefaultGasCosts() GasCosts {
	dep := func(base types.Word) DependentCost { return DependentCost{Base: base, PerUnit: 1} }
	return GasCosts{
		Atom:                1,
		Arithmetic:          2,
		ArithmeticExpensive: 8,
		RegisterWrite:       1,
		Branching:           2,
		Hash:                60,
		MemoryOwnership:     2,
		MemoryRead:          3,
		MemoryWrite:         3,
		Recover:             950,
		StorageReadTree:     220,
		StorageWriteTree:    280,
		StorageWriteWord:    60,

		Call: dep(144), CCP: dep(16), CSIZ: dep(17), K256: dep(11), LDC: dep(16),
		LOGD: dep(26), MCL: dep(1), MCLI: dep(1), MCP: dep(1), MCPI: dep(1),
		MEQ: dep(1), RETD: dep(29), S256: dep(2), SMO: dep(64),
		SRWQ: dep(262), SWWQ: dep(328),
	}
}

// Parameters bundles every consensus-configurable knob a transaction is
// checked and a script is executed against.
type Parameters struct {
	TxParams        TxParams
	PredicateParams PredicateParams
	ScriptParams    ScriptParams
	ContractParams  ContractParams
	FeeParams       FeeParams
	GasCosts        GasCosts
	BaseAssetId     types.AssetId
}

// DefaultParameters returns the protocol's suggested consensus parameters.
func DefaultParameters() Parameters {
	return Parameters{
		TxParams:        DefaultTxParams(),
		PredicateParams: DefaultPredicateParams(),
		ScriptParams:    DefaultScriptParams(),
		ContractParams:  DefaultContractParams(),
		FeeParams:       DefaultFeeParams(),
		GasCosts:        DefaultGasCosts(),
	}
}

func (p Parameters) WithTxParams(v TxParams) Parameters               { p.TxParams = v; return p }
func (p Parameters) WithPredicateParams(v PredicateParams) Parameters { p.PredicateParams = v; return p }
func (p Parameters) WithScriptParams(v ScriptParams) Parameters       { p.ScriptParams = v; return p }
func (p Parameters) WithContractParams(v ContractParams) Parameters   { p.ContractParams = v; return p }
func (p Parameters) WithFeeParams(v FeeParams) Parameters             { p.FeeParams = v; return p }
func (p Parameters) WithGasCosts(v GasCosts) Parameters               { p.GasCosts = v; return p }
