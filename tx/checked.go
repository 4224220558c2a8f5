package tx

import (
	"bytes"

	merklebinary "github.com/fuelvm-go/fuelvm/merkle/binary"
	"github.com/fuelvm-go/fuelvm/types"
)

// CheckedTransaction is a transaction that has passed format validation and
// carries the metadata execution needs: its id, byte offsets into its own
// canonical encoding (for GTF), and the fee computed from its gas policy.
type CheckedTransaction struct {
	Tx  *Transaction
	Id  types.Hash
	Fee types.Word

	// FieldOffsets maps a GTF field selector to its byte offset within the
	// transaction's canonical encoding, resolved once at check time so
	// execution's gtf opcode is an O(1) lookup rather than a re-parse.
	FieldOffsets map[uint64]int
}

// CheckFormat validates field counts, sizes, and variant-specific
// invariants against params, without touching signatures or predicates.
// This is phase one of the two-phase checking pipeline described for
// transaction validation. This package has no phase two: signatures are not
// checked here, and predicates are run one at a time by predicate.Verify.
func CheckFormat(t *Transaction, params Parameters) (*CheckedTransaction, error) {
	if uint64(len(t.Inputs)) > uint64(params.TxParams.MaxInputs) {
		return nil, fieldErr("too many inputs", "Inputs")
	}
	if uint64(len(t.Outputs)) > uint64(params.TxParams.MaxOutputs) {
		return nil, fieldErr("too many outputs", "Outputs")
	}
	if uint64(len(t.Witnesses)) > uint64(params.TxParams.MaxWitnesses) {
		return nil, fieldErr("too many witnesses", "Witnesses")
	}

	switch t.Kind {
	case KindScript:
		if uint64(len(t.Script)) > uint64(params.ScriptParams.MaxScriptLength) {
			return nil, fieldErr("script too long", "Script")
		}
		if uint64(len(t.ScriptData)) > uint64(params.ScriptParams.MaxScriptDataLength) {
			return nil, fieldErr("script data too long", "ScriptData")
		}
		if t.GasLimit > params.TxParams.MaxGasPerTx {
			return nil, fieldErr("gas limit exceeds max gas per tx", "GasLimit")
		}
	case KindCreate:
		if uint64(len(t.StorageSlots)) > uint64(params.ContractParams.MaxStorageSlots) {
			return nil, fieldErr("too many storage slots", "StorageSlots")
		}
		if int(t.BytecodeWitnessIndex) >= len(t.Witnesses) {
			return nil, fieldErr("bytecode witness index out of range", "BytecodeWitnessIndex")
		}
		for i := 1; i < len(t.StorageSlots); i++ {
			if bytes.Compare(t.StorageSlots[i-1].Key[:], t.StorageSlots[i].Key[:]) >= 0 {
				return nil, fieldErr("storage slots must be sorted by key ascending", "StorageSlots")
			}
		}
		if err := checkCreateRestrictions(t, params); err != nil {
			return nil, err
		}
	case KindUpload:
		if err := checkUpload(t); err != nil {
			return nil, err
		}
	}

	seenCoinUtxo := make(map[types.Hash]bool, len(t.Inputs))
	seenContractID := make(map[types.ContractId]bool, len(t.Inputs))
	seenMessageNonce := make(map[types.Hash]bool, len(t.Inputs))

	for i, in := range t.Inputs {
		if (in.IsCoin() || in.IsMessage()) && !in.HasPredicate() && int(in.WitnessIndex) >= len(t.Witnesses) {
			return nil, indexErr("witness index out of range", "Inputs", i)
		}
		if in.HasPredicate() && uint64(len(in.Predicate)) > uint64(params.PredicateParams.MaxPredicateLength) {
			return nil, indexErr("predicate too long", "Inputs", i)
		}
		switch {
		case in.IsCoin():
			if seenCoinUtxo[in.UTXOId] {
				return nil, duplicateUtxoErr(in.UTXOId, i)
			}
			seenCoinUtxo[in.UTXOId] = true
		case in.IsContract():
			if seenContractID[in.ContractId] {
				return nil, indexErr("duplicate contract input id", "Inputs", i)
			}
			seenContractID[in.ContractId] = true
		case in.IsMessage():
			if seenMessageNonce[in.Nonce] {
				return nil, indexErr("duplicate message input nonce", "Inputs", i)
			}
			seenMessageNonce[in.Nonce] = true
		}
	}

	seenChangeAsset := make(map[types.AssetId]bool, len(t.Outputs))
	for i, out := range t.Outputs {
		if out.Kind == OutputKindContract && int(out.InputIndex) >= len(t.Inputs) {
			return nil, indexErr("contract output input index out of range", "Outputs", i)
		}
		if out.Kind == OutputKindContractCreated && t.Kind == KindScript {
			return nil, indexErr("contract-created output not allowed in a script transaction", "Outputs", i)
		}
		if out.Kind == OutputKindChange {
			if seenChangeAsset[out.AssetId] {
				return nil, indexErr("more than one change output per asset", "Outputs", i)
			}
			seenChangeAsset[out.AssetId] = true
		}
	}

	ct := &CheckedTransaction{
		Tx:           t,
		Id:           t.ID(),
		FieldOffsets: fieldOffsets(t),
	}
	if t.IsChargeable() {
		ct.Fee = computeFee(t, params)
	}
	return ct, nil
}

// checkCreateRestrictions enforces the narrower set of inputs/outputs a
// contract-deploying transaction is allowed to carry: it cannot reference
// another contract as an input or output, cannot produce a variable output
// (nothing has executed yet to resolve one), and any change it returns must
// be in the base asset since deployment burns no other asset.
func checkCreateRestrictions(t *Transaction, params Parameters) error {
	for i, in := range t.Inputs {
		if in.IsContract() {
			return indexErr("create transaction may not have a contract input", "Inputs", i)
		}
	}
	for i, out := range t.Outputs {
		switch out.Kind {
		case OutputKindVariable:
			return indexErr("create transaction may not have a variable output", "Outputs", i)
		case OutputKindContract:
			return indexErr("create transaction may not have a contract output", "Outputs", i)
		case OutputKindChange:
			if out.AssetId != params.BaseAssetId {
				return indexErr("create transaction change must be in the base asset", "Outputs", i)
			}
		}
	}
	return nil
}

// checkUpload restores the bytecode-part Merkle proof check: the witness at
// WitnessIndex must be the PartIndex-th leaf of a binary Merkle tree whose
// root is Root.
func checkUpload(t *Transaction) error {
	if int(t.UploadWitnessIndex) >= len(t.Witnesses) {
		return fieldErr("upload witness index out of range", "UploadWitnessIndex")
	}
	if t.UploadPartIndex >= t.UploadPartsNumber {
		return fieldErr("upload part index out of range", "UploadPartIndex")
	}
	leaf := t.Witnesses[t.UploadWitnessIndex].Data
	if !merklebinary.Verify(t.UploadRoot, leaf, t.UploadProofSet, uint64(t.UploadPartIndex), uint64(t.UploadPartsNumber)) {
		return fieldErr("bytecode part does not match upload root", "UploadProofSet")
	}
	return nil
}

// computeFee converts metered gas and byte size into the transaction's fee
// using the fee policy's gas-price and per-byte factors.
func computeFee(t *Transaction, params Parameters) types.Word {
	size := types.Word(len(t.Encode()))
	byteFee := size * params.FeeParams.GasPerByte
	gas := t.GasLimit
	gasFee := gas
	total := (byteFee + gasFee) / params.FeeParams.GasPriceFactor
	if t.Policies.Has(PolicyMaxFee) && total > t.Policies.MaxFee {
		total = t.Policies.MaxFee
	}
	return total
}

// GTF field selectors, the subset exposed for O(1) metadata lookups by the
// gtf opcode.
const (
	GTFScriptGasLimit uint64 = iota + 1
	GTFScriptLength
	GTFScriptDataLength
	GTFInputsCount
	GTFOutputsCount
	GTFWitnessesCount
)

// fieldOffsets resolves GTF fields to their byte offsets within the
// transaction's own canonical encoding. Only GTFScriptGasLimit (Script
// transactions) is recorded; the other GTF selectors are answered from the
// decoded transaction directly.
func fieldOffsets(t *Transaction) map[uint64]int {
	// The encoding is reconstructed once here purely to measure offsets;
	// execution never re-parses it, it consults this map.
	e := types.NewEncoder()
	e.WriteDiscriminant(uint64(t.Kind))
	t.Policies.Encode(e)
	offsets := map[uint64]int{}
	if t.Kind == KindScript {
		offsets[GTFScriptGasLimit] = len(e.Bytes())
	}
	return offsets
}
