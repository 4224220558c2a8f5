package tx

import (
	"bytes"
	"testing"

	merklebinary "github.com/fuelvm-go/fuelvm/merkle/binary"
	"github.com/fuelvm-go/fuelvm/types"
)

func TestScriptTransactionEncodeDecodeRoundTrip(t *testing.T) {
	txn := &Transaction{
		Kind:       KindScript,
		GasLimit:   1000,
		Script:     []byte{0x10, 0x11, 0x12, 0x13},
		ScriptData: []byte("hello"),
		Inputs: []Input{
			{Kind: InputKindCoin, Amount: 500, WitnessIndex: 0},
		},
		Outputs: []Output{
			{Kind: OutputKindChange, To: types.Address{1}, AssetId: types.AssetId{2}},
		},
		Witnesses: []Witness{{Data: []byte("sig")}},
	}

	encoded := txn.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if decoded.Kind != txn.Kind || decoded.GasLimit != txn.GasLimit {
		t.Fatalf("decoded header mismatch: %+v", decoded)
	}
	if !bytes.Equal(decoded.Script, txn.Script) || !bytes.Equal(decoded.ScriptData, txn.ScriptData) {
		t.Fatalf("decoded script/data mismatch")
	}
	if len(decoded.Inputs) != 1 || decoded.Inputs[0].Amount != 500 {
		t.Fatalf("decoded inputs mismatch: %+v", decoded.Inputs)
	}
	if len(decoded.Outputs) != 1 || decoded.Outputs[0].Kind != OutputKindChange {
		t.Fatalf("decoded outputs mismatch: %+v", decoded.Outputs)
	}
	if len(decoded.Witnesses) != 1 || string(decoded.Witnesses[0].Data) != "sig" {
		t.Fatalf("decoded witnesses mismatch: %+v", decoded.Witnesses)
	}
}

func TestTransactionIDIgnoresWitnessContent(t *testing.T) {
	base := &Transaction{Kind: KindScript, GasLimit: 1, Script: []byte{0x47}}
	withWitness := *base
	withWitness.Witnesses = []Witness{{Data: []byte("anything")}}

	if base.ID() != withWitness.ID() {
		t.Fatalf("ID() should not depend on witness content")
	}
}

func TestCheckFormatRejectsOversizedScript(t *testing.T) {
	params := DefaultParameters().WithScriptParams(ScriptParams{MaxScriptLength: 2, MaxScriptDataLength: 1024})
	txn := &Transaction{Kind: KindScript, Script: []byte{1, 2, 3, 4}}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject script longer than MaxScriptLength")
	}
}

func TestCheckFormatAcceptsWellFormedScript(t *testing.T) {
	params := DefaultParameters()
	txn := &Transaction{
		Kind:     KindScript,
		GasLimit: 10,
		Script:   []byte{0x47, 0x47, 0x47, 0x47},
	}
	ct, err := CheckFormat(txn, params)
	if err != nil {
		t.Fatalf("CheckFormat() error: %v", err)
	}
	if ct.Id != txn.ID() {
		t.Fatalf("CheckedTransaction.Id mismatch")
	}
}

func TestCheckFormatRejectsBadWitnessIndex(t *testing.T) {
	params := DefaultParameters()
	txn := &Transaction{
		Kind: KindScript,
		Inputs: []Input{
			{Kind: InputKindCoin, WitnessIndex: 5},
		},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject out-of-range witness index")
	}
}

func TestReceiptsRootChangesWithOrder(t *testing.T) {
	r1 := Receipt{Kind: ReceiptLog, RA: 1}
	r2 := Receipt{Kind: ReceiptLog, RA: 2}

	rootA := ReceiptsRoot([]Receipt{r1, r2})
	rootB := ReceiptsRoot([]Receipt{r2, r1})
	if rootA == rootB {
		t.Fatalf("ReceiptsRoot should be order-sensitive")
	}
}

func TestUploadCheckVerifiesMerkleProof(t *testing.T) {
	params := DefaultParameters()
	part := []byte("bytecode-part")

	txn := &Transaction{
		Kind:               KindUpload,
		UploadWitnessIndex: 0,
		UploadPartIndex:    0,
		UploadPartsNumber:  1,
		UploadRoot:         types.Hash{}, // placeholder, corrected below
		Witnesses:          []Witness{{Data: part}},
	}
	// A single-leaf tree's root is the leaf hash itself, with an empty proof set.
	txn.UploadRoot = leafSumForTest(part)

	if _, err := CheckFormat(txn, params); err != nil {
		t.Fatalf("CheckFormat() error: %v", err)
	}

	txn.UploadRoot[0] ^= 0xff
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject a tampered upload root")
	}
}

func leafSumForTest(data []byte) types.Hash {
	tr := merklebinary.NewTree()
	tr.Push(data)
	return tr.Root()
}

func TestCheckFormatRejectsDuplicateCoinUtxoId(t *testing.T) {
	params := DefaultParameters()
	utxo := types.Hash{0x42}
	txn := &Transaction{
		Kind: KindScript,
		Inputs: []Input{
			{Kind: InputKindCoin, UTXOId: utxo, Predicate: []byte{0x01}},
			{Kind: InputKindCoin, UTXOId: utxo, Predicate: []byte{0x01}},
		},
	}
	_, err := CheckFormat(txn, params)
	if err == nil {
		t.Fatalf("CheckFormat() should reject duplicate input UTXO ids")
	}
	ce, ok := err.(*CheckError)
	if !ok {
		t.Fatalf("expected *CheckError, got %T", err)
	}
	if ce.Kind != CheckErrorDuplicateInputUtxoId {
		t.Fatalf("expected CheckErrorDuplicateInputUtxoId, got %v", ce.Kind)
	}
	if ce.UtxoId != utxo {
		t.Fatalf("expected UtxoId %x, got %x", utxo, ce.UtxoId)
	}
}

func TestCheckFormatRejectsDuplicateContractInputId(t *testing.T) {
	params := DefaultParameters()
	cid := types.ContractId{0x7}
	txn := &Transaction{
		Kind: KindScript,
		Inputs: []Input{
			{Kind: InputKindContract, ContractId: cid},
			{Kind: InputKindContract, ContractId: cid},
		},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject duplicate contract input ids")
	}
}

func TestCheckFormatRejectsDuplicateMessageNonce(t *testing.T) {
	params := DefaultParameters()
	nonce := types.Hash{0x9}
	txn := &Transaction{
		Kind: KindScript,
		Inputs: []Input{
			{Kind: InputKindMessage, Nonce: nonce, Predicate: []byte{0x01}},
			{Kind: InputKindMessage, Nonce: nonce, Predicate: []byte{0x01}},
		},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject duplicate message nonces")
	}
}

func TestCheckFormatRejectsMultipleChangeOutputsPerAsset(t *testing.T) {
	params := DefaultParameters()
	asset := types.AssetId{0x3}
	txn := &Transaction{
		Kind: KindScript,
		Outputs: []Output{
			{Kind: OutputKindChange, AssetId: asset},
			{Kind: OutputKindChange, AssetId: asset},
		},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject more than one change output per asset")
	}
}

func TestCheckFormatRejectsContractCreatedOutputOnScript(t *testing.T) {
	params := DefaultParameters()
	txn := &Transaction{
		Kind:    KindScript,
		Outputs: []Output{{Kind: OutputKindContractCreated}},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject a contract-created output on a script transaction")
	}
}

func TestCheckFormatRejectsCreateWithContractInput(t *testing.T) {
	params := DefaultParameters()
	txn := &Transaction{
		Kind:   KindCreate,
		Inputs: []Input{{Kind: InputKindContract}},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject a create transaction with a contract input")
	}
}

func TestCheckFormatRejectsCreateWithVariableOutput(t *testing.T) {
	params := DefaultParameters()
	txn := &Transaction{
		Kind:    KindCreate,
		Outputs: []Output{{Kind: OutputKindVariable}},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject a create transaction with a variable output")
	}
}

func TestCheckFormatRejectsCreateWithContractOutput(t *testing.T) {
	params := DefaultParameters()
	txn := &Transaction{
		Kind:    KindCreate,
		Outputs: []Output{{Kind: OutputKindContract}},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject a create transaction with a contract output")
	}
}

func TestCheckFormatRejectsCreateChangeInNonBaseAsset(t *testing.T) {
	params := DefaultParameters()
	txn := &Transaction{
		Kind:    KindCreate,
		Outputs: []Output{{Kind: OutputKindChange, AssetId: types.AssetId{0x1}}},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject create transaction change in a non-base asset")
	}
}

func TestCheckFormatRejectsUnsortedStorageSlots(t *testing.T) {
	params := DefaultParameters()
	txn := &Transaction{
		Kind:      KindCreate,
		Witnesses: []Witness{{Data: []byte{0x1}}},
		StorageSlots: []StorageSlot{
			{Key: types.Hash{0x2}},
			{Key: types.Hash{0x1}},
		},
	}
	if _, err := CheckFormat(txn, params); err == nil {
		t.Fatalf("CheckFormat() should reject storage slots not sorted by key ascending")
	}
}
