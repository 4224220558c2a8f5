package tx

import (
	"github.com/fuelvm-go/fuelvm/crypto"
	"github.com/fuelvm-go/fuelvm/types"
)

// Kind discriminates the six transaction variants.
type Kind uint64

const (
	KindScript Kind = iota
	KindCreate
	KindMint
	KindUpgrade
	KindUpload
	KindBlob
)

// Transaction is the sum of every variant this protocol accepts. Only the
// fields relevant to Kind are populated; a single concrete struct (rather
// than per-kind Go types) keeps checking and execution free of type
// switches on every field access, at the cost of some always-zero fields on
// any given value.
type Transaction struct {
	Kind Kind

	Policies Policies
	Inputs   []Input
	Outputs  []Output
	Witnesses []Witness

	// Script.
	Script       []byte
	ScriptData   []byte
	GasLimit     types.Word

	// Create.
	BytecodeWitnessIndex uint16
	Salt                 types.Salt
	StorageSlots         []StorageSlot

	// Mint.
	InputContract  Input
	OutputContract Output
	MintAmount     types.Word
	MintAssetId    types.AssetId

	// Upgrade: either a consensus-parameters hash or a state-transition
	// bytecode root, discriminated by UpgradePurposeIsBytecode.
	UpgradePurposeIsBytecode bool
	UpgradeHash              types.Hash

	// Upload.
	UploadRoot        types.Hash
	UploadWitnessIndex uint16
	UploadPartIndex    uint16
	UploadPartsNumber  uint16
	UploadProofSet     []types.Hash

	// Blob.
	BlobId            types.Hash
	BlobWitnessIndex  uint16
}

// Encode serializes the transaction to its canonical wire form.
func (t *Transaction) Encode() []byte {
	e := types.NewEncoder()
	e.WriteDiscriminant(uint64(t.Kind))
	t.Policies.Encode(e)

	switch t.Kind {
	case KindScript:
		e.WriteWord(t.GasLimit)
		e.WriteBytes(t.Script)
		e.WriteBytes(t.ScriptData)
	case KindCreate:
		e.WriteU16(t.BytecodeWitnessIndex)
		e.WriteBytes32(t.Salt)
		e.WriteVecLen(len(t.StorageSlots))
		for _, s := range t.StorageSlots {
			s.Encode(e)
		}
	case KindMint:
		t.InputContract.Encode(e)
		t.OutputContract.Encode(e)
		e.WriteWord(t.MintAmount)
		e.WriteBytes32(t.MintAssetId)
	case KindUpgrade:
		if t.UpgradePurposeIsBytecode {
			e.WriteDiscriminant(1)
		} else {
			e.WriteDiscriminant(0)
		}
		e.WriteBytes32(t.UpgradeHash)
	case KindUpload:
		e.WriteBytes32(t.UploadRoot)
		e.WriteU16(t.UploadWitnessIndex)
		e.WriteU16(t.UploadPartIndex)
		e.WriteU16(t.UploadPartsNumber)
		e.WriteVecLen(len(t.UploadProofSet))
		for _, h := range t.UploadProofSet {
			e.WriteBytes32(h)
		}
	case KindBlob:
		e.WriteBytes32(t.BlobId)
		e.WriteU16(t.BlobWitnessIndex)
	}

	e.WriteVecLen(len(t.Inputs))
	for _, in := range t.Inputs {
		in.Encode(e)
	}
	e.WriteVecLen(len(t.Outputs))
	for _, out := range t.Outputs {
		out.Encode(e)
	}
	e.WriteVecLen(len(t.Witnesses))
	for _, w := range t.Witnesses {
		w.Encode(e)
	}
	return e.Bytes()
}

// ID computes the transaction's identifying hash: the canonical encoding of
// the transaction with every witness and predicate-gas-used field zeroed
// out, hashed with Keccak-256.
func (t *Transaction) ID() types.Hash {
	stripped := *t
	stripped.Witnesses = make([]Witness, len(t.Witnesses))
	stripped.Inputs = append([]Input(nil), t.Inputs...)
	for i := range stripped.Inputs {
		stripped.Inputs[i].PredicateGasUsed = 0
	}
	return crypto.Keccak256(stripped.Encode())
}

// Decode parses a transaction from its canonical wire form.
func Decode(b []byte) (*Transaction, error) {
	d := types.NewDecoder(b)
	kindWord, err := d.ReadDiscriminant()
	if err != nil {
		return nil, err
	}
	t := &Transaction{Kind: Kind(kindWord)}
	if t.Policies, err = decodePolicies(d); err != nil {
		return nil, err
	}

	switch t.Kind {
	case KindScript:
		if t.GasLimit, err = d.ReadWord(); err != nil {
			return nil, err
		}
		if t.Script, err = d.ReadBytes(); err != nil {
			return nil, err
		}
		if t.ScriptData, err = d.ReadBytes(); err != nil {
			return nil, err
		}
	case KindCreate:
		if t.BytecodeWitnessIndex, err = d.ReadU16(); err != nil {
			return nil, err
		}
		salt, err := d.ReadBytes32()
		if err != nil {
			return nil, err
		}
		t.Salt = types.Salt(salt)
		n, err := d.ReadVecLen()
		if err != nil {
			return nil, err
		}
		t.StorageSlots = make([]StorageSlot, n)
		for i := range t.StorageSlots {
			if t.StorageSlots[i], err = decodeStorageSlot(d); err != nil {
				return nil, err
			}
		}
	case KindMint:
		if t.InputContract, err = decodeInput(d); err != nil {
			return nil, err
		}
		if t.OutputContract, err = decodeOutput(d); err != nil {
			return nil, err
		}
		if t.MintAmount, err = d.ReadWord(); err != nil {
			return nil, err
		}
		asset, err := d.ReadBytes32()
		if err != nil {
			return nil, err
		}
		t.MintAssetId = types.AssetId(asset)
	case KindUpgrade:
		purpose, err := d.ReadDiscriminant()
		if err != nil {
			return nil, err
		}
		t.UpgradePurposeIsBytecode = purpose == 1
		if t.UpgradeHash, err = d.ReadHash(); err != nil {
			return nil, err
		}
	case KindUpload:
		if t.UploadRoot, err = d.ReadHash(); err != nil {
			return nil, err
		}
		if t.UploadWitnessIndex, err = d.ReadU16(); err != nil {
			return nil, err
		}
		if t.UploadPartIndex, err = d.ReadU16(); err != nil {
			return nil, err
		}
		if t.UploadPartsNumber, err = d.ReadU16(); err != nil {
			return nil, err
		}
		n, err := d.ReadVecLen()
		if err != nil {
			return nil, err
		}
		t.UploadProofSet = make([]types.Hash, n)
		for i := range t.UploadProofSet {
			if t.UploadProofSet[i], err = d.ReadHash(); err != nil {
				return nil, err
			}
		}
	case KindBlob:
		if t.BlobId, err = d.ReadHash(); err != nil {
			return nil, err
		}
		if t.BlobWitnessIndex, err = d.ReadU16(); err != nil {
			return nil, err
		}
	}

	nIn, err := d.ReadVecLen()
	if err != nil {
		return nil, err
	}
	t.Inputs = make([]Input, nIn)
	for i := range t.Inputs {
		if t.Inputs[i], err = decodeInput(d); err != nil {
			return nil, err
		}
	}

	nOut, err := d.ReadVecLen()
	if err != nil {
		return nil, err
	}
	t.Outputs = make([]Output, nOut)
	for i := range t.Outputs {
		if t.Outputs[i], err = decodeOutput(d); err != nil {
			return nil, err
		}
	}

	nWit, err := d.ReadVecLen()
	if err != nil {
		return nil, err
	}
	t.Witnesses = make([]Witness, nWit)
	for i := range t.Witnesses {
		if t.Witnesses[i], err = decodeWitness(d); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// IsChargeable reports whether this transaction variant carries gas/fee
// accounting (everything but Mint, which is block-producer-only).
func (t *Transaction) IsChargeable() bool { return t.Kind != KindMint }
