package tx

import "github.com/fuelvm-go/fuelvm/types"

// InputKind discriminates the variants of Input.
type InputKind uint64

const (
	InputKindCoin InputKind = iota
	InputKindContract
	InputKindMessage
)

// Input spends a coin, references a contract, or consumes a bridged message.
// Only the fields relevant to Kind are populated; others are zero.
type Input struct {
	Kind InputKind

	// Coin and Message fields.
	Owner           types.Address
	Amount          types.Word
	AssetId         types.AssetId
	Nonce           types.Hash
	PredicateGasUsed types.Word
	Predicate        []byte
	PredicateData    []byte

	// Contract fields (UTXOId is also carried by coin inputs).
	UTXOId       types.Hash
	BalanceRoot  types.Hash
	StateRoot    types.Hash
	ContractId   types.ContractId

	// Message-specific.
	Sender   types.Address
	Recipient types.Address
	Data     []byte

	// Coin/Message witness binding.
	WitnessIndex uint16
}

// IsCoin, IsContract, IsMessage discriminate the input kind.
func (in Input) IsCoin() bool     { return in.Kind == InputKindCoin }
func (in Input) IsContract() bool { return in.Kind == InputKindContract }
func (in Input) IsMessage() bool  { return in.Kind == InputKindMessage }

// HasPredicate reports whether this input is owned by a predicate rather
// than a signature (Predicate is non-empty).
func (in Input) HasPredicate() bool { return len(in.Predicate) > 0 }

// Encode appends the canonical encoding of the input to e.
func (in Input) Encode(e *types.Encoder) {
	e.WriteDiscriminant(uint64(in.Kind))
	switch in.Kind {
	case InputKindCoin:
		e.WriteBytes32(in.UTXOId)
		e.WriteBytes32([32]byte(in.Owner))
		e.WriteWord(in.Amount)
		e.WriteBytes32([32]byte(in.AssetId))
		e.WriteU16(uint16(in.WitnessIndex))
		e.WriteWord(in.PredicateGasUsed)
		e.WriteBytes(in.Predicate)
		e.WriteBytes(in.PredicateData)
	case InputKindContract:
		e.WriteBytes32(in.UTXOId)
		e.WriteBytes32(in.BalanceRoot)
		e.WriteBytes32(in.StateRoot)
		e.WriteBytes32([32]byte(in.ContractId))
	case InputKindMessage:
		e.WriteBytes32([32]byte(in.Sender))
		e.WriteBytes32([32]byte(in.Recipient))
		e.WriteWord(in.Amount)
		e.WriteBytes32(in.Nonce)
		e.WriteU16(uint16(in.WitnessIndex))
		e.WriteWord(in.PredicateGasUsed)
		e.WriteBytes(in.Data)
		e.WriteBytes(in.Predicate)
		e.WriteBytes(in.PredicateData)
	}
}

func decodeInput(d *types.Decoder) (Input, error) {
	kindWord, err := d.ReadDiscriminant()
	if err != nil {
		return Input{}, err
	}
	in := Input{Kind: InputKind(kindWord)}
	var err2 error
	switch in.Kind {
	case InputKindCoin:
		in.UTXOId, err2 = readHash(d)
		if err2 == nil {
			var addr [32]byte
			addr, err2 = d.ReadBytes32()
			in.Owner = types.Address(addr)
		}
		if err2 == nil {
			in.Amount, err2 = d.ReadWord()
		}
		if err2 == nil {
			var asset [32]byte
			asset, err2 = d.ReadBytes32()
			in.AssetId = types.AssetId(asset)
		}
		if err2 == nil {
			in.WitnessIndex, err2 = d.ReadU16()
		}
		if err2 == nil {
			in.PredicateGasUsed, err2 = d.ReadWord()
		}
		if err2 == nil {
			in.Predicate, err2 = d.ReadBytes()
		}
		if err2 == nil {
			in.PredicateData, err2 = d.ReadBytes()
		}
	case InputKindContract:
		in.UTXOId, err2 = readHash(d)
		if err2 == nil {
			in.BalanceRoot, err2 = readHash(d)
		}
		if err2 == nil {
			in.StateRoot, err2 = readHash(d)
		}
		if err2 == nil {
			var cid [32]byte
			cid, err2 = d.ReadBytes32()
			in.ContractId = types.ContractId(cid)
		}
	case InputKindMessage:
		var sender, recipient [32]byte
		sender, err2 = d.ReadBytes32()
		in.Sender = types.Address(sender)
		if err2 == nil {
			recipient, err2 = d.ReadBytes32()
			in.Recipient = types.Address(recipient)
		}
		if err2 == nil {
			in.Amount, err2 = d.ReadWord()
		}
		if err2 == nil {
			in.Nonce, err2 = readHash(d)
		}
		if err2 == nil {
			in.WitnessIndex, err2 = d.ReadU16()
		}
		if err2 == nil {
			in.PredicateGasUsed, err2 = d.ReadWord()
		}
		if err2 == nil {
			in.Data, err2 = d.ReadBytes()
		}
		if err2 == nil {
			in.Predicate, err2 = d.ReadBytes()
		}
		if err2 == nil {
			in.PredicateData, err2 = d.ReadBytes()
		}
	}
	if err2 != nil {
		return Input{}, err2
	}
	return in, nil
}

func readHash(d *types.Decoder) (types.Hash, error) { return d.ReadHash() }
