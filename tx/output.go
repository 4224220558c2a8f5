package tx

import "github.com/fuelvm-go/fuelvm/types"

// OutputKind discriminates the variants of Output.
type OutputKind uint64

const (
	OutputKindCoin OutputKind = iota
	OutputKindContract
	OutputKindChange
	OutputKindVariable
	OutputKindContractCreated
)

// Output describes a value produced by a transaction: a coin paid to an
// address, an updated contract's new balance/state roots, leftover change
// returned to the sender, a variable output whose amount/owner are resolved
// at execution time by TRO, or the identity of a newly created contract.
type Output struct {
	Kind OutputKind

	To      types.Address
	Amount  types.Word
	AssetId types.AssetId

	InputIndex  uint16
	BalanceRoot types.Hash
	StateRoot   types.Hash

	ContractId types.ContractId
}

func (o Output) Encode(e *types.Encoder) {
	e.WriteDiscriminant(uint64(o.Kind))
	switch o.Kind {
	case OutputKindCoin, OutputKindChange, OutputKindVariable:
		e.WriteBytes32(o.To)
		e.WriteWord(o.Amount)
		e.WriteBytes32(o.AssetId)
	case OutputKindContract:
		e.WriteU16(o.InputIndex)
		e.WriteBytes32(o.BalanceRoot)
		e.WriteBytes32(o.StateRoot)
	case OutputKindContractCreated:
		e.WriteBytes32([32]byte(o.ContractId))
		e.WriteBytes32(o.StateRoot)
	}
}

func decodeOutput(d *types.Decoder) (Output, error) {
	kindWord, err := d.ReadDiscriminant()
	if err != nil {
		return Output{}, err
	}
	out := Output{Kind: OutputKind(kindWord)}
	switch out.Kind {
	case OutputKindCoin, OutputKindChange, OutputKindVariable:
		to, err := d.ReadBytes32()
		if err != nil {
			return Output{}, err
		}
		out.To = types.Address(to)
		if out.Amount, err = d.ReadWord(); err != nil {
			return Output{}, err
		}
		asset, err := d.ReadBytes32()
		if err != nil {
			return Output{}, err
		}
		out.AssetId = types.AssetId(asset)
	case OutputKindContract:
		idx, err := d.ReadU16()
		if err != nil {
			return Output{}, err
		}
		out.InputIndex = idx
		if out.BalanceRoot, err = d.ReadHash(); err != nil {
			return Output{}, err
		}
		if out.StateRoot, err = d.ReadHash(); err != nil {
			return Output{}, err
		}
	case OutputKindContractCreated:
		cid, err := d.ReadBytes32()
		if err != nil {
			return Output{}, err
		}
		out.ContractId = types.ContractId(cid)
		if out.StateRoot, err = d.ReadHash(); err != nil {
			return Output{}, err
		}
	}
	return out, nil
}
