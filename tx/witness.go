package tx

import "github.com/fuelvm-go/fuelvm/types"

// Witness holds raw signature or predicate-data bytes referenced by index
// from the inputs that consume them.
type Witness struct {
	Data []byte
}

func (w Witness) Encode(e *types.Encoder) { e.WriteBytes(w.Data) }

func decodeWitness(d *types.Decoder) (Witness, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return Witness{}, err
	}
	return Witness{Data: b}, nil
}

// StorageSlot is one key/value pair a Create transaction seeds a new
// contract's state with.
type StorageSlot struct {
	Key   types.Hash
	Value types.Hash
}

func (s StorageSlot) Encode(e *types.Encoder) {
	e.WriteBytes32(s.Key)
	e.WriteBytes32(s.Value)
}

func decodeStorageSlot(d *types.Decoder) (StorageSlot, error) {
	k, err := d.ReadHash()
	if err != nil {
		return StorageSlot{}, err
	}
	v, err := d.ReadHash()
	if err != nil {
		return StorageSlot{}, err
	}
	return StorageSlot{Key: k, Value: v}, nil
}

// Policies carries optional transaction-level knobs (tip, witness limit,
// maturity, max fee) each gated by a bit in a present-fields bitmask.
type Policies struct {
	Bits        uint32
	Tip         types.Word
	WitnessLimit types.Word
	Maturity    uint32
	MaxFee      types.Word
}

const (
	PolicyTip uint32 = 1 << iota
	PolicyWitnessLimit
	PolicyMaturity
	PolicyMaxFee
)

func (p Policies) Has(bit uint32) bool { return p.Bits&bit != 0 }

func (p Policies) Encode(e *types.Encoder) {
	e.WriteU32(p.Bits)
	if p.Has(PolicyTip) {
		e.WriteWord(p.Tip)
	}
	if p.Has(PolicyWitnessLimit) {
		e.WriteWord(p.WitnessLimit)
	}
	if p.Has(PolicyMaturity) {
		e.WriteU32(p.Maturity)
	}
	if p.Has(PolicyMaxFee) {
		e.WriteWord(p.MaxFee)
	}
}

func decodePolicies(d *types.Decoder) (Policies, error) {
	bits, err := d.ReadU32()
	if err != nil {
		return Policies{}, err
	}
	p := Policies{Bits: bits}
	if p.Has(PolicyTip) {
		if p.Tip, err = d.ReadWord(); err != nil {
			return Policies{}, err
		}
	}
	if p.Has(PolicyWitnessLimit) {
		if p.WitnessLimit, err = d.ReadWord(); err != nil {
			return Policies{}, err
		}
	}
	if p.Has(PolicyMaturity) {
		if p.Maturity, err = d.ReadU32(); err != nil {
			return Policies{}, err
		}
	}
	if p.Has(PolicyMaxFee) {
		if p.MaxFee, err = d.ReadWord(); err != nil {
			return Policies{}, err
		}
	}
	return p, nil
}
