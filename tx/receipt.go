package tx

import (
	merklebinary "github.com/fuelvm-go/fuelvm/merkle/binary"
	"github.com/fuelvm-go/fuelvm/types"
)

// ReceiptKind discriminates the receipt variants a script or predicate
// execution can append to its receipt log.
type ReceiptKind uint64

const (
	ReceiptCall ReceiptKind = iota
	ReceiptReturn
	ReceiptReturnData
	ReceiptRevert
	ReceiptLog
	ReceiptLogData
	ReceiptTransfer
	ReceiptTransferOut
	ReceiptScriptResult
	ReceiptPanic
	ReceiptBurn
	ReceiptMint
	ReceiptMessageOut
)

// Receipt records one side effect or outcome of executing a single
// instruction or the script as a whole. The receipt log is append-only and
// order-sensitive: it is Merkleized exactly in emission order.
type Receipt struct {
	Kind ReceiptKind

	From types.ContractId
	To   types.ContractId

	Amount  types.Word
	AssetId types.AssetId

	RA, RB, RC, RD types.Word
	PC, IS         types.Word

	Data []byte

	Result     types.Word
	GasUsed    types.Word

	Sender    types.Address
	Recipient types.Address
	Nonce     types.Hash
}

// Encode appends the canonical encoding of the receipt to e.
func (r Receipt) Encode(e *types.Encoder) {
	e.WriteDiscriminant(uint64(r.Kind))
	e.WriteBytes32(r.From)
	e.WriteBytes32(r.To)
	e.WriteWord(r.Amount)
	e.WriteBytes32(r.AssetId)
	e.WriteWord(r.RA)
	e.WriteWord(r.RB)
	e.WriteWord(r.RC)
	e.WriteWord(r.RD)
	e.WriteWord(r.PC)
	e.WriteWord(r.IS)
	e.WriteBytes(r.Data)
	e.WriteWord(r.Result)
	e.WriteWord(r.GasUsed)
	e.WriteBytes32(r.Sender)
	e.WriteBytes32(r.Recipient)
	e.WriteBytes32(r.Nonce)
}

func (r Receipt) encodedBytes() []byte {
	e := types.NewEncoder()
	r.Encode(e)
	return e.Bytes()
}

// ReceiptsRoot computes the binary Merkle root over receipts in emission
// order, as included in a block header.
func ReceiptsRoot(receipts []Receipt) types.Hash {
	tr := merklebinary.NewTree()
	for _, r := range receipts {
		tr.Push(r.encodedBytes())
	}
	return tr.Root()
}
