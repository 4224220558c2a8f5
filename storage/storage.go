// Package storage defines the namespaced key-value tables the interpreter
// and predicate runner read and write during execution, and a reference
// in-memory implementation for tests and the debug CLI.
//
// No concrete disk engine is wired: Storage is an injected abstraction so a
// host can back it with whatever persistence layer it already runs. This
// mirrors how the reference implementation treats its storage provider as a
// trait boundary rather than a concrete database.
package storage

import "github.com/fuelvm-go/fuelvm/types"

// ErrNotFound is returned by Get when a key is absent from a table.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "storage: key not found" }

// ContractCode stores the deployed bytecode for each contract, keyed by
// contract ID.
type ContractCode interface {
	GetCode(id types.ContractId) ([]byte, error)
	ContainsCode(id types.ContractId) (bool, error)
	PutCode(id types.ContractId, code []byte) error
}

// ContractState stores per-contract key-value storage slots, as addressed by
// srw/srwq/sww/swwq.
type ContractState interface {
	GetState(contract types.ContractId, key types.Hash) (types.Hash, bool, error)
	PutState(contract types.ContractId, key, value types.Hash) error
	RemoveState(contract types.ContractId, key types.Hash) (types.Hash, bool, error)
	StateRoot(contract types.ContractId) types.Hash
}

// ContractBalance stores per-contract, per-asset balances consulted and
// mutated by call/transfer/mint/burn.
type ContractBalance interface {
	GetBalance(contract types.ContractId, asset types.AssetId) (types.Word, error)
	SetBalance(contract types.ContractId, asset types.AssetId, amount types.Word) error
	BalanceRoot(contract types.ContractId) types.Hash
}

// Blobs stores content-addressed blob data referenced by a Blob
// transaction's BlobId, consumed by the ldc instruction in blob mode.
type Blobs interface {
	GetBlob(id types.Hash) ([]byte, error)
	ContainsBlob(id types.Hash) (bool, error)
	PutBlob(id types.Hash, data []byte) error
}

// RawCode stores state-transition bytecode uploaded via Upload transactions
// and addressed by its Merkle root.
type RawCode interface {
	GetRawCode(root types.Hash) ([]byte, error)
	PutRawCodePart(root types.Hash, partIndex uint16, data []byte) error
	AssembleRawCode(root types.Hash, partsNumber uint16) ([]byte, error)
}

// Messages stores bridged messages available for a Message input to spend,
// keyed by nonce and removed once spent.
type Messages interface {
	GetMessage(nonce types.Hash) (Message, bool, error)
	PutMessage(msg Message) error
	SpendMessage(nonce types.Hash) error
}

// Message is a bridged deposit available to be consumed as a Message input.
type Message struct {
	Sender    types.Address
	Recipient types.Address
	Nonce     types.Hash
	Amount    types.Word
	Data      []byte
}

// ConsensusParameters stores the versioned parameter sets an Upgrade
// transaction can install, keyed by the hash named in UpgradeHash.
type ConsensusParameters interface {
	GetParameters(hash types.Hash) ([]byte, bool, error)
	PutParameters(hash types.Hash, encoded []byte) error
}

// Storage is the full set of tables execution depends on.
type Storage interface {
	ContractCode
	ContractState
	ContractBalance
	Blobs
	RawCode
	Messages
	ConsensusParameters
}
