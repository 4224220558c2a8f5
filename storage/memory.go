package storage

import (
	"fmt"
	"sync"

	merklesparse "github.com/fuelvm-go/fuelvm/merkle/sparse"
	"github.com/fuelvm-go/fuelvm/types"
)

// Memory is an in-memory Storage implementation safe for concurrent use,
// intended for tests and the debug CLI rather than a production node.
type Memory struct {
	mu sync.RWMutex

	code map[types.ContractId][]byte
	state map[types.ContractId]*merklesparse.Tree

	balances map[types.ContractId]map[types.AssetId]types.Word

	blobs   map[types.Hash][]byte
	rawCode map[types.Hash]map[uint16][]byte

	messages map[types.Hash]Message
	params   map[types.Hash][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		code:     make(map[types.ContractId][]byte),
		state:    make(map[types.ContractId]*merklesparse.Tree),
		balances: make(map[types.ContractId]map[types.AssetId]types.Word),
		blobs:    make(map[types.Hash][]byte),
		rawCode:  make(map[types.Hash]map[uint16][]byte),
		messages: make(map[types.Hash]Message),
		params:   make(map[types.Hash][]byte),
	}
}

func (m *Memory) GetCode(id types.ContractId) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.code[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), code...), nil
}

func (m *Memory) ContainsCode(id types.ContractId) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.code[id]
	return ok, nil
}

func (m *Memory) PutCode(id types.ContractId, code []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.code[id] = append([]byte(nil), code...)
	return nil
}

func (m *Memory) stateTree(contract types.ContractId) *merklesparse.Tree {
	t, ok := m.state[contract]
	if !ok {
		t = merklesparse.NewTree()
		m.state[contract] = t
	}
	return t
}

func (m *Memory) GetState(contract types.ContractId, key types.Hash) (types.Hash, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.state[contract]
	if !ok {
		return types.Hash{}, false, nil
	}
	value, ok := t.Get(merklesparse.HashKey(key[:]))
	if !ok {
		return types.Hash{}, false, nil
	}
	return types.BytesToHash(value), true, nil
}

func (m *Memory) PutState(contract types.ContractId, key, value types.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateTree(contract).Update(merklesparse.HashKey(key[:]), value[:])
	return nil
}

func (m *Memory) RemoveState(contract types.ContractId, key types.Hash) (types.Hash, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.state[contract]
	if !ok {
		return types.Hash{}, false, nil
	}
	hk := merklesparse.HashKey(key[:])
	prev, existed := t.Get(hk)
	if !existed {
		return types.Hash{}, false, nil
	}
	t.Delete(hk)
	return types.BytesToHash(prev), true, nil
}

func (m *Memory) StateRoot(contract types.ContractId) types.Hash {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.state[contract]
	if !ok {
		return merklesparse.NewTree().Root()
	}
	return t.Root()
}

func (m *Memory) GetBalance(contract types.ContractId, asset types.AssetId) (types.Word, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[contract][asset], nil
}

func (m *Memory) SetBalance(contract types.ContractId, asset types.AssetId, amount types.Word) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assets, ok := m.balances[contract]
	if !ok {
		assets = make(map[types.AssetId]types.Word)
		m.balances[contract] = assets
	}
	if amount == 0 {
		delete(assets, asset)
		return nil
	}
	assets[asset] = amount
	return nil
}

// BalanceRoot hashes the contract's balances into a sparse Merkle root,
// keyed by asset ID, the same structure used for contract storage.
func (m *Memory) BalanceRoot(contract types.ContractId) types.Hash {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t := merklesparse.NewTree()
	for asset, amount := range m.balances[contract] {
		var buf [8]byte
		putWord(&buf, amount)
		t.Update(merklesparse.HashKey(asset[:]), buf[:])
	}
	return t.Root()
}

func putWord(buf *[8]byte, w types.Word) {
	for i := 7; i >= 0; i-- {
		buf[i] = byte(w)
		w >>= 8
	}
}

func (m *Memory) GetBlob(id types.Hash) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) ContainsBlob(id types.Hash) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[id]
	return ok, nil
}

func (m *Memory) PutBlob(id types.Hash, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[id] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) GetRawCode(root types.Hash) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	parts, ok := m.rawCode[root]
	if !ok {
		return nil, ErrNotFound
	}
	var out []byte
	for i := uint16(0); ; i++ {
		part, ok := parts[i]
		if !ok {
			break
		}
		out = append(out, part...)
	}
	return out, nil
}

func (m *Memory) PutRawCodePart(root types.Hash, partIndex uint16, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	parts, ok := m.rawCode[root]
	if !ok {
		parts = make(map[uint16][]byte)
		m.rawCode[root] = parts
	}
	parts[partIndex] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) AssembleRawCode(root types.Hash, partsNumber uint16) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	parts, ok := m.rawCode[root]
	if !ok {
		return nil, ErrNotFound
	}
	var out []byte
	for i := uint16(0); i < partsNumber; i++ {
		part, ok := parts[i]
		if !ok {
			return nil, fmt.Errorf("storage: missing upload part %d of %d for root %s", i, partsNumber, root)
		}
		out = append(out, part...)
	}
	return out, nil
}

func (m *Memory) GetMessage(nonce types.Hash) (Message, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.messages[nonce]
	return msg, ok, nil
}

func (m *Memory) PutMessage(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.Nonce] = msg
	return nil
}

func (m *Memory) SpendMessage(nonce types.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[nonce]; !ok {
		return ErrNotFound
	}
	delete(m.messages, nonce)
	return nil
}

func (m *Memory) GetParameters(hash types.Hash) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.params[hash]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), p...), true, nil
}

func (m *Memory) PutParameters(hash types.Hash, encoded []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params[hash] = append([]byte(nil), encoded...)
	return nil
}

var _ Storage = (*Memory)(nil)
