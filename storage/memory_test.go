package storage

import (
	"testing"

	"github.com/fuelvm-go/fuelvm/types"
)

func TestMemoryCodeRoundTrip(t *testing.T) {
	m := NewMemory()
	id := types.ContractId{1}

	if ok, _ := m.ContainsCode(id); ok {
		t.Fatalf("ContainsCode() should be false before PutCode")
	}
	if err := m.PutCode(id, []byte{0x10, 0x47}); err != nil {
		t.Fatalf("PutCode() error: %v", err)
	}
	code, err := m.GetCode(id)
	if err != nil {
		t.Fatalf("GetCode() error: %v", err)
	}
	if len(code) != 2 || code[0] != 0x10 {
		t.Fatalf("GetCode() = %v", code)
	}
}

func TestMemoryStateRootChangesWithWrites(t *testing.T) {
	m := NewMemory()
	id := types.ContractId{2}

	before := m.StateRoot(id)
	if err := m.PutState(id, types.Hash{1}, types.Hash{0xaa}); err != nil {
		t.Fatalf("PutState() error: %v", err)
	}
	after := m.StateRoot(id)
	if before == after {
		t.Fatalf("StateRoot() should change after PutState")
	}

	value, ok, err := m.GetState(id, types.Hash{1})
	if err != nil || !ok {
		t.Fatalf("GetState() = %v, %v, %v", value, ok, err)
	}
	if value != (types.Hash{0xaa}) {
		t.Fatalf("GetState() value = %v", value)
	}

	removed, ok, err := m.RemoveState(id, types.Hash{1})
	if err != nil || !ok || removed != (types.Hash{0xaa}) {
		t.Fatalf("RemoveState() = %v, %v, %v", removed, ok, err)
	}
	if m.StateRoot(id) != before {
		t.Fatalf("StateRoot() should return to its original value after removing the only entry")
	}
}

func TestMemoryBalances(t *testing.T) {
	m := NewMemory()
	id := types.ContractId{3}
	asset := types.AssetId{7}

	bal, err := m.GetBalance(id, asset)
	if err != nil || bal != 0 {
		t.Fatalf("GetBalance() on empty contract = %v, %v", bal, err)
	}
	if err := m.SetBalance(id, asset, 500); err != nil {
		t.Fatalf("SetBalance() error: %v", err)
	}
	bal, err = m.GetBalance(id, asset)
	if err != nil || bal != 500 {
		t.Fatalf("GetBalance() = %v, %v", bal, err)
	}
}

func TestMemoryRawCodeAssembly(t *testing.T) {
	m := NewMemory()
	root := types.Hash{9}

	if err := m.PutRawCodePart(root, 1, []byte("world")); err != nil {
		t.Fatalf("PutRawCodePart() error: %v", err)
	}
	if err := m.PutRawCodePart(root, 0, []byte("hello ")); err != nil {
		t.Fatalf("PutRawCodePart() error: %v", err)
	}
	assembled, err := m.AssembleRawCode(root, 2)
	if err != nil {
		t.Fatalf("AssembleRawCode() error: %v", err)
	}
	if string(assembled) != "hello world" {
		t.Fatalf("AssembleRawCode() = %q", assembled)
	}

	if _, err := m.AssembleRawCode(root, 3); err == nil {
		t.Fatalf("AssembleRawCode() should fail when a part is missing")
	}
}

func TestMemoryMessagesSpend(t *testing.T) {
	m := NewMemory()
	msg := Message{Nonce: types.Hash{5}, Amount: 10}

	if err := m.PutMessage(msg); err != nil {
		t.Fatalf("PutMessage() error: %v", err)
	}
	got, ok, err := m.GetMessage(msg.Nonce)
	if err != nil || !ok || got.Amount != 10 {
		t.Fatalf("GetMessage() = %v, %v, %v", got, ok, err)
	}
	if err := m.SpendMessage(msg.Nonce); err != nil {
		t.Fatalf("SpendMessage() error: %v", err)
	}
	if err := m.SpendMessage(msg.Nonce); err == nil {
		t.Fatalf("SpendMessage() should fail on an already-spent message")
	}
}
