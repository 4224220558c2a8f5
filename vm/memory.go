package vm

import (
	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
)

// MaxRAM is the fixed size of a VM instance's linear memory. It never grows
// or shrinks during execution: the stack grows up from zero, the heap grows
// down from MaxRAM, and they must never collide.
const MaxRAM = 1 << 20 // 1 MiB, generous for a debug interpreter.

// Memory is the VM's linear address space, split into an upward-growing
// stack ([0, SP)) and a downward-growing heap ([HP,
// MaxRAM)). SSP tracks the boundary below which memory is externally owned
// (by a parent call frame) and therefore read-only to the current frame.
type Memory struct {
	buf []byte
	ssp types.Word
	sp  types.Word
	hp  types.Word
}

// NewMemory returns a zeroed memory image with the stack and heap pointers
// at their initial positions: SSP=SP=0, HP=MaxRAM.
func NewMemory() *Memory {
	return &Memory{
		buf: make([]byte, MaxRAM),
		hp:  MaxRAM,
	}
}

func (m *Memory) SSP() types.Word { return m.ssp }
func (m *Memory) SP() types.Word  { return m.sp }
func (m *Memory) HP() types.Word  { return m.hp }

// checkInvariant reports whether SSP <= SP <= HP <= MaxRAM still holds.
func (m *Memory) checkInvariant() bool {
	return m.ssp <= m.sp && m.sp <= m.hp && m.hp <= MaxRAM
}

// inBounds reports whether [addr, addr+n) lies within the address space
// without overflowing.
func inBounds(addr, n types.Word) bool {
	end := addr + n
	return end >= addr && end <= MaxRAM
}

// ownedByStack reports whether [addr, addr+n) lies in the caller-writable
// stack region [SSP, SP).
func (m *Memory) ownedByStack(addr, n types.Word) bool {
	return inBounds(addr, n) && addr >= m.ssp && addr+n <= m.sp
}

// ownedByHeap reports whether [addr, addr+n) lies in the allocated heap
// region [HP, MaxRAM).
func (m *Memory) ownedByHeap(addr, n types.Word) bool {
	return inBounds(addr, n) && addr >= m.hp
}

// Readable reports whether [addr, addr+n) may be read: any in-bounds
// address below SP, or the allocated heap, is readable.
func (m *Memory) Readable(addr, n types.Word) bool {
	if !inBounds(addr, n) {
		return false
	}
	if addr+n <= m.sp {
		return true
	}
	return m.ownedByHeap(addr, n)
}

// Writable reports whether [addr, addr+n) may be written by the current
// frame: only the frame-owned stack slice or the allocated heap.
func (m *Memory) Writable(addr, n types.Word) bool {
	return m.ownedByStack(addr, n) || m.ownedByHeap(addr, n)
}

// Read returns a copy of the n bytes at addr, or a MemoryOwnership panic
// reason if the read is out of bounds.
func (m *Memory) Read(addr, n types.Word) ([]byte, asm.PanicReason, bool) {
	if !m.Readable(addr, n) {
		return nil, asm.PanicReasonMemoryOwnership, false
	}
	out := make([]byte, n)
	copy(out, m.buf[addr:addr+n])
	return out, 0, true
}

// Write copies data into [addr, addr+len(data)), failing if the region is
// not owned by the current frame.
func (m *Memory) Write(addr types.Word, data []byte) (asm.PanicReason, bool) {
	n := types.Word(len(data))
	if !m.Writable(addr, n) {
		return asm.PanicReasonMemoryOwnership, false
	}
	copy(m.buf[addr:addr+n], data)
	return 0, true
}

// Grow extends the stack by n bytes, returning the previous SP as the base
// of the newly owned region. Fails if it would collide with the heap.
func (m *Memory) Grow(n types.Word) (base types.Word, reason asm.PanicReason, ok bool) {
	newSP := m.sp + n
	if newSP < m.sp || newSP > m.hp {
		return 0, asm.PanicReasonMemoryOverflow, false
	}
	base = m.sp
	m.sp = newSP
	return base, 0, true
}

// Shrink retracts the stack by n bytes, used by CFSI.
func (m *Memory) Shrink(n types.Word) (reason asm.PanicReason, ok bool) {
	if n > m.sp-m.ssp {
		return asm.PanicReasonMemoryOverflow, false
	}
	m.sp -= n
	return 0, true
}

// Alloc extends the heap downward by n bytes, returning the new HP.
func (m *Memory) Alloc(n types.Word) (newHP types.Word, reason asm.PanicReason, ok bool) {
	if n > m.hp-m.sp {
		return 0, asm.PanicReasonMemoryOverflow, false
	}
	m.hp -= n
	return m.hp, 0, true
}

// PushStackFrame raises SSP to the current SP, locking the memory below the
// new frame boundary against writes from the callee about to run.
func (m *Memory) PushStackFrame() types.Word {
	prev := m.ssp
	m.ssp = m.sp
	return prev
}

// PopStackFrame restores SSP after a callee returns.
func (m *Memory) PopStackFrame(prevSSP types.Word) {
	m.ssp = prevSSP
}
