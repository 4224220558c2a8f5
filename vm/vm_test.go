package vm

import (
	"testing"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/storage"
	"github.com/fuelvm-go/fuelvm/tx"
	"github.com/fuelvm-go/fuelvm/types"
)

// assemble packs a sequence of instructions into their wire-form bytecode,
// the same encoding the interpreter fetches from at runtime.
func assemble(t *testing.T, ins ...asm.Instruction) []byte {
	t.Helper()
	out := make([]byte, 0, len(ins)*4)
	for _, in := range ins {
		w := in.Encode()
		out = append(out, w[:]...)
	}
	return out
}

// newTestVM returns a ready-to-run interpreter over a fresh in-memory store
// with default consensus parameters and a generous gas budget.
func newTestVM(t *testing.T) *Interpreter {
	t.Helper()
	params := tx.DefaultParameters()
	checked := &tx.CheckedTransaction{
		Tx: &tx.Transaction{GasLimit: 1_000_000},
	}
	vm := New(checked, storage.NewMemory(), params)
	return vm
}

func rrr(op asm.Opcode, ra, rb, rc types.RegId) asm.Instruction {
	return asm.Instruction{Op: op, RA: ra, RB: rb, RC: rc}
}

func rrrr(op asm.Opcode, ra, rb, rc, rd types.RegId) asm.Instruction {
	return asm.Instruction{Op: op, RA: ra, RB: rb, RC: rc, RD: rd}
}

func rri(op asm.Opcode, ra, rb types.RegId, imm uint32) asm.Instruction {
	return asm.Instruction{Op: op, RA: ra, RB: rb, Imm: imm}
}

func ri(op asm.Opcode, ra types.RegId, imm uint32) asm.Instruction {
	return asm.Instruction{Op: op, RA: ra, Imm: imm}
}

func i24(op asm.Opcode, imm uint32) asm.Instruction {
	return asm.Instruction{Op: op, Imm: imm}
}

const (
	r16 types.RegId = 16 + iota
	r17
	r18
	r19
	r20
)
