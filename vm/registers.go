package vm

import "github.com/fuelvm-go/fuelvm/types"

// Registers is the 64-register file. Indices 0-15 carry fixed protocol
// semantics (see types.RegZero..types.RegBal); 16-63 are general purpose.
type Registers [types.RegCount]types.Word

// NewRegisters returns a zeroed register file with $one preset to 1, as
// mandated for every freshly constructed VM instance.
func NewRegisters() Registers {
	var r Registers
	r[types.RegOne] = 1
	return r
}

// Get reads a register, masking to the 6 significant bits.
func (r *Registers) Get(id types.RegId) types.Word {
	return r[id&0x3f]
}

// Set writes a register unconditionally. Writing to one of the
// fixed-semantics reserved registers (0-15) is a caller bug caught
// upstream by instruction validation, so Set does not itself check this.
func (r *Registers) Set(id types.RegId, v types.Word) {
	r[id&0x3f] = v
}
