package asm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fuelvm-go/fuelvm/types"
)

// ErrReservedBitsSet is returned when a decoded instruction's unused operand
// bits are non-zero, which the protocol requires to be rejected outright.
var ErrReservedBitsSet = errors.New("asm: reserved instruction bits must be zero")

// ErrUndefinedOpcode is returned when the opcode byte does not name a known
// instruction.
var ErrUndefinedOpcode = errors.New("asm: undefined opcode")

// regMask isolates the 6 significant bits of a register field.
const regMask = 0x3f

// Instruction is a single decoded 32-bit VM instruction: an opcode plus up
// to four register operands and/or a trailing immediate, packed as
// opcode:u8 | operand-bits:u24.
type Instruction struct {
	Op    Opcode
	RA    types.RegId
	RB    types.RegId
	RC    types.RegId
	RD    types.RegId
	Imm   uint32
	shape Shape
}

// Shape reports the operand shape this instruction was decoded with.
func (in Instruction) Shape() Shape { return in.shape }

// Encode packs the instruction into its 4-byte big-endian wire form.
func (in Instruction) Encode() [4]byte {
	var bits uint32
	switch shapeOf(in.Op) {
	case ShapeNone:
		bits = 0
	case ShapeRRR:
		bits = uint32(in.RA&regMask)<<18 | uint32(in.RB&regMask)<<12 | uint32(in.RC&regMask)<<6
	case ShapeRRRR:
		bits = uint32(in.RA&regMask)<<18 | uint32(in.RB&regMask)<<12 | uint32(in.RC&regMask)<<6 | uint32(in.RD&regMask)
	case ShapeRRI12:
		bits = uint32(in.RA&regMask)<<18 | uint32(in.RB&regMask)<<12 | (in.Imm & 0xfff)
	case ShapeRI18:
		bits = uint32(in.RA&regMask)<<18 | (in.Imm & 0x3ffff)
	case ShapeI24:
		bits = in.Imm & 0xffffff
	}
	word := uint32(in.Op)<<24 | bits
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], word)
	return out
}

// Decode unpacks a 4-byte big-endian instruction word, validating that any
// bits unused by the opcode's shape are zero.
func Decode(b [4]byte) (Instruction, error) {
	word := binary.BigEndian.Uint32(b[:])
	op := Opcode(word >> 24)
	bits := word & 0xffffff

	if !op.IsDefined() {
		return Instruction{}, fmt.Errorf("%w: 0x%02x", ErrUndefinedOpcode, uint8(op))
	}

	shape := shapeOf(op)
	in := Instruction{Op: op, shape: shape}

	switch shape {
	case ShapeNone:
		if bits != 0 {
			return Instruction{}, ErrReservedBitsSet
		}
	case ShapeRRR:
		in.RA = types.RegId(bits >> 18 & regMask)
		in.RB = types.RegId(bits >> 12 & regMask)
		in.RC = types.RegId(bits >> 6 & regMask)
		if bits&0x3f != 0 {
			return Instruction{}, ErrReservedBitsSet
		}
	case ShapeRRRR:
		in.RA = types.RegId(bits >> 18 & regMask)
		in.RB = types.RegId(bits >> 12 & regMask)
		in.RC = types.RegId(bits >> 6 & regMask)
		in.RD = types.RegId(bits & regMask)
	case ShapeRRI12:
		in.RA = types.RegId(bits >> 18 & regMask)
		in.RB = types.RegId(bits >> 12 & regMask)
		in.Imm = bits & 0xfff
	case ShapeRI18:
		in.RA = types.RegId(bits >> 18 & regMask)
		in.Imm = bits & 0x3ffff
	case ShapeI24:
		in.Imm = bits
	}

	return in, nil
}

// DecodeStream decodes every 4-byte instruction word in b. It returns an
// error if len(b) is not a multiple of 4, or on the first malformed word
// rather than silently stopping.
func DecodeStream(b []byte) ([]Instruction, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("asm: instruction stream length %d is not a multiple of 4", len(b))
	}
	out := make([]Instruction, 0, len(b)/4)
	for i := 0; i < len(b); i += 4 {
		var word [4]byte
		copy(word[:], b[i:i+4])
		in, err := Decode(word)
		if err != nil {
			return nil, fmt.Errorf("asm: instruction at offset %d: %w", i, err)
		}
		out = append(out, in)
	}
	return out, nil
}
