package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/fuelvm-go/fuelvm/asm"
)

// Panic is the error returned when an instruction faults. Unlike Go panics,
// a VM panic is ordinary control flow: it halts the current call frame and
// is recorded as a Panic receipt, never propagated as a host-language panic.
type Panic struct {
	Reason      asm.PanicReason
	Instruction uint32
}

func (p *Panic) Error() string {
	return fmt.Sprintf("vm: panic %s at instruction 0x%06x", p.Reason, p.Instruction)
}

func newPanic(reason asm.PanicReason, in asm.Instruction) *Panic {
	b := in.Encode()
	return &Panic{Reason: reason, Instruction: binary.BigEndian.Uint32(b[:])}
}
