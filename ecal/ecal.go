// Package ecal implements the external-call syscall dispatcher the
// interpreter's ecal opcode delegates to. ecal itself encodes no register
// operands (it is a bare 24-bit immediate), so this package defines the
// software calling convention used to carry a selector and arguments: the
// selector lives in a fixed general-purpose register, with two argument
// registers following it.
package ecal

import (
	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/internal/logger"
	"github.com/fuelvm-go/fuelvm/types"
	"github.com/fuelvm-go/fuelvm/vm"
)

var log = logger.Module("ecal")

// SelectorRegister, Arg1Register, and Arg2Register are the general-purpose
// registers the calling convention reserves for passing an ecal selector
// and its arguments; the result, if any, is written back to
// SelectorRegister.
const (
	SelectorRegister types.RegId = 16
	Arg1Register     types.RegId = 17
	Arg2Register     types.RegId = 18
)

// Syscall handles one registered ecal selector against the running
// interpreter. It reads whatever argument registers its own convention
// defines and returns a non-nil *vm.Panic to fault the call.
type Syscall func(m *vm.Interpreter, in asm.Instruction) *vm.Panic

// Registry dispatches ecal calls to registered Syscalls by selector value.
// A selector with no registered handler faults with ErrorFlag, matching how
// the interpreter itself treats ecal when no handler is installed at all.
type Registry struct {
	syscalls map[types.Word]Syscall
}

// NewRegistry returns an empty registry; nothing is dispatchable until
// Register is called.
func NewRegistry() *Registry {
	return &Registry{syscalls: make(map[types.Word]Syscall)}
}

// Register installs fn as the handler for selector, replacing any existing
// handler for that selector.
func (r *Registry) Register(selector types.Word, fn Syscall) {
	r.syscalls[selector] = fn
}

// Handler adapts the registry to the signature Interpreter.SetECALHandler
// expects.
func (r *Registry) Handler() func(*vm.Interpreter, asm.Instruction) *vm.Panic {
	return func(m *vm.Interpreter, in asm.Instruction) *vm.Panic {
		selector := m.Regs().Get(SelectorRegister)
		fn, ok := r.syscalls[selector]
		if !ok {
			log.Debug("rejected unregistered ecal selector", "selector", selector)
			return &vm.Panic{Reason: asm.PanicReasonErrorFlag}
		}
		return fn(m, in)
	}
}
