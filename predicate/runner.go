package predicate

import (
	"errors"
	"fmt"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/internal/logger"
	"github.com/fuelvm-go/fuelvm/tx"
	"github.com/fuelvm-go/fuelvm/types"
	"github.com/fuelvm-go/fuelvm/vm"
)

var log = logger.Module("predicate")

var (
	ErrTooLong     = errors.New("predicate: bytecode exceeds MaxPredicateLength")
	ErrDataTooLong = errors.New("predicate: predicate data exceeds MaxPredicateDataLength")
	ErrDidNotHalt  = errors.New("predicate: did not end in a clean return")
	ErrRejected    = errors.New("predicate: returned a zero (false) verdict")
)

// Verify runs a predicate's bytecode to completion and reports whether it
// authorizes the input it is attached to. Predicate data is placed at
// address zero of the interpreter's memory, where the predicate reads it
// directly with lw/mcp; gas is capped by params.PredicateParams.
// MaxGasPerPredicate regardless of the enclosing transaction's own gas
// limit, since predicate verification is priced and charged independently.
func Verify(code, data []byte, checked *tx.CheckedTransaction, params tx.Parameters) error {
	if types.Word(len(code)) > params.PredicateParams.MaxPredicateLength {
		return ErrTooLong
	}
	if types.Word(len(data)) > params.PredicateParams.MaxPredicateDataLength {
		return ErrDataTooLong
	}

	machine := vm.NewPredicate(code, params.PredicateParams.MaxGasPerPredicate, params, checked)
	if len(data) > 0 {
		if _, _, ok := machine.Mem().Grow(types.Word(len(data))); !ok {
			return ErrDataTooLong
		}
		if reason, ok := machine.Mem().Write(0, data); !ok {
			return fmt.Errorf("predicate: writing predicate data: %s", reason)
		}
	}

	receipts, err := machine.Run()
	if err != nil {
		return err
	}
	if len(receipts) == 0 {
		return ErrDidNotHalt
	}

	last := receipts[len(receipts)-1]
	if last.Kind == tx.ReceiptPanic {
		reason := asm.InstructionResultFromWord(last.Result).Reason
		log.Debug("predicate panicked", "reason", reason.String())
		return fmt.Errorf("%w: %s", ErrDidNotHalt, reason)
	}
	if last.Kind != tx.ReceiptReturn && last.Kind != tx.ReceiptReturnData {
		return ErrDidNotHalt
	}
	if last.RA == 0 {
		return ErrRejected
	}
	return nil
}
