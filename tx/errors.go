package tx

import (
	"fmt"

	"github.com/fuelvm-go/fuelvm/types"
)

// CheckErrorKind names a specific format-validity failure for callers that
// need to switch on it instead of matching the human-readable Reason
// string. CheckErrorUnspecified covers every check that predates this
// enumeration and has no caller that needs to distinguish it.
type CheckErrorKind uint8

const (
	CheckErrorUnspecified CheckErrorKind = iota
	CheckErrorDuplicateInputUtxoId
)

// CheckError is returned by format and signature validation. Field names the
// offending struct member; Index is -1 when the error is not about a
// specific vector entry.
type CheckError struct {
	Kind   CheckErrorKind
	Reason string
	Field  string
	Index  int

	// UtxoId is populated for CheckErrorDuplicateInputUtxoId, the
	// CheckError::DuplicateInputUtxoId{utxo_id} variant.
	UtxoId types.Hash
}

func (e *CheckError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("tx: %s: %s[%d]", e.Reason, e.Field, e.Index)
	}
	return fmt.Sprintf("tx: %s: %s", e.Reason, e.Field)
}

func fieldErr(reason, field string) *CheckError {
	return &CheckError{Reason: reason, Field: field, Index: -1}
}

func indexErr(reason, field string, index int) *CheckError {
	return &CheckError{Reason: reason, Field: field, Index: index}
}

func duplicateUtxoErr(utxoID types.Hash, index int) *CheckError {
	return &CheckError{
		Kind:   CheckErrorDuplicateInputUtxoId,
		Reason: "duplicate input UTXO id",
		Field:  "Inputs",
		Index:  index,
		UtxoId: utxoID,
	}
}
