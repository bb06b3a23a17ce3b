// internal/transfer/errors.go
package transfer

import (
	"errors"
	"fmt"
)

// Kind classifies a transfer failure.
// Kind values are comparable with errors.Is against any returned error.
type Kind string

const (
	OpenFailed      Kind = "OpenFailed"         // device reported a non-success status after Open
	RegisterRead    Kind = "RegisterReadError"  // a register read failed at the interface layer
	RegisterWrite   Kind = "RegisterWriteError" // a register write or trigger was rejected
	StalledTransfer Kind = "StalledTransfer"    // a hunk reported zero bytes processed
	Timeout         Kind = "Timeout"            // a readiness wait elapsed
	SizeMismatch    Kind = "SizeMismatch"       // byte accounting disagrees with the expected total
	CloseFailed     Kind = "CloseFailed"        // the closing Close operation failed
	OperationFailed Kind = "OperationFailed"    // device reported a non-success status after a hunk
	Cancelled       Kind = "Cancelled"          // the caller's context ended the transfer
)

func (k Kind) Error() string { return string(k) }

// TransferError is the single error type returned by the engine.
// CloseErr carries a Close failure that happened after an earlier, primary failure.
type TransferError struct {
	Kind     Kind
	Op       string // "read" or "write"
	Filename string
	Offset   int64
	Err      error
	CloseErr error
}

func (e *TransferError) Error() string {
	msg := fmt.Sprintf("%s %q: %s at offset %d", e.Op, e.Filename, e.Kind, e.Offset)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.CloseErr != nil {
		msg += " (close: " + e.CloseErr.Error() + ")"
	}
	return msg
}

// Unwrap exposes the kind and the cause, so both errors.Is(err, StalledTransfer)
// and errors.As(err, &registerErr) work.
func (e *TransferError) Unwrap() []error {
	out := []error{e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// KindOf returns the kind of a transfer error, or "" for other errors.
func KindOf(err error) Kind {
	var te *TransferError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// StatusError carries a FileOperationStatus value outside the accepted set.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device status %q", e.Status)
}
