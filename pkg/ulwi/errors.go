package ulwi

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed indicates a command which can't be framed on the wire.
	ErrMalformed = errors.New("malformed command")
	// ErrNoCandidates indicates an empty candidate set.
	ErrNoCandidates = errors.New("no candidates")
	// ErrEmptyCandidate indicates a candidate set containing an empty token.
	ErrEmptyCandidate = errors.New("empty candidate")
)

// FieldError describes which part of a command violates the wire format.
// Index is -1 for the mnemonic.
type FieldError struct {
	Index  int
	Reason string
}

// Error implements error.
func (e *FieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: mnemonic %s", ErrMalformed, e.Reason)
	}
	return fmt.Sprintf("%v: field %d %s", ErrMalformed, e.Index, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformed).
func (e *FieldError) Unwrap() error {
	return ErrMalformed
}
