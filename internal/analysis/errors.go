package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decode and parse failure taxonomy. Call sites match
// them with errors.Is through the typed wrappers below.
var (
	// ErrToolSpawn indicates the external decoder could not be started at all.
	ErrToolSpawn = errors.New("decoder could not be started")
	// ErrToolExit indicates the external decoder ran but exited non-zero.
	ErrToolExit = errors.New("decoder exited with an error")
	// ErrMissingField indicates an expected labeled line was absent from the
	// decoded certificate text.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidDate indicates the not-after value could not be parsed into a
	// (year, month, day) triple.
	ErrInvalidDate = errors.New("invalid date")
)

// DecodeError reports a failed external decoder invocation for one candidate
// file. Stderr carries the decoder's own diagnostics when the tool ran but
// exited non-zero.
type DecodeError struct {
	File   string
	Stderr string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("decode %s: %v: %s", e.File, e.Err, e.Stderr)
	}
	return fmt.Sprintf("decode %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseError reports a failure to extract or interpret a certificate field
// from the decoded text.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("parse certificate field %s: %v: %q", e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("parse certificate field %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
