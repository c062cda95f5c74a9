// Package ipperr defines the interpreter's error taxonomy and its mapping to
// process exit codes, per the IPPcode21 contract.
package ipperr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of interpreter error. Every Kind maps to exactly
// one process exit code.
type Kind int

const (
	CLI Kind = iota
	IOMissing
	IOWrite
	XMLMalformed
	Structure
	Semantic
	TypeError
	VarUndefined
	FrameMissing
	ValueMissing
	OperandValue
	StringError
)

var exitCodes = map[Kind]int{
	CLI:          10,
	IOMissing:    11,
	IOWrite:      12,
	XMLMalformed: 31,
	Structure:    32,
	Semantic:     52,
	TypeError:    53,
	VarUndefined: 54,
	FrameMissing: 55,
	ValueMissing: 56,
	OperandValue: 57,
	StringError:  58,
}

var kindNames = map[Kind]string{
	CLI:          "cli",
	IOMissing:    "input file missing",
	IOWrite:      "output file error",
	XMLMalformed: "malformed xml",
	Structure:    "structural error",
	Semantic:     "semantic error",
	TypeError:    "operand type error",
	VarUndefined: "variable not in frame",
	FrameMissing: "frame missing",
	ValueMissing: "missing value",
	OperandValue: "bad operand value",
	StringError:  "string operation error",
}

// ExitCode returns the process exit code mapped to this Kind.
func (k Kind) ExitCode() int { return exitCodes[k] }

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Error is a fatal interpreter error: a Kind, a human-readable message, and
// an optional wrapped cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind, wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// ExitCode extracts the exit code for err, defaulting to 1 if err is not (or
// does not wrap) an *Error.
func ExitCode(err error) int {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind.ExitCode()
	}
	return 1
}
