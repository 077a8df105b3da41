// Package apperror defines the error taxonomy shared by the domain,
// persistence and transport layers: Validation, NotFound, Conflict and
// Invariant. Callers branch on the kind, never on error strings.
package apperror

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	// Validation means client input violated a format or length rule.
	Validation Kind = iota + 1
	// NotFound means a referenced aggregate or child id does not exist.
	NotFound
	// Conflict means a uniqueness constraint was violated at commit time.
	Conflict
	// Invariant means an aggregate or unit-of-work method was invoked in a
	// state that breaks a domain rule. Not retryable.
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Invariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error carries a kind alongside the message and an optional wrapped cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error, keeping it reachable for
// errors.Is / errors.As.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// KindOf returns the kind of err, or zero if err does not carry one.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return 0
}

func IsValidation(err error) bool { return KindOf(err) == Validation }
func IsNotFound(err error) bool   { return KindOf(err) == NotFound }
func IsConflict(err error) bool   { return KindOf(err) == Conflict }
func IsInvariant(err error) bool  { return KindOf(err) == Invariant }
