package app

import (
	"errors"
	"fmt"
)

// Kind classifies failures. A Kind is itself an error so callers can write
// errors.Is(err, app.KindValidation).
type Kind string

const (
	KindValidation            Kind = "validation"
	KindGeneration            Kind = "generation"
	KindPersistence           Kind = "persistence"
	KindCapabilityUnavailable Kind = "capability unavailable"
)

func (k Kind) Error() string { return string(k) }

var (
	ErrEmptyInput        = errors.New("text is empty")
	ErrTooLong           = errors.New("text exceeds the maximum length")
	ErrMalformedLink     = errors.New("text looks like a link but does not start with http")
	ErrNeedsConfirmation = errors.New("generation needs confirmation")
	ErrNoBitmap          = errors.New("no QR code has been generated")
	ErrUnavailable       = errors.New("capability unavailable")
	// ErrSuperseded is returned for a completion that lost to a newer job.
	ErrSuperseded = errors.New("superseded by a newer generation")
)

// Error is returned by App operations.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
