// Package apperr defines the closed set of failure kinds shared by the
// persistence clients, the postal-code lookup client and the data-access
// layer.
//
// Each failure site constructs an *Error with the kind it knows about. The
// message text is kept verbatim so it can be shown to the user, while the
// wrapped cause stays available to errors.Is / errors.As and to the logs.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	// Unknown is anything that was not classified at its failure site,
	// including recovered panics.
	Unknown Kind = iota
	// Validation means the input was rejected before any network call.
	Validation
	// Transport means the remote call failed or the remote service reported
	// an error.
	Transport
	// NotFound means a single result was expected and none (or more than
	// one) came back.
	NotFound
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Transport:
		return "transport"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Error() returns Message unchanged.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, may be nil
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err, keeping its message text. Returns nil if err is nil.
// If err already carries a kind, that kind wins.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err, or Unknown if err carries none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
