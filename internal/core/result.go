package core

import "github.com/JonMunkholm/employees/internal/apperr"

// Result is the envelope returned by every data-access operation.
// Exactly one of the two cases holds: Success with Data, or a failure with
// the error's message text in Error.
type Result[T any] struct {
	Success bool        `json:"success"`
	Data    T           `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    apperr.Kind `json:"-"`
}

// Ok wraps data in the success case.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps err in the failure case. A nil err is reported as an unknown
// failure rather than silently turned into success.
func Fail[T any](err error) Result[T] {
	if err == nil {
		return Result[T]{Error: "unknown error", Kind: apperr.Unknown}
	}
	return Result[T]{Error: err.Error(), Kind: apperr.KindOf(err)}
}

// Err returns the failure as an *apperr.Error, or nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return apperr.New(r.Kind, r.Error)
}
