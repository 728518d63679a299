package tracker

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Service wraps exactly one of these, so
// callers classify failures with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrCreation     = errors.New("creation failed")
	ErrStorage      = errors.New("storage failure")
)

// Error is a classified failure. Msg is the human-readable detail and is
// what Error() returns.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

// Kind returns the kind err was classified as, or nil if err did not come
// from this package.
func Kind(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func unauthorizedf(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

func creationf(format string, args ...any) error {
	return &Error{Kind: ErrCreation, Msg: fmt.Sprintf(format, args...)}
}

func storageErr(op string, err error) error {
	return &Error{Kind: ErrStorage, Msg: fmt.Sprintf("%s: %v", op, err)}
}
