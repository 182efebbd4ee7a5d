package workout

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired        = errors.New("authentication required")
	ErrNotFound            = errors.New("not found")
	ErrValidationFailed    = errors.New("validation failed")
	ErrStoreFailure        = errors.New("store failure")
	ErrPartialWrite        = errors.New("partial write inconsistency")
	ErrOperationInProgress = errors.New("operation already in progress")
	ErrNotActive           = errors.New("no active workout")
)

// Error carries the failing controller operation together with its kind,
// one of the sentinel errors above. Match it with errors.Is.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// storeError classifies a record/template store error: missing rows stay
// NotFound, anything else is a StoreFailure.
func storeError(op string, err error) *Error {
	if errors.Is(err, ErrNotFound) {
		return newError(ErrNotFound, op, err)
	}
	return newError(ErrStoreFailure, op, err)
}

func validationError(op, msg string) *Error {
	return newError(ErrValidationFailed, op, errors.New(msg))
}
