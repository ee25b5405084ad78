package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested id has no row.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for input the pipeline cannot act on,
	// such as a create request without a name.
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError wraps a failed query, insert, update or delete.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrapStoreErr leaves ErrNotFound and already wrapped errors untouched so
// callers can still match them.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
