package tasks

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrRemoteRead      = errors.New("could not load data from the store")
	ErrRemoteWrite     = errors.New("could not save changes to the store")
	ErrPartialReorder  = fmt.Errorf("%w: reorder was only partly saved", ErrRemoteWrite)
	ErrTimeout         = errors.New("the store did not answer in time")
	ErrNotFound        = errors.New("no such task")
)

// OpError is returned by every manager operation that fails after input
// validation. errors.Is matches both Kind and the underlying cause.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func opError(op string, kind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}
