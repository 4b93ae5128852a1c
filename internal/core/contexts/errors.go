package contexts

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a context is not tracked or has no backing document.
	ErrNotFound = errors.New("context not found")
	// ErrAlreadyExists is returned when creating a context whose document already exists.
	ErrAlreadyExists = errors.New("context already exists")
	// ErrDecode is returned when a persisted document is malformed.
	ErrDecode = errors.New("malformed context document")
	// ErrIO is returned for failures of the backing medium.
	ErrIO = errors.New("context i/o failure")
)

// DecodeError reports a document that could not be decoded.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode context %q: %v", e.Name, e.Err)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func (e *DecodeError) Unwrap() error { return e.Err }

// IOError reports a failed operation on the backing medium.
type IOError struct {
	Op   string
	Name string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s context %q: %v", e.Op, e.Name, e.Err)
}

func (e *IOError) Is(target error) bool { return target == ErrIO }

func (e *IOError) Unwrap() error { return e.Err }
