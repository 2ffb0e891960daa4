package handoff

import (
	"errors"
	"fmt"

	"github.com/andriiyaremenko/handoff/internal"
)

var (
	ErrPipelineStopped  = errors.New("pipeline is stopped")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownTransform = errors.New("unknown transform")
)

var _ error = new(InputError[any])

// Returns new *InputError[T] for raw input that could not be read as T.
func NewInputError[T any](raw string, err error) *InputError[T] {
	return &InputError[T]{Raw: raw, Err: err}
}

// InputError is returned by a Source for input it rejected.
// It matches ErrInvalidInput with errors.Is.
type InputError[T any] struct {
	Raw string
	Err error
}

// Implementation of error.
func (err *InputError[T]) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("invalid %s input %q", internal.TypeName[T](), err.Raw)
	}

	return fmt.Sprintf("invalid %s input %q: %s", internal.TypeName[T](), err.Raw, err.Err)
}

// Returns underlying error.
func (err *InputError[T]) Unwrap() error {
	return err.Err
}

func (err *InputError[T]) Is(target error) bool {
	return target == ErrInvalidInput
}
