package handoff

import (
	"context"
	"io"

	"github.com/andriiyaremenko/handoff/internal"
)

// Source supplies the coordinator with input values.
// It is never called while the shared state is locked.
type Source[T any] interface {
	// Returns the next value.
	// An error matching ErrInvalidInput makes the coordinator ask again,
	// io.EOF ends the run.
	Next(ctx context.Context) (T, error)
	// Answers whether another cycle should run after a completed one.
	Continue(ctx context.Context) (bool, error)
}

// Sink performs the terminal side effect with every result.
// It is called exactly once per cycle, after the transform and before the
// cycle is reported as done, and never while the shared state is locked.
type Sink[T any] interface {
	Consume(T)
}

// SinkFunc adapts a function to Sink.
type SinkFunc[T any] func(T)

func (fn SinkFunc[T]) Consume(v T) {
	fn(v)
}

// Source that yields values in order and stops after the last one.
func Values[T any](values ...T) Source[T] {
	return &valueSource[T]{values: values}
}

type valueSource[T any] struct {
	values []T
	next   int
}

func (s *valueSource[T]) Next(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		return internal.ZeroValue[T](), err
	}

	if s.next >= len(s.values) {
		return internal.ZeroValue[T](), io.EOF
	}

	v := s.values[s.next]
	s.next++

	return v, nil
}

func (s *valueSource[T]) Continue(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return s.next < len(s.values), nil
}
