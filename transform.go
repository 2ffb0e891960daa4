package handoff

import (
	"fmt"
	"strings"
)

// Transform maps an input value to its result.
// It must be total and free of side effects.
type Transform[T any] func(T) T

// Number constrains the built-in numeric transforms.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Transform that returns the value it receives without changes.
func Identity[T any]() Transform[T] {
	return func(v T) T { return v }
}

func Square[T Number]() Transform[T] {
	return func(v T) T { return v * v }
}

func Double[T Number]() Transform[T] {
	return func(v T) T { return v * 2 }
}

// Combines transforms into one applying them from left to right.
func Chain[T any](first Transform[T], rest ...Transform[T]) Transform[T] {
	if len(rest) == 0 {
		return first
	}

	return func(v T) T {
		v = first(v)
		for _, next := range rest {
			v = next(v)
		}

		return v
	}
}

// ParseTransform returns the numeric transform registered under name.
// Several names joined with "," are chained: "double,square" doubles first.
func ParseTransform[T Number](name string) (Transform[T], error) {
	parts := strings.Split(name, ",")
	transforms := make([]Transform[T], 0, len(parts))

	for _, part := range parts {
		var t Transform[T]

		switch strings.ToLower(strings.TrimSpace(part)) {
		case "square":
			t = Square[T]()
		case "double":
			t = Double[T]()
		case "identity":
			t = Identity[T]()
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, part)
		}

		transforms = append(transforms, t)
	}

	return Chain(transforms[0], transforms[1:]...), nil
}
