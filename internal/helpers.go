package internal

import "reflect"

func ZeroValue[T any]() T {
	var nilValue T
	return nilValue
}

// TypeName returns the name of T, or its kind for unnamed types.
func TypeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if name := t.Name(); name != "" {
		return name
	}

	return t.String()
}
