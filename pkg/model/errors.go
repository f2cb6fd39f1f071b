package model

import (
	"errors"
	"fmt"
)

// ErrUnknownField is matched by every UnknownFieldError.
var ErrUnknownField = errors.New("model: unknown field")

// UnknownFieldError reports an operation on a field that is neither declared
// nor present in the model.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnknownField, e.Field)
}

// Is lets errors.Is match ErrUnknownField.
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}
