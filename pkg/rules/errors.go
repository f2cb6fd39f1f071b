package rules

import "errors"

var (
	// ErrUnknownRule is returned when a rule name is not registered.
	ErrUnknownRule = errors.New("rules: unknown rule")
	// ErrDuplicateRule is returned when registering a name twice.
	ErrDuplicateRule = errors.New("rules: rule already registered")
	// ErrMissingTest is returned when a custom rule has no test function.
	ErrMissingTest = errors.New("rules: custom rule requires a test function")
	// ErrUnsupportedValue signals a value the rule cannot measure, such as a
	// length check against a number.
	ErrUnsupportedValue = errors.New("rules: unsupported value")
	// ErrInvalidParam signals a rule parameter of the wrong shape.
	ErrInvalidParam = errors.New("rules: invalid parameter")
)
