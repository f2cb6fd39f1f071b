package form

import "errors"

var (
	// ErrReentrantMutation is returned when a rule tries to change the form
	// it is validating.
	ErrReentrantMutation = errors.New("form: mutation during rule evaluation")
	// ErrInvalidTrigger reports a validateOn value other than change or blur.
	ErrInvalidTrigger = errors.New("form: validateOn must be \"change\" or \"blur\"")
)
