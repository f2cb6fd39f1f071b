package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRuleConfig matches every *InvalidRuleConfigError.
	ErrInvalidRuleConfig = errors.New("schema: invalid rule configuration")
	// ErrDuplicateField is wrapped when a field is declared twice.
	ErrDuplicateField = errors.New("schema: duplicate field")
	// ErrFieldName is wrapped when a field has no name.
	ErrFieldName = errors.New("schema: field name is required")
)

// InvalidRuleConfigError reports a configuration problem found while
// normalizing a schema.
type InvalidRuleConfigError struct {
	Field string
	Rule  string
	Err   error
}

func (e *InvalidRuleConfigError) Error() string {
	switch {
	case e.Rule != "":
		return fmt.Sprintf("schema: field %q rule %q: %v", e.Field, e.Rule, e.Err)
	case e.Field != "":
		return fmt.Sprintf("schema: field %q: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("schema: %v", e.Err)
	}
}

// Unwrap exposes the underlying cause.
func (e *InvalidRuleConfigError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidRuleConfig) match.
func (e *InvalidRuleConfigError) Is(target error) bool {
	return target == ErrInvalidRuleConfig
}
