package validation

import (
	"bytes"
	"fmt"
)

// Validity is the tri-state validity of a field or form.
type Validity int8

const (
	// Unknown means validation has not run since the last reset.
	Unknown Validity = iota
	Valid
	Invalid
)

// FromBool maps ok onto Valid or Invalid.
func FromBool(ok bool) Validity {
	if ok {
		return Valid
	}
	return Invalid
}

// Known reports whether v is Valid or Invalid.
func (v Validity) Known() bool {
	return v == Valid || v == Invalid
}

// Bool returns nil for Unknown.
func (v Validity) Bool() *bool {
	if !v.Known() {
		return nil
	}
	b := v == Valid
	return &b
}

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes Unknown as null.
func (v Validity) MarshalJSON() ([]byte, error) {
	switch v {
	case Valid:
		return []byte("true"), nil
	case Invalid:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, true and false.
func (v *Validity) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		*v = Unknown
	case "true":
		*v = Valid
	case "false":
		*v = Invalid
	default:
		return fmt.Errorf("validation: invalid validity %s", data)
	}
	return nil
}
