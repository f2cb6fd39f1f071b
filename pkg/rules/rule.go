package rules

import "fmt"

// TestFunc reports whether value satisfies a custom rule for param.
type TestFunc func(value, param any) bool

// CheckFunc is the fallible predicate shape used by registered rules. A
// non-nil error always counts as a failure.
type CheckFunc func(value, param any) (bool, error)

// Rule is the tagged variant accepted by Registry.Resolve. It is implemented
// by Builtin and Custom only.
type Rule interface {
	RuleName() string
	isRule()
}

// Builtin references a registered rule by name.
type Builtin struct {
	Name  string
	Param any
}

// RuleName implements Rule.
func (b Builtin) RuleName() string { return b.Name }

func (Builtin) isRule() {}

// Custom is an inline rule supplied with the schema.
type Custom struct {
	Name    string
	Test    TestFunc
	Message Message
	Param   any
}

// RuleName implements Rule. Unnamed custom rules report "custom".
func (c Custom) RuleName() string {
	if c.Name == "" {
		return "custom"
	}
	return c.Name
}

func (Custom) isRule() {}

// Definition is a fully resolved rule: what the evaluator runs.
type Definition struct {
	Name    string
	Param   any
	Test    CheckFunc
	Message Message
}

// Check runs the rule against value. Panics raised by the predicate are
// converted into errors so a faulty rule only fails itself.
func (d Definition) Check(value any) (ok bool, err error) {
	if d.Test == nil {
		return false, fmt.Errorf("%w: %s", ErrMissingTest, d.Name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			err = fmt.Errorf("rules: %s panicked: %v", d.Name, rec)
		}
	}()
	return d.Test(value, d.Param)
}

// Render produces the failure message for field.
func (d Definition) Render(field string, value any) string {
	msg := d.Message
	if msg == nil {
		msg = Text(DefaultMessage)
	}
	return msg.Render(MessageContext{
		Field: field,
		Rule:  d.Name,
		Param: d.Param,
		Value: value,
	})
}

// WithMessage returns a copy of d using msg. A nil msg keeps the current one.
func (d Definition) WithMessage(msg Message) Definition {
	if msg != nil {
		d.Message = msg
	}
	return d
}

func adaptTest(test TestFunc) CheckFunc {
	return func(value, param any) (bool, error) {
		return test(value, param), nil
	}
}
