package schema

import "github.com/goliatone/go-formstate/pkg/rules"

// Config is the raw, declarative schema supplied when a form is set up.
type Config struct {
	// ValidateOn carries the trigger policy when the config was loaded from a
	// document. Empty means the caller decides.
	ValidateOn string
	Fields     []FieldConfig
	// Messages overrides failure messages by rule name for every field.
	Messages map[string]rules.Message
	// Conditions maps field names to visibility expressions. Hidden fields
	// are not validated.
	Conditions map[string]string
}

// FieldConfig lists the rule entries of one field in declaration order.
type FieldConfig struct {
	Name    string
	Entries []Entry
}

// Entry configures one rule on a field.
//
// Value is either the parameter of a registered rule (true when the rule has
// no parameter), a rules.Custom, or a map with "test" and optional "message"
// and "param" keys. Falsy values disable the entry.
type Entry struct {
	Rule    string
	Value   any
	Message rules.Message
}

// Field builds a FieldConfig.
func Field(name string, entries ...Entry) FieldConfig {
	return FieldConfig{Name: name, Entries: entries}
}

// Rule builds an entry for a registered rule.
func Rule(name string, value any) Entry {
	return Entry{Rule: name, Value: value}
}

// Required is shorthand for Rule("required", true).
func Required() Entry {
	return Rule(rules.RuleRequired, true)
}

// MinLength is shorthand for Rule("minLength", n).
func MinLength(n int) Entry {
	return Rule(rules.RuleMinLength, n)
}

// MaxLength is shorthand for Rule("maxLength", n).
func MaxLength(n int) Entry {
	return Rule(rules.RuleMaxLength, n)
}

// Pattern is shorthand for Rule("pattern", expr).
func Pattern(expr string) Entry {
	return Rule(rules.RulePattern, expr)
}

// CustomRule builds an inline custom entry. message may be a string, a
// func(any) string or a rules.Message.
func CustomRule(name string, test rules.TestFunc, message any) Entry {
	return Entry{
		Rule: name,
		Value: rules.Custom{
			Name:    name,
			Test:    test,
			Message: rules.MessageOf(message),
		},
	}
}

// WithMessage returns a copy of e with a field-specific message override.
func (e Entry) WithMessage(message any) Entry {
	e.Message = rules.MessageOf(message)
	return e
}

// Field returns the field config registered under name.
func (c Config) Field(name string) (FieldConfig, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// Names lists the configured field names in declaration order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c.Fields))
	for _, field := range c.Fields {
		names = append(names, field.Name)
	}
	return names
}
