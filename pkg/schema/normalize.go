package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/rules"
)

// Schema is the normalized, immutable rule set of a form.
type Schema struct {
	order      []string
	fields     map[string]FieldSchema
	validateOn string
}

// FieldSchema holds the resolved rules of a single field.
type FieldSchema struct {
	Name  string
	Rules []rules.Definition
	// Condition is a visibility expression; empty means always visible.
	Condition string
}

// Option configures normalization.
type Option func(*options)

type options struct {
	registry *rules.Registry
	messages map[string]rules.Message
}

// WithRegistry resolves rule names against reg instead of rules.Default().
func WithRegistry(reg *rules.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithMessages layers message overrides on top of Config.Messages.
func WithMessages(messages map[string]rules.Message) Option {
	return func(o *options) {
		if len(messages) == 0 {
			return
		}
		if o.messages == nil {
			o.messages = make(map[string]rules.Message, len(messages))
		}
		for name, msg := range messages {
			if msg != nil {
				o.messages[name] = msg
			}
		}
	}
}

// Normalize resolves cfg into a Schema. Field and rule order follow
// declaration order.
func Normalize(cfg Config, opts ...Option) (*Schema, error) {
	o := options{registry: rules.Default()}
	WithMessages(cfg.Messages)(&o)
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	s := &Schema{
		order:      make([]string, 0, len(cfg.Fields)),
		fields:     make(map[string]FieldSchema, len(cfg.Fields)),
		validateOn: strings.TrimSpace(cfg.ValidateOn),
	}

	for _, field := range cfg.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, &InvalidRuleConfigError{Err: ErrFieldName}
		}
		if _, exists := s.fields[name]; exists {
			return nil, &InvalidRuleConfigError{Field: name, Err: ErrDuplicateField}
		}

		defs := make([]rules.Definition, 0, len(field.Entries))
		for _, entry := range field.Entries {
			def, ok, err := o.resolve(entry)
			if err != nil {
				return nil, &InvalidRuleConfigError{Field: name, Rule: entry.Rule, Err: err}
			}
			if ok {
				defs = append(defs, def)
			}
		}

		s.order = append(s.order, name)
		s.fields[name] = FieldSchema{Name: name, Rules: defs}
	}

	for name, condition := range cfg.Conditions {
		field, ok := s.fields[name]
		if !ok {
			return nil, &InvalidRuleConfigError{Field: name, Err: errors.New("condition targets an undeclared field")}
		}
		field.Condition = strings.TrimSpace(condition)
		s.fields[name] = field
	}

	return s, nil
}

// MustNormalize panics when cfg is invalid. Intended for package-level
// schemas and tests.
func MustNormalize(cfg Config, opts ...Option) *Schema {
	s, err := Normalize(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (o options) resolve(entry Entry) (rules.Definition, bool, error) {
	switch value := entry.Value.(type) {
	case rules.Custom:
		return o.resolveCustom(entry, value)
	case *rules.Custom:
		if value == nil {
			return rules.Definition{}, false, nil
		}
		return o.resolveCustom(entry, *value)
	case map[string]any:
		custom, err := customFromMap(entry.Rule, value)
		if err != nil {
			return rules.Definition{}, false, err
		}
		return o.resolveCustom(entry, custom)
	}

	if rules.IsFalsy(entry.Value) {
		return rules.Definition{}, false, nil
	}

	name := strings.TrimSpace(entry.Rule)
	if name == "" {
		return rules.Definition{}, false, errors.New("rule name is required")
	}
	def, err := o.registry.Resolve(rules.Builtin{Name: name, Param: entry.Value})
	if err != nil {
		return rules.Definition{}, false, err
	}
	def = def.WithMessage(o.messages[name]).WithMessage(entry.Message)
	return def, true, nil
}

func (o options) resolveCustom(entry Entry, custom rules.Custom) (rules.Definition, bool, error) {
	if custom.Name == "" {
		custom.Name = strings.TrimSpace(entry.Rule)
	}
	def, err := o.registry.Resolve(custom)
	if err != nil {
		return rules.Definition{}, false, err
	}
	if def.Message == nil {
		def.Message = o.messages[def.Name]
	}
	if def.Message == nil {
		def.Message = rules.Text(rules.DefaultMessage)
	}
	return def.WithMessage(entry.Message), true, nil
}

func customFromMap(name string, raw map[string]any) (rules.Custom, error) {
	custom := rules.Custom{Name: name, Param: raw["param"]}
	switch test := raw["test"].(type) {
	case rules.TestFunc:
		custom.Test = test
	case func(any, any) bool:
		custom.Test = test
	case nil:
		return rules.Custom{}, rules.ErrMissingTest
	default:
		return rules.Custom{}, fmt.Errorf("%w: test has type %T", rules.ErrMissingTest, test)
	}
	custom.Message = rules.MessageOf(raw["message"])
	return custom, nil
}

// Fields returns the field names in declaration order.
func (s *Schema) Fields() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Field returns the normalized rules for name.
func (s *Schema) Field(name string) (FieldSchema, bool) {
	if s == nil {
		return FieldSchema{}, false
	}
	field, ok := s.fields[name]
	if !ok {
		return FieldSchema{}, false
	}
	field.Rules = append([]rules.Definition(nil), field.Rules...)
	return field, true
}

// Has reports whether name is declared.
func (s *Schema) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.fields[name]
	return ok
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// ValidateOn returns the trigger policy carried by the source config, if any.
func (s *Schema) ValidateOn() string {
	if s == nil {
		return ""
	}
	return s.validateOn
}
