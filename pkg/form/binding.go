package form

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Binding is everything a rendered input needs for one field: its value, a
// setter, a blur notifier and its current result. It holds no validation
// logic of its own.
type Binding struct {
	form *Form
	name string
}

// Field returns the binding for a declared field.
func (f *Form) Field(name string) (*Binding, error) {
	if !f.schema.Has(name) {
		return nil, &model.UnknownFieldError{Field: name}
	}
	return &Binding{form: f, name: name}, nil
}

// Name returns the bound field name.
func (b *Binding) Name() string { return b.name }

// Value returns the current value.
func (b *Binding) Value() any {
	return b.form.store.Value(b.name)
}

// Set updates the value. With ValidateOnChange the field is validated
// before the new state is published.
func (b *Binding) Set(value any) error {
	return b.form.setProperty(b.name, value, b.form.trigger == ValidateOnChange)
}

// Blur signals the input lost focus. With ValidateOnBlur the field is
// validated.
func (b *Binding) Blur() error {
	if b.form.trigger != ValidateOnBlur {
		return nil
	}
	_, err := b.form.ValidateField(b.name)
	return err
}

// Result returns the field's current validation result.
func (b *Binding) Result() validation.FieldResult {
	result, _ := b.form.GetSchema(b.name)
	return result
}

// Touched reports whether the field has been touched.
func (b *Binding) Touched() bool {
	fv, _ := b.form.store.Get(b.name)
	return fv.IsTouched
}
