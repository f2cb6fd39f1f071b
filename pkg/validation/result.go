package validation

// RuleError is one failed rule.
type RuleError struct {
	Rule      string `json:"rule"`
	Condition any    `json:"condition"`
	Message   string `json:"message"`
	// Err is set when the rule could not be evaluated.
	Err error `json:"-"`
}

// FieldResult is the validation state of one field.
type FieldResult struct {
	Errors    []RuleError `json:"errors"`
	IsTouched bool        `json:"isTouched"`
	IsValid   Validity    `json:"isValid"`
}

// ResetField returns the state of a field that has not been validated.
func ResetField() FieldResult {
	return FieldResult{Errors: []RuleError{}, IsValid: Unknown}
}

// Has reports whether rule failed.
func (r FieldResult) Has(rule string) bool {
	for _, e := range r.Errors {
		if e.Rule == rule {
			return true
		}
	}
	return false
}

// Messages lists the failure messages in rule order.
func (r FieldResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Message)
	}
	return out
}

// Clone returns a copy that does not share the Errors slice.
func (r FieldResult) Clone() FieldResult {
	r.Errors = append(make([]RuleError, 0, len(r.Errors)), r.Errors...)
	return r
}

// FormResult is the validation state of a whole form.
type FormResult struct {
	IsValid Validity               `json:"isValid"`
	Fields  map[string]FieldResult `json:"fields"`
}

// Aggregate derives form validity: Valid when every field is Valid, Invalid
// when any field is Invalid, Unknown otherwise. A form without fields is
// Valid.
func Aggregate(fields map[string]FieldResult) Validity {
	out := Valid
	for _, field := range fields {
		switch field.IsValid {
		case Invalid:
			return Invalid
		case Unknown:
			out = Unknown
		}
	}
	return out
}

// Field returns the result for name.
func (r FormResult) Field(name string) (FieldResult, bool) {
	field, ok := r.Fields[name]
	return field, ok
}

// Errors maps every invalid field to its failure messages.
func (r FormResult) Errors() map[string][]string {
	out := make(map[string][]string)
	for name, field := range r.Fields {
		if len(field.Errors) > 0 {
			out[name] = field.Messages()
		}
	}
	return out
}

// Clone deep-copies r.
func (r FormResult) Clone() FormResult {
	fields := make(map[string]FieldResult, len(r.Fields))
	for name, field := range r.Fields {
		fields[name] = field.Clone()
	}
	r.Fields = fields
	return r
}
