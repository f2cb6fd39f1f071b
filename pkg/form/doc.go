// Package form wires a schema, a model store and the validation evaluator
// into one handle that owns a form's state.
//
// Every operation runs synchronously: it mutates the model, recomputes the
// derived state and notifies subscribers before returning. Consumers that
// render fields receive a Binding per field instead of reaching into the form.
//
//	f, err := form.New(form.Config{
//		ValidateOn: form.ValidateOnChange,
//		Schema: schema.Config{Fields: []schema.FieldConfig{
//			schema.Field("firstname", schema.Required()),
//			schema.Field("lastname", schema.MinLength(2)),
//		}},
//	})
//	if err != nil {
//		return err
//	}
//	f.SetInitialModel(map[string]any{"lastname": "A"})
//	result, _ := f.ValidateForm()
//
// A Form is not safe for concurrent use.
package form
