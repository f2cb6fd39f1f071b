package form

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formstate/pkg/logger"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

// Trigger selects when bindings validate a field automatically.
type Trigger string

const (
	ValidateOnBlur   Trigger = "blur"
	ValidateOnChange Trigger = "change"
)

// ParseTrigger maps a validateOn string onto a Trigger. Empty means blur.
func ParseTrigger(raw string) (Trigger, error) {
	switch Trigger(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ValidateOnBlur:
		return ValidateOnBlur, nil
	case ValidateOnChange:
		return ValidateOnChange, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidTrigger, raw)
	}
}

// Config is supplied once when a form is set up.
type Config struct {
	// ValidateOn defaults to the schema document's value, then to blur.
	ValidateOn Trigger
	Schema     schema.Config
	// Messages overrides failure messages by rule name.
	Messages map[string]rules.Message
}

// Handle is the surface handed to consumers of a form.
type Handle interface {
	SetInitialModel(values map[string]any) error
	SetModel(values map[string]any) error
	SetProperty(name string, value any) error
	ValidateForm() (validation.FormResult, error)
	ValidateField(name string) (validation.FieldResult, error)
	ResetValidation()
	ClearForm()
	ResetForm()
	SetTouched()
	SetUntouched()
	GetSchema(name string) (validation.FieldResult, bool)

	Schema() validation.FormResult
	Model() map[string]model.FieldValue
	IsTouched() bool
	IsButtonDisabled() bool
	State() State
	Field(name string) (*Binding, error)
	Subscribe(fn Listener) (unsubscribe func())
}

// Form owns the model, schema and derived state of one form instance.
type Form struct {
	schema    *schema.Schema
	evaluator *validation.Evaluator
	store     *model.Store
	trigger   Trigger
	logger    *slog.Logger

	results    map[string]validation.FieldResult
	listeners  []subscription
	nextID     int
	evaluating bool
}

var _ Handle = (*Form)(nil)

// New normalizes cfg and returns a form. Schema errors are returned here,
// before any validation runs.
func New(cfg Config, opts ...Option) (*Form, error) {
	o := resolveOptions(opts)

	s, err := schema.Normalize(cfg.Schema,
		schema.WithRegistry(o.registry),
		schema.WithMessages(cfg.Messages),
	)
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	trigger := cfg.ValidateOn
	if trigger == "" {
		trigger = Trigger(s.ValidateOn())
	}
	return newForm(s, trigger, o)
}

// NewFromSchema builds a form around an already normalized schema.
func NewFromSchema(s *schema.Schema, trigger Trigger, opts ...Option) (*Form, error) {
	if s == nil {
		return nil, fmt.Errorf("form: schema is required")
	}
	return newForm(s, trigger, resolveOptions(opts))
}

func resolveOptions(opts []Option) options {
	o := options{
		registry:   rules.Default(),
		logger:     logger.Discard(),
		visibility: expr.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func newForm(s *schema.Schema, trigger Trigger, o options) (*Form, error) {
	parsed, err := ParseTrigger(string(trigger))
	if err != nil {
		return nil, err
	}

	if err := compileConditions(s, o.visibility); err != nil {
		return nil, err
	}

	f := &Form{
		schema: s,
		evaluator: validation.New(s,
			validation.WithLogger(o.logger),
			validation.WithExtras(o.extras),
			validation.WithVisibility(o.visibility),
		),
		store:     model.NewStore(s.Fields()...),
		trigger:   parsed,
		logger:    o.logger,
	}
	f.resetResults()
	return f, nil
}

// conditionCompiler is implemented by evaluators that can check a condition
// without evaluating it, such as expr.Evaluator.
type conditionCompiler interface {
	Compile(rule string) error
}

func compileConditions(s *schema.Schema, ev visibility.Evaluator) error {
	compiler, ok := ev.(conditionCompiler)
	if !ok {
		return nil
	}
	for _, name := range s.Fields() {
		field, _ := s.Field(name)
		if field.Condition == "" {
			continue
		}
		if err := compiler.Compile(field.Condition); err != nil {
			return fmt.Errorf("form: %w", &schema.InvalidRuleConfigError{
				Field: name,
				Err:   fmt.Errorf("condition %q: %w", field.Condition, err),
			})
		}
	}
	return nil
}

// ValidateOn returns the trigger policy bindings follow.
func (f *Form) ValidateOn() Trigger {
	return f.trigger
}

// SetInitialModel seeds the model, remembers it for ResetForm and resets
// validation.
func (f *Form) SetInitialModel(values map[string]any) error {
	if err := f.guard("SetInitialModel"); err != nil {
		return err
	}
	f.store.SetInitialModel(values)
	f.resetResults()
	f.publish()
	return nil
}

// SetModel merges values into the model and marks them touched.
func (f *Form) SetModel(values map[string]any) error {
	if err := f.guard("SetModel"); err != nil {
		return err
	}
	f.store.SetModel(values)
	f.refresh()
	f.publish()
	return nil
}

// SetProperty sets one value and marks it touched.
func (f *Form) SetProperty(name string, value any) error {
	return f.setProperty(name, value, false)
}

func (f *Form) setProperty(name string, value any, validate bool) error {
	if err := f.guard("SetProperty"); err != nil {
		return err
	}
	if err := f.store.SetProperty(name, value); err != nil {
		return err
	}
	f.refresh()
	if validate && f.schema.Has(name) {
		f.validateField(name)
	}
	f.publish()
	return nil
}

// ValidateForm validates every field.
func (f *Form) ValidateForm() (validation.FormResult, error) {
	if err := f.guard("ValidateForm"); err != nil {
		return validation.FormResult{}, err
	}
	result := func() validation.FormResult {
		f.evaluating = true
		defer func() { f.evaluating = false }()
		return f.evaluator.ValidateForm(f.store)
	}()

	for name, field := range result.Fields {
		f.results[name] = field
	}
	f.publish()
	return result.Clone(), nil
}

// ValidateField validates a single field.
func (f *Form) ValidateField(name string) (validation.FieldResult, error) {
	if err := f.guard("ValidateField"); err != nil {
		return validation.FieldResult{}, err
	}
	if !f.schema.Has(name) {
		return validation.FieldResult{}, &model.UnknownFieldError{Field: name}
	}
	result := f.validateField(name)
	f.publish()
	return result.Clone(), nil
}

func (f *Form) validateField(name string) validation.FieldResult {
	f.evaluating = true
	defer func() { f.evaluating = false }()

	result, err := f.evaluator.ValidateField(name, f.store)
	if err != nil {
		f.logger.Error("validate field", logger.Field(name), logger.Error(err))
		return f.results[name]
	}
	f.results[name] = result
	return result
}

// ResetValidation clears validation results and touched flags. Values are
// kept.
func (f *Form) ResetValidation() {
	if f.ignored("ResetValidation") {
		return
	}
	f.store.SetUntouched()
	f.resetResults()
	f.publish()
}

// ClearForm empties every value and resets validation.
func (f *Form) ClearForm() {
	if f.ignored("ClearForm") {
		return
	}
	f.store.Clear()
	f.resetResults()
	f.publish()
}

// ResetForm restores the initial model and resets validation.
func (f *Form) ResetForm() {
	if f.ignored("ResetForm") {
		return
	}
	f.store.Reset()
	f.resetResults()
	f.publish()
}

// SetTouched marks every field touched.
func (f *Form) SetTouched() {
	if f.ignored("SetTouched") {
		return
	}
	f.store.SetTouched()
	f.refresh()
	f.publish()
}

// SetUntouched clears every touched flag.
func (f *Form) SetUntouched() {
	if f.ignored("SetUntouched") {
		return
	}
	f.store.SetUntouched()
	f.refresh()
	f.publish()
}

// GetSchema returns the current result of one field.
func (f *Form) GetSchema(name string) (validation.FieldResult, bool) {
	result, ok := f.results[name]
	if !ok {
		return validation.FieldResult{}, false
	}
	return result.Clone(), true
}

// Schema returns the current form result.
func (f *Form) Schema() validation.FormResult {
	out := validation.FormResult{Fields: make(map[string]validation.FieldResult, len(f.results))}
	for name, result := range f.results {
		out.Fields[name] = result.Clone()
	}
	out.IsValid = validation.Aggregate(out.Fields)
	return out
}

// Model returns a read-only copy of the model.
func (f *Form) Model() map[string]model.FieldValue {
	return f.store.Fields()
}

// Values returns a copy of the current values.
func (f *Form) Values() map[string]any {
	return f.store.Values()
}

// Fields lists the declared fields in order.
func (f *Form) Fields() []string {
	return f.schema.Fields()
}

// Definition returns the normalized rules of name.
func (f *Form) Definition(name string) (schema.FieldSchema, bool) {
	return f.schema.Field(name)
}

// Visible reports whether name is declared and its condition holds.
func (f *Form) Visible(name string) bool {
	return f.evaluator.Visible(name, f.store)
}

// IsTouched reports whether any field is touched.
func (f *Form) IsTouched() bool {
	return f.store.IsTouched()
}

// IsButtonDisabled is true unless the form is known to be valid.
func (f *Form) IsButtonDisabled() bool {
	return validation.Aggregate(f.results) != validation.Valid
}

// refresh re-validates fields whose validity is already known and syncs
// touched flags of the others.
func (f *Form) refresh() {
	for _, name := range f.schema.Fields() {
		current := f.results[name]
		if current.IsValid.Known() {
			f.validateField(name)
			continue
		}
		fv, _ := f.store.Get(name)
		current.IsTouched = fv.IsTouched
		f.results[name] = current
	}
}

func (f *Form) resetResults() {
	f.results = f.evaluator.Reset().Fields
	for name, result := range f.results {
		fv, _ := f.store.Get(name)
		result.IsTouched = fv.IsTouched
		f.results[name] = result
	}
}

func (f *Form) guard(op string) error {
	if f.evaluating {
		return fmt.Errorf("%w: %s", ErrReentrantMutation, op)
	}
	return nil
}

func (f *Form) ignored(op string) bool {
	if err := f.guard(op); err != nil {
		f.logger.Warn("operation ignored", logger.Op(op), logger.Error(err))
		return true
	}
	return false
}
