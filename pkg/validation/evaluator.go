package validation

import (
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/logger"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

// Reader exposes the model state the evaluator needs. *model.Store
// satisfies it.
type Reader interface {
	Get(name string) (model.FieldValue, bool)
	Values() map[string]any
}

var _ Reader = (*model.Store)(nil)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger routes rule and condition failures to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithVisibility overrides the evaluator used for field conditions.
func WithVisibility(ev visibility.Evaluator) Option {
	return func(e *Evaluator) {
		if ev != nil {
			e.visibility = ev
		}
	}
}

// WithExtras exposes extras to conditions under the `extras.` prefix.
func WithExtras(extras map[string]any) Option {
	return func(e *Evaluator) {
		e.extras = extras
	}
}

// Evaluator validates a model against a normalized schema. It holds no
// per-form state and may be shared.
type Evaluator struct {
	schema     *schema.Schema
	logger     *slog.Logger
	visibility visibility.Evaluator
	extras     map[string]any
}

// New returns an Evaluator for s.
func New(s *schema.Schema, opts ...Option) *Evaluator {
	e := &Evaluator{
		schema:     s,
		logger:     logger.Discard(),
		visibility: expr.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Schema returns the schema the evaluator runs.
func (e *Evaluator) Schema() *schema.Schema {
	return e.schema
}

// ValidateField runs every rule of name against its current value.
func (e *Evaluator) ValidateField(name string, r Reader) (FieldResult, error) {
	field, ok := e.schema.Field(name)
	if !ok {
		return FieldResult{}, &model.UnknownFieldError{Field: name}
	}

	current, _ := r.Get(name)
	result := FieldResult{Errors: []RuleError{}, IsTouched: current.IsTouched}

	if !e.visible(field, r) {
		result.IsValid = Valid
		return result, nil
	}

	for _, def := range field.Rules {
		ok, err := def.Check(current.Value)
		if err != nil {
			e.logger.Warn("rule evaluation failed",
				logger.Field(name),
				logger.Rule(def.Name),
				logger.Error(err),
			)
		}
		if ok && err == nil {
			continue
		}
		result.Errors = append(result.Errors, RuleError{
			Rule:      def.Name,
			Condition: def.Param,
			Message:   def.Render(name, current.Value),
			Err:       err,
		})
	}

	result.IsValid = FromBool(len(result.Errors) == 0)
	return result, nil
}

// ValidateForm validates every declared field.
func (e *Evaluator) ValidateForm(r Reader) FormResult {
	names := e.schema.Fields()
	out := FormResult{Fields: make(map[string]FieldResult, len(names))}
	for _, name := range names {
		result, err := e.ValidateField(name, r)
		if err != nil {
			// declared names always resolve
			e.logger.Error("validate field", logger.Field(name), logger.Error(err))
			continue
		}
		out.Fields[name] = result
	}
	out.IsValid = Aggregate(out.Fields)
	return out
}

// Reset returns the result of a form that has not been validated: every
// field untouched, without errors and Unknown.
func (e *Evaluator) Reset() FormResult {
	names := e.schema.Fields()
	out := FormResult{Fields: make(map[string]FieldResult, len(names))}
	for _, name := range names {
		out.Fields[name] = ResetField()
	}
	out.IsValid = Aggregate(out.Fields)
	return out
}

// Visible reports whether the condition of name holds for the current model.
// Unknown fields are not visible.
func (e *Evaluator) Visible(name string, r Reader) bool {
	field, ok := e.schema.Field(name)
	if !ok {
		return false
	}
	return e.visible(field, r)
}

func (e *Evaluator) visible(field schema.FieldSchema, r Reader) bool {
	if field.Condition == "" {
		return true
	}
	ok, err := e.visibility.Eval(field.Name, field.Condition, visibility.Context{
		Values: r.Values(),
		Extras: e.extras,
	})
	if err != nil {
		e.logger.Warn("field condition failed; validating as visible",
			logger.Field(field.Name),
			slog.String("condition", field.Condition),
			logger.Error(err),
		)
		return true
	}
	return ok
}
