package form

import (
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Option customises a Form.
type Option func(*options)

type options struct {
	registry   *rules.Registry
	logger     *slog.Logger
	visibility visibility.Evaluator
	extras     map[string]any
}

// WithRegistry resolves rule names against reg.
func WithRegistry(reg *rules.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithLogger sets the logger used for ignored operations and rule failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithVisibility overrides the evaluator for field conditions.
func WithVisibility(ev visibility.Evaluator) Option {
	return func(o *options) {
		if ev != nil {
			o.visibility = ev
		}
	}
}

// WithExtras exposes extra values to field conditions.
func WithExtras(extras map[string]any) Option {
	return func(o *options) {
		o.extras = extras
	}
}
