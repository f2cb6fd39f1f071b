// Package formstate is the entry point of the declarative form-validation
// engine. It re-exports the types most callers need and offers shortcuts for
// building forms from schema documents and OpenAPI operations.
package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/form"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Form aliases form.Form.
type Form = form.Form

// Config aliases form.Config.
type Config = form.Config

// State aliases form.State, the snapshot published after every operation.
type State = form.State

// Binding aliases form.Binding.
type Binding = form.Binding

// Trigger aliases form.Trigger.
type Trigger = form.Trigger

// Validity aliases validation.Validity.
type Validity = validation.Validity

const (
	ValidateOnBlur   = form.ValidateOnBlur
	ValidateOnChange = form.ValidateOnChange
)

// New normalizes cfg and returns a form.
func New(cfg Config, opts ...form.Option) (*Form, error) {
	return form.New(cfg, opts...)
}

// NewFromFile loads a YAML or JSON schema document and returns a form for it.
// The document's validateOn applies.
func NewFromFile(path string, opts ...form.Option) (*Form, error) {
	cfg, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return form.New(form.Config{Schema: cfg}, opts...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewFromOpenAPI loads source, picks operationID and returns a form for its
// request body.
func NewFromOpenAPI(ctx context.Context, source pkgopenapi.Source, operationID string, options ...orchestrator.Option) (*Form, error) {
	return orchestrator.New(options...).Form(ctx, orchestrator.Request{
		Source:      source,
		OperationID: operationID,
	})
}
