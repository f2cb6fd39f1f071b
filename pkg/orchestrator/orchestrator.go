package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	internalLoader "github.com/goliatone/go-formstate/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formstate/internal/openapi/parser"
	"github.com/goliatone/go-formstate/internal/schemabuilder"
	"github.com/goliatone/go-formstate/pkg/form"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Builder converts an OpenAPI operation into a schema config.
type Builder interface {
	Build(op pkgopenapi.Operation) (schema.Config, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithBuilder injects a custom schema builder.
func WithBuilder(builder Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithSchemaTransformer registers a Transformer that can mutate the schema
// config after building and before the form normalizes it.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithFormOptions forwards options to every form the orchestrator creates.
func WithFormOptions(opts ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, opts...)
	}
}

// Orchestrator coordinates the pipeline from OpenAPI document to form. Missing
// dependencies fall back to the built-in implementations.
type Orchestrator struct {
	loader      pkgopenapi.Loader
	parser      pkgopenapi.Parser
	builder     Builder
	transformer Transformer
	formOptions []form.Option
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.builder == nil {
		o.builder = schemabuilder.New(schemabuilder.Options{})
	}
	return o
}

// Request describes the inputs required to build a form from an OpenAPI
// operation.
type Request struct {
	// Source identifies where the OpenAPI document lives. Optional when Document
	// is supplied.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader when they already have the
	// payload.
	Document *pkgopenapi.Document

	// OperationID selects which operation backs the form.
	OperationID string

	// ValidateOn overrides the operation's x-formstate validateOn.
	ValidateOn form.Trigger

	// Messages overrides failure messages by rule name.
	Messages map[string]rules.Message
}

// Operations lists the operation ids of the requested document in sorted
// order.
func (o *Orchestrator) Operations(ctx context.Context, req Request) ([]string, error) {
	operations, err := o.operations(ctx, req)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Config executes the loader → parser → builder → transformer sequence and
// returns the schema config of the requested operation.
func (o *Orchestrator) Config(ctx context.Context, req Request) (schema.Config, error) {
	if req.OperationID == "" {
		return schema.Config{}, errors.New("orchestrator: operation id is required")
	}
	operations, err := o.operations(ctx, req)
	if err != nil {
		return schema.Config{}, err
	}
	op, ok := operations[req.OperationID]
	if !ok {
		return schema.Config{}, fmt.Errorf("orchestrator: operation %q not found", req.OperationID)
	}

	cfg, err := o.builder.Build(op)
	if err != nil {
		return schema.Config{}, fmt.Errorf("orchestrator: build schema: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &cfg); err != nil {
			return schema.Config{}, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}
	return cfg, nil
}

// Form builds the schema config of the requested operation and returns a
// form around it.
func (o *Orchestrator) Form(ctx context.Context, req Request, opts ...form.Option) (*form.Form, error) {
	cfg, err := o.Config(ctx, req)
	if err != nil {
		return nil, err
	}
	formOpts := append(append([]form.Option(nil), o.formOptions...), opts...)
	f, err := form.New(form.Config{
		ValidateOn: req.ValidateOn,
		Schema:     cfg,
		Messages:   req.Messages,
	}, formOpts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return f, nil
}

func (o *Orchestrator) operations(ctx context.Context, req Request) (map[string]pkgopenapi.Operation, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	return operations, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}
