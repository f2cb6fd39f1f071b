package formstate

import (
	internalLoader "github.com/goliatone/go-formstate/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formstate/internal/openapi/parser"
	"github.com/goliatone/go-formstate/internal/schemabuilder"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// ConfigFromOperation converts the request body of op into a schema config.
func ConfigFromOperation(op pkgopenapi.Operation) (schema.Config, error) {
	return schemabuilder.New(schemabuilder.Options{}).Build(op)
}
