package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate"
	internalParser "github.com/goliatone/go-formstate/internal/openapi/parser"
	"github.com/goliatone/go-formstate/pkg/form"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

var (
	operationKeys = []string{"messages", "validateOn"}
	propertyKeys  = []string{"condition", "messages", "rules"}
)

type violation struct {
	file     string
	location string
	message  string
}

func (v violation) String() string {
	if v.location == "" {
		return fmt.Sprintf("%s: %s", v.file, v.message)
	}
	return fmt.Sprintf("%s: %s -> %s", v.file, v.location, v.message)
}

type linter struct {
	parser     pkgopenapi.Parser
	conditions *expr.Evaluator
}

func newLinter() *linter {
	return &linter{
		parser:     formstate.NewParser(),
		conditions: expr.New(),
	}
}

// lintFile reports configuration errors in a schema document or an OpenAPI
// document. Unreadable files fail the run instead.
func (l *linter) lintFile(ctx context.Context, path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if isOpenAPI(raw) {
		return l.lintOpenAPI(ctx, path, raw)
	}
	cfg, err := schema.Parse(raw, path)
	if err != nil {
		return []violation{{file: path, message: err.Error()}}, nil
	}
	return l.lintConfig(path, "", cfg), nil
}

func isOpenAPI(raw []byte) bool {
	var probe struct {
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.OpenAPI != ""
}

func (l *linter) lintConfig(file, location string, cfg schema.Config) []violation {
	var result []violation
	if _, err := schema.Normalize(cfg); err != nil {
		result = append(result, violation{file: file, location: location, message: err.Error()})
	}
	if _, err := form.ParseTrigger(cfg.ValidateOn); err != nil {
		result = append(result, violation{file: file, location: location, message: err.Error()})
	}

	names := make([]string, 0, len(cfg.Conditions))
	for name := range cfg.Conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := l.conditions.Compile(cfg.Conditions[name]); err != nil {
			result = append(result, violation{
				file:     file,
				location: appendLocation(location, "conditions."+name),
				message:  err.Error(),
			})
		}
	}
	return result
}

func (l *linter) lintOpenAPI(ctx context.Context, path string, raw []byte) ([]violation, error) {
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), raw)
	if err != nil {
		return nil, fmt.Errorf("construct document: %w", err)
	}
	operations, err := l.parser.Operations(ctx, doc)
	if err != nil {
		return []violation{{file: path, message: err.Error()}}, nil
	}

	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result []violation
	for _, id := range ids {
		op := operations[id]
		base := "operation " + id
		result = append(result, lintExtensions(path, base, op.Extensions, operationKeys)...)
		for _, name := range op.RequestBody.PropertyNames() {
			location := appendLocation(base, "properties."+name)
			result = append(result, lintExtensions(path, location, op.RequestBody.Properties[name].Extensions, propertyKeys)...)
		}
		if len(op.RequestBody.Properties) == 0 {
			continue
		}

		cfg, err := formstate.ConfigFromOperation(op)
		if err != nil {
			result = append(result, violation{file: path, location: base, message: err.Error()})
			continue
		}
		result = append(result, l.lintConfig(path, base, cfg)...)
	}
	return result, nil
}

func lintExtensions(file, location string, extensions map[string]any, allowed []string) []violation {
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []violation
	for _, key := range keys {
		if !contains(allowed, key) {
			result = append(result, violation{
				file:     file,
				location: location,
				message: fmt.Sprintf("unsupported %s key %q (supported: %s)",
					internalParser.ExtensionKey, key, strings.Join(allowed, ", ")),
			})
		}
	}
	return result
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func appendLocation(location, segment string) string {
	if location == "" {
		return segment
	}
	return location + " > " + segment
}

func sortViolations(violations []violation) {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
}
