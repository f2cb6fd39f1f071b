package schemabuilder

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Keys read from the x-formstate extension.
const (
	extValidateOn = "validateOn"
	extMessages   = "messages"
	extCondition  = "condition"
	extRules      = "rules"
)

// ErrNoFields is returned when an operation's request body declares no
// properties.
var ErrNoFields = errors.New("schemabuilder: request body has no properties")

// Builder converts OpenAPI operations into schema configs.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Formats != nil {
		opts.Formats = options.Formats
	}
	return &Builder{opts: opts}
}

// Build turns the request body of op into a schema.Config. Every top-level
// property becomes a field, in sorted order.
func (b *Builder) Build(op pkgopenapi.Operation) (schema.Config, error) {
	body := op.RequestBody
	if len(body.Properties) == 0 {
		return schema.Config{}, fmt.Errorf("%w: operation %s", ErrNoFields, op.ID)
	}

	cfg := schema.Config{}
	if err := applyOperationExtensions(&cfg, op.Extensions); err != nil {
		return schema.Config{}, fmt.Errorf("schemabuilder: operation %s: %w", op.ID, err)
	}

	for _, name := range body.PropertyNames() {
		property := body.Properties[name]
		field, condition, err := b.field(name, property, body.IsRequired(name))
		if err != nil {
			return schema.Config{}, fmt.Errorf("schemabuilder: operation %s: field %s: %w", op.ID, name, err)
		}
		if condition != "" {
			if cfg.Conditions == nil {
				cfg.Conditions = make(map[string]string)
			}
			cfg.Conditions[name] = condition
		}
		cfg.Fields = append(cfg.Fields, field)
	}
	return cfg, nil
}

func (b *Builder) field(name string, property pkgopenapi.Schema, required bool) (schema.FieldConfig, string, error) {
	var entries []schema.Entry
	if required {
		entries = append(entries, schema.Required())
	}
	if property.MinLength != nil {
		entries = append(entries, schema.MinLength(*property.MinLength))
	}
	if property.MaxLength != nil {
		entries = append(entries, schema.MaxLength(*property.MaxLength))
	}
	if property.Pattern != "" {
		entries = append(entries, schema.Pattern(property.Pattern))
	}
	if property.Minimum != nil {
		entries = append(entries, schema.Rule(rules.RuleMin, *property.Minimum))
	}
	if property.Maximum != nil {
		entries = append(entries, schema.Rule(rules.RuleMax, *property.Maximum))
	}
	if rule, ok := b.opts.Formats[strings.ToLower(property.Format)]; ok && property.Format != "" {
		entries = append(entries, schema.Rule(rule, true))
	}

	ext := property.Extensions
	extra, err := mapValue(ext, extRules)
	if err != nil {
		return schema.FieldConfig{}, "", err
	}
	for _, rule := range sortedKeys(extra) {
		entries = append(entries, schema.Rule(rule, extra[rule]))
	}

	messages, err := stringMap(ext, extMessages)
	if err != nil {
		return schema.FieldConfig{}, "", err
	}
	for i, entry := range entries {
		if text, ok := messages[entry.Rule]; ok {
			entries[i] = entry.WithMessage(text)
		}
	}

	condition, err := stringValue(ext, extCondition)
	if err != nil {
		return schema.FieldConfig{}, "", err
	}
	return schema.Field(name, entries...), condition, nil
}

func applyOperationExtensions(cfg *schema.Config, ext map[string]any) error {
	validateOn, err := stringValue(ext, extValidateOn)
	if err != nil {
		return err
	}
	cfg.ValidateOn = validateOn

	messages, err := stringMap(ext, extMessages)
	if err != nil {
		return err
	}
	if len(messages) > 0 {
		cfg.Messages = make(map[string]rules.Message, len(messages))
		for rule, text := range messages {
			cfg.Messages[rule] = rules.MessageOf(text)
		}
	}
	return nil
}

func stringValue(ext map[string]any, key string) (string, error) {
	raw, ok := ext[key]
	if !ok || raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("x-formstate %s must be a string, got %T", key, raw)
	}
	return strings.TrimSpace(value), nil
}

func mapValue(ext map[string]any, key string) (map[string]any, error) {
	raw, ok := ext[key]
	if !ok || raw == nil {
		return nil, nil
	}
	value, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("x-formstate %s must be an object, got %T", key, raw)
	}
	return value, nil
}

func stringMap(ext map[string]any, key string) (map[string]string, error) {
	raw, err := mapValue(ext, key)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for name, value := range raw {
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("x-formstate %s.%s must be a string, got %T", key, name, value)
		}
		out[name] = text
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
