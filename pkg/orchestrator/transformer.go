package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Transformer mutates a schema config before the form normalizes it.
type Transformer interface {
	Transform(ctx context.Context, cfg *schema.Config) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, cfg *schema.Config) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, cfg *schema.Config) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, cfg)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports form-level messages and conditions plus
// per-field patches:
//
//	{
//	  "validateOn": "change",
//	  "messages": {"required": "Needed"},
//	  "conditions": {"company": "accountType == 'business'"},
//	  "fields": {
//	    "username": {"rules": {"plainText": true}, "messages": {"minLength": "Too short"}}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	ValidateOn string                    `json:"validateOn"`
	Messages   map[string]string         `json:"messages"`
	Conditions map[string]string         `json:"conditions"`
	Fields     map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Rules    map[string]any    `json:"rules"`
	Messages map[string]string `json:"messages"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto cfg. Patches naming an
// unknown field fail.
func (t *JSONPresetTransformer) Transform(ctx context.Context, cfg *schema.Config) error {
	if cfg == nil {
		return errors.New("json preset transformer: schema config is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.ValidateOn != "" {
		cfg.ValidateOn = t.document.ValidateOn
	}
	for rule, text := range t.document.Messages {
		if cfg.Messages == nil {
			cfg.Messages = make(map[string]rules.Message, len(t.document.Messages))
		}
		cfg.Messages[rule] = rules.Text(text)
	}
	for name, condition := range t.document.Conditions {
		if _, ok := cfg.Field(name); !ok {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		if cfg.Conditions == nil {
			cfg.Conditions = make(map[string]string, len(t.document.Conditions))
		}
		cfg.Conditions[name] = condition
	}

	for name, patch := range t.document.Fields {
		field := findField(cfg.Fields, name)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

// applyFieldPatch replaces existing entries in place and appends new rules in
// sorted order, then attaches message overrides.
func applyFieldPatch(field *schema.FieldConfig, patch jsonFieldPatch) {
	names := make([]string, 0, len(patch.Rules))
	for rule := range patch.Rules {
		names = append(names, rule)
	}
	sort.Strings(names)

	for _, rule := range names {
		value := patch.Rules[rule]
		if idx := entryIndex(field.Entries, rule); idx >= 0 {
			field.Entries[idx].Value = value
			continue
		}
		field.Entries = append(field.Entries, schema.Rule(rule, value))
	}
	for i, entry := range field.Entries {
		if text, ok := patch.Messages[entry.Rule]; ok {
			field.Entries[i] = entry.WithMessage(text)
		}
	}
}

func findField(fields []schema.FieldConfig, name string) *schema.FieldConfig {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

func entryIndex(entries []schema.Entry, rule string) int {
	for idx, entry := range entries {
		if entry.Rule == rule {
			return idx
		}
	}
	return -1
}
