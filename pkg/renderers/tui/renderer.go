package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/logger"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Renderer fills a form from the terminal. Every visible field is prompted
// through its binding and re-prompted until its rules pass.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	secrets           map[string]bool
	maxAttempts       int
	logger            *slog.Logger
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		secrets:      make(map[string]bool),
		logger:       logger.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts every visible field of f, then serializes the visible
// values. Fields revealed or invalidated by later answers are prompted again
// until the whole form validates.
func (r *Renderer) Render(ctx context.Context, f *form.Form) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New("tui: form is required")
	}

	pending := f.Fields()
	for pass := 0; pass <= len(f.Fields()); pass++ {
		for _, name := range pending {
			if !f.Visible(name) {
				continue
			}
			if err := r.promptField(ctx, f, name); err != nil {
				return nil, err
			}
		}

		result, err := f.ValidateForm()
		if err != nil {
			return nil, err
		}
		if result.IsValid == validation.Valid {
			return r.submit(f)
		}
		pending = invalidFields(f.Fields(), result)
	}
	return nil, ErrUnsettled
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, name string) error {
	binding, err := f.Field(name)
	if err != nil {
		return err
	}
	label := r.theme.PromptPrefix + name
	help := ruleHelp(f, name)

	for attempt := 1; ; attempt++ {
		value, err := r.ask(ctx, binding, label, help)
		if err != nil {
			return err
		}
		if err := binding.Set(value); err != nil {
			return err
		}
		if err := binding.Blur(); err != nil {
			return err
		}

		result := binding.Result()
		if result.IsValid != validation.Invalid {
			return nil
		}
		r.logger.Debug("answer rejected", logger.Field(name), slog.Any("rules", ruleNames(result)))
		for _, msg := range result.Messages() {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return err
			}
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrAttemptsExceeded, name)
		}
	}
}

func (r *Renderer) ask(ctx context.Context, binding *form.Binding, label, help string) (any, error) {
	switch current := binding.Value().(type) {
	case bool:
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current, Help: help})
	default:
		cfg := InputConfig{Message: label, Help: help}
		if r.secrets[binding.Name()] {
			return r.driver.Password(ctx, cfg)
		}
		if current != nil {
			cfg.Default = fmt.Sprint(current)
		}
		return r.driver.Input(ctx, cfg)
	}
}

func (r *Renderer) submit(f *form.Form) ([]byte, error) {
	values := f.Values()
	for _, name := range f.Fields() {
		if !f.Visible(name) {
			delete(values, name)
		}
	}
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func invalidFields(names []string, result validation.FormResult) []string {
	var out []string
	for _, name := range names {
		if result.Fields[name].IsValid == validation.Invalid {
			out = append(out, name)
		}
	}
	return out
}

func ruleHelp(f *form.Form, name string) string {
	def, ok := f.Definition(name)
	if !ok || len(def.Rules) == 0 {
		return ""
	}
	parts := make([]string, 0, len(def.Rules))
	for _, rule := range def.Rules {
		if rule.Param == nil || rule.Name == rules.RuleRequired {
			parts = append(parts, rule.Name)
			continue
		}
		if _, isBool := rule.Param.(bool); isBool {
			parts = append(parts, rule.Name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", rule.Name, rule.Param))
	}
	return strings.Join(parts, ", ")
}

func ruleNames(result validation.FieldResult) []string {
	names := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		names = append(names, e.Rule)
	}
	return names
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}
