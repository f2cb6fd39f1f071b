package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func ruleNames(field schema.FieldSchema) []string {
	names := make([]string, 0, len(field.Rules))
	for _, def := range field.Rules {
		names = append(names, def.Name)
	}
	return names
}

func TestNormalizeKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	s, err := schema.Normalize(schema.Config{
		Fields: []schema.FieldConfig{
			schema.Field("lastname", schema.MaxLength(20), schema.MinLength(2), schema.Required()),
			schema.Field("firstname", schema.Required()),
		},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if diff := cmp.Diff([]string{"lastname", "firstname"}, s.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	field, ok := s.Field("lastname")
	if !ok {
		t.Fatalf("lastname missing")
	}
	if diff := cmp.Diff([]string{"maxLength", "minLength", "required"}, ruleNames(field)); diff != "" {
		t.Fatalf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeDropsFalsyEntries(t *testing.T) {
	t.Parallel()

	s := schema.MustNormalize(schema.Config{
		Fields: []schema.FieldConfig{
			schema.Field("nickname",
				schema.Rule("required", false),
				schema.Rule("minLength", 0),
				schema.Rule("pattern", ""),
				schema.Rule("maxLength", nil),
				schema.Rule("maxLength", 10),
			),
		},
	})

	field, _ := s.Field("nickname")
	if diff := cmp.Diff([]string{"maxLength"}, ruleNames(field)); diff != "" {
		t.Fatalf("unexpected rules (-want +got):\n%s", diff)
	}
}

func TestNormalizeRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		cfg    schema.Config
		target error
	}{
		{
			name:   "custom without test",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field("a", schema.CustomRule("noSpaces", nil, "no"))}},
			target: rules.ErrMissingTest,
		},
		{
			name: "map without test",
			cfg: schema.Config{Fields: []schema.FieldConfig{schema.Field("a", schema.Entry{
				Rule:  "strong",
				Value: map[string]any{"message": "too weak"},
			})}},
			target: rules.ErrMissingTest,
		},
		{
			name:   "unknown rule",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field("a", schema.Rule("creditCard", true))}},
			target: rules.ErrUnknownRule,
		},
		{
			name:   "uncompilable pattern",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field("a", schema.Rule("pattern", "(["))}},
			target: rules.ErrInvalidParam,
		},
		{
			name:   "boolean minLength",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field("a", schema.Rule("minLength", true))}},
			target: rules.ErrInvalidParam,
		},
		{
			name:   "non numeric maxLength",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field("a", schema.Rule("maxLength", "abc"))}},
			target: rules.ErrInvalidParam,
		},
		{
			name:   "negative minLength",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field("a", schema.Rule("minLength", -1))}},
			target: rules.ErrInvalidParam,
		},
		{
			name:   "non numeric min",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field("a", schema.Rule("min", "ten"))}},
			target: rules.ErrInvalidParam,
		},
		{
			name:   "duplicate field",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field("a"), schema.Field("a")}},
			target: schema.ErrDuplicateField,
		},
		{
			name:   "empty field name",
			cfg:    schema.Config{Fields: []schema.FieldConfig{schema.Field(" ")}},
			target: schema.ErrFieldName,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := schema.Normalize(tc.cfg)
			if !errors.Is(err, schema.ErrInvalidRuleConfig) {
				t.Fatalf("expected ErrInvalidRuleConfig, got %v", err)
			}
			if !errors.Is(err, tc.target) {
				t.Fatalf("expected %v in chain, got %v", tc.target, err)
			}
			var cfgErr *schema.InvalidRuleConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *InvalidRuleConfigError, got %T", err)
			}
		})
	}
}

func TestNormalizeConditionOnUnknownField(t *testing.T) {
	t.Parallel()

	_, err := schema.Normalize(schema.Config{
		Fields:     []schema.FieldConfig{schema.Field("a")},
		Conditions: map[string]string{"b": "a == true"},
	})
	if !errors.Is(err, schema.ErrInvalidRuleConfig) {
		t.Fatalf("expected ErrInvalidRuleConfig, got %v", err)
	}
}

func TestNormalizeMessagePrecedence(t *testing.T) {
	t.Parallel()

	noSpaces := func(value, _ any) bool { return !strings.Contains(value.(string), " ") }
	s := schema.MustNormalize(schema.Config{
		Messages: map[string]rules.Message{
			"required": rules.Text("global required"),
			"noSpaces": rules.Text("global noSpaces"),
			"trimmed":  rules.Text("global trimmed"),
		},
		Fields: []schema.FieldConfig{
			schema.Field("a",
				schema.Required(),
				schema.MinLength(3),
				schema.CustomRule("noSpaces", noSpaces, "inline noSpaces"),
				schema.CustomRule("trimmed", noSpaces, nil),
				schema.CustomRule("anon", noSpaces, nil),
			),
			schema.Field("b",
				schema.Required().WithMessage("field required"),
			),
		},
	}, schema.WithMessages(map[string]rules.Message{
		"minLength": rules.MessageFunc(func(param any) string { return "option minLength" }),
	}))

	a, _ := s.Field("a")
	got := make([]string, 0, len(a.Rules))
	for _, def := range a.Rules {
		got = append(got, def.Render("a", ""))
	}
	want := []string{"global required", "option minLength", "inline noSpaces", "global trimmed", rules.DefaultMessage}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}

	b, _ := s.Field("b")
	if msg := b.Rules[0].Render("b", ""); msg != "field required" {
		t.Fatalf("expected per-field override, got %q", msg)
	}
}

func TestNormalizeCustomRulesFromRegistryAndMaps(t *testing.T) {
	t.Parallel()

	reg := rules.NewRegistry()
	reg.MustRegister("even", func(value, _ any) (bool, error) {
		n, _ := value.(int)
		return n%2 == 0, nil
	}, rules.Text("must be even"))

	s, err := schema.Normalize(schema.Config{
		Fields: []schema.FieldConfig{
			schema.Field("count", schema.Rule("even", true), schema.Entry{
				Rule: "positive",
				Value: map[string]any{
					"test":    func(value, _ any) bool { return value.(int) > 0 },
					"message": "must be positive",
				},
			}),
		},
	}, schema.WithRegistry(reg))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	field, _ := s.Field("count")
	if diff := cmp.Diff([]string{"even", "positive"}, ruleNames(field)); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	if ok, _ := field.Rules[1].Check(-1); ok {
		t.Fatalf("expected positive to fail for -1")
	}
	if msg := field.Rules[1].Render("count", -1); msg != "must be positive" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestSchemaAccessorsOnNil(t *testing.T) {
	t.Parallel()

	var s *schema.Schema
	if s.Has("a") || s.Len() != 0 || s.Fields() != nil || s.ValidateOn() != "" {
		t.Fatalf("nil schema should behave as empty")
	}
	if _, ok := s.Field("a"); ok {
		t.Fatalf("nil schema should not resolve fields")
	}
}
