package orchestrator

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func TestJSONPresetTransformer(t *testing.T) {
	t.Parallel()

	transformer, err := NewJSONPresetTransformer([]byte(`{
	  "validateOn": "change",
	  "messages": {"required": "Needed"},
	  "conditions": {"company": "type == 'business'"},
	  "fields": {"company": {"rules": {"maxLength": 20}, "messages": {"required": "Company?"}}}
	}`))
	if err != nil {
		t.Fatalf("NewJSONPresetTransformer: %v", err)
	}

	cfg := schema.Config{Fields: []schema.FieldConfig{
		schema.Field("type"),
		schema.Field("company", schema.Required()),
	}}
	if err := transformer.Transform(context.Background(), &cfg); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	want := schema.Config{
		ValidateOn: "change",
		Messages:   map[string]rules.Message{"required": rules.Text("Needed")},
		Conditions: map[string]string{"company": "type == 'business'"},
		Fields: []schema.FieldConfig{
			schema.Field("type"),
			schema.Field("company",
				schema.Required().WithMessage("Company?"),
				schema.Rule(rules.RuleMaxLength, float64(20)),
			),
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONPresetTransformerErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := NewJSONPresetTransformer([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed document")
	}
	if _, err := NewJSONPresetTransformerFromFS(fstest.MapFS{}, "missing.json"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := NewJSONPresetTransformerFromFS(nil, "preset.json"); err == nil {
		t.Fatalf("expected error for nil filesystem")
	}

	for _, doc := range []string{
		`{"fields": {"ghost": {"rules": {"required": true}}}}`,
		`{"conditions": {"ghost": "a == 1"}}`,
	} {
		transformer, err := NewJSONPresetTransformer([]byte(doc))
		if err != nil {
			t.Fatalf("NewJSONPresetTransformer: %v", err)
		}
		cfg := schema.Config{Fields: []schema.FieldConfig{schema.Field("name")}}
		err = transformer.Transform(context.Background(), &cfg)
		if err == nil || !strings.Contains(err.Error(), `field "ghost" not found`) {
			t.Fatalf("expected unknown field error, got %v", err)
		}
	}
}
