package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

var signupSource = pkgopenapi.SourceFromFile(filepath.Join("testdata", "signup.yaml"))

func TestOrchestratorFormFromSource(t *testing.T) {
	t.Parallel()

	ctx := testsupport.Context()
	f, err := orchestrator.New().Form(ctx, orchestrator.Request{
		Source:      signupSource,
		OperationID: "signup",
	})
	if err != nil {
		t.Fatalf("Form: %v", err)
	}

	if f.ValidateOn() != form.ValidateOnChange {
		t.Fatalf("expected validateOn from the operation extension, got %q", f.ValidateOn())
	}
	if diff := cmp.Diff([]string{"accountType", "age", "company", "email", "password", "username"}, f.Fields()); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}

	_ = f.SetInitialModel(nil)
	result, err := f.ValidateForm()
	if err != nil {
		t.Fatalf("ValidateForm: %v", err)
	}

	goldenPath := filepath.Join("testdata", "signup_errors.golden.json")
	if testsupport.WriteGolden(t, goldenPath, result.Errors()) {
		return
	}
	want := testsupport.MustLoadGolden[map[string][]string](t, goldenPath)
	if diff := testsupport.CompareGolden(want, result.Errors()); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestratorConditionFromExtension(t *testing.T) {
	t.Parallel()

	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "signup.yaml"))
	f, err := orchestrator.New().Form(context.Background(), orchestrator.Request{
		Document:    &doc,
		OperationID: "signup",
		ValidateOn:  form.ValidateOnBlur,
	})
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if f.ValidateOn() != form.ValidateOnBlur {
		t.Fatalf("request ValidateOn should override the extension")
	}

	_ = f.SetInitialModel(map[string]any{"accountType": "personal"})
	if res, _ := f.ValidateField("company"); !res.IsValid.Known() || len(res.Errors) != 0 {
		t.Fatalf("hidden company should be valid, got %+v", res)
	}

	_ = f.SetProperty("accountType", "business")
	if res, _ := f.GetSchema("company"); !res.Has("required") {
		t.Fatalf("visible company should require a value, got %+v", res)
	}
}

func TestOrchestratorOperations(t *testing.T) {
	t.Parallel()

	ids, err := orchestrator.New().Operations(context.Background(), orchestrator.Request{Source: signupSource})
	if err != nil {
		t.Fatalf("Operations: %v", err)
	}
	if diff := cmp.Diff([]string{"signup", "updateProfile"}, ids); diff != "" {
		t.Fatalf("operations (-want +got):\n%s", diff)
	}
}

func TestOrchestratorAppliesTransformer(t *testing.T) {
	t.Parallel()

	preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS("testdata"), "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	orch := orchestrator.New(orchestrator.WithSchemaTransformer(preset))
	cfg, err := orch.Config(context.Background(), orchestrator.Request{Source: signupSource, OperationID: "signup"})
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	username, _ := cfg.Field("username")
	var ruleNames []string
	for _, entry := range username.Entries {
		ruleNames = append(ruleNames, entry.Rule)
	}
	if diff := cmp.Diff([]string{"required", "minLength", "maxLength", "pattern", "plainText"}, ruleNames); diff != "" {
		t.Fatalf("username rules (-want +got):\n%s", diff)
	}

	f, err := orch.Form(context.Background(), orchestrator.Request{Source: signupSource, OperationID: "signup"})
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	_ = f.SetInitialModel(nil)
	result, _ := f.ValidateForm()
	want := map[string][]string{
		"email":    {"Needed"},
		"password": {"Needed", "Must be at least 8 characters long"},
		"username": {"Needed", "Pick at least 4 characters"},
	}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors (-want +got):\n%s", diff)
	}
}

func TestOrchestratorTransformerFunc(t *testing.T) {
	t.Parallel()

	called := false
	transformer := orchestrator.TransformerFunc(func(_ context.Context, cfg *schema.Config) error {
		called = true
		cfg.Fields = append(cfg.Fields, schema.Field("terms", schema.Required()))
		return nil
	})

	f, err := orchestrator.New(
		orchestrator.WithParser(stubParser{operation: pkgopenapi.Operation{
			ID:          "stub",
			RequestBody: pkgopenapi.Schema{Properties: map[string]pkgopenapi.Schema{"name": {}}},
		}}),
		orchestrator.WithSchemaTransformer(transformer),
	).Form(context.Background(), orchestrator.Request{Document: &pkgopenapi.Document{}, OperationID: "stub"})
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if !called {
		t.Fatalf("expected transformer to be invoked")
	}
	if diff := cmp.Diff([]string{"name", "terms"}, f.Fields()); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
}

func TestOrchestratorErrors(t *testing.T) {
	t.Parallel()

	failing := orchestrator.TransformerFunc(func(context.Context, *schema.Config) error {
		return errors.New("boom")
	})
	ctx := context.Background()

	cases := []struct {
		name string
		orch *orchestrator.Orchestrator
		req  orchestrator.Request
		want string
	}{
		{
			name: "missing operation id",
			orch: orchestrator.New(),
			req:  orchestrator.Request{Source: signupSource},
			want: "operation id is required",
		},
		{
			name: "missing source",
			orch: orchestrator.New(),
			req:  orchestrator.Request{OperationID: "signup"},
			want: "source or document is required",
		},
		{
			name: "unknown operation",
			orch: orchestrator.New(),
			req:  orchestrator.Request{Source: signupSource, OperationID: "missing"},
			want: `operation "missing" not found`,
		},
		{
			name: "transformer failure",
			orch: orchestrator.New(orchestrator.WithSchemaTransformer(failing)),
			req:  orchestrator.Request{Source: signupSource, OperationID: "signup"},
			want: "transform schema: boom",
		},
		{
			name: "parser failure",
			orch: orchestrator.New(orchestrator.WithParser(stubParser{err: errors.New("bad document")})),
			req:  orchestrator.Request{Document: &pkgopenapi.Document{}, OperationID: "signup"},
			want: "parse operations: bad document",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := tc.orch.Form(ctx, tc.req)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

type stubParser struct {
	operation pkgopenapi.Operation
	err       error
}

func (s stubParser) Operations(context.Context, pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string]pkgopenapi.Operation{s.operation.ID: s.operation}, nil
}
