package schema_test

import (
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/schema"
)

func TestLoadFileYAML(t *testing.T) {
	t.Parallel()

	cfg, err := schema.LoadFile("testdata/signup.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.ValidateOn != "change" {
		t.Fatalf("expected validateOn change, got %q", cfg.ValidateOn)
	}
	if diff := cmp.Diff([]string{"lastname", "firstname", "email", "username", "subscribe"}, cfg.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Conditions["email"]; got != "subscribe == true" {
		t.Fatalf("unexpected condition %q", got)
	}

	s, err := schema.Normalize(cfg)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.ValidateOn() != "change" {
		t.Fatalf("schema lost validateOn")
	}

	lastname, _ := s.Field("lastname")
	if diff := cmp.Diff([]string{"minLength", "required"}, ruleNames(lastname)); diff != "" {
		t.Fatalf("lastname rules mismatch (-want +got):\n%s", diff)
	}
	if got := lastname.Rules[1].Render("lastname", ""); got != "Please fill in lastname" {
		t.Fatalf("expected global template message, got %q", got)
	}

	username, _ := s.Field("username")
	if diff := cmp.Diff([]string{"pattern"}, ruleNames(username)); diff != "" {
		t.Fatalf("username rules mismatch (-want +got):\n%s", diff)
	}
	if got := username.Rules[0].Render("username", "Bad"); got != "Lowercase letters, digits and underscores only" {
		t.Fatalf("expected entry message, got %q", got)
	}

	subscribe, ok := s.Field("subscribe")
	if !ok || len(subscribe.Rules) != 0 {
		t.Fatalf("expected subscribe declared without rules, got %+v", subscribe)
	}

	email, _ := s.Field("email")
	if email.Condition != "subscribe == true" {
		t.Fatalf("expected condition on email, got %q", email.Condition)
	}
}

func TestLoadFSJSON(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/signup.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	fsys := fstest.MapFS{"forms/signup.json": &fstest.MapFile{Data: data}}

	cfg, err := schema.LoadFS(fsys, "forms/signup.json")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"zip", "age", "bio"}, cfg.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	zip, _ := cfg.Field("zip")
	want := []schema.Entry{
		{Rule: "pattern", Value: "^[0-9]{5}$"},
		{Rule: "required", Value: true},
	}
	if diff := cmp.Diff(want, zip.Entries); diff != "" {
		t.Fatalf("zip entries mismatch (-want +got):\n%s", diff)
	}

	age, _ := cfg.Field("age")
	if age.Entries[0].Value != 18 {
		t.Fatalf("expected integer parameter, got %#v", age.Entries[0].Value)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":          "   ",
		"not a mapping":  "- a\n- b\n",
		"unknown key":    "fieldz: {}\n",
		"bad field body": "fields:\n  a: [1, 2]\n",
		"bad entry key":  "fields:\n  a:\n    pattern:\n      value: x\n      flags: i\n",
		"bad messages":   "messages: [a]\n",
	}
	for name, doc := range cases {
		doc := doc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := schema.Parse([]byte(doc), name); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}

func TestParseEntryWithoutValueFailsNormalization(t *testing.T) {
	t.Parallel()

	cfg, err := schema.Parse([]byte("fields:\n  a:\n    strong:\n      message: too weak\n"), "inline")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := schema.Normalize(cfg); !errors.Is(err, schema.ErrInvalidRuleConfig) {
		t.Fatalf("expected ErrInvalidRuleConfig, got %v", err)
	}
}

func TestIsSchemaFile(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		"a.json": true, "a.YAML": true, "a.yml": true, "a.txt": false, "a": false,
	} {
		if got := schema.IsSchemaFile(path); got != want {
			t.Fatalf("IsSchemaFile(%q) = %v, want %v", path, got, want)
		}
	}
}
