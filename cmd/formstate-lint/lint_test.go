package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRunAcceptsValidDocuments(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		filepath.Join("testdata", "valid_schema.yaml"),
		filepath.Join("testdata", "valid.openapi.yaml"),
	}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "2 file(s) ok" {
		t.Fatalf("unexpected stdout %q", got)
	}
}

func TestLintSchemaDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join("testdata", "invalid_schema.yaml")
	violations, err := newLinter().lintFile(context.Background(), path)
	if err != nil {
		t.Fatalf("lintFile: %v", err)
	}
	sortViolations(violations)

	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(violations), violations)
	}
	wantContains := []string{
		`rule "shouting"`,
		`validateOn must be`,
		"conditions.company",
	}
	joined := joinViolations(violations)
	for _, want := range wantContains {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected violations to mention %q, got:\n%s", want, joined)
		}
	}
}

func TestLintRejectsMalformedRuleParams(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "params.yaml")
	doc := "fields:\n  code:\n    pattern: \"([\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	violations, err := newLinter().lintFile(context.Background(), path)
	if err != nil {
		t.Fatalf("lintFile: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(violations), violations)
	}
	if msg := violations[0].message; !strings.Contains(msg, `rule "pattern"`) || !strings.Contains(msg, "invalid parameter") {
		t.Fatalf("unexpected violation %q", msg)
	}
}

func TestLintOpenAPIDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join("testdata", "invalid.openapi.yaml")
	violations, err := newLinter().lintFile(context.Background(), path)
	if err != nil {
		t.Fatalf("lintFile: %v", err)
	}
	sortViolations(violations)

	var locations []string
	for _, v := range violations {
		if v.file != path {
			t.Fatalf("unexpected file %q in %v", v.file, v)
		}
		locations = append(locations, v.location)
	}
	want := []string{
		"operation contact",
		"operation contact",
		"operation contact > conditions.subject",
		"operation contact > properties.email",
	}
	if diff := cmp.Diff(want, locations); diff != "" {
		t.Fatalf("locations mismatch (-want +got):\n%s", diff)
	}

	joined := joinViolations(violations)
	for _, fragment := range []string{`unsupported x-formstate key "theme"`, `unsupported x-formstate key "widget"`, `"shouting"`} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected violations to mention %q, got:\n%s", fragment, joined)
		}
	}
}

func TestRunReportsSortedViolations(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		filepath.Join("testdata", "invalid_schema.yaml"),
		filepath.Join("testdata", "invalid.openapi.yaml"),
	}, &stdout, &stderr)

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", stdout.String())
	}
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 violation lines, got %d:\n%s", len(lines), stderr.String())
	}
	if !strings.HasPrefix(lines[0], filepath.Join("testdata", "invalid.openapi.yaml")+": ") {
		t.Fatalf("expected violations sorted by file, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[6], filepath.Join("testdata", "invalid_schema.yaml")+": ") {
		t.Fatalf("expected schema violations last, got %q", lines[6])
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{name: "no paths", code: 2, stderr: "Usage:"},
		{name: "unknown flag", args: []string{"-nope"}, code: 2, stderr: "flag provided but not defined"},
		{name: "missing file", args: []string{filepath.Join(dir, "missing.yaml")}, code: 1, stderr: "read file"},
		{name: "empty schema", args: []string{empty}, code: 1, stderr: "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			if code != tt.code {
				t.Fatalf("expected exit code %d, got %d (stderr %q)", tt.code, code, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.stderr) {
				t.Fatalf("expected stderr to contain %q, got %q", tt.stderr, stderr.String())
			}
		})
	}
}

func TestViolationString(t *testing.T) {
	t.Parallel()

	if got := (violation{file: "a.yaml", message: "broken"}).String(); got != "a.yaml: broken" {
		t.Fatalf("unexpected %q", got)
	}
	got := violation{file: "a.yaml", location: "operation x", message: "broken"}.String()
	if got != "a.yaml: operation x -> broken" {
		t.Fatalf("unexpected %q", got)
	}
}

func joinViolations(violations []violation) string {
	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		lines = append(lines, v.String())
	}
	return strings.Join(lines, "\n")
}
