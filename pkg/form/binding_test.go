package form_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestBindingValidateOnBlur(t *testing.T) {
	t.Parallel()

	f := nameForm(t, form.ValidateOnBlur)
	_ = f.SetInitialModel(nil)

	b, err := f.Field("lastname")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if err := b.Set("A"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if b.Value() != "A" || !b.Touched() {
		t.Fatalf("unexpected binding state value=%v touched=%v", b.Value(), b.Touched())
	}
	if b.Result().IsValid != validation.Unknown {
		t.Fatalf("blur trigger must not validate on change")
	}

	if err := b.Blur(); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if res := b.Result(); res.IsValid != validation.Invalid || !res.Has("minLength") {
		t.Fatalf("expected minLength failure after blur, got %+v", res)
	}

	// once known, changes keep the result current
	_ = b.Set("Ab")
	if b.Result().IsValid != validation.Valid {
		t.Fatalf("expected revalidation after change, got %+v", b.Result())
	}
}

func TestBindingValidateOnChange(t *testing.T) {
	t.Parallel()

	f := nameForm(t, form.ValidateOnChange)
	_ = f.SetInitialModel(nil)
	b, _ := f.Field("firstname")

	var published []validation.Validity
	f.Subscribe(func(s form.State) {
		published = append(published, s.Schema.Fields["firstname"].IsValid)
	})

	_ = b.Set("")
	if b.Result().IsValid != validation.Invalid {
		t.Fatalf("change trigger should validate on Set")
	}
	_ = b.Blur()
	_ = b.Set("Foo")

	if diff := cmp.Diff([]validation.Validity{validation.Invalid, validation.Valid}, published); diff != "" {
		t.Fatalf("publications (-want +got):\n%s", diff)
	}
	if b.Name() != "firstname" {
		t.Fatalf("unexpected binding name %q", b.Name())
	}
}

func TestSubscribePublishesEveryMutation(t *testing.T) {
	t.Parallel()

	f := nameForm(t, "")
	var states []form.State
	unsubscribe := f.Subscribe(func(s form.State) { states = append(states, s) })

	_ = f.SetInitialModel(map[string]any{"firstname": "Ada"})
	_ = f.SetProperty("lastname", "Lovelace")
	_, _ = f.ValidateForm()
	f.SetTouched()
	f.SetUntouched()
	f.ResetValidation()
	f.ClearForm()
	f.ResetForm()
	_ = f.SetModel(map[string]any{"lastname": "B"})
	_, _ = f.ValidateField("lastname")

	if len(states) != 10 {
		t.Fatalf("expected 10 publications, got %d", len(states))
	}
	if states[0].IsTouched || !states[1].IsTouched {
		t.Fatalf("touched flag not tracked: %+v / %+v", states[0], states[1])
	}
	if states[2].IsButtonDisabled || states[2].Schema.IsValid != validation.Valid {
		t.Fatalf("expected enabled button after valid ValidateForm, got %+v", states[2])
	}
	if last := states[9]; !last.IsButtonDisabled || last.Schema.Fields["lastname"].IsValid != validation.Invalid {
		t.Fatalf("unexpected final state %+v", last)
	}

	unsubscribe()
	unsubscribe()
	f.SetTouched()
	if len(states) != 10 {
		t.Fatalf("unsubscribed listener still called")
	}
}

func TestStateJSON(t *testing.T) {
	t.Parallel()

	f := nameForm(t, "")
	_ = f.SetInitialModel(map[string]any{"firstname": "Ada", "lastname": "L"})
	_, _ = f.ValidateField("firstname")

	data, err := json.Marshal(f.State())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"schema":{"isValid":null,"fields":{` +
		`"firstname":{"errors":[],"isTouched":false,"isValid":true},` +
		`"lastname":{"errors":[],"isTouched":false,"isValid":null}}},` +
		`"model":{"firstname":{"value":"Ada","isTouched":false},"lastname":{"value":"L","isTouched":false}},` +
		`"isTouched":false,"isButtonDisabled":true}`
	if string(data) != want {
		t.Fatalf("unexpected JSON:\n got %s\nwant %s", data, want)
	}
}

func TestResultsAreCopies(t *testing.T) {
	t.Parallel()

	f := nameForm(t, "")
	_ = f.SetInitialModel(nil)
	result, _ := f.ValidateForm()
	result.Fields["firstname"].Errors[0].Message = "mutated"

	field, _ := f.GetSchema("firstname")
	if field.Errors[0].Message == "mutated" {
		t.Fatalf("form shares result memory with callers")
	}
}

func TestReentrantMutationIsRejected(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var (
		f        *form.Form
		setErr   error
		validErr error
	)
	sneaky := func(value, _ any) bool {
		setErr = f.SetProperty("other", "changed")
		_, validErr = f.ValidateForm()
		f.ClearForm()
		return true
	}

	var err error
	f, err = form.New(form.Config{Schema: schema.Config{Fields: []schema.FieldConfig{
		schema.Field("name", schema.CustomRule("sneaky", sneaky, "never")),
		schema.Field("other"),
	}}}, form.WithLogger(logger))
	if err != nil {
		t.Fatalf("form.New: %v", err)
	}
	_ = f.SetInitialModel(map[string]any{"name": "x", "other": "kept"})

	result, err := f.ValidateForm()
	if err != nil {
		t.Fatalf("ValidateForm: %v", err)
	}
	if !errors.Is(setErr, form.ErrReentrantMutation) || !errors.Is(validErr, form.ErrReentrantMutation) {
		t.Fatalf("expected ErrReentrantMutation, got %v / %v", setErr, validErr)
	}
	if f.Values()["other"] != "kept" || f.Values()["name"] != "x" {
		t.Fatalf("reentrant mutation changed the model: %v", f.Values())
	}
	if result.IsValid != validation.Valid {
		t.Fatalf("expected valid result, got %+v", result)
	}
	if !strings.Contains(logs.String(), "op=ClearForm") {
		t.Fatalf("expected ignored ClearForm to be logged, got %q", logs.String())
	}

	// the guard is released after evaluation
	if err := f.SetProperty("other", "after"); err != nil {
		t.Fatalf("SetProperty after evaluation: %v", err)
	}
}
