package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	infoMessages []string
	prompts      []string
	inputErr     error
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func clientSchema() *form.Schema {
	return form.NewSchema().
		Add("name", form.Rule{Required: true, MinLength: form.Length(3)}).
		Add("pin", form.Rule{Required: true, MinLength: form.Length(4)}).
		Add("age", form.Rule{Required: true, Min: form.Float(18)}).
		Add("vip", form.Rule{}).
		Add("segment", form.Rule{Required: true})
}

func clientFields() []Field {
	return []Field{
		{Name: "name", Label: "Name", Kind: KindText},
		{Name: "pin", Label: "PIN", Kind: KindPassword},
		{Name: "age", Label: "Age", Kind: KindNumber},
		{Name: "vip", Label: "VIP customer?", Kind: KindBool},
		{Name: "segment", Label: "Segment", Kind: KindSelect, Options: []string{"Regular", "VIP"}},
	}
}

func newEngine(submitted *form.Values) *form.Engine {
	return form.New(form.Values{"name": "", "pin": "", "age": nil, "vip": false, "segment": "Regular"},
		form.WithSchema(clientSchema()),
		form.WithAutoFocus(false),
		form.WithRealTimeValidation(false),
		form.WithResetOnSuccess(false),
		form.WithSubmit(func(_ context.Context, values form.Values) error {
			*submitted = values
			return nil
		}),
	)
}

func TestRun_ReasksUntilValidThenSubmits(t *testing.T) {
	var submitted form.Values
	engine := newEngine(&submitted)
	driver := &stubDriver{
		inputs:    []string{"Jo", "Joaquín", "abc", "16", "30"},
		passwords: []string{"1234"},
		confirm:   []bool{true},
		selectIdx: []int{1},
	}

	outcome, err := Run(context.Background(), engine, driver, clientFields())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome != form.SubmitSucceeded {
		t.Fatalf("expected success, got %s", outcome)
	}

	want := form.Values{"name": "Joaquín", "pin": "1234", "age": float64(30), "vip": true, "segment": "VIP"}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{"Must be at least 3 characters", "Enter a number", "Must be at least 18"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if len(engine.Errors()) != 0 {
		t.Fatalf("expected no errors left, got %v", engine.Errors())
	}
	if !engine.Touched()["age"] {
		t.Fatalf("expected answered fields to be touched")
	}
}

func TestRun_TooManyAttempts(t *testing.T) {
	var submitted form.Values
	engine := newEngine(&submitted)
	driver := &stubDriver{inputs: []string{"a", "b"}}

	_, err := Run(context.Background(), engine, driver, clientFields()[:1], WithMaxAttempts(2))
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if engine.Errors()["name"] != "Must be at least 3 characters" {
		t.Fatalf("expected the last error to stay on the field, got %v", engine.Errors())
	}
	if submitted != nil {
		t.Fatalf("expected no submission")
	}
}

func TestRun_Aborted(t *testing.T) {
	var submitted form.Values
	engine := newEngine(&submitted)
	driver := &stubDriver{inputErr: ErrAborted}

	outcome, err := Run(context.Background(), engine, driver, clientFields())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if outcome != form.SubmitSkipped {
		t.Fatalf("expected skipped outcome, got %s", outcome)
	}
}

func TestRun_ConfirmDeclined(t *testing.T) {
	var submitted form.Values
	engine := newEngine(&submitted)
	driver := &stubDriver{
		inputs:    []string{"Joaquín", "40"},
		passwords: []string{"9876"},
		confirm:   []bool{false, false},
		selectIdx: []int{0},
	}

	outcome, err := Run(context.Background(), engine, driver, clientFields(), WithConfirm("Save client?"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome != form.SubmitSkipped || submitted != nil {
		t.Fatalf("expected no submission, got %s %v", outcome, submitted)
	}
	if last := driver.prompts[len(driver.prompts)-1]; last != "Save client?" {
		t.Fatalf("expected confirmation prompt last, got %q", last)
	}
	if engine.Value("segment") != "Regular" {
		t.Fatalf("expected selected segment, got %v", engine.Value("segment"))
	}
}

func TestRun_DefaultsToSchemaOrder(t *testing.T) {
	var submitted form.Values
	schema := form.NewSchema().
		Add("city", form.Rule{Required: true}).
		Add("street", form.Rule{Required: true})
	engine := form.New(form.Values{}, form.WithSchema(schema), form.WithAutoFocus(false),
		form.WithSubmit(func(_ context.Context, values form.Values) error {
			submitted = values
			return nil
		}))
	driver := &stubDriver{inputs: []string{"Quito", "Av. Amazonas"}}

	outcome, err := Run(context.Background(), engine, driver, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome != form.SubmitSucceeded {
		t.Fatalf("expected success, got %s", outcome)
	}
	if diff := cmp.Diff([]string{"city", "street"}, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(form.Values{"city": "Quito", "street": "Av. Amazonas"}, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_RequiresEngineAndDriver(t *testing.T) {
	if _, err := Run(context.Background(), nil, &stubDriver{}, nil); err == nil {
		t.Fatalf("expected error without engine")
	}
	engine := form.New(nil, form.WithAutoFocus(false))
	if _, err := Run(context.Background(), engine, nil, nil); !errors.Is(err, ErrNoDriver) {
		t.Fatalf("expected ErrNoDriver, got %v", err)
	}
}

func TestRun_SelectStoresTypedChoice(t *testing.T) {
	var submitted form.Values
	schema := form.NewSchema().Add("term_months", form.Rule{Required: true})
	engine := form.New(form.Values{"term_months": nil}, form.WithSchema(schema), form.WithAutoFocus(false),
		form.WithSubmit(func(_ context.Context, values form.Values) error {
			submitted = values
			return nil
		}))
	fields := []Field{{
		Name:    "term_months",
		Label:   "Term",
		Kind:    KindSelect,
		Options: []string{"12", "24", "36"},
		Choices: []any{float64(12), float64(24), float64(36)},
	}}

	if _, err := Run(context.Background(), engine, &stubDriver{selectIdx: []int{1}}, fields); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(form.Values{"term_months": float64(24)}, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}
