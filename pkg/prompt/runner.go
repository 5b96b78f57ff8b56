package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Kind selects the prompt used for a field.
type Kind string

const (
	KindText     Kind = "text"
	KindPassword Kind = "password"
	KindNumber   Kind = "number"
	KindBool     Kind = "bool"
	KindSelect   Kind = "select"
)

// DefaultMaxAttempts bounds how often a field is re-asked after failing
// validation.
const DefaultMaxAttempts = 5

const invalidNumberMessage = "Enter a number"

// Field describes one question.
type Field struct {
	Name    string
	Label   string
	Help    string
	Kind    Kind
	Options []string
	// Choices, when aligned with Options, are the values stored for each
	// option. Without them the option text is stored.
	Choices []any
}

// Option configures Run.
type Option func(*runner)

// WithMaxAttempts overrides DefaultMaxAttempts. Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(r *runner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithConfirm asks message before submitting. Declining returns
// form.SubmitSkipped.
func WithConfirm(message string) Option {
	return func(r *runner) {
		r.confirm = strings.TrimSpace(message)
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type runner struct {
	engine      *form.Engine
	driver      Driver
	maxAttempts int
	confirm     string
	logger      *zap.Logger
}

// Run asks every field in order, feeding each answer through the engine's
// change and blur handlers and re-asking while the field is invalid. It then
// submits the form. When fields is empty the engine schema order is used with
// text prompts.
func Run(ctx context.Context, engine *form.Engine, driver Driver, fields []Field, opts ...Option) (form.SubmitOutcome, error) {
	if engine == nil {
		return form.SubmitSkipped, fmt.Errorf("prompt: engine is required")
	}
	if driver == nil {
		return form.SubmitSkipped, ErrNoDriver
	}

	r := &runner{
		engine:      engine,
		driver:      driver,
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if len(fields) == 0 {
		for _, name := range engine.Schema().Fields() {
			fields = append(fields, Field{Name: name, Kind: KindText})
		}
	}

	for _, field := range fields {
		if err := r.ask(ctx, field); err != nil {
			return form.SubmitSkipped, err
		}
	}

	if r.confirm != "" {
		ok, err := driver.Confirm(ctx, ConfirmConfig{Message: r.confirm, Default: true})
		if err != nil {
			return form.SubmitSkipped, err
		}
		if !ok {
			return form.SubmitSkipped, nil
		}
	}

	outcome := engine.Submit(ctx)
	if outcome == form.SubmitInvalid {
		r.reportErrors(ctx, fields)
	}
	r.logger.Debug("prompt: form submitted", zap.Stringer("outcome", outcome))
	return outcome, nil
}

func (r *runner) ask(ctx context.Context, field Field) error {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		change, problem, err := r.read(ctx, field)
		if err != nil {
			return err
		}
		if problem == "" {
			r.engine.HandleChange(field.Name)(change)
			r.engine.HandleBlur(field.Name)()
			problem, _ = r.engine.ValidateField(field.Name)
		}
		r.engine.SetFieldError(field.Name, problem)
		if problem == "" {
			return nil
		}

		r.logger.Debug("prompt: invalid answer",
			zap.String("field", field.Name),
			zap.Int("attempt", attempt),
			zap.String("error", problem))
		if err := r.driver.Info(ctx, problem); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

// read returns the change to apply or a message when the raw answer could
// not be converted.
func (r *runner) read(ctx context.Context, field Field) (form.FieldChange, string, error) {
	label := labelOf(field)
	current := r.engine.Value(field.Name)

	switch field.Kind {
	case KindBool:
		checked, _ := current.(bool)
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked, Help: field.Help})
		if err != nil {
			return form.FieldChange{}, "", err
		}
		return form.Checked(answer), "", nil

	case KindSelect:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, fmt.Sprint(current)),
			Help:         field.Help,
		})
		if err != nil {
			return form.FieldChange{}, "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return form.Raw(nil), "", nil
		}
		if len(field.Choices) == len(field.Options) {
			return form.Raw(field.Choices[idx]), "", nil
		}
		return form.Raw(field.Options[idx]), "", nil

	case KindPassword:
		answer, err := r.driver.Password(ctx, InputConfig{Message: label, Help: field.Help})
		if err != nil {
			return form.FieldChange{}, "", err
		}
		return form.Text(answer), "", nil

	case KindNumber:
		answer, err := r.driver.Input(ctx, InputConfig{Message: label, Default: textDefault(current), Help: field.Help})
		if err != nil {
			return form.FieldChange{}, "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return form.Raw(nil), "", nil
		}
		n, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return form.FieldChange{}, invalidNumberMessage, nil
		}
		return form.Number(n), "", nil

	default:
		answer, err := r.driver.Input(ctx, InputConfig{Message: label, Default: textDefault(current), Help: field.Help})
		if err != nil {
			return form.FieldChange{}, "", err
		}
		return form.Text(answer), "", nil
	}
}

func (r *runner) reportErrors(ctx context.Context, fields []Field) {
	errs := r.engine.Errors()
	for _, field := range fields {
		if msg, ok := errs[field.Name]; ok {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s: %s", labelOf(field), msg))
		}
	}
}

func labelOf(field Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.Name
}

func textDefault(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
