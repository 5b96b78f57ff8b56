// Package formkit wires the form engine, the OpenAPI form derivation, the
// terminal prompt runner and the promotion evaluator together for callers that
// want a single entry point.
package formkit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/promotion"
	"github.com/goliatone/go-formkit/pkg/promotion/filestore"
	"github.com/goliatone/go-formkit/pkg/prompt"
)

// Form aliases openapi.Form so callers can stay on the root package.
type Form = openapi.Form

// LoadForm loads the OpenAPI document at src and derives the form for
// operationID.
func LoadForm(ctx context.Context, src openapi.Source, operationID string, options ...openapi.LoaderOption) (Form, error) {
	doc, err := openapi.Load(ctx, src, options...)
	if err != nil {
		return Form{}, err
	}
	return doc.Form(operationID)
}

// NewEngine builds an engine seeded with the form's initial values and
// schema. Later options win over the schema taken from f.
func NewEngine(f Form, options ...form.Option) *form.Engine {
	opts := make([]form.Option, 0, len(options)+1)
	opts = append(opts, form.WithSchema(f.Schema))
	opts = append(opts, options...)
	return form.New(f.Initial, opts...)
}

// PromptFields maps the form's fields to prompt questions in field order.
func PromptFields(f Form) []prompt.Field {
	fields := make([]prompt.Field, 0, len(f.Fields))
	for _, name := range f.Fields {
		in := f.Inputs[name]
		field := prompt.Field{
			Name:  name,
			Label: f.Labels[name],
			Help:  in.Description,
			Kind:  promptKind(in),
		}
		if field.Kind == prompt.KindSelect {
			field.Options = append([]string(nil), in.Options...)
			field.Choices = append([]any(nil), in.Choices...)
		}
		fields = append(fields, field)
	}
	return fields
}

func promptKind(in openapi.Input) prompt.Kind {
	switch {
	case len(in.Options) > 0:
		return prompt.KindSelect
	case in.Type == "boolean":
		return prompt.KindBool
	case in.Type == "number" || in.Type == "integer":
		return prompt.KindNumber
	case in.Format == "password":
		return prompt.KindPassword
	default:
		return prompt.KindText
	}
}

// Fill loads the form for operationID, asks every field through driver and
// submits the answers to submit. The submitted values are returned on
// success.
func Fill(ctx context.Context, src openapi.Source, operationID string, driver prompt.Driver, logger *zap.Logger, submit form.SubmitFunc) (form.Values, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := LoadForm(ctx, src, operationID)
	if err != nil {
		return nil, err
	}

	var submitted form.Values
	engine := NewEngine(f,
		form.WithAutoFocus(false),
		form.WithLogger(logger),
		form.WithSubmit(func(ctx context.Context, values form.Values) error {
			if submit != nil {
				if err := submit(ctx, values); err != nil {
					return err
				}
			}
			submitted = values
			return nil
		}),
	)
	defer engine.Close()

	outcome, err := prompt.Run(ctx, engine, driver, PromptFields(f), prompt.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if outcome != form.SubmitSucceeded {
		return nil, fmt.Errorf("formkit: form %s not submitted: %s", operationID, outcome)
	}
	return submitted, nil
}

// NewFileEvaluator returns an evaluator over the campaigns file at path.
func NewFileEvaluator(path string, logger *zap.Logger, options ...promotion.Option) (*promotion.Evaluator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := filestore.New(path, filestore.WithLogger(logger.Named("filestore")))
	if err != nil {
		return nil, err
	}
	opts := make([]promotion.Option, 0, len(options)+1)
	opts = append(opts, promotion.WithLogger(logger.Named("promotion")))
	opts = append(opts, options...)
	return promotion.NewEvaluator(store, opts...), nil
}
