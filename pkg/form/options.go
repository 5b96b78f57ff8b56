package form

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period applied to real-time validation.
const DefaultDebounce = 300 * time.Millisecond

// SubmitFunc receives the validated values. Returning an error marks the
// submission as failed.
type SubmitFunc func(ctx context.Context, values Values) error

// Option configures an Engine.
type Option func(*config)

type config struct {
	schema         *Schema
	onSubmit       SubmitFunc
	onSuccess      func(Values)
	onError        func(error)
	resetOnSuccess bool
	realTime       bool
	autoFocus      bool
	debounce       time.Duration
	scheduler      Scheduler
	notifier       Notifier
	focuser        func(field string)
	logger         *zap.Logger
	messages       Messages
}

func defaultConfig() config {
	return config{
		resetOnSuccess: true,
		autoFocus:      true,
		debounce:       DefaultDebounce,
	}
}

// WithSchema sets the validation schema. The engine keeps its own copy.
func WithSchema(schema *Schema) Option {
	return func(c *config) {
		c.schema = schema
	}
}

// WithSubmit sets the callback invoked with valid values.
func WithSubmit(fn SubmitFunc) Option {
	return func(c *config) {
		c.onSubmit = fn
	}
}

// WithOnSuccess registers a hook that runs after a successful submit.
func WithOnSuccess(fn func(Values)) Option {
	return func(c *config) {
		c.onSuccess = fn
	}
}

// WithOnError registers a hook that receives submit failures.
func WithOnError(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithResetOnSuccess toggles restoring the initial values after a successful
// submit. Enabled by default.
func WithResetOnSuccess(enabled bool) Option {
	return func(c *config) {
		c.resetOnSuccess = enabled
	}
}

// WithRealTimeValidation validates fields after each change, debounced. When
// disabled fields are validated on blur and on submit only.
func WithRealTimeValidation(enabled bool) Option {
	return func(c *config) {
		c.realTime = enabled
	}
}

// WithAutoFocus toggles focusing the first field at construction. Enabled by
// default.
func WithAutoFocus(enabled bool) Option {
	return func(c *config) {
		c.autoFocus = enabled
	}
}

// WithDebounce overrides the real-time validation delay. Non-positive values
// are ignored.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithScheduler replaces the timer source used for debouncing.
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithNotifier sets the destination for submit notifications.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithFocuser sets the function that moves UI focus to a field.
func WithFocuser(fn func(field string)) Option {
	return func(c *config) {
		c.focuser = fn
	}
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMessages overrides the built-in message texts.
func WithMessages(m Messages) Option {
	return func(c *config) {
		c.messages = m
	}
}
