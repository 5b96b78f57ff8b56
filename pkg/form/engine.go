package form

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// SubmitOutcome reports how a Submit call ended.
type SubmitOutcome int

const (
	// SubmitSkipped means another submit was already in flight.
	SubmitSkipped SubmitOutcome = iota
	// SubmitInvalid means validation failed and the submit callback never ran.
	SubmitInvalid
	// SubmitSucceeded means the submit callback returned without error.
	SubmitSucceeded
	// SubmitFailed means the submit callback returned an error or panicked.
	SubmitFailed
)

func (o SubmitOutcome) String() string {
	switch o {
	case SubmitSkipped:
		return "skipped"
	case SubmitInvalid:
		return "invalid"
	case SubmitSucceeded:
		return "succeeded"
	case SubmitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the engine state.
type State struct {
	Values       Values
	Errors       Errors
	Touched      Touched
	IsSubmitting bool
	IsDirty      bool
	IsValid      bool
}

// Engine owns the mutable state of a single form instance. Methods are safe to
// call from multiple goroutines; debounced validation fires on the scheduler's
// goroutine.
type Engine struct {
	mu sync.Mutex

	cfg      config
	schema   *Schema
	messages Messages
	logger   *zap.Logger

	initial    Values
	values     Values
	errors     Errors
	touched    Touched
	dirty      bool
	submitting bool

	pending map[string]pendingCheck
	seq     uint64
	refs    map[string]*FieldRef
}

type pendingCheck struct {
	timer Timer
	seq   uint64
}

// New builds an engine seeded with initial. When auto-focus is enabled the
// first declared field receives focus before New returns.
func New(initial Values, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.scheduler == nil {
		cfg.scheduler = NewClockScheduler(nil)
	}
	if cfg.notifier == nil {
		cfg.notifier = NewZapNotifier(cfg.logger)
	}

	e := &Engine{
		cfg:      cfg,
		schema:   cfg.schema.clone(),
		messages: cfg.messages.withDefaults(),
		logger:   cfg.logger,
		initial:  initial.Clone(),
		values:   initial.Clone(),
		errors:   make(Errors),
		touched:  make(Touched),
		pending:  make(map[string]pendingCheck),
		refs:     make(map[string]*FieldRef),
	}

	if cfg.autoFocus {
		if first := e.firstField(); first != "" {
			e.Ref(first).Focus()
		}
	}
	return e
}

// Schema returns a copy of the engine's schema.
func (e *Engine) Schema() *Schema {
	return e.schema.clone()
}

// SetValue overwrites one field and recomputes the dirty flag. With real-time
// validation on, a debounced check of the field replaces any pending one.
func (e *Engine) SetValue(field string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.values[field] = value
	e.dirty = !valuesEqual(e.values, e.initial)
	if e.cfg.realTime {
		e.scheduleLocked(field)
	}
}

// SetValues merges partial into the current values in a single transition.
func (e *Engine) SetValues(partial Values) {
	if len(partial) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for field, value := range partial {
		e.values[field] = value
	}
	e.dirty = !valuesEqual(e.values, e.initial)
}

// ValidateField runs the field's rule against the current values without
// touching the error map. Fields without a rule are always valid.
func (e *Engine) ValidateField(field string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	msg := e.checkLocked(field)
	return msg, msg == ""
}

// ValidateForm validates every schema field, replaces the error map with the
// failures and reports overall validity.
func (e *Engine) ValidateForm() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateFormLocked()
}

// HandleChange returns a callback that stores the value carried by a change.
func (e *Engine) HandleChange(field string) func(FieldChange) {
	return func(change FieldChange) {
		e.SetValue(field, change.Value())
	}
}

// HandleBlur returns a callback that marks the field touched and, when
// real-time validation is off, validates it immediately.
func (e *Engine) HandleBlur(field string) func() {
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		e.touched[field] = true
		if !e.cfg.realTime {
			e.applyCheckLocked(field)
		}
	}
}

// Submit validates the form and, when valid, invokes the submit callback.
// Calls made while a submission is in flight return SubmitSkipped. Errors from
// the callback are reported through the notifier and the error hook and never
// returned to the caller.
func (e *Engine) Submit(ctx context.Context) SubmitOutcome {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		e.logger.Debug("form: submit ignored, already submitting")
		return SubmitSkipped
	}

	for _, field := range e.schema.order {
		e.touched[field] = true
	}
	if !e.validateFormLocked() {
		first := e.firstErrorLocked()
		errCount := len(e.errors)
		e.mu.Unlock()

		e.logger.Debug("form: submit blocked by validation",
			zap.Int("errors", errCount),
			zap.String("first_error", first))
		e.cfg.notifier.Notify(ctx, Notification{Level: LevelError, Message: e.messages.Invalid})
		if first != "" {
			e.Ref(first).Focus()
		}
		return SubmitInvalid
	}

	e.submitting = true
	values := e.values.Clone()
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	if err := e.invokeSubmit(ctx, values); err != nil {
		msg := strings.TrimSpace(err.Error())
		if msg == "" {
			msg = e.messages.Failure
		}
		e.logger.Warn("form: submit failed", zap.Error(err))
		e.cfg.notifier.Notify(ctx, Notification{Level: LevelError, Message: msg})
		if e.cfg.onError != nil {
			e.cfg.onError(err)
		}
		return SubmitFailed
	}

	e.cfg.notifier.Notify(ctx, Notification{Level: LevelSuccess, Message: e.messages.Success})
	if e.cfg.onSuccess != nil {
		e.cfg.onSuccess(values)
	}
	if e.cfg.resetOnSuccess {
		e.Reset(nil)
	}
	return SubmitSucceeded
}

func (e *Engine) invokeSubmit(ctx context.Context, values Values) (err error) {
	if e.cfg.onSubmit == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("form: submit panicked: %v", r)
		}
	}()
	return e.cfg.onSubmit(ctx, values)
}

// Reset restores the initial values merged with overrides, clears errors and
// touched state and cancels every pending debounced validation.
func (e *Engine) Reset(overrides Values) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelPendingLocked()
	e.values = e.initial.Merge(overrides)
	e.errors = make(Errors)
	e.touched = make(Touched)
	e.dirty = false
}

// Close cancels pending debounced validations. The engine stays usable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPendingLocked()
}

// SetFieldError writes msg as the field's error; an empty msg clears it.
func (e *Engine) SetFieldError(field, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(msg) == "" {
		delete(e.errors, field)
		return
	}
	e.errors[field] = msg
}

// SetFieldTouched marks or unmarks a field as touched.
func (e *Engine) SetFieldTouched(field string, touched bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if touched {
		e.touched[field] = true
		return
	}
	delete(e.touched, field)
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return State{
		Values:       e.values.Clone(),
		Errors:       cloneErrors(e.errors),
		Touched:      cloneTouched(e.touched),
		IsSubmitting: e.submitting,
		IsDirty:      e.dirty,
		IsValid:      len(e.errors) == 0,
	}
}

// Values returns a copy of the current values.
func (e *Engine) Values() Values {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values.Clone()
}

// Value returns the current value of field.
func (e *Engine) Value(field string) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return deepCopy(e.values[field])
}

// Errors returns a copy of the current error map.
func (e *Engine) Errors() Errors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneErrors(e.errors)
}

// Touched returns a copy of the touched map.
func (e *Engine) Touched() Touched {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneTouched(e.touched)
}

// IsDirty reports whether any value differs from the initial values.
func (e *Engine) IsDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// IsValid reports whether the error map is empty.
func (e *Engine) IsValid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errors) == 0
}

// IsSubmitting reports whether a submit is in progress.
func (e *Engine) IsSubmitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

func (e *Engine) checkLocked(field string) string {
	rule, ok := e.schema.Rule(field)
	if !ok {
		return ""
	}
	return Check(rule, e.values[field], e.values, e.messages)
}

func (e *Engine) applyCheckLocked(field string) {
	if msg := e.checkLocked(field); msg != "" {
		e.errors[field] = msg
		return
	}
	delete(e.errors, field)
}

func (e *Engine) validateFormLocked() bool {
	errs := make(Errors)
	for _, field := range e.schema.order {
		if msg := e.checkLocked(field); msg != "" {
			errs[field] = msg
		}
	}
	e.errors = errs
	return len(errs) == 0
}

func (e *Engine) firstErrorLocked() string {
	for _, field := range e.schema.order {
		if _, ok := e.errors[field]; ok {
			return field
		}
	}
	return ""
}

func (e *Engine) firstField() string {
	if e.schema.Len() > 0 {
		return e.schema.order[0]
	}
	if len(e.initial) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.initial))
	for k := range e.initial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func (e *Engine) scheduleLocked(field string) {
	if prev, ok := e.pending[field]; ok {
		prev.timer.Stop()
	}
	e.seq++
	seq := e.seq
	timer := e.cfg.scheduler.AfterFunc(e.cfg.debounce, func() {
		e.firePending(field, seq)
	})
	e.pending[field] = pendingCheck{timer: timer, seq: seq}
}

// firePending runs a debounced check unless it was superseded or cancelled
// after the timer had already fired.
func (e *Engine) firePending(field string, seq uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.pending[field]
	if !ok || current.seq != seq {
		return
	}
	delete(e.pending, field)
	e.applyCheckLocked(field)
}

func (e *Engine) cancelPendingLocked() {
	for field, p := range e.pending {
		p.timer.Stop()
		delete(e.pending, field)
	}
}
