package form

// FieldRef is a stable handle the UI layer uses to move focus to a field.
type FieldRef struct {
	name   string
	engine *Engine
}

// Name returns the field the handle points at.
func (r *FieldRef) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}

// Focus asks the configured focuser to focus the field. It is a no-op when no
// focuser is registered.
func (r *FieldRef) Focus() {
	if r == nil || r.engine == nil || r.engine.cfg.focuser == nil {
		return
	}
	r.engine.cfg.focuser(r.name)
}

// Ref returns the handle for field, creating it on first use. Repeated calls
// return the same pointer.
func (e *Engine) Ref(field string) *FieldRef {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ref, ok := e.refs[field]; ok {
		return ref
	}
	ref := &FieldRef{name: field, engine: e}
	e.refs[field] = ref
	return ref
}

// FieldProps bundles what one input needs to bind to the engine.
type FieldProps struct {
	Name     string
	Value    any
	Error    string
	Touched  bool
	OnChange func(FieldChange)
	OnBlur   func()
	Ref      *FieldRef
}

// Field returns the binding bundle for field.
func (e *Engine) Field(field string) FieldProps {
	ref := e.Ref(field)

	e.mu.Lock()
	props := FieldProps{
		Name:    field,
		Value:   deepCopy(e.values[field]),
		Error:   e.errors[field],
		Touched: e.touched[field],
		Ref:     ref,
	}
	e.mu.Unlock()

	props.OnChange = e.HandleChange(field)
	props.OnBlur = e.HandleBlur(field)
	return props
}
