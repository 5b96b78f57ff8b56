package form

import "fmt"

// Messages holds the built-in texts used for failed checks and submit
// notifications. Zero-valued entries fall back to DefaultMessages.
type Messages struct {
	Required  string
	Pattern   string
	MinLength string // formatted with the bound
	MaxLength string // formatted with the bound
	Min       string // formatted with the bound
	Max       string // formatted with the bound
	Invalid   string
	Success   string
	Failure   string
}

// DefaultMessages returns the stock message set.
func DefaultMessages() Messages {
	return Messages{
		Required:  "This field is required",
		Pattern:   "Invalid format",
		MinLength: "Must be at least %d characters",
		MaxLength: "Must be at most %d characters",
		Min:       "Must be at least %v",
		Max:       "Must be at most %v",
		Invalid:   "Please fix the errors in the form",
		Success:   "Saved successfully",
		Failure:   "An unexpected error occurred",
	}
}

func (m Messages) withDefaults() Messages {
	def := DefaultMessages()
	if m.Required == "" {
		m.Required = def.Required
	}
	if m.Pattern == "" {
		m.Pattern = def.Pattern
	}
	if m.MinLength == "" {
		m.MinLength = def.MinLength
	}
	if m.MaxLength == "" {
		m.MaxLength = def.MaxLength
	}
	if m.Min == "" {
		m.Min = def.Min
	}
	if m.Max == "" {
		m.Max = def.Max
	}
	if m.Invalid == "" {
		m.Invalid = def.Invalid
	}
	if m.Success == "" {
		m.Success = def.Success
	}
	if m.Failure == "" {
		m.Failure = def.Failure
	}
	return m
}

func (m Messages) format(tmpl string, bound any) string {
	return fmt.Sprintf(tmpl, bound)
}
