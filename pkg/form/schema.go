package form

import (
	"regexp"
	"strings"
)

// Values holds the current value of every field keyed by field name.
type Values map[string]any

// Errors maps a field name to its current error message. A missing key means
// the field is valid.
type Errors map[string]string

// Touched records which fields the user has interacted with.
type Touched map[string]bool

// CustomFunc validates a value with access to every current value. It returns
// an empty string when the value is acceptable.
type CustomFunc func(value any, values Values) string

// Rule is the declarative validation descriptor attached to a field. Checks run
// in a fixed order: required, pattern, length bounds, numeric bounds, custom.
// Message overrides the built-in text of every non-custom check.
type Rule struct {
	Required  bool
	Pattern   *regexp.Regexp
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
	Custom    CustomFunc
	Message   string
}

// Float returns a pointer to v, for Rule.Min and Rule.Max.
func Float(v float64) *float64 {
	return &v
}

// Length returns a pointer to v, for Rule.MinLength and Rule.MaxLength.
func Length(v int) *int {
	return &v
}

// Schema is an ordered set of rules keyed by field name. Declaration order is
// kept so focus can move to the first field in error.
type Schema struct {
	order []string
	rules map[string]Rule
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{rules: make(map[string]Rule)}
}

// Add registers or replaces the rule for field. Re-adding a field keeps its
// original position.
func (s *Schema) Add(field string, rule Rule) *Schema {
	name := strings.TrimSpace(field)
	if name == "" {
		return s
	}
	if s.rules == nil {
		s.rules = make(map[string]Rule)
	}
	if _, exists := s.rules[name]; !exists {
		s.order = append(s.order, name)
	}
	s.rules[name] = rule
	return s
}

// Rule returns the rule declared for field.
func (s *Schema) Rule(field string) (Rule, bool) {
	if s == nil {
		return Rule{}, false
	}
	rule, ok := s.rules[field]
	return rule, ok
}

// Fields returns the declared field names in order.
func (s *Schema) Fields() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Len reports how many fields carry a rule.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *Schema) clone() *Schema {
	out := NewSchema()
	if s == nil {
		return out
	}
	for _, name := range s.order {
		out.Add(name, s.rules[name])
	}
	return out
}
