package form

import (
	"regexp"
	"testing"
)

func TestCheck_RequiredEmptyValuesShortCircuit(t *testing.T) {
	calls := 0
	rule := Rule{
		Required:  true,
		Pattern:   regexp.MustCompile(`^\d+$`),
		MinLength: Length(3),
		Min:       Float(10),
		Custom: func(any, Values) string {
			calls++
			return "custom"
		},
	}

	for _, value := range []any{nil, "", "   ", false, (*FileHandle)(nil), []any{}} {
		got := Check(rule, value, Values{}, Messages{})
		if got != DefaultMessages().Required {
			t.Fatalf("value %#v: expected required error, got %q", value, got)
		}
	}
	if calls != 0 {
		t.Fatalf("expected custom rule to be skipped, ran %d times", calls)
	}
}

func TestCheck_OptionalEmptySkipsEveryRule(t *testing.T) {
	rule := Rule{
		Pattern:   regexp.MustCompile(`^x$`),
		MinLength: Length(5),
		MaxLength: Length(1),
		Min:       Float(100),
		Max:       Float(0),
		Custom:    func(any, Values) string { return "never" },
	}
	for _, value := range []any{nil, "", " \t"} {
		if got := Check(rule, value, Values{}, Messages{}); got != "" {
			t.Fatalf("value %#v: expected optional empty value to pass, got %q", value, got)
		}
	}
}

func TestCheck_RuleOrder(t *testing.T) {
	rule := Rule{
		Pattern:   regexp.MustCompile(`^[a-z]+$`),
		MinLength: Length(4),
		Custom:    func(any, Values) string { return "custom failed" },
	}

	if got := Check(rule, "AB", nil, Messages{}); got != "Invalid format" {
		t.Fatalf("expected pattern to fail first, got %q", got)
	}
	if got := Check(rule, "ab", nil, Messages{}); got != "Must be at least 4 characters" {
		t.Fatalf("expected length to fail second, got %q", got)
	}
	if got := Check(rule, "abcd", nil, Messages{}); got != "custom failed" {
		t.Fatalf("expected custom to fail last, got %q", got)
	}
}

func TestCheck_LengthCountsRunes(t *testing.T) {
	rule := Rule{MaxLength: Length(4)}
	if got := Check(rule, "niño", nil, Messages{}); got != "" {
		t.Fatalf("expected 4-rune string to pass, got %q", got)
	}
	if got := Check(rule, "niños", nil, Messages{}); got != "Must be at most 4 characters" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCheck_NumericBounds(t *testing.T) {
	rule := Rule{Min: Float(18), Max: Float(99)}

	cases := []struct {
		value any
		want  string
	}{
		{value: 17, want: "Must be at least 18"},
		{value: 18, want: ""},
		{value: "99", want: ""},
		{value: 99.5, want: "Must be at most 99"},
		{value: "abc", want: ""},
	}
	for _, tc := range cases {
		if got := Check(rule, tc.value, nil, Messages{}); got != tc.want {
			t.Fatalf("value %#v: expected %q, got %q", tc.value, tc.want, got)
		}
	}
}

func TestCheck_MessageOverride(t *testing.T) {
	rule := Rule{Required: true, Pattern: regexp.MustCompile(`@`), Message: "Enter a valid email"}
	if got := Check(rule, "", nil, Messages{}); got != "Enter a valid email" {
		t.Fatalf("expected override for required, got %q", got)
	}
	if got := Check(rule, "nope", nil, Messages{}); got != "Enter a valid email" {
		t.Fatalf("expected override for pattern, got %q", got)
	}
}

func TestCheck_CustomSeesAllValues(t *testing.T) {
	rule := Rule{
		Custom: func(value any, values Values) string {
			if value != values["password"] {
				return "Passwords do not match"
			}
			return ""
		},
	}
	values := Values{"password": "s3cret", "confirm": "other"}
	if got := Check(rule, values["confirm"], values, Messages{}); got != "Passwords do not match" {
		t.Fatalf("unexpected result %q", got)
	}
	values["confirm"] = "s3cret"
	if got := Check(rule, values["confirm"], values, Messages{}); got != "" {
		t.Fatalf("expected match to pass, got %q", got)
	}
}

func TestCheck_CustomMessages(t *testing.T) {
	msgs := Messages{Required: "Campo obligatorio", MinLength: "Mínimo %d caracteres"}
	if got := Check(Rule{Required: true}, nil, nil, msgs); got != "Campo obligatorio" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Check(Rule{MinLength: Length(3)}, "ab", nil, msgs); got != "Mínimo 3 caracteres" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestIsEmpty(t *testing.T) {
	if IsEmpty(0) {
		t.Fatalf("zero is a provided number")
	}
	if IsEmpty(&FileHandle{Name: "id.pdf"}) {
		t.Fatalf("file handle should not be empty")
	}
	if !IsEmpty(map[string]any{}) {
		t.Fatalf("empty map should be empty")
	}
	if !IsEmpty([]string{}) {
		t.Fatalf("empty string slice should be empty")
	}
}
