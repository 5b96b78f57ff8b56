package form

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Check evaluates rule against value and returns the first failing message, or
// an empty string when every check passes. Empty optional values skip all
// checks.
func Check(rule Rule, value any, values Values, messages Messages) string {
	messages = messages.withDefaults()

	if IsEmpty(value) {
		if rule.Required {
			return pick(rule.Message, messages.Required)
		}
		return ""
	}

	text, isText := textOf(value)

	if rule.Pattern != nil && !rule.Pattern.MatchString(text) {
		return pick(rule.Message, messages.Pattern)
	}

	if rule.MinLength != nil || rule.MaxLength != nil {
		length := lengthOf(value, text, isText)
		if rule.MinLength != nil && length < *rule.MinLength {
			return pick(rule.Message, messages.format(messages.MinLength, *rule.MinLength))
		}
		if rule.MaxLength != nil && length > *rule.MaxLength {
			return pick(rule.Message, messages.format(messages.MaxLength, *rule.MaxLength))
		}
	}

	if rule.Min != nil || rule.Max != nil {
		if number, ok := numberOf(value); ok {
			if rule.Min != nil && number < *rule.Min {
				return pick(rule.Message, messages.format(messages.Min, *rule.Min))
			}
			if rule.Max != nil && number > *rule.Max {
				return pick(rule.Message, messages.format(messages.Max, *rule.Max))
			}
		}
	}

	if rule.Custom != nil {
		if msg := strings.TrimSpace(rule.Custom(value, values)); msg != "" {
			return msg
		}
	}

	return ""
}

// IsEmpty reports whether value counts as "not provided": nil, blank strings,
// nil files, empty collections and unchecked booleans.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case bool:
		return !typed
	case *FileHandle:
		return typed == nil
	case []any:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

func pick(override, fallback string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return fallback
}

func textOf(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case *FileHandle:
		return typed.Name, false
	case fmt.Stringer:
		return typed.String(), false
	default:
		return fmt.Sprint(value), false
	}
}

func lengthOf(value any, text string, isText bool) int {
	if isText {
		return utf8.RuneCountInString(text)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	}
	return utf8.RuneCountInString(text)
}

func numberOf(value any) (float64, bool) {
	switch typed := value.(type) {
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return number, true
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}
