package form

import (
	"reflect"
	"sort"
)

// Clone returns a deep copy of the value map. Nested maps and slices are
// copied; other values are shared.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = deepCopy(val)
	}
	return out
}

// Merge returns a copy of v with overrides applied on top.
func (v Values) Merge(overrides Values) Values {
	out := v.Clone()
	for k, val := range overrides {
		out[k] = deepCopy(val)
	}
	return out
}

// Keys returns the field names in lexical order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func valuesEqual(a, b Values) bool {
	if len(a) != len(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func cloneErrors(src Errors) Errors {
	out := make(Errors, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneTouched(src Touched) Touched {
	out := make(Touched, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return typed
		}
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case Values:
		if typed == nil {
			return typed
		}
		return typed.Clone()
	case []any:
		if typed == nil {
			return typed
		}
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		if typed == nil {
			return typed
		}
		clone := make([]string, len(typed))
		copy(clone, typed)
		return clone
	case *FileHandle:
		if typed == nil {
			return typed
		}
		handle := *typed
		return &handle
	default:
		return typed
	}
}
