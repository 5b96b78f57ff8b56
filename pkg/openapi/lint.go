package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Violation is an unsupported or malformed x-formgen hint.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// Lint reports x-formgen hints in request body schemas that form derivation
// would ignore. Results are sorted by location.
func (d Document) Lint() []Violation {
	var result []Violation
	d.eachOperation(func(method, path string, op *openapi3.Operation) bool {
		id := op.OperationID
		if id == "" {
			id = strings.ToUpper(method) + " " + path
		}
		if schema := requestSchema(op.RequestBody); schema != nil {
			result = append(result, lintSchema([]string{"operation", id, "requestBody"}, schema)...)
		}
		return true
	})

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result
}

func lintSchema(path []string, schema *openapi3.Schema) []Violation {
	if schema == nil {
		return nil
	}
	result := lintExtensions(path, schema.Extensions)

	keys := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if ref := schema.Properties[key]; ref != nil {
			result = append(result, lintSchema(appendPath(path, "properties."+key), ref.Value)...)
		}
	}
	if schema.Items != nil {
		result = append(result, lintSchema(appendPath(path, "items"), schema.Items.Value)...)
	}
	return result
}

func lintExtensions(path []string, extensions map[string]any) []Violation {
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Violation
	for _, key := range keys {
		value := extensions[key]
		switch {
		case key == extensionNamespace:
			nested, ok := value.(map[string]any)
			if !ok {
				result = append(result, Violation{
					Location: formatLocation(path),
					Message:  fmt.Sprintf("%s must be an object, found %T", extensionNamespace, value),
				})
				continue
			}
			nestedKeys := make([]string, 0, len(nested))
			for nestedKey := range nested {
				nestedKeys = append(nestedKeys, nestedKey)
			}
			sort.Strings(nestedKeys)
			for _, nestedKey := range nestedKeys {
				result = append(result, validateHint(appendPath(path, nestedKey), nestedKey, nested[nestedKey])...)
			}
		case strings.HasPrefix(key, extensionNamespace+"-"):
			result = append(result, validateHint(path, strings.TrimPrefix(key, extensionNamespace+"-"), value)...)
		}
	}
	return result
}

func validateHint(path []string, key string, value any) []Violation {
	location := formatLocation(path)
	if key == "" {
		return []Violation{{Location: location, Message: "extension key is empty"}}
	}
	if !isSupportedHint(key) {
		return []Violation{{
			Location: location,
			Message:  fmt.Sprintf("unsupported extension key %q (supported: %s)", key, strings.Join(supportedHints, ", ")),
		}}
	}
	if _, ok := value.(string); !ok {
		return []Violation{{
			Location: location,
			Message:  fmt.Sprintf("value for %q must be a string (got %T)", key, value),
		}}
	}
	return nil
}

func isSupportedHint(key string) bool {
	for _, supported := range supportedHints {
		if key == supported {
			return true
		}
	}
	return false
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
