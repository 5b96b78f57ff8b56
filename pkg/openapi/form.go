package openapi

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/form"
)

const extensionNamespace = "x-formgen"

// supportedHints are the keys accepted as x-formgen-<key> or inside an
// x-formgen object.
var supportedHints = []string{"label", "message"}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Input describes how a field should be collected.
type Input struct {
	Type        string
	Format      string
	Description string
	Options     []string
	// Choices holds the enum members as decoded, aligned with Options.
	Choices     []any
}

// Form is the validation schema and initial values derived from an
// operation's request body.
type Form struct {
	OperationID string
	Method      string
	Path        string
	Summary     string
	Fields      []string
	Labels      map[string]string
	Inputs      map[string]Input
	Schema      *form.Schema
	Initial     form.Values
}

// Form derives the form for operationID. Required properties come first in
// their declared order, the rest follow sorted by name.
func (d Document) Form(operationID string) (Form, error) {
	id := strings.TrimSpace(operationID)
	if id == "" {
		return Form{}, fmt.Errorf("openapi: operation id is required")
	}

	var (
		found       *openapi3.Operation
		method, uri string
	)
	d.eachOperation(func(m, p string, op *openapi3.Operation) bool {
		if op.OperationID == id {
			found, method, uri = op, m, p
			return false
		}
		return true
	})
	if found == nil {
		return Form{}, fmt.Errorf("openapi: operation %q not found in %s", id, d.Location())
	}

	body := requestSchema(found.RequestBody)
	if body == nil {
		return Form{}, fmt.Errorf("openapi: operation %q has no request body schema", id)
	}

	out := Form{
		OperationID: id,
		Method:      strings.ToUpper(method),
		Path:        uri,
		Summary:     found.Summary,
		Labels:      make(map[string]string),
		Inputs:      make(map[string]Input),
		Schema:      form.NewSchema(),
		Initial:     make(form.Values),
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	for _, name := range fieldOrder(body) {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value

		rule, err := ruleFor(prop, required[name])
		if err != nil {
			return Form{}, fmt.Errorf("openapi: operation %q field %q: %w", id, name, err)
		}
		out.Schema.Add(name, rule)
		out.Fields = append(out.Fields, name)
		out.Labels[name] = labelFor(name, prop)
		out.Inputs[name] = inputFor(prop)
		out.Initial[name] = initialValue(prop)
	}
	return out, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	order := make([]string, 0, len(schema.Properties))
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; ok && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func ruleFor(prop *openapi3.Schema, required bool) (form.Rule, error) {
	rule := form.Rule{Required: required}

	if prop.Pattern != "" {
		pattern, err := regexp.Compile(prop.Pattern)
		if err != nil {
			return form.Rule{}, fmt.Errorf("invalid pattern: %w", err)
		}
		rule.Pattern = pattern
	} else if prop.Format == "email" {
		rule.Pattern = emailPattern
	}
	if prop.MinLength != 0 {
		rule.MinLength = form.Length(int(prop.MinLength))
	}
	if prop.MaxLength != nil {
		rule.MaxLength = form.Length(int(*prop.MaxLength))
	}
	if prop.Min != nil {
		rule.Min = form.Float(*prop.Min)
	}
	if prop.Max != nil {
		rule.Max = form.Float(*prop.Max)
	}
	if len(prop.Enum) > 0 {
		allowed := make(map[string]struct{}, len(prop.Enum))
		for _, option := range prop.Enum {
			allowed[fmt.Sprint(option)] = struct{}{}
		}
		rule.Custom = func(value any, _ form.Values) string {
			if _, ok := allowed[fmt.Sprint(value)]; ok {
				return ""
			}
			return "Select one of the allowed options"
		}
	}
	if msg, ok := hint(prop, "message"); ok {
		rule.Message = msg
	}
	return rule, nil
}

func labelFor(name string, prop *openapi3.Schema) string {
	if label, ok := hint(prop, "label"); ok && label != "" {
		return label
	}
	if prop.Title != "" {
		return prop.Title
	}
	return name
}

// hint reads x-formgen-<key>, falling back to the nested x-formgen object.
func hint(prop *openapi3.Schema, key string) (string, bool) {
	if value, ok := prop.Extensions[extensionNamespace+"-"+key].(string); ok {
		return strings.TrimSpace(value), true
	}
	if nested, ok := prop.Extensions[extensionNamespace].(map[string]any); ok {
		if value, ok := nested[key].(string); ok {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

func inputFor(prop *openapi3.Schema) Input {
	in := Input{
		Format:      prop.Format,
		Description: strings.TrimSpace(prop.Description),
	}
	if prop.Type != nil && len(prop.Type.Slice()) > 0 {
		in.Type = prop.Type.Slice()[0]
	}
	for _, option := range prop.Enum {
		in.Options = append(in.Options, fmt.Sprint(option))
		in.Choices = append(in.Choices, option)
	}
	return in
}

func initialValue(prop *openapi3.Schema) any {
	if prop.Default != nil {
		return prop.Default
	}
	if prop.Type == nil {
		return nil
	}
	switch {
	case prop.Type.Is(openapi3.TypeString):
		return ""
	case prop.Type.Is(openapi3.TypeBoolean):
		return false
	default:
		return nil
	}
}
