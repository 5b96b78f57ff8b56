package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Source identifies where an OpenAPI document originated so the loader can
// read files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Document is a parsed OpenAPI document together with its origin.
type Document struct {
	source Source
	api    *openapi3.T
}

// Parse builds a Document from raw JSON or YAML.
func Parse(ctx context.Context, src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	api, err := loader.LoadFromData(raw)
	if err != nil {
		return Document{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if api.Paths == nil || api.Paths.Len() == 0 {
		return Document{}, errors.New("openapi: document does not contain any paths")
	}
	return Document{source: src, api: api}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// OperationIDs lists the operations that declare an operationId.
func (d Document) OperationIDs() []string {
	var ids []string
	d.eachOperation(func(_, _ string, op *openapi3.Operation) bool {
		if op.OperationID != "" {
			ids = append(ids, op.OperationID)
		}
		return true
	})
	sort.Strings(ids)
	return ids
}

func (d Document) eachOperation(fn func(method, path string, op *openapi3.Operation) bool) {
	if d.api == nil || d.api.Paths == nil {
		return
	}
	for _, path := range d.api.Paths.InMatchingOrder() {
		item := d.api.Paths.Value(path)
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			if !fn(method, path, op) {
				return
			}
		}
	}
}
