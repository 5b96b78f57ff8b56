// Package filestore persists promotion campaigns in a YAML or JSON file.
//
// The file holds a top-level "campaigns" list. Each record is validated on
// read; broken records are logged and skipped so the rest of the catalogue
// stays usable. Usage increments are serialised within the process only; two
// processes sharing a file can still lose an increment.
package filestore
