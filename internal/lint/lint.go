// Package lint checks the shape of a schema document against a JSON Schema
// and reports every violation at once. It does not resolve references; that
// is left to scheme.New.
package lint

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var documentSchema string

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
})

// FieldError is a single violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every shape violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Check validates the JSON document doc. It returns nil, a *ValidationError,
// or an error when doc is not a single JSON value.
func Check(doc []byte) error {
	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("cannot compile document schema: %w", err)
	}

	v, err := decode(doc)
	if err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return fmt.Errorf("cannot validate document: %w", err)
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	flagged := make(map[string]bool)
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		flagged[field] = true
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	ve.Errors = append(ve.Errors, weightErrors(v, flagged)...)
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

// decode parses exactly one JSON value, keeping numbers as literals.
func decode(doc []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after the top-level value")
		}
		return nil, err
	}
	return v, nil
}

// weightErrors reports weights that JSON Schema counts as integers but that
// are not int64 literals, such as 1.0, 1e2 or values past the int64 range.
func weightErrors(v any, flagged map[string]bool) []FieldError {
	root, _ := v.(map[string]any)
	skills, _ := root["skills"].(map[string]any)

	var out []FieldError
	for _, skill := range slices.Sorted(maps.Keys(skills)) {
		weights, _ := skills[skill].(map[string]any)
		for _, vacancy := range slices.Sorted(maps.Keys(weights)) {
			n, ok := weights[vacancy].(json.Number)
			field := "skills." + skill + "." + vacancy
			if !ok || flagged[field] {
				continue
			}
			if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
				out = append(out, FieldError{
					Field:   field,
					Message: fmt.Sprintf("weight %s must be a whole number in the signed 64-bit range", n),
				})
			}
		}
	}
	return out
}

// SchemaJSON returns the JSON Schema the linter validates against.
func SchemaJSON() string { return documentSchema }
