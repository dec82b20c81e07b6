// Package errors provides structured error handling for the ecschema engine.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a unique error code in the ecschema engine
type ErrorCode string

// ErrorCategory represents the category of a schema error
type ErrorCategory string

const (
	// CategoryJSON represents malformed input errors (JSN001-099)
	CategoryJSON ErrorCategory = "json"
	// CategoryIdentifier represents name/version parsing errors (IDN100-199)
	CategoryIdentifier ErrorCategory = "identifier"
	// CategoryReference represents cross-reference resolution errors (REF200-299)
	CategoryReference ErrorCategory = "reference"
	// CategoryProperty represents property construction errors (PRP300-399)
	CategoryProperty ErrorCategory = "property"
	// CategoryRelationship represents relationship constraint errors (REL400-499)
	CategoryRelationship ErrorCategory = "relationship"
	// CategoryRegistry represents schema registry errors (REG500-599)
	CategoryRegistry ErrorCategory = "registry"
)

// SchemaError represents a structured error raised during schema
// deserialization or resolution. Construction is all-or-nothing, so a
// SchemaError always aborts the read that produced it.
type SchemaError struct {
	// Code is the unique error code (e.g., "REF201", "JSN001")
	Code ErrorCode `json:"code"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Message is the primary error message
	Message string `json:"message"`
	// Schema is the full name of the schema being read (optional)
	Schema string `json:"schema,omitempty"`
	// Path names the offending JSON path or item (optional)
	Path string `json:"path,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s (at %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports whether target carries the same error code, making SchemaError
// values comparable with errors.Is against the code sentinels below.
func (e *SchemaError) Is(target error) bool {
	t, ok := target.(*SchemaError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ToJSON returns the error as a JSON string for machine consumption
func (e *SchemaError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithSchema sets the schema name on the error
func (e *SchemaError) WithSchema(schema string) *SchemaError {
	e.Schema = schema
	return e
}

// WithPath sets the offending JSON path on the error
func (e *SchemaError) WithPath(path string) *SchemaError {
	e.Path = path
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *SchemaError) WithSuggestion(suggestion string) *SchemaError {
	e.Suggestion = suggestion
	return e
}

func newError(code ErrorCode, category ErrorCategory, message string) *SchemaError {
	return &SchemaError{
		Code:     code,
		Category: category,
		Message:  message,
	}
}

// Sentinel returns a bare SchemaError carrying only a code, suitable as the
// target of errors.Is.
func Sentinel(code ErrorCode) *SchemaError {
	return &SchemaError{Code: code}
}
