// Package errors provides structured faults for the design model and linker.
// Every fault names the entity, facet, field or value it concerns so that the
// build can abort with a single localized message.
package errors

import (
	stderrors "errors"

	json "github.com/goccy/go-json"
)

// ErrorCode represents a unique fault code (e.g. "STR101", "DOM201")
type ErrorCode string

// ErrorCategory represents the category of a design fault
type ErrorCategory string

const (
	// CategoryStructural represents misuse of the model API (STR100-199)
	CategoryStructural ErrorCategory = "structural"
	// CategoryDomain represents violated value constraints (DOM200-299)
	CategoryDomain ErrorCategory = "domain"
	// CategoryUnsupported represents kind/operation pairs a kind never supports (UNS300-399)
	CategoryUnsupported ErrorCategory = "unsupported"
	// CategoryReference represents names that could not be resolved (REF400-499)
	CategoryReference ErrorCategory = "reference"
	// CategoryPhase represents operations attempted in the wrong build phase (PHS500-599)
	CategoryPhase ErrorCategory = "phase"
)

// ErrorSeverity indicates the severity level of a fault
type ErrorSeverity string

const (
	// SeverityFatal aborts the current build
	SeverityFatal ErrorSeverity = "fatal"
	// SeverityWarning is reported but does not abort the build
	SeverityWarning ErrorSeverity = "warning"
)

// DesignError is a fault raised while declaring, attaching or linking the model.
type DesignError struct {
	// Code is the unique fault code
	Code ErrorCode `json:"code"`
	// Type is a machine-readable identifier of the fault
	Type string `json:"type"`
	// Category is the fault category
	Category ErrorCategory `json:"category"`
	// Severity is the fault severity
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary message
	Message string `json:"message"`
	// Entity, Facet, Field and Value localize the fault in the design
	Entity string `json:"entity,omitempty"`
	Facet  string `json:"facet,omitempty"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	// Expected describes the limit or value that was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was found (optional)
	Actual string `json:"actual,omitempty"`
	// Suggestion provides a hint for fixing the fault (optional)
	Suggestion string `json:"suggestion,omitempty"`
}

// Error implements the error interface
func (e *DesignError) Error() string {
	return FormatCompact(e)
}

// Format returns a multi-line human-readable message
func (e *DesignError) Format() string {
	return FormatError(e)
}

// ToJSON returns the fault as an indented JSON document
func (e *DesignError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithEntity sets the entity the fault belongs to
func (e *DesignError) WithEntity(entity string) *DesignError {
	e.Entity = entity
	return e
}

// WithFacet sets the facet the fault belongs to
func (e *DesignError) WithFacet(facet string) *DesignError {
	e.Facet = facet
	return e
}

// WithField sets the field the fault belongs to
func (e *DesignError) WithField(field string) *DesignError {
	e.Field = field
	return e
}

// WithValue sets the offending value
func (e *DesignError) WithValue(value string) *DesignError {
	e.Value = value
	return e
}

// WithExpected sets the expected value or limit
func (e *DesignError) WithExpected(expected string) *DesignError {
	e.Expected = expected
	return e
}

// WithActual sets the actual value
func (e *DesignError) WithActual(actual string) *DesignError {
	e.Actual = actual
	return e
}

// WithSuggestion sets a suggestion for fixing the fault
func (e *DesignError) WithSuggestion(suggestion string) *DesignError {
	e.Suggestion = suggestion
	return e
}

// Locate fills in the entity and facet of a fault raised deeper in the model
// when they were not known at the raise site. Other errors pass through.
func Locate(err error, entity, facet string) error {
	var de *DesignError
	if !stderrors.As(err, &de) {
		return err
	}
	if de.Entity == "" {
		de.Entity = entity
	}
	if de.Facet == "" {
		de.Facet = facet
	}
	return err
}

// IsCode reports whether err is a DesignError with the given code
func IsCode(err error, code ErrorCode) bool {
	var de *DesignError
	return stderrors.As(err, &de) && de.Code == code
}

func newError(code ErrorCode, typ string, category ErrorCategory, message string) *DesignError {
	return &DesignError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// LocateField fills in the field of a fault raised by a stored value
func LocateField(err error, field string) error {
	var de *DesignError
	if stderrors.As(err, &de) && de.Field == "" {
		de.Field = field
	}
	return err
}
