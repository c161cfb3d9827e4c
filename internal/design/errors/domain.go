package errors

import (
	"fmt"
	"strconv"
)

// Domain fault codes (DOM200-299)
const (
	// ErrCodeTooLong indicates a choice code longer than the category key storage
	ErrCodeTooLong ErrorCode = "DOM200"
	// ErrPseudoNumber indicates a pseudo-numeric value without a derivable integer
	ErrPseudoNumber ErrorCode = "DOM201"
	// ErrPriorityOutOfRange indicates a display priority outside [-1000, 1000]
	ErrPriorityOutOfRange ErrorCode = "DOM202"
	// ErrInvalidScalar indicates a non-positive length, precision or scale
	ErrInvalidScalar ErrorCode = "DOM203"
	// ErrIndexClassNotAllowed indicates an index classification the field kind does not offer
	ErrIndexClassNotAllowed ErrorCode = "DOM204"
)

// NewCodeTooLong creates a DOM200 fault
func NewCodeTooLong(category, code string, limit int) *DesignError {
	return newError(
		ErrCodeTooLong,
		"code_too_long",
		CategoryDomain,
		fmt.Sprintf("code %s is longer than the key storage of category %s", code, category),
	).WithValue(code).
		WithExpected(fmt.Sprintf("at most %d characters", limit)).
		WithActual(strconv.Itoa(len(code)))
}

// NewPseudoNumber creates a DOM201 fault
func NewPseudoNumber(category, code, label string) *DesignError {
	return newError(
		ErrPseudoNumber,
		"pseudo_number_not_derivable",
		CategoryDomain,
		fmt.Sprintf("value %s of pseudo-numeric category %s has no pseudo-number and label %q is not an integer",
			code, category, label),
	).WithValue(code).
		WithSuggestion("Give the value an explicit pseudo-number or an integer display label")
}

// NewPriorityOutOfRange creates a DOM202 fault
func NewPriorityOutOfRange(field string, priority, min, max int) *DesignError {
	return newError(
		ErrPriorityOutOfRange,
		"priority_out_of_range",
		CategoryDomain,
		fmt.Sprintf("display priority %d of field %s is out of range", priority, field),
	).WithField(field).
		WithExpected(fmt.Sprintf("between %d and %d", min, max)).
		WithActual(strconv.Itoa(priority))
}

// NewInvalidScalar creates a DOM203 fault
func NewInvalidScalar(what, attribute string, value int) *DesignError {
	return newError(
		ErrInvalidScalar,
		"invalid_scalar",
		CategoryDomain,
		fmt.Sprintf("%s: %s must be positive", what, attribute),
	).WithActual(strconv.Itoa(value))
}

// NewIndexClassNotAllowed creates a DOM204 fault
func NewIndexClassNotAllowed(field, kind, class string, allowed []string) *DesignError {
	return newError(
		ErrIndexClassNotAllowed,
		"index_class_not_allowed",
		CategoryDomain,
		fmt.Sprintf("%s field %s does not offer index classification %s", kind, field, class),
	).WithField(field).
		WithExpected(fmt.Sprintf("one of %v", allowed)).
		WithActual(class)
}
