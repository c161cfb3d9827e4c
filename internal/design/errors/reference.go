package errors

import (
	"fmt"
	"strings"
)

// Unsupported fault codes (UNS300-399)
const (
	// ErrCompositeIndexUnsupported indicates a field kind that never contributes to composite indexes
	ErrCompositeIndexUnsupported ErrorCode = "UNS300"
	// ErrCellExtractionUnsupported indicates a field kind that cannot be extracted from a spreadsheet cell
	ErrCellExtractionUnsupported ErrorCode = "UNS301"
)

// Reference fault codes (REF400-499)
const (
	// ErrUnresolvedEntity indicates an entity name unknown to the design
	ErrUnresolvedEntity ErrorCode = "REF400"
	// ErrUnresolvedFacet indicates a facet instance name unknown to its entity
	ErrUnresolvedFacet ErrorCode = "REF401"
	// ErrUnresolvedCategory indicates a choice category name unknown to the design
	ErrUnresolvedCategory ErrorCode = "REF402"
	// ErrFacetClassMismatch indicates a resolved facet of an unexpected class
	ErrFacetClassMismatch ErrorCode = "REF403"
	// ErrUnresolvedModule indicates a module path unknown to the design
	ErrUnresolvedModule ErrorCode = "REF404"
)

// Phase fault codes (PHS500-599)
const (
	// ErrWrongPhase indicates an operation attempted outside its build phase
	ErrWrongPhase ErrorCode = "PHS500"
	// ErrAlreadyFinalized indicates final settings invoked a second time
	ErrAlreadyFinalized ErrorCode = "PHS501"
)

// NewUnsupported creates an UNS fault for a kind/operation pair
func NewUnsupported(code ErrorCode, kind, operation, field string) *DesignError {
	return newError(
		code,
		"unsupported",
		CategoryUnsupported,
		fmt.Sprintf("%s is not supported for %s fields", operation, kind),
	).WithField(field)
}

// NewCompositeIndexUnsupported creates a UNS300 fault
func NewCompositeIndexUnsupported(kind, field string) *DesignError {
	return NewUnsupported(ErrCompositeIndexUnsupported, kind, "composite index", field)
}

// NewCellExtractionUnsupported creates a UNS301 fault
func NewCellExtractionUnsupported(kind, field string) *DesignError {
	return NewUnsupported(ErrCellExtractionUnsupported, kind, "cell extraction", field)
}

// NewUnresolvedEntity creates a REF400 fault
func NewUnresolvedEntity(name string, similar []string) *DesignError {
	return withDidYouMean(newError(
		ErrUnresolvedEntity,
		"unresolved_entity",
		CategoryReference,
		fmt.Sprintf("entity %s is not declared in the design", name),
	).WithValue(name), similar)
}

// NewUnresolvedFacet creates a REF401 fault
func NewUnresolvedFacet(entity, facet string, similar []string) *DesignError {
	return withDidYouMean(newError(
		ErrUnresolvedFacet,
		"unresolved_facet",
		CategoryReference,
		fmt.Sprintf("entity %s has no facet %s", entity, facet),
	).WithValue(facet), similar)
}

// NewUnresolvedCategory creates a REF402 fault
func NewUnresolvedCategory(name string, similar []string) *DesignError {
	return withDidYouMean(newError(
		ErrUnresolvedCategory,
		"unresolved_category",
		CategoryReference,
		fmt.Sprintf("choice category %s is not declared in the design", name),
	).WithValue(name), similar)
}

// NewFacetClassMismatch creates a REF403 fault
func NewFacetClassMismatch(entity, facet, expected, actual string) *DesignError {
	return newError(
		ErrFacetClassMismatch,
		"facet_class_mismatch",
		CategoryReference,
		fmt.Sprintf("facet %s of entity %s is a %s", facet, entity, actual),
	).WithValue(facet).
		WithExpected(expected).
		WithActual(actual)
}

// NewUnresolvedModule creates a REF404 fault
func NewUnresolvedModule(path string, similar []string) *DesignError {
	return withDidYouMean(newError(
		ErrUnresolvedModule,
		"unresolved_module",
		CategoryReference,
		fmt.Sprintf("module %s is not declared in the design", path),
	).WithValue(path), similar)
}

// NewWrongPhase creates a PHS500 fault
func NewWrongPhase(operation, current, required string) *DesignError {
	return newError(
		ErrWrongPhase,
		"wrong_phase",
		CategoryPhase,
		fmt.Sprintf("%s is only allowed while %s", operation, required),
	).WithExpected(required).
		WithActual(current)
}

// NewAlreadyFinalized creates a PHS501 fault
func NewAlreadyFinalized(facet string) *DesignError {
	return newError(
		ErrAlreadyFinalized,
		"already_finalized",
		CategoryPhase,
		fmt.Sprintf("final settings of facet %s already ran", facet),
	).WithFacet(facet)
}

func withDidYouMean(e *DesignError, similar []string) *DesignError {
	if len(similar) > 0 {
		e.Suggestion = fmt.Sprintf("Did you mean: %s?", strings.Join(similar, ", "))
	}
	return e
}
