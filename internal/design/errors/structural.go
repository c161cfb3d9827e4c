package errors

import "fmt"

// Structural fault codes (STR100-199)
const (
	// ErrDoubleAttach indicates a facet attached to a second aggregate
	ErrDoubleAttach ErrorCode = "STR100"
	// ErrUnregisteredValue indicates a choice value that is not a member of the category
	ErrUnregisteredValue ErrorCode = "STR101"
	// ErrMissingBidirectional indicates a default-working value without edges to and from the default
	ErrMissingBidirectional ErrorCode = "STR102"
	// ErrInvalidName indicates a name that is not a legal identifier
	ErrInvalidName ErrorCode = "STR103"
	// ErrDuplicateName indicates a name already used in the same scope
	ErrDuplicateName ErrorCode = "STR104"
	// ErrAlreadyOwned indicates a stored value bound to a second owner
	ErrAlreadyOwned ErrorCode = "STR105"
	// ErrNotAttached indicates a facet used before it was attached
	ErrNotAttached ErrorCode = "STR106"
	// ErrForeignSibling indicates a sibling facet requested for another aggregate
	ErrForeignSibling ErrorCode = "STR107"
	// ErrMissingDefault indicates a default-working value set before the default
	ErrMissingDefault ErrorCode = "STR108"
	// ErrInvalidArgument indicates a nil or empty constructor argument
	ErrInvalidArgument ErrorCode = "STR109"
)

// NewDoubleAttach creates a STR100 fault
func NewDoubleAttach(facet, current, requested string) *DesignError {
	return newError(
		ErrDoubleAttach,
		"double_attach",
		CategoryStructural,
		fmt.Sprintf("facet %s is already attached to %s and cannot be attached to %s", facet, current, requested),
	).WithFacet(facet).
		WithEntity(current).
		WithSuggestion("Create a new facet instance for every entity it should be attached to")
}

// NewUnregisteredValue creates a STR101 fault
func NewUnregisteredValue(category, value, operation string) *DesignError {
	return newError(
		ErrUnregisteredValue,
		"unregistered_value",
		CategoryStructural,
		fmt.Sprintf("%s: value %s is not registered in category %s", operation, value, category),
	).WithValue(value).
		WithSuggestion(fmt.Sprintf("Add %s to %s before referencing it", value, category))
}

// NewMissingBidirectional creates a STR102 fault
func NewMissingBidirectional(category, def, working string) *DesignError {
	return newError(
		ErrMissingBidirectional,
		"missing_bidirectional_transition",
		CategoryStructural,
		fmt.Sprintf("default working value %s of category %s needs transitions %s -> %s and %s -> %s",
			working, category, def, working, working, def),
	).WithValue(working).
		WithSuggestion("Define both transitions before setting the default working value")
}

// NewInvalidName creates a STR103 fault
func NewInvalidName(kind, name, reason string) *DesignError {
	return newError(
		ErrInvalidName,
		"invalid_name",
		CategoryStructural,
		fmt.Sprintf("%s name %q is not a legal identifier: %s", kind, name, reason),
	).WithValue(name).
		WithExpected("lowercase letter followed by lowercase letters, digits or underscores")
}

// NewDuplicateName creates a STR104 fault
func NewDuplicateName(kind, name, scope string) *DesignError {
	return newError(
		ErrDuplicateName,
		"duplicate_name",
		CategoryStructural,
		fmt.Sprintf("%s %s is already declared in %s", kind, name, scope),
	).WithValue(name)
}

// NewAlreadyOwned creates a STR105 fault
func NewAlreadyOwned(value, owner, requested string) *DesignError {
	return newError(
		ErrAlreadyOwned,
		"already_owned",
		CategoryStructural,
		fmt.Sprintf("stored value %s is owned by %s and cannot be bound to %s", value, owner, requested),
	).WithValue(value)
}

// NewNotAttached creates a STR106 fault
func NewNotAttached(facet, operation string) *DesignError {
	return newError(
		ErrNotAttached,
		"not_attached",
		CategoryStructural,
		fmt.Sprintf("%s requires facet %s to be attached to an entity", operation, facet),
	).WithFacet(facet)
}

// NewForeignSibling creates a STR107 fault
func NewForeignSibling(facet, entity string) *DesignError {
	return newError(
		ErrForeignSibling,
		"foreign_sibling",
		CategoryStructural,
		fmt.Sprintf("facet %s can only add sibling facets to its own entity %s", facet, entity),
	).WithFacet(facet).WithEntity(entity)
}

// NewMissingDefault creates a STR108 fault
func NewMissingDefault(category, working string) *DesignError {
	return newError(
		ErrMissingDefault,
		"missing_default",
		CategoryStructural,
		fmt.Sprintf("category %s has no default value yet, cannot set default working value %s", category, working),
	).WithValue(working).
		WithSuggestion("Call SetDefault before SetDefaultWorking")
}

// NewInvalidArgument creates a STR109 fault
func NewInvalidArgument(operation, reason string) *DesignError {
	return newError(
		ErrInvalidArgument,
		"invalid_argument",
		CategoryStructural,
		fmt.Sprintf("%s: %s", operation, reason),
	)
}
