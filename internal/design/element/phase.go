package element

import (
	derrors "github.com/conduit-lang/modeler/internal/design/errors"
)

// Phase is the build phase of an entity or of a whole design.
type Phase int

const (
	// Constructing accepts local declarations: fields, facets, categories
	Constructing Phase = iota
	// Linking runs final settings; cross-entity references are resolved
	Linking
	// Resolved is read-only and safe to hand to emitters
	Resolved
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case Constructing:
		return "constructing"
	case Linking:
		return "linking"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Require fails with a phase fault unless the current phase is one of allowed.
func (p Phase) Require(operation string, allowed ...Phase) error {
	for _, a := range allowed {
		if p == a {
			return nil
		}
	}
	required := ""
	for i, a := range allowed {
		if i > 0 {
			required += " or "
		}
		required += a.String()
	}
	return derrors.NewWrongPhase(operation, p.String(), required)
}
