// Package element provides the identity every node of the design model carries:
// a validated, mutable name and a generic name shared by all instances of the
// same facet kind.
package element

import (
	"fmt"
	"go/token"
	"unicode"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
)

// MaxNameLength is the longest identifier accepted for a design node
const MaxNameLength = 64

// Element is the identity of a design node.
type Element struct {
	kind        string
	name        string
	genericName string
	checks      []func(name string) error
}

// New creates an element of the given kind ("entity", "field", ...) after
// validating its name.
func New(kind, name string) (Element, error) {
	e := Element{kind: kind}
	if err := e.SetName(name); err != nil {
		return Element{}, err
	}
	return e, nil
}

// Name returns the current name
func (e *Element) Name() string { return e.name }

// Kind returns the node kind used in fault messages
func (e *Element) Kind() string { return e.kind }

// GenericName returns the generic name, which defaults to the name
func (e *Element) GenericName() string {
	if e.genericName == "" {
		return e.name
	}
	return e.genericName
}

// SetName renames the element. The new name is validated, then every rename
// check vetoes or accepts it, before it replaces the old one. Setting the
// current name again is a no-op.
func (e *Element) SetName(name string) error {
	if err := ValidateName(e.kind, name); err != nil {
		return err
	}
	if name == e.name {
		return nil
	}
	for _, check := range e.checks {
		if err := check(name); err != nil {
			return err
		}
	}
	e.name = name
	return nil
}

// OnRename registers a check run by every later SetName with the proposed
// name. Owners use it to keep the names they index unique and to refuse
// renames outside construction.
func (e *Element) OnRename(check func(name string) error) {
	e.checks = append(e.checks, check)
}

// SetGenericName overrides the generic name. An empty string restores the default.
func (e *Element) SetGenericName(name string) error {
	if name != "" {
		if err := ValidateName(e.kind, name); err != nil {
			return err
		}
	}
	e.genericName = name
	return nil
}

// ValidateName checks that name is a legal design identifier: a lowercase letter
// followed by lowercase letters, digits or underscores, no longer than
// MaxNameLength and not a Go keyword.
func ValidateName(kind, name string) error {
	if name == "" {
		return derrors.NewInvalidName(kind, name, "name is empty")
	}
	if len(name) > MaxNameLength {
		return derrors.NewInvalidName(kind, name, fmt.Sprintf("longer than %d characters", MaxNameLength))
	}
	for i, r := range name {
		switch {
		case i == 0 && !(r >= 'a' && r <= 'z'):
			return derrors.NewInvalidName(kind, name, "must start with a lowercase letter")
		case r > unicode.MaxASCII:
			return derrors.NewInvalidName(kind, name, fmt.Sprintf("non-ASCII character %q", r))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
		default:
			return derrors.NewInvalidName(kind, name, fmt.Sprintf("illegal character %q", r))
		}
	}
	if token.IsKeyword(name) {
		return derrors.NewInvalidName(kind, name, "reserved word")
	}
	return nil
}

// Named is implemented by every node that can own other nodes
type Named interface {
	Name() string
}
