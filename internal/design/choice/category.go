package choice

import (
	"strings"
	"unicode/utf8"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/element"
)

// Kind is the closed set of category variants
type Kind int

const (
	KindPlain Kind = iota
	KindTransition
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// Domain is implemented by *Category and *TransitionCategory only.
// Emitters switch on Kind or on the concrete type.
type Domain interface {
	Base() *Category
	Kind() Kind
	domain()
}

// Category is a named, ordered, code-unique set of choice values.
type Category struct {
	element.Element
	module       *element.Module
	keyLength    int
	pseudoNumber bool
	values       []*Value
	byCode       map[string]*Value
	sealed       bool
}

// New creates a plain choice category whose codes are stored on keyLength characters
func New(name string, module *element.Module, keyLength int, pseudoNumber bool) (*Category, error) {
	el, err := element.New("category", name)
	if err != nil {
		return nil, err
	}
	if keyLength <= 0 {
		return nil, derrors.NewInvalidScalar("category "+name, "key storage length", keyLength)
	}
	c := &Category{
		Element:      el,
		module:       module,
		keyLength:    keyLength,
		pseudoNumber: pseudoNumber,
		byCode:       make(map[string]*Value),
	}
	c.OnRename(func(string) error { return c.requireOpen("rename category " + c.Name()) })
	return c, nil
}

// Base returns the category itself
func (c *Category) Base() *Category { return c }

// Kind returns KindPlain
func (c *Category) Kind() Kind { return KindPlain }

func (c *Category) domain() {}

// Module returns the authoring module
func (c *Category) Module() *element.Module { return c.module }

// KeyLength returns the storage length of codes
func (c *Category) KeyLength() int { return c.keyLength }

// IsPseudoNumber reports whether every value carries an integer
func (c *Category) IsPseudoNumber() bool { return c.pseudoNumber }

// Seal makes the category read-only. Linking a design seals every category
// it registered; later mutations fail with a phase fault.
func (c *Category) Seal() { c.sealed = true }

// Sealed reports whether the category is read-only
func (c *Category) Sealed() bool { return c.sealed }

func (c *Category) requireOpen(operation string) error {
	if c.sealed {
		return derrors.NewWrongPhase(operation, "sealed", element.Constructing.String())
	}
	return nil
}

// AddValue registers v. It fails when the code is empty, longer than the key
// storage, already used, or when a pseudo-numeric category cannot derive an
// integer for v.
func (c *Category) AddValue(v *Value) error {
	if v == nil {
		return derrors.NewInvalidArgument("add value to "+c.Name(), "value is nil")
	}
	if err := c.requireOpen("add value " + v.code + " to " + c.Name()); err != nil {
		return err
	}
	if strings.TrimSpace(v.code) == "" || strings.ContainsAny(v.code, " \t\n") {
		return derrors.NewInvalidArgument("add value to "+c.Name(), "code must be non-empty without whitespace")
	}
	if v.owner != nil {
		return derrors.NewDuplicateName("choice value", v.code, "category "+v.owner.Name())
	}
	if utf8.RuneCountInString(v.code) > c.keyLength {
		return derrors.NewCodeTooLong(c.Name(), v.code, c.keyLength)
	}
	if _, exists := c.byCode[v.code]; exists {
		return derrors.NewDuplicateName("choice value", v.code, "category "+c.Name())
	}
	if c.pseudoNumber && !v.derivePseudoNumber() {
		return derrors.NewPseudoNumber(c.Name(), v.code, v.label)
	}

	v.owner = c
	c.values = append(c.values, v)
	c.byCode[v.code] = v
	return nil
}

// Value returns the value registered under code or nil
func (c *Category) Value(code string) *Value {
	return c.byCode[code]
}

// Values returns the registered values in registration order
func (c *Category) Values() []*Value {
	return append([]*Value(nil), c.values...)
}

// Codes returns the registered codes in registration order
func (c *Category) Codes() []string {
	codes := make([]string, len(c.values))
	for i, v := range c.values {
		codes[i] = v.code
	}
	return codes
}

// Contains reports whether v itself is registered in the category
func (c *Category) Contains(v *Value) bool {
	return v != nil && v.owner == c
}

// require fails unless v is a registered member
func (c *Category) require(v *Value, operation string) error {
	if !c.Contains(v) {
		return derrors.NewUnregisteredValue(c.Name(), v.String(), operation)
	}
	return nil
}
