// Package storage provides the smallest persisted units of the design model:
// typed stored values owned by exactly one field or facet, and the composite
// indexes built over them.
package storage

import (
	"fmt"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/element"
	ustrings "github.com/conduit-lang/modeler/internal/util/strings"
)

// Kind is the closed set of stored value kinds
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
	KindTimestamp
	KindLargeBinary
	KindEntityRef
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindTimestamp:
		return "timestamp"
	case KindLargeBinary:
		return "largebinary"
	case KindEntityRef:
		return "entityref"
	default:
		return "unknown"
	}
}

// StoredValue is an immutable typed leaf descriptor. Only its owner is set
// after construction, and only once.
type StoredValue struct {
	kind      Kind
	suffix    string
	length    int
	precision int
	scale     int
	target    string
	owner     element.Named
}

// NewText creates a text stored value holding at most length characters
func NewText(suffix string, length int) (*StoredValue, error) {
	if length <= 0 {
		return nil, derrors.NewInvalidScalar("text stored value "+suffix, "length", length)
	}
	return newValue(KindText, suffix, func(v *StoredValue) { v.length = length })
}

// NewInteger creates an integer stored value
func NewInteger(suffix string) (*StoredValue, error) {
	return newValue(KindInteger, suffix, nil)
}

// NewDecimal creates a decimal stored value with the given precision and scale
func NewDecimal(suffix string, precision, scale int) (*StoredValue, error) {
	if precision <= 0 {
		return nil, derrors.NewInvalidScalar("decimal stored value "+suffix, "precision", precision)
	}
	if scale < 0 || scale > precision {
		return nil, derrors.NewInvalidScalar("decimal stored value "+suffix, "scale within precision", scale)
	}
	return newValue(KindDecimal, suffix, func(v *StoredValue) {
		v.precision = precision
		v.scale = scale
	})
}

// NewTimestamp creates a timestamp stored value
func NewTimestamp(suffix string) (*StoredValue, error) {
	return newValue(KindTimestamp, suffix, nil)
}

// NewLargeBinary creates a large binary stored value
func NewLargeBinary(suffix string) (*StoredValue, error) {
	return newValue(KindLargeBinary, suffix, nil)
}

// NewEntityRef creates a stored value referencing an instance of the target entity.
// The target is kept by name: it may not be declared yet.
func NewEntityRef(suffix, target string) (*StoredValue, error) {
	if err := element.ValidateName("entity", target); err != nil {
		return nil, err
	}
	return newValue(KindEntityRef, suffix, func(v *StoredValue) { v.target = target })
}

func newValue(kind Kind, suffix string, set func(*StoredValue)) (*StoredValue, error) {
	if suffix != "" {
		if err := element.ValidateName("stored value", suffix); err != nil {
			return nil, err
		}
	}
	v := &StoredValue{kind: kind, suffix: suffix}
	if set != nil {
		set(v)
	}
	return v, nil
}

// Kind returns the stored value kind
func (v *StoredValue) Kind() Kind { return v.kind }

// Suffix returns the suffix appended to the owner name to build the column name
func (v *StoredValue) Suffix() string { return v.suffix }

// Length returns the maximum length of a text value, 0 for other kinds
func (v *StoredValue) Length() int { return v.length }

// Precision returns the precision of a decimal value, 0 for other kinds
func (v *StoredValue) Precision() int { return v.precision }

// Scale returns the scale of a decimal value, 0 for other kinds
func (v *StoredValue) Scale() int { return v.scale }

// Target returns the referenced entity name of an entity reference
func (v *StoredValue) Target() string { return v.target }

// Owner returns the field or facet owning the value, nil if unbound
func (v *StoredValue) Owner() element.Named { return v.owner }

// Bind assigns the owner. A stored value belongs to exactly one field or facet.
func (v *StoredValue) Bind(owner element.Named) error {
	if owner == nil {
		return derrors.NewInvalidArgument("bind "+v.String(), "owner is nil")
	}
	if v.owner != nil {
		return derrors.NewAlreadyOwned(v.String(), v.owner.Name(), owner.Name())
	}
	v.owner = owner
	return nil
}

// Clone returns an unbound stored value with the same attributes
func (v *StoredValue) Clone() *StoredValue {
	c := *v
	c.owner = nil
	return &c
}

// ColumnName returns the persisted column name for the given base name
func (v *StoredValue) ColumnName(base string) string {
	if v.suffix == "" {
		return base
	}
	if base == "" {
		return v.suffix
	}
	return base + "_" + v.suffix
}

// HostType returns the Go type generated code uses to hold the value
func (v *StoredValue) HostType() string {
	switch v.kind {
	case KindText:
		return "string"
	case KindInteger:
		return "int64"
	case KindDecimal:
		return "*big.Rat"
	case KindTimestamp:
		return "time.Time"
	case KindLargeBinary:
		return "[]byte"
	case KindEntityRef:
		return ustrings.ToPascalCase(v.target) + "ID"
	default:
		return "interface{}"
	}
}

// SQLType returns the PostgreSQL column type of the value
func (v *StoredValue) SQLType() string {
	switch v.kind {
	case KindText:
		return fmt.Sprintf("VARCHAR(%d)", v.length)
	case KindInteger:
		return "BIGINT"
	case KindDecimal:
		return fmt.Sprintf("NUMERIC(%d,%d)", v.precision, v.scale)
	case KindTimestamp:
		return "TIMESTAMP WITH TIME ZONE"
	case KindLargeBinary:
		return "BYTEA"
	case KindEntityRef:
		return "UUID"
	default:
		return ""
	}
}

// Equal reports whether both values carry the same attributes, ignoring ownership
func (v *StoredValue) Equal(other *StoredValue) bool {
	if v == nil || other == nil {
		return v == other
	}
	a, b := *v, *other
	a.owner, b.owner = nil, nil
	return a == b
}

// String returns a short description such as "text(64) name"
func (v *StoredValue) String() string {
	var s string
	switch v.kind {
	case KindText:
		s = fmt.Sprintf("text(%d)", v.length)
	case KindDecimal:
		s = fmt.Sprintf("decimal(%d,%d)", v.precision, v.scale)
	case KindEntityRef:
		s = fmt.Sprintf("entityref(%s)", v.target)
	default:
		s = v.kind.String()
	}
	if v.suffix != "" {
		s += " " + v.suffix
	}
	return s
}
