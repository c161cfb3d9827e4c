// Package choice provides enumerated domains: closed, ordered sets of choice
// values, and transition categories that additionally govern which value may
// follow which as a finite-state machine.
package choice

import (
	"strconv"
	"strings"
)

// Value is a member of a choice category.
type Value struct {
	code     string
	label    string
	tooltip  string
	explicit *int
	pseudo   int
	hasNum   bool
	owner    *Category
}

// NewValue creates a choice value. The code is what gets stored; the label is displayed.
func NewValue(code, label, tooltip string) *Value {
	return &Value{code: code, label: label, tooltip: tooltip}
}

// WithPseudoNumber sets an explicit pseudo-number used when the category is pseudo-numeric
func (v *Value) WithPseudoNumber(n int) *Value {
	v.explicit = &n
	return v
}

// Code returns the stored code
func (v *Value) Code() string { return v.code }

// Label returns the display label
func (v *Value) Label() string { return v.label }

// Tooltip returns the tooltip text
func (v *Value) Tooltip() string { return v.tooltip }

// PseudoNumber returns the explicit or derived pseudo-number. ok is false when
// the value carries no pseudo-number.
func (v *Value) PseudoNumber() (n int, ok bool) {
	if v.explicit != nil {
		return *v.explicit, true
	}
	return v.pseudo, v.hasNum
}

// Category returns the category the value is registered in, nil before registration
func (v *Value) Category() *Category { return v.owner }

// String returns the code
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	return v.code
}

// derivePseudoNumber parses the label when no explicit pseudo-number is given
func (v *Value) derivePseudoNumber() bool {
	if v.explicit != nil {
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.label))
	if err != nil {
		return false
	}
	v.pseudo = n
	v.hasNum = true
	return true
}
