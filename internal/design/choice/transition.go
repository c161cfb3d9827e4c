package choice

import (
	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/element"
)

// Edge is a directed transition between two values of the same category
type Edge struct {
	From *Value
	To   *Value
}

// TransitionCategory is a choice category whose values are the states of a
// finite-state machine. States grow only through AddValue and edges are never
// removed.
type TransitionCategory struct {
	*Category
	edges          map[*Value][]*Value
	defaultValue   *Value
	defaultWorking *Value
	defaultFinal   *Value
	finals         []*Value
	authorizeAll   bool
}

// NewTransition creates a transition category
func NewTransition(name string, module *element.Module, keyLength int, pseudoNumber bool) (*TransitionCategory, error) {
	c, err := New(name, module, keyLength, pseudoNumber)
	if err != nil {
		return nil, err
	}
	return &TransitionCategory{Category: c, edges: make(map[*Value][]*Value)}, nil
}

// Kind returns KindTransition
func (t *TransitionCategory) Kind() Kind { return KindTransition }

// DefineTransition adds the edge from -> to. Both values must be registered.
// Defining an existing edge again has no effect.
func (t *TransitionCategory) DefineTransition(from, to *Value) error {
	if err := t.requireOpen("define transition in " + t.Name()); err != nil {
		return err
	}
	if err := t.require(from, "define transition"); err != nil {
		return err
	}
	if err := t.require(to, "define transition"); err != nil {
		return err
	}
	if t.HasTransition(from, to) {
		return nil
	}
	t.edges[from] = append(t.edges[from], to)
	return nil
}

// HasTransition reports whether the edge from -> to was defined, independently
// of AuthorizeAllTransitions.
func (t *TransitionCategory) HasTransition(from, to *Value) bool {
	for _, v := range t.edges[from] {
		if v == to {
			return true
		}
	}
	return false
}

// SetDefault sets the value new objects start in. A default working value
// without the round trip to the new default is cleared.
func (t *TransitionCategory) SetDefault(v *Value) error {
	if err := t.requireOpen("set default of " + t.Name()); err != nil {
		return err
	}
	if err := t.require(v, "set default"); err != nil {
		return err
	}
	if t.defaultWorking != nil && !t.roundTrip(v, t.defaultWorking) {
		t.defaultWorking = nil
	}
	t.defaultValue = v
	return nil
}

// SetDefaultWorking sets the value an object moves to when work starts on it.
// The edges default -> v and v -> default must already exist.
func (t *TransitionCategory) SetDefaultWorking(v *Value) error {
	if err := t.requireOpen("set default working of " + t.Name()); err != nil {
		return err
	}
	if err := t.require(v, "set default working"); err != nil {
		return err
	}
	if t.defaultValue == nil {
		return derrors.NewMissingDefault(t.Name(), v.code)
	}
	if !t.roundTrip(t.defaultValue, v) {
		return derrors.NewMissingBidirectional(t.Name(), t.defaultValue.code, v.code)
	}
	t.defaultWorking = v
	return nil
}

// SetDefaultFinal sets the value an object moves to when it is closed. The
// value also becomes final.
func (t *TransitionCategory) SetDefaultFinal(v *Value) error {
	if err := t.requireOpen("set default final of " + t.Name()); err != nil {
		return err
	}
	if err := t.require(v, "set default final"); err != nil {
		return err
	}
	t.markFinal(v)
	t.defaultFinal = v
	return nil
}

// MarkFinal adds v to the terminal states
func (t *TransitionCategory) MarkFinal(v *Value) error {
	if err := t.requireOpen("mark final in " + t.Name()); err != nil {
		return err
	}
	if err := t.require(v, "mark final"); err != nil {
		return err
	}
	t.markFinal(v)
	return nil
}

func (t *TransitionCategory) markFinal(v *Value) {
	if !t.IsFinal(v) {
		t.finals = append(t.finals, v)
	}
}

// AuthorizeAllTransitions makes every move between registered values legal.
// Defined edges are kept for documentation.
func (t *TransitionCategory) AuthorizeAllTransitions() error {
	if err := t.requireOpen("authorize all transitions of " + t.Name()); err != nil {
		return err
	}
	t.authorizeAll = true
	return nil
}

// AllTransitionsAuthorized reports whether the edge set is bypassed
func (t *TransitionCategory) AllTransitionsAuthorized() bool { return t.authorizeAll }

// IsTransitionLegal reports whether an object may move from -> to. A nil or
// unregistered endpoint is never legal; it is not an error.
func (t *TransitionCategory) IsTransitionLegal(from, to *Value) bool {
	if !t.Contains(from) || !t.Contains(to) {
		return false
	}
	if t.authorizeAll {
		return true
	}
	return t.HasTransition(from, to)
}

// Default returns the default value or nil
func (t *TransitionCategory) Default() *Value { return t.defaultValue }

// DefaultWorking returns the default working value or nil
func (t *TransitionCategory) DefaultWorking() *Value { return t.defaultWorking }

// DefaultFinal returns the default final value or nil
func (t *TransitionCategory) DefaultFinal() *Value { return t.defaultFinal }

// IsFinal reports whether v is a terminal state
func (t *TransitionCategory) IsFinal(v *Value) bool {
	for _, f := range t.finals {
		if f == v {
			return true
		}
	}
	return false
}

// Finals returns the terminal states in the order they were marked
func (t *TransitionCategory) Finals() []*Value {
	return append([]*Value(nil), t.finals...)
}

// Targets returns the values reachable in one step from v, in definition order
func (t *TransitionCategory) Targets(v *Value) []*Value {
	return append([]*Value(nil), t.edges[v]...)
}

// Edges returns every defined edge, ordered by source registration then definition
func (t *TransitionCategory) Edges() []Edge {
	var edges []Edge
	for _, from := range t.values {
		for _, to := range t.edges[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// Table returns the transition table keyed by source code, for emitters
func (t *TransitionCategory) Table() map[string][]string {
	table := make(map[string][]string, len(t.edges))
	for _, from := range t.values {
		targets := t.edges[from]
		if len(targets) == 0 {
			continue
		}
		codes := make([]string, len(targets))
		for i, to := range targets {
			codes[i] = to.code
		}
		table[from.code] = codes
	}
	return table
}

func (t *TransitionCategory) roundTrip(a, b *Value) bool {
	return t.HasTransition(a, b) && t.HasTransition(b, a)
}
