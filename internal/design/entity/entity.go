// Package entity provides the aggregate owning the facets and fields of one
// business object.
package entity

import (
	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/facet"
	"github.com/conduit-lang/modeler/internal/design/field"
)

var _ facet.Aggregate = (*Entity)(nil)

// Entity is a business object of the design.
type Entity struct {
	element.Element
	module *element.Module
	label  string
	phase  element.Phase
	facets []facet.Facet
	fields []field.Field
}

// New creates an entity in the Constructing phase
func New(name string, module *element.Module) (*Entity, error) {
	el, err := element.New("entity", name)
	if err != nil {
		return nil, err
	}
	e := &Entity{Element: el, module: module, phase: element.Constructing}
	e.OnRename(func(string) error {
		return e.require("rename entity "+e.Name(), element.Constructing)
	})
	return e, nil
}

// Module returns the authoring module
func (e *Entity) Module() *element.Module { return e.module }

// Label returns the display label, the name when none was set
func (e *Entity) Label() string {
	if e.label == "" {
		return e.Name()
	}
	return e.label
}

// SetLabel sets the display label
func (e *Entity) SetLabel(label string) { e.label = label }

// Phase returns the build phase of the entity
func (e *Entity) Phase() element.Phase { return e.phase }

// AddField attaches a field directly to the entity
func (e *Entity) AddField(f field.Field) error {
	if err := e.require("add field "+f.Name(), element.Constructing); err != nil {
		return err
	}
	if _, ok := e.FieldByName(f.Name()); ok {
		return derrors.NewDuplicateName("field", f.Name(), "entity "+e.Name()).WithEntity(e.Name())
	}
	if err := f.SetOwner(e); err != nil {
		return derrors.Locate(err, e.Name(), "")
	}
	e.fields = append(e.fields, f)
	f.OnRename(func(name string) error {
		if err := e.require("rename field "+f.Name(), element.Constructing); err != nil {
			return err
		}
		if _, ok := e.FieldByName(name); ok {
			return derrors.NewDuplicateName("field", name, "entity "+e.Name()).WithEntity(e.Name())
		}
		return nil
	})
	return nil
}

// AddFacet attaches f to the entity. Facets f adds as siblings while attaching
// are attached as well.
func (e *Entity) AddFacet(f facet.Facet) error {
	if err := e.require("add facet "+f.Name(), element.Constructing); err != nil {
		return err
	}
	return e.attach(f)
}

// AddSiblingFacet attaches sibling on behalf of a facet already attached to this entity
func (e *Entity) AddSiblingFacet(requester *facet.Property, sibling facet.Facet) error {
	if requester == nil || requester.Parent() != facet.Aggregate(e) {
		name := "<nil>"
		if requester != nil {
			name = requester.Name()
		}
		return derrors.NewForeignSibling(name, e.Name())
	}
	if err := e.require("add sibling facet "+sibling.Name(), element.Constructing); err != nil {
		return err
	}
	return e.attach(sibling)
}

func (e *Entity) attach(f facet.Facet) error {
	if p := f.Shared(); p.Attached() {
		return derrors.NewDoubleAttach(f.Name(), p.Parent().Name(), e.Name())
	}
	if _, ok := e.FacetByName(f.Name()); ok {
		return derrors.NewDuplicateName("facet", f.Name(), "entity "+e.Name()).WithEntity(e.Name())
	}
	at := len(e.facets)
	e.facets = append(e.facets, f)
	if err := f.Attach(e); err != nil {
		e.facets = append(e.facets[:at], e.facets[at+1:]...)
		return err
	}
	if err := e.checkFieldNames(f); err != nil {
		return err
	}
	f.Shared().OnRename(func(name string) error {
		if err := e.require("rename facet "+f.Name(), element.Constructing); err != nil {
			return err
		}
		if _, ok := e.FacetByName(name); ok {
			return derrors.NewDuplicateName("facet", name, "entity "+e.Name()).WithEntity(e.Name())
		}
		return nil
	})
	return nil
}

// checkFieldNames rejects fields of f colliding with fields already on the entity
func (e *Entity) checkFieldNames(f facet.Facet) error {
	seen := make(map[string]bool)
	for _, existing := range e.Fields() {
		if existing.Owner() == element.Named(f.Shared()) {
			continue
		}
		seen[existing.Name()] = true
	}
	for _, added := range f.Shared().Fields() {
		if seen[added.Name()] {
			return derrors.NewDuplicateName("field", added.Name(), "entity "+e.Name()).
				WithEntity(e.Name()).
				WithFacet(f.Name())
		}
	}
	return nil
}

// FacetByName returns the facet instance called name
func (e *Entity) FacetByName(name string) (facet.Facet, bool) {
	for _, f := range e.facets {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// FacetsOfClass returns the facets of the given class in attachment order
func (e *Entity) FacetsOfClass(class string) []facet.Facet {
	var out []facet.Facet
	for _, f := range e.facets {
		if f.ClassName() == class {
			out = append(out, f)
		}
	}
	return out
}

// Facets returns the facets in attachment order
func (e *Entity) Facets() []facet.Facet { return append([]facet.Facet(nil), e.facets...) }

// Fields returns the fields of the entity: its own first, then those of each facet
func (e *Entity) Fields() []field.Field {
	out := append([]field.Field(nil), e.fields...)
	for _, f := range e.facets {
		out = append(out, f.Shared().Fields()...)
	}
	return out
}

// FieldByName returns the field called name, whoever owns it
func (e *Entity) FieldByName(name string) (field.Field, bool) {
	for _, f := range e.Fields() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// StartLinking closes construction. Facets and fields can no longer be added.
func (e *Entity) StartLinking() error {
	if err := e.require("start linking of "+e.Name(), element.Constructing); err != nil {
		return err
	}
	e.phase = element.Linking
	return nil
}

// FinalSettings runs the final settings of every facet, in attachment order or
// in reverse. The entity is Resolved once all of them succeeded.
func (e *Entity) FinalSettings(r facet.Resolver, reverse bool) error {
	if err := e.require("final settings of "+e.Name(), element.Linking); err != nil {
		return err
	}
	facets := e.Facets()
	if reverse {
		for i, j := 0, len(facets)-1; i < j; i, j = i+1, j-1 {
			facets[i], facets[j] = facets[j], facets[i]
		}
	}
	for _, f := range facets {
		if err := f.SetFinalSettings(r); err != nil {
			return err
		}
	}
	return e.MarkResolved()
}

// MarkResolved records that every facet completed its final settings
func (e *Entity) MarkResolved() error {
	if err := e.require("resolve "+e.Name(), element.Linking); err != nil {
		return err
	}
	for _, f := range e.facets {
		if !f.Shared().Resolved() {
			return derrors.NewWrongPhase("resolve "+e.Name(), "linking", "resolved").
				WithEntity(e.Name()).
				WithFacet(f.Name())
		}
	}
	e.phase = element.Resolved
	return nil
}

func (e *Entity) require(operation string, allowed ...element.Phase) error {
	if err := e.phase.Require(operation, allowed...); err != nil {
		return derrors.Locate(err, e.Name(), "")
	}
	return nil
}
