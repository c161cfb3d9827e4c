// Package facet provides the reusable behavioral modules attached to entities.
//
// A facet goes through three states. It is constructed with local arguments
// only, attached exactly once to an aggregate, and resolved exactly once after
// the whole design is loaded. The Resolver giving access to other entities is
// only handed to SetFinalSettings, so a facet cannot reach foreign entities
// before every entity exists.
package facet

import (
	"sort"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/field"
	"github.com/conduit-lang/modeler/internal/design/storage"
)

// Aggregate is the view a facet has of the entity it is attached to.
type Aggregate interface {
	Name() string
	FacetByName(name string) (Facet, bool)
	Facets() []Facet
	Fields() []field.Field
	// AddSiblingFacet attaches sibling to the aggregate requester lives on
	AddSiblingFacet(requester *Property, sibling Facet) error
}

// Resolver gives final settings structural access to the loaded design.
type Resolver interface {
	Entity(name string) (Aggregate, error)
	Facet(entity, facet string) (Facet, error)
	Category(name string) (choice.Domain, error)
}

// Facet is implemented by the facets of this package.
type Facet interface {
	Name() string
	GenericName() string
	ClassName() string
	Shared() *Property
	Attach(agg Aggregate) error
	SetFinalSettings(r Resolver) error
	facet()
}

type state int

const (
	stateConstructed state = iota
	stateAttached
	stateResolving
	stateResolved
)

// Ref names a facet another facet depends on. An empty Entity means the
// entity the dependent facet is attached to. An empty Class accepts any class.
type Ref struct {
	Entity string
	Facet  string
	Class  string
}

type choiceRef struct {
	key      string
	category string
}

// Generic binds a local key to a foreign entity and optionally one of its facets.
type Generic struct {
	Key    string
	Entity string
	Facet  string

	target      Aggregate
	targetFacet Facet
}

// Target returns the bound entity, nil before final settings
func (g *Generic) Target() Aggregate { return g.target }

// TargetFacet returns the bound facet, nil before final settings or when none was requested
func (g *Generic) TargetFacet() Facet { return g.targetFacet }

// BusinessRule documents a constraint the generated application enforces
type BusinessRule struct {
	Name        string
	Description string
}

// Property holds the state shared by every facet.
type Property struct {
	element.Element
	className string
	state     state
	parent    Aggregate

	fields       []field.Field
	values       []*storage.StoredValue
	indexes      []*storage.Index
	methods      []*DataAccessMethod
	rules        []BusinessRule
	creationArgs []*Argument
	pageInputs   []*Argument

	deps     []Ref
	resolved []Facet
	generics []*Generic
	choices  map[string]choice.Domain
	// choice generics declared by category name, bound during final settings
	choiceRefs []choiceRef

	onAttach func(Aggregate) error
	onFinal  func(Resolver) error
}

// New creates a facet of the given class with no behavior of its own. Declared
// facets use it to carry fields, methods and dependencies; the facets of this
// package build on it.
func New(className, instance string) (*Property, error) {
	if err := element.ValidateName("facet class", className); err != nil {
		return nil, err
	}
	el, err := element.New("facet", instance)
	if err != nil {
		return nil, err
	}
	p := &Property{
		Element:   el,
		className: className,
		choices:   make(map[string]choice.Domain),
	}
	if err := p.SetGenericName(className); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Property) facet() {}

// Shared returns the state common to every facet kind
func (p *Property) Shared() *Property { return p }

// ClassName returns the facet class, shared by every instance of the same kind
func (p *Property) ClassName() string { return p.className }

// Parent returns the aggregate the facet is attached to, nil before Attach
func (p *Property) Parent() Aggregate { return p.parent }

// Attached reports whether Attach succeeded
func (p *Property) Attached() bool { return p.parent != nil }

// Resolved reports whether final settings completed
func (p *Property) Resolved() bool { return p.state == stateResolved }

// Attach assigns the owning aggregate. It succeeds once; every further call
// fails, whatever the aggregate.
func (p *Property) Attach(agg Aggregate) error {
	if agg == nil {
		return derrors.NewInvalidArgument("attach facet "+p.Name(), "aggregate is nil").WithFacet(p.Name())
	}
	if p.parent != nil {
		return derrors.NewDoubleAttach(p.Name(), p.parent.Name(), agg.Name())
	}
	p.parent = agg
	p.state = stateAttached
	if p.onAttach != nil {
		if err := p.onAttach(agg); err != nil {
			return derrors.Locate(err, agg.Name(), p.Name())
		}
	}
	return nil
}

// SetFinalSettings resolves dependencies and generics bindings. It runs once,
// after every entity of the design is attached, in no particular order across facets.
func (p *Property) SetFinalSettings(r Resolver) error {
	if r == nil {
		return derrors.NewInvalidArgument("final settings of "+p.Name(), "resolver is nil").WithFacet(p.Name())
	}
	switch p.state {
	case stateConstructed:
		return derrors.NewNotAttached(p.Name(), "final settings")
	case stateResolving, stateResolved:
		return derrors.NewAlreadyFinalized(p.Name()).WithEntity(p.parent.Name())
	}
	p.state = stateResolving
	if err := p.finalSettings(r); err != nil {
		return derrors.Locate(err, p.parent.Name(), p.Name())
	}
	p.state = stateResolved
	return nil
}

func (p *Property) finalSettings(r Resolver) error {
	if p.onFinal != nil {
		if err := p.onFinal(r); err != nil {
			return err
		}
	}
	for _, g := range p.generics {
		target, err := r.Entity(g.Entity)
		if err != nil {
			return err
		}
		g.target = target
		if g.Facet != "" {
			f, err := r.Facet(g.Entity, g.Facet)
			if err != nil {
				return err
			}
			g.targetFacet = f
		}
	}
	for _, ref := range p.choiceRefs {
		cat, err := r.Category(ref.category)
		if err != nil {
			return err
		}
		p.choices[ref.key] = cat
	}
	p.resolved = p.resolved[:0]
	for _, ref := range p.deps {
		f, err := p.resolveRef(r, ref)
		if err != nil {
			return err
		}
		p.resolved = append(p.resolved, f)
	}
	return nil
}

func (p *Property) resolveRef(r Resolver, ref Ref) (Facet, error) {
	entity := ref.Entity
	if entity == "" {
		entity = p.parent.Name()
	}
	f, err := r.Facet(entity, ref.Facet)
	if err != nil {
		return nil, err
	}
	if ref.Class != "" && f.ClassName() != ref.Class {
		return nil, derrors.NewFacetClassMismatch(entity, ref.Facet, ref.Class, f.ClassName())
	}
	return f, nil
}

func (p *Property) requireOpen(operation string) error {
	if p.state >= stateResolved {
		return derrors.NewWrongPhase(operation+" on facet "+p.Name(), "resolved", "constructing or linking").
			WithFacet(p.Name())
	}
	return nil
}

// AddSibling asks the owning aggregate to attach f next to this facet
func (p *Property) AddSibling(f Facet) error {
	if p.parent == nil {
		return derrors.NewNotAttached(p.Name(), "add sibling facet")
	}
	return p.parent.AddSiblingFacet(p, f)
}

// AddField takes ownership of f
func (p *Property) AddField(f field.Field) error {
	if err := p.requireOpen("add field"); err != nil {
		return err
	}
	for _, existing := range p.fields {
		if existing.Name() == f.Name() {
			return derrors.NewDuplicateName("field", f.Name(), "facet "+p.Name()).WithFacet(p.Name())
		}
	}
	if err := f.SetOwner(p); err != nil {
		return derrors.Locate(err, "", p.Name())
	}
	p.fields = append(p.fields, f)
	f.OnRename(func(name string) error { return p.checkFieldRename(f, name) })
	return nil
}

// checkFieldRename keeps field names unique on the facet and, once attached,
// on the whole entity
func (p *Property) checkFieldRename(f field.Field, name string) error {
	if err := p.requireOpen("rename field " + f.Name()); err != nil {
		return err
	}
	scope, fields := "facet "+p.Name(), p.fields
	if p.parent != nil {
		scope, fields = "entity "+p.parent.Name(), p.parent.Fields()
	}
	for _, existing := range fields {
		if existing.Name() == name {
			err := derrors.NewDuplicateName("field", name, scope).WithFacet(p.Name())
			if p.parent != nil {
				err = err.WithEntity(p.parent.Name())
			}
			return err
		}
	}
	return nil
}

// AddStoredValue takes ownership of a stored value not belonging to a field
func (p *Property) AddStoredValue(v *storage.StoredValue) error {
	if err := p.requireOpen("add stored value"); err != nil {
		return err
	}
	for _, existing := range p.values {
		if existing.Suffix() == v.Suffix() {
			return derrors.NewDuplicateName("stored value", v.Suffix(), "facet "+p.Name()).WithFacet(p.Name())
		}
	}
	if err := v.Bind(p); err != nil {
		return derrors.Locate(err, "", p.Name())
	}
	p.values = append(p.values, v)
	return nil
}

// AddIndex registers an index over stored values of the entity
func (p *Property) AddIndex(idx *storage.Index) error {
	if err := p.requireOpen("add index"); err != nil {
		return err
	}
	for _, existing := range p.indexes {
		if existing.Name() == idx.Name() {
			return derrors.NewDuplicateName("index", idx.Name(), "facet "+p.Name()).WithFacet(p.Name())
		}
	}
	p.indexes = append(p.indexes, idx)
	return nil
}

// AddMethod declares a data access method
func (p *Property) AddMethod(m *DataAccessMethod) error {
	if err := p.requireOpen("add method"); err != nil {
		return err
	}
	for _, existing := range p.methods {
		if existing.Name() == m.Name() {
			return derrors.NewDuplicateName("method", m.Name(), "facet "+p.Name()).WithFacet(p.Name())
		}
	}
	p.methods = append(p.methods, m)
	return nil
}

// AddRule documents a business rule
func (p *Property) AddRule(rule BusinessRule) error {
	if err := p.requireOpen("add rule"); err != nil {
		return err
	}
	if err := element.ValidateName("rule", rule.Name); err != nil {
		return derrors.Locate(err, "", p.Name())
	}
	p.rules = append(p.rules, rule)
	return nil
}

// AddCreationArgument declares context data the creation page must supply
func (p *Property) AddCreationArgument(a *Argument) error {
	if err := p.requireOpen("add creation argument"); err != nil {
		return err
	}
	p.creationArgs = append(p.creationArgs, a)
	return nil
}

// AddPageInput declares an input of the facet pages
func (p *Property) AddPageInput(a *Argument) error {
	if err := p.requireOpen("add page input"); err != nil {
		return err
	}
	p.pageInputs = append(p.pageInputs, a)
	return nil
}

// AddDependency records a dependency on another facet, resolved during final settings
func (p *Property) AddDependency(ref Ref) error {
	if err := p.requireOpen("add dependency"); err != nil {
		return err
	}
	if ref.Entity != "" {
		if err := element.ValidateName("entity", ref.Entity); err != nil {
			return derrors.Locate(err, "", p.Name())
		}
	}
	if err := element.ValidateName("facet", ref.Facet); err != nil {
		return derrors.Locate(err, "", p.Name())
	}
	for _, existing := range p.deps {
		if existing == ref {
			return nil
		}
	}
	p.deps = append(p.deps, ref)
	return nil
}

// AddGeneric binds key to a foreign entity, and to one of its facets when facet is not empty
func (p *Property) AddGeneric(key, entity, facet string) (*Generic, error) {
	if err := p.requireOpen("add generics binding"); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, derrors.NewInvalidArgument("generics binding of "+p.Name(), "key is empty").WithFacet(p.Name())
	}
	for _, g := range p.generics {
		if g.Key == key {
			return nil, derrors.NewDuplicateName("generics key", key, "facet "+p.Name()).WithFacet(p.Name())
		}
	}
	if err := element.ValidateName("entity", entity); err != nil {
		return nil, derrors.Locate(err, "", p.Name())
	}
	g := &Generic{Key: key, Entity: entity, Facet: facet}
	p.generics = append(p.generics, g)
	return g, nil
}

// SetChoiceGeneric binds key to a choice category. The category is referenced, not owned.
func (p *Property) SetChoiceGeneric(key string, cat choice.Domain) error {
	if err := p.requireOpen("bind choice category"); err != nil {
		return err
	}
	if key == "" || cat == nil {
		return derrors.NewInvalidArgument("choice generics of "+p.Name(), "key and category are required").
			WithFacet(p.Name())
	}
	if _, ok := p.choices[key]; ok {
		return derrors.NewDuplicateName("generics key", key, "facet "+p.Name()).WithFacet(p.Name())
	}
	for _, ref := range p.choiceRefs {
		if ref.key == key {
			return derrors.NewDuplicateName("generics key", key, "facet "+p.Name()).WithFacet(p.Name())
		}
	}
	p.choices[key] = cat
	return nil
}

// AddChoiceRef binds key to the category called name once the design is loaded
func (p *Property) AddChoiceRef(key, name string) error {
	if err := p.requireOpen("bind choice category"); err != nil {
		return err
	}
	if key == "" {
		return derrors.NewInvalidArgument("choice generics of "+p.Name(), "key is empty").WithFacet(p.Name())
	}
	if err := element.ValidateName("category", name); err != nil {
		return derrors.Locate(err, "", p.Name())
	}
	if _, ok := p.choices[key]; ok {
		return derrors.NewDuplicateName("generics key", key, "facet "+p.Name()).WithFacet(p.Name())
	}
	for _, ref := range p.choiceRefs {
		if ref.key == key {
			return derrors.NewDuplicateName("generics key", key, "facet "+p.Name()).WithFacet(p.Name())
		}
	}
	p.choiceRefs = append(p.choiceRefs, choiceRef{key: key, category: name})
	return nil
}

// Fields returns the owned fields in declaration order
func (p *Property) Fields() []field.Field { return append([]field.Field(nil), p.fields...) }

// StoredValues returns the stored values owned directly by the facet
func (p *Property) StoredValues() []*storage.StoredValue {
	return append([]*storage.StoredValue(nil), p.values...)
}

// Indexes returns the declared indexes
func (p *Property) Indexes() []*storage.Index { return append([]*storage.Index(nil), p.indexes...) }

// Methods returns the data access methods in declaration order
func (p *Property) Methods() []*DataAccessMethod {
	return append([]*DataAccessMethod(nil), p.methods...)
}

// Method returns the data access method called name
func (p *Property) Method(name string) (*DataAccessMethod, bool) {
	for _, m := range p.methods {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// Rules returns the business rules
func (p *Property) Rules() []BusinessRule { return append([]BusinessRule(nil), p.rules...) }

// CreationArguments returns the context data required on creation
func (p *Property) CreationArguments() []*Argument {
	return append([]*Argument(nil), p.creationArgs...)
}

// PageInputs returns the page input arguments
func (p *Property) PageInputs() []*Argument { return append([]*Argument(nil), p.pageInputs...) }

// Dependencies returns the declared dependencies
func (p *Property) Dependencies() []Ref { return append([]Ref(nil), p.deps...) }

// ResolvedDependencies returns the facets the dependencies resolved to, in
// declaration order. It is empty before final settings.
func (p *Property) ResolvedDependencies() []Facet {
	return append([]Facet(nil), p.resolved...)
}

// Generics returns the generics bindings in declaration order
func (p *Property) Generics() []*Generic { return append([]*Generic(nil), p.generics...) }

// Generic returns the binding registered under key
func (p *Property) Generic(key string) (*Generic, bool) {
	for _, g := range p.generics {
		if g.Key == key {
			return g, true
		}
	}
	return nil, false
}

// ChoiceGeneric returns the category bound to key
func (p *Property) ChoiceGeneric(key string) (choice.Domain, bool) {
	cat, ok := p.choices[key]
	return cat, ok
}

// ChoiceKeys returns the choice generics keys in sorted order
func (p *Property) ChoiceKeys() []string {
	keys := make([]string, 0, len(p.choices))
	for k := range p.choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
