package facet

import (
	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/field"
	"github.com/conduit-lang/modeler/internal/design/storage"
)

// Facet classes provided by this package
const (
	ClassStoredObject     = "storedobject"
	ClassUniqueIdentified = "uniqueidentified"
	ClassNamed            = "named"
	ClassNumbered         = "numbered"
	ClassLinkedToParent   = "linkedtoparent"
	ClassLinkObject       = "linkobject"
	ClassLifecycle        = "lifecycle"
)

// Generics keys bound by the facets of this package
const (
	KeyParent = "PARENT"
	KeyLeft   = "LEFT"
	KeyRight  = "RIGHT"
	KeyState  = "STATE"
)

var (
	_ Facet = (*Property)(nil)
	_ Facet = (*StoredObject)(nil)
	_ Facet = (*UniqueIdentified)(nil)
	_ Facet = (*Named)(nil)
	_ Facet = (*Numbered)(nil)
	_ Facet = (*LinkedToParent)(nil)
	_ Facet = (*LinkObject)(nil)
	_ Facet = (*Lifecycle)(nil)
)

// identified is the dependency every facet below declares on the unique
// identifier of its own entity
var identified = Ref{Facet: ClassUniqueIdentified, Class: ClassUniqueIdentified}

// StoredObject makes the entity persistent.
type StoredObject struct {
	*Property
}

// NewStoredObject creates the persistence facet
func NewStoredObject() (*StoredObject, error) {
	p, err := New(ClassStoredObject, ClassStoredObject)
	if err != nil {
		return nil, err
	}
	s := &StoredObject{Property: p}
	p.onAttach = s.attach
	return s, nil
}

func (s *StoredObject) attach(agg Aggregate) error {
	object, err := NewObjectArgument("object", agg.Name(), false)
	if err != nil {
		return err
	}
	insert, err := NewMethod("insert", nil, object)
	if err != nil {
		return err
	}
	if err := s.AddMethod(insert); err != nil {
		return err
	}

	all, err := NewObjectArgument("objects", agg.Name(), true)
	if err != nil {
		return err
	}
	readall, err := NewMethod("readall", all)
	if err != nil {
		return err
	}
	readall.SetMassive(true)
	readall.SetAcceptsQueryCondition(true)
	return s.AddMethod(readall)
}

// UniqueIdentified gives every object an identifier. Attaching it also
// attaches a StoredObject when the entity has none.
type UniqueIdentified struct {
	*Property
	id *storage.StoredValue
}

// NewUniqueIdentified creates the identifier facet
func NewUniqueIdentified() (*UniqueIdentified, error) {
	p, err := New(ClassUniqueIdentified, ClassUniqueIdentified)
	if err != nil {
		return nil, err
	}
	u := &UniqueIdentified{Property: p}
	p.onAttach = u.attach
	return u, nil
}

// ID returns the identifier stored value, nil before attach
func (u *UniqueIdentified) ID() *storage.StoredValue { return u.id }

func (u *UniqueIdentified) attach(agg Aggregate) error {
	id, err := storage.NewEntityRef("id", agg.Name())
	if err != nil {
		return err
	}
	if err := u.AddStoredValue(id); err != nil {
		return err
	}
	u.id = id
	idx, err := storage.NewIndex("id", true, id)
	if err != nil {
		return err
	}
	if err := u.AddIndex(idx); err != nil {
		return err
	}

	for _, name := range []string{"readone", "delete"} {
		arg, err := NewEntityArgument("id", agg.Name())
		if err != nil {
			return err
		}
		var out *Argument
		if name == "readone" {
			if out, err = NewObjectArgument("object", agg.Name(), false); err != nil {
				return err
			}
		}
		m, err := NewMethod(name, out, arg)
		if err != nil {
			return err
		}
		if err := u.AddMethod(m); err != nil {
			return err
		}
	}

	if _, ok := agg.FacetByName(ClassStoredObject); !ok {
		stored, err := NewStoredObject()
		if err != nil {
			return err
		}
		if err := u.AddSibling(stored); err != nil {
			return err
		}
	}
	return u.AddDependency(Ref{Facet: ClassStoredObject, Class: ClassStoredObject})
}

// Named gives objects a searchable name shown in their title.
type Named struct {
	*Property
	name *field.StringField
}

// NewNamed creates a name facet holding at most length characters
func NewNamed(length int) (*Named, error) {
	p, err := New(ClassNamed, ClassNamed)
	if err != nil {
		return nil, err
	}
	f, err := field.NewString("name", "Name", length, field.IndexEasySearch)
	if err != nil {
		return nil, derrors.Locate(err, "", ClassNamed)
	}
	f.SetInTitle(true)
	if err := p.AddField(f); err != nil {
		return nil, err
	}
	if err := p.AddDependency(identified); err != nil {
		return nil, err
	}
	return &Named{Property: p, name: f}, nil
}

// NameField returns the name field
func (n *Named) NameField() *field.StringField { return n.name }

// Numbered gives objects a unique number shown in their title.
type Numbered struct {
	*Property
	nr *field.StringField
}

// NewNumbered creates a number facet holding at most length characters
func NewNumbered(length int) (*Numbered, error) {
	p, err := New(ClassNumbered, ClassNumbered)
	if err != nil {
		return nil, err
	}
	f, err := field.NewString("nr", "Number", length, field.IndexRaw)
	if err != nil {
		return nil, derrors.Locate(err, "", ClassNumbered)
	}
	f.SetInTitle(true)
	if err := f.SetPriority(900); err != nil {
		return nil, err
	}
	if err := p.AddField(f); err != nil {
		return nil, err
	}
	idx, err := storage.NewIndex("nr_unique", true, f.Primary())
	if err != nil {
		return nil, err
	}
	if err := p.AddIndex(idx); err != nil {
		return nil, err
	}
	if err := p.AddDependency(identified); err != nil {
		return nil, err
	}
	return &Numbered{Property: p, nr: f}, nil
}

// NumberField returns the number field
func (n *Numbered) NumberField() *field.StringField { return n.nr }

// LinkedToParent attaches every object to an object of a parent entity.
// The parent is known by name and resolved in final settings.
type LinkedToParent struct {
	*Property
	parentName string
	parentID   *storage.StoredValue
}

// NewLinkedToParent creates a parent link facet. instance distinguishes several
// parent links on one entity.
func NewLinkedToParent(instance, parent string) (*LinkedToParent, error) {
	p, err := New(ClassLinkedToParent, instance)
	if err != nil {
		return nil, err
	}
	id, err := storage.NewEntityRef("parentid", parent)
	if err != nil {
		return nil, derrors.Locate(err, "", instance)
	}
	if err := p.AddStoredValue(id); err != nil {
		return nil, err
	}
	if _, err := p.AddGeneric(KeyParent, parent, ClassUniqueIdentified); err != nil {
		return nil, err
	}
	if err := p.AddDependency(Ref{Entity: parent, Facet: ClassUniqueIdentified, Class: ClassUniqueIdentified}); err != nil {
		return nil, err
	}
	arg, err := NewEntityArgument("parentid", parent)
	if err != nil {
		return nil, err
	}
	if err := p.AddCreationArgument(arg); err != nil {
		return nil, err
	}
	l := &LinkedToParent{Property: p, parentName: parent, parentID: id}
	p.onAttach = l.attach
	return l, nil
}

func (l *LinkedToParent) attach(agg Aggregate) error {
	parent, err := NewEntityArgument("parentid", l.parentName)
	if err != nil {
		return err
	}
	children, err := NewObjectArgument("children", agg.Name(), true)
	if err != nil {
		return err
	}
	m, err := NewMethod("getallchildren", children, parent)
	if err != nil {
		return err
	}
	m.SetMassive(true)
	return l.AddMethod(m)
}

// ParentName returns the declared parent entity name
func (l *LinkedToParent) ParentName() string { return l.parentName }

// ParentID returns the stored value referencing the parent
func (l *LinkedToParent) ParentID() *storage.StoredValue { return l.parentID }

// ParentEntity returns the resolved parent entity, nil before final settings
func (l *LinkedToParent) ParentEntity() Aggregate {
	g, _ := l.Generic(KeyParent)
	return g.Target()
}

// LinkObject turns its entity into a link between a left and a right entity.
type LinkObject struct {
	*Property
	left, right string
}

// NewLinkObject creates a link facet between objects of left and right
func NewLinkObject(instance, left, right string) (*LinkObject, error) {
	p, err := New(ClassLinkObject, instance)
	if err != nil {
		return nil, err
	}
	ends := []struct{ key, entity, suffix string }{
		{KeyLeft, left, "leftid"},
		{KeyRight, right, "rightid"},
	}
	ids := make([]*storage.StoredValue, 0, 2)
	for _, end := range ends {
		id, err := storage.NewEntityRef(end.suffix, end.entity)
		if err != nil {
			return nil, derrors.Locate(err, "", instance)
		}
		if err := p.AddStoredValue(id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		if _, err := p.AddGeneric(end.key, end.entity, ClassUniqueIdentified); err != nil {
			return nil, err
		}
		ref := Ref{Entity: end.entity, Facet: ClassUniqueIdentified, Class: ClassUniqueIdentified}
		if err := p.AddDependency(ref); err != nil {
			return nil, err
		}
	}
	idx, err := storage.NewIndex("link", true, ids...)
	if err != nil {
		return nil, err
	}
	if err := p.AddIndex(idx); err != nil {
		return nil, err
	}
	l := &LinkObject{Property: p, left: left, right: right}
	p.onAttach = l.attach
	return l, nil
}

func (l *LinkObject) attach(agg Aggregate) error {
	for _, end := range []struct{ method, arg, entity string }{
		{"getlinksfromleft", "leftid", l.left},
		{"getlinksfromright", "rightid", l.right},
	} {
		id, err := NewEntityArgument(end.arg, end.entity)
		if err != nil {
			return err
		}
		links, err := NewObjectArgument("links", agg.Name(), true)
		if err != nil {
			return err
		}
		m, err := NewMethod(end.method, links, id)
		if err != nil {
			return err
		}
		m.SetMassive(true)
		m.SetNeedsPropertyExtractor(true)
		if err := l.AddMethod(m); err != nil {
			return err
		}
	}
	return nil
}

// Left returns the declared left entity name
func (l *LinkObject) Left() string { return l.left }

// Right returns the declared right entity name
func (l *LinkObject) Right() string { return l.right }

// OtherEnd returns the entity on the other end of the link seen from entity.
// It is only available once final settings bound both ends.
func (l *LinkObject) OtherEnd(entity string) (Aggregate, error) {
	left, _ := l.Generic(KeyLeft)
	right, _ := l.Generic(KeyRight)
	if left.Target() == nil || right.Target() == nil {
		return nil, derrors.NewWrongPhase("other end of link "+l.Name(), "linking", "resolved").
			WithFacet(l.Name())
	}
	switch entity {
	case l.left:
		return right.Target(), nil
	case l.right:
		return left.Target(), nil
	default:
		return nil, derrors.NewUnresolvedEntity(entity, []string{l.left, l.right}).WithFacet(l.Name())
	}
}

// Lifecycle gives objects a state governed by a transition category.
type Lifecycle struct {
	*Property
	category *choice.TransitionCategory
	state    *field.ChoiceField
}

// NewLifecycle creates a lifecycle facet over category
func NewLifecycle(category *choice.TransitionCategory) (*Lifecycle, error) {
	if category == nil {
		return nil, derrors.NewInvalidArgument("lifecycle", "category is nil").WithFacet(ClassLifecycle)
	}
	p, err := New(ClassLifecycle, ClassLifecycle)
	if err != nil {
		return nil, err
	}
	state, err := field.NewChoice("state", "State", category, field.IndexListOfValuesWithIndex)
	if err != nil {
		return nil, derrors.Locate(err, "", ClassLifecycle)
	}
	state.SetHiddenInEdit(true)
	if err := p.AddField(state); err != nil {
		return nil, err
	}
	if err := p.SetChoiceGeneric(KeyState, category); err != nil {
		return nil, err
	}
	if err := p.AddDependency(identified); err != nil {
		return nil, err
	}
	l := &Lifecycle{Property: p, category: category, state: state}
	p.onAttach = l.attach
	p.onFinal = l.final
	return l, nil
}

func (l *Lifecycle) attach(agg Aggregate) error {
	id, err := NewEntityArgument("id", agg.Name())
	if err != nil {
		return err
	}
	next, err := NewChoiceArgument("newstate", l.category.Name())
	if err != nil {
		return err
	}
	m, err := NewMethod("changestate", nil, id, next)
	if err != nil {
		return err
	}
	return l.AddMethod(m)
}

func (l *Lifecycle) final(Resolver) error {
	if l.category.Default() == nil {
		return derrors.NewInvalidArgument("lifecycle of "+l.Parent().Name(),
			"category "+l.category.Name()+" has no default value").
			WithSuggestion("Set a default value on the category to give new objects a state")
	}
	return nil
}

// Category returns the transition category governing the state
func (l *Lifecycle) Category() *choice.TransitionCategory { return l.category }

// StateField returns the state field
func (l *Lifecycle) StateField() *field.ChoiceField { return l.state }

// CanChange reports whether an object may move from one state to another
func (l *Lifecycle) CanChange(from, to *choice.Value) bool {
	return l.category.IsTransitionLegal(from, to)
}
