// Package field provides the user-visible data slots of the design model.
// A field is built from one or more stored values and carries display
// metadata, an index classification and optional formula triggers.
package field

import (
	"strings"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/storage"
)

// Display priority bounds
const (
	MinPriority = -1000
	MaxPriority = 1000
)

// Kind is the closed set of field variants
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindDecimal
	KindTimestamp
	KindChoice
	KindLargeBinary
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindTimestamp:
		return "timestamp"
	case KindChoice:
		return "choice"
	case KindLargeBinary:
		return "largebinary"
	default:
		return "unknown"
	}
}

// Field is implemented by the variants of this package only.
type Field interface {
	Name() string
	SetName(name string) error
	OnRename(check func(name string) error)
	GenericName() string
	Kind() Kind
	Label() string
	HostType() string

	Priority() int
	SetPriority(priority int) error
	InTitle() bool
	SetInTitle(v bool)
	InBottomNotes() bool
	SetInBottomNotes(v bool)
	HiddenInEdit() bool
	SetHiddenInEdit(v bool)

	IndexClass() IndexClass
	StoredValues() []*storage.StoredValue
	Primary() *storage.StoredValue
	Index() *storage.Index
	SearchWidget() *SearchWidget
	CompositeIndexValue() (*storage.StoredValue, error)
	CellExtractor() (*CellExtractor, error)

	Triggers() []Trigger
	AddTrigger(path ...string) error

	Owner() element.Named
	SetOwner(owner element.Named) error

	// Copy returns an independent duplicate. Empty name or label keep the original.
	Copy(name, label string) (Field, error)

	base() *Base
}

// Trigger is a path of field or link names whose change recomputes a formula
type Trigger struct {
	Path []string
}

// String returns the dotted path
func (t Trigger) String() string { return strings.Join(t.Path, ".") }

// Base holds the state shared by every field variant.
type Base struct {
	element.Element
	kind          Kind
	label         string
	priority      int
	inTitle       bool
	inBottomNotes bool
	hiddenInEdit  bool
	class         IndexClass
	values        []*storage.StoredValue
	index         *storage.Index
	triggers      []Trigger
	owner         element.Named
}

func (b *Base) init(kind Kind, name, label string, class IndexClass, primary *storage.StoredValue) error {
	el, err := element.New("field", name)
	if err != nil {
		return err
	}
	if !classAllowed(kind, class) {
		return derrors.NewIndexClassNotAllowed(name, kind.String(), class.String(), allowedNames(kind))
	}
	b.Element = el
	b.kind = kind
	b.label = label
	b.class = class
	b.values = []*storage.StoredValue{primary}

	indexed := primary
	if class.AddsCleanedValue() {
		cleaned, err := storage.NewText("cleaned", primary.Length())
		if err != nil {
			return err
		}
		b.values = append(b.values, cleaned)
		indexed = cleaned
	}
	for _, v := range b.values {
		if err := v.Bind(b); err != nil {
			return err
		}
	}
	if class.CreatesIndex() {
		idx, err := storage.NewIndex(name, false, indexed)
		if err != nil {
			return err
		}
		b.index = idx
	}
	return nil
}

func (b *Base) base() *Base { return b }

// SetName renames the field and its index
func (b *Base) SetName(name string) error {
	if err := b.Element.SetName(name); err != nil {
		return err
	}
	if b.index != nil {
		return b.index.Rename(name)
	}
	return nil
}

// Kind returns the field variant
func (b *Base) Kind() Kind { return b.kind }

// Label returns the display label
func (b *Base) Label() string { return b.label }

// HostType returns the Go type of the primary stored value
func (b *Base) HostType() string { return b.values[0].HostType() }

// Priority returns the display priority
func (b *Base) Priority() int { return b.priority }

// SetPriority sets the display priority, rejecting values outside [MinPriority, MaxPriority]
func (b *Base) SetPriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return derrors.NewPriorityOutOfRange(b.Name(), priority, MinPriority, MaxPriority)
	}
	b.priority = priority
	return nil
}

// InTitle reports whether the field is shown in the object title
func (b *Base) InTitle() bool { return b.inTitle }

// SetInTitle shows or hides the field in the object title
func (b *Base) SetInTitle(v bool) { b.inTitle = v }

// InBottomNotes reports whether the field is shown in the bottom notes
func (b *Base) InBottomNotes() bool { return b.inBottomNotes }

// SetInBottomNotes shows or hides the field in the bottom notes
func (b *Base) SetInBottomNotes(v bool) { b.inBottomNotes = v }

// HiddenInEdit reports whether the user cannot edit the field
func (b *Base) HiddenInEdit() bool { return b.hiddenInEdit }

// SetHiddenInEdit hides the field from user edition
func (b *Base) SetHiddenInEdit(v bool) { b.hiddenInEdit = v }

// IndexClass returns the index classification
func (b *Base) IndexClass() IndexClass { return b.class }

// StoredValues returns the owned stored values, primary first
func (b *Base) StoredValues() []*storage.StoredValue {
	return append([]*storage.StoredValue(nil), b.values...)
}

// Primary returns the stored value holding the field data
func (b *Base) Primary() *storage.StoredValue { return b.values[0] }

// Index returns the binary-search index, nil when the classification creates none
func (b *Base) Index() *storage.Index { return b.index }

// SearchWidget returns the search page control, nil when the classification adds none
func (b *Base) SearchWidget() *SearchWidget {
	if !b.class.AddsSearchWidget() {
		return nil
	}
	w := &SearchWidget{Field: b.Name(), Indexed: b.class.CreatesIndex()}
	switch b.kind {
	case KindInteger, KindDecimal, KindTimestamp:
		w.Kind = WidgetRange
	case KindChoice:
		w.Kind = WidgetListOfValues
	default:
		w.Kind = WidgetText
	}
	return w
}

// CompositeIndexValue returns the primary stored value
func (b *Base) CompositeIndexValue() (*storage.StoredValue, error) {
	return b.values[0], nil
}

// Triggers returns the formula trigger paths
func (b *Base) Triggers() []Trigger {
	out := make([]Trigger, len(b.triggers))
	for i, t := range b.triggers {
		out[i] = Trigger{Path: append([]string(nil), t.Path...)}
	}
	return out
}

// AddTrigger registers a path whose change recomputes this field
func (b *Base) AddTrigger(path ...string) error {
	if len(path) == 0 {
		return derrors.NewInvalidArgument("add trigger on "+b.Name(), "path is empty").WithField(b.Name())
	}
	for _, p := range path {
		if err := element.ValidateName("trigger path", p); err != nil {
			return err
		}
	}
	b.triggers = append(b.triggers, Trigger{Path: append([]string(nil), path...)})
	return nil
}

// Owner returns the facet or entity owning the field, nil if unowned
func (b *Base) Owner() element.Named { return b.owner }

// SetOwner assigns the owner. A field belongs to exactly one facet or entity.
func (b *Base) SetOwner(owner element.Named) error {
	if owner == nil {
		return derrors.NewInvalidArgument("own field "+b.Name(), "owner is nil")
	}
	if b.owner != nil {
		return derrors.NewAlreadyOwned("field "+b.Name(), b.owner.Name(), owner.Name()).WithField(b.Name())
	}
	b.owner = owner
	return nil
}

// copyFrom duplicates the non-identity attributes of src that constructors do not set
func (b *Base) copyFrom(src *Base) error {
	b.priority = src.priority
	b.inTitle = src.inTitle
	b.inBottomNotes = src.inBottomNotes
	b.hiddenInEdit = src.hiddenInEdit
	b.triggers = src.Triggers()
	if src.GenericName() != src.Name() {
		return b.SetGenericName(src.GenericName())
	}
	return nil
}

func copyIdentity(src *Base, name, label string) (string, string) {
	if name == "" {
		name = src.Name()
	}
	if label == "" {
		label = src.label
	}
	return name, label
}
