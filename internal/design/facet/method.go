package facet

import (
	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/element"
)

// ArgumentKind is the closed set of argument types of a data access method
type ArgumentKind int

const (
	ArgString ArgumentKind = iota
	ArgInteger
	ArgDecimal
	ArgTimestamp
	ArgChoice
	ArgEntityRef
	ArgObject
)

// String returns the string representation of the kind
func (k ArgumentKind) String() string {
	switch k {
	case ArgString:
		return "string"
	case ArgInteger:
		return "integer"
	case ArgDecimal:
		return "decimal"
	case ArgTimestamp:
		return "timestamp"
	case ArgChoice:
		return "choice"
	case ArgEntityRef:
		return "entityref"
	case ArgObject:
		return "object"
	default:
		return "unknown"
	}
}

// Argument is an input or output slot of a data access method, or a creation
// context or page input of a facet.
type Argument struct {
	Name string
	Kind ArgumentKind
	// Entity is the referenced entity of ArgEntityRef and ArgObject arguments
	Entity string
	// Category is the choice category of ArgChoice arguments
	Category string
	// Array marks a list of values
	Array bool
}

// NewArgument creates a scalar argument
func NewArgument(name string, kind ArgumentKind) (*Argument, error) {
	if err := element.ValidateName("argument", name); err != nil {
		return nil, err
	}
	return &Argument{Name: name, Kind: kind}, nil
}

// NewEntityArgument creates an argument referencing an instance of entity
func NewEntityArgument(name, entity string) (*Argument, error) {
	a, err := NewArgument(name, ArgEntityRef)
	if err != nil {
		return nil, err
	}
	if err := element.ValidateName("entity", entity); err != nil {
		return nil, err
	}
	a.Entity = entity
	return a, nil
}

// NewObjectArgument creates an argument carrying a full object of entity
func NewObjectArgument(name, entity string, array bool) (*Argument, error) {
	a, err := NewEntityArgument(name, entity)
	if err != nil {
		return nil, err
	}
	a.Kind = ArgObject
	a.Array = array
	return a, nil
}

// NewChoiceArgument creates an argument holding a value of category
func NewChoiceArgument(name, category string) (*Argument, error) {
	a, err := NewArgument(name, ArgChoice)
	if err != nil {
		return nil, err
	}
	if err := element.ValidateName("category", category); err != nil {
		return nil, err
	}
	a.Category = category
	return a, nil
}

// IsEntityRef reports whether the argument identifies an entity instance
func (a *Argument) IsEntityRef() bool { return a.Kind == ArgEntityRef }

// DataAccessMethod is an operation a facet declares on its entity.
type DataAccessMethod struct {
	element.Element
	output                 *Argument
	inputs                 []*Argument
	acceptsQueryCondition  bool
	massive                bool
	needsPropertyExtractor bool
}

// NewMethod creates a data access method. output may be nil.
func NewMethod(name string, output *Argument, inputs ...*Argument) (*DataAccessMethod, error) {
	el, err := element.New("method", name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in == nil {
			return nil, derrors.NewInvalidArgument("method "+name, "input argument is nil")
		}
		if seen[in.Name] {
			return nil, derrors.NewDuplicateName("argument", in.Name, "method "+name)
		}
		seen[in.Name] = true
	}
	return &DataAccessMethod{
		Element: el,
		output:  output,
		inputs:  append([]*Argument(nil), inputs...),
	}, nil
}

// Output returns the output descriptor, nil if the method returns nothing
func (m *DataAccessMethod) Output() *Argument { return m.output }

// Inputs returns the input arguments in declaration order
func (m *DataAccessMethod) Inputs() []*Argument {
	return append([]*Argument(nil), m.inputs...)
}

// AcceptsQueryCondition reports whether callers may pass an additional query condition
func (m *DataAccessMethod) AcceptsQueryCondition() bool { return m.acceptsQueryCondition }

// SetAcceptsQueryCondition sets the query condition flag
func (m *DataAccessMethod) SetAcceptsQueryCondition(v bool) { m.acceptsQueryCondition = v }

// IsMassive reports whether the method processes many objects at once
func (m *DataAccessMethod) IsMassive() bool { return m.massive }

// SetMassive sets the massive flag
func (m *DataAccessMethod) SetMassive(v bool) { m.massive = v }

// NeedsPropertyExtractor reports whether the method reads data from other facets
func (m *DataAccessMethod) NeedsPropertyExtractor() bool { return m.needsPropertyExtractor }

// SetNeedsPropertyExtractor sets the property extractor flag
func (m *DataAccessMethod) SetNeedsPropertyExtractor(v bool) { m.needsPropertyExtractor = v }

// IsCallableWithoutInstance reports whether no input identifies an entity instance
func (m *DataAccessMethod) IsCallableWithoutInstance() bool {
	return m.ImplicitReceiver() == nil
}

// ImplicitReceiver returns the first entity-reference input, nil if there is none
func (m *DataAccessMethod) ImplicitReceiver() *Argument {
	for _, in := range m.inputs {
		if in.IsEntityRef() {
			return in
		}
	}
	return nil
}

// SignatureArguments returns the inputs of the generated call, without the implicit receiver
func (m *DataAccessMethod) SignatureArguments() []*Argument {
	receiver := m.ImplicitReceiver()
	out := make([]*Argument, 0, len(m.inputs))
	for _, in := range m.inputs {
		if in != receiver {
			out = append(out, in)
		}
	}
	return out
}
