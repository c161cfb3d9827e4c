package storage

import (
	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/element"
)

// Index is a binary-search index over an ordered list of stored values.
type Index struct {
	name   string
	values []*StoredValue
	unique bool
}

// NewIndex creates an index over one or more stored values
func NewIndex(name string, unique bool, values ...*StoredValue) (*Index, error) {
	if err := element.ValidateName("index", name); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, derrors.NewInvalidArgument("index "+name, "at least one stored value is required")
	}
	for _, v := range values {
		if v == nil {
			return nil, derrors.NewInvalidArgument("index "+name, "stored value is nil")
		}
	}
	return &Index{name: name, values: append([]*StoredValue(nil), values...), unique: unique}, nil
}

// Name returns the index name
func (i *Index) Name() string { return i.name }

// Unique reports whether the index enforces uniqueness
func (i *Index) Unique() bool { return i.unique }

// Values returns the indexed stored values in order
func (i *Index) Values() []*StoredValue {
	return append([]*StoredValue(nil), i.values...)
}

// Composite reports whether the index spans more than one stored value
func (i *Index) Composite() bool { return len(i.values) > 1 }

// Rename changes the index name, keeping the old one if name is not a legal identifier
func (i *Index) Rename(name string) error {
	if err := element.ValidateName("index", name); err != nil {
		return err
	}
	i.name = name
	return nil
}
