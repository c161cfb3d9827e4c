package field

import (
	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/storage"
	ustrings "github.com/conduit-lang/modeler/internal/util/strings"
)

// TimestampLayout is the cell layout accepted by timestamp extraction
const TimestampLayout = "2006-01-02 15:04:05"

// CellExtractor describes how a spreadsheet cell is converted into the field value
type CellExtractor struct {
	Field    string
	Parser   string
	Layout   string
	Category string
}

var (
	_ Field = (*StringField)(nil)
	_ Field = (*IntegerField)(nil)
	_ Field = (*DecimalField)(nil)
	_ Field = (*TimestampField)(nil)
	_ Field = (*ChoiceField)(nil)
	_ Field = (*LargeBinaryField)(nil)
)

// StringField holds text of bounded length
type StringField struct {
	Base
	length int
}

// NewString creates a string field holding at most length characters
func NewString(name, label string, length int, class IndexClass) (*StringField, error) {
	primary, err := storage.NewText("", length)
	if err != nil {
		return nil, derrors.LocateField(err, name)
	}
	f := &StringField{length: length}
	if err := f.init(KindString, name, label, class, primary); err != nil {
		return nil, err
	}
	return f, nil
}

// Length returns the maximum number of characters
func (f *StringField) Length() int { return f.length }

// CellExtractor reads the cell as text
func (f *StringField) CellExtractor() (*CellExtractor, error) {
	return &CellExtractor{Field: f.Name(), Parser: "text"}, nil
}

// Copy returns an independent duplicate of the field
func (f *StringField) Copy(name, label string) (Field, error) {
	name, label = copyIdentity(&f.Base, name, label)
	c, err := NewString(name, label, f.length, f.class)
	if err != nil {
		return nil, err
	}
	if err := c.copyFrom(&f.Base); err != nil {
		return nil, err
	}
	return c, nil
}

// IntegerField holds a signed integer
type IntegerField struct {
	Base
}

// NewInteger creates an integer field
func NewInteger(name, label string, class IndexClass) (*IntegerField, error) {
	primary, err := storage.NewInteger("")
	if err != nil {
		return nil, err
	}
	f := &IntegerField{}
	if err := f.init(KindInteger, name, label, class, primary); err != nil {
		return nil, err
	}
	return f, nil
}

// CellExtractor reads the cell as an integer
func (f *IntegerField) CellExtractor() (*CellExtractor, error) {
	return &CellExtractor{Field: f.Name(), Parser: "integer"}, nil
}

// Copy returns an independent duplicate of the field
func (f *IntegerField) Copy(name, label string) (Field, error) {
	name, label = copyIdentity(&f.Base, name, label)
	c, err := NewInteger(name, label, f.class)
	if err != nil {
		return nil, err
	}
	if err := c.copyFrom(&f.Base); err != nil {
		return nil, err
	}
	return c, nil
}

// DecimalField holds a fixed-point number
type DecimalField struct {
	Base
	precision int
	scale     int
}

// NewDecimal creates a decimal field with precision digits, scale of them after the point
func NewDecimal(name, label string, precision, scale int, class IndexClass) (*DecimalField, error) {
	primary, err := storage.NewDecimal("", precision, scale)
	if err != nil {
		return nil, derrors.LocateField(err, name)
	}
	f := &DecimalField{precision: precision, scale: scale}
	if err := f.init(KindDecimal, name, label, class, primary); err != nil {
		return nil, err
	}
	return f, nil
}

// Precision returns the total number of digits
func (f *DecimalField) Precision() int { return f.precision }

// Scale returns the number of digits after the decimal point
func (f *DecimalField) Scale() int { return f.scale }

// CellExtractor reads the cell as a decimal number
func (f *DecimalField) CellExtractor() (*CellExtractor, error) {
	return &CellExtractor{Field: f.Name(), Parser: "decimal"}, nil
}

// Copy returns an independent duplicate of the field
func (f *DecimalField) Copy(name, label string) (Field, error) {
	name, label = copyIdentity(&f.Base, name, label)
	c, err := NewDecimal(name, label, f.precision, f.scale, f.class)
	if err != nil {
		return nil, err
	}
	if err := c.copyFrom(&f.Base); err != nil {
		return nil, err
	}
	return c, nil
}

// TimestampField holds a point in time
type TimestampField struct {
	Base
}

// NewTimestamp creates a timestamp field
func NewTimestamp(name, label string, class IndexClass) (*TimestampField, error) {
	primary, err := storage.NewTimestamp("")
	if err != nil {
		return nil, err
	}
	f := &TimestampField{}
	if err := f.init(KindTimestamp, name, label, class, primary); err != nil {
		return nil, err
	}
	return f, nil
}

// CellExtractor reads the cell with TimestampLayout
func (f *TimestampField) CellExtractor() (*CellExtractor, error) {
	return &CellExtractor{Field: f.Name(), Parser: "timestamp", Layout: TimestampLayout}, nil
}

// Copy returns an independent duplicate of the field
func (f *TimestampField) Copy(name, label string) (Field, error) {
	name, label = copyIdentity(&f.Base, name, label)
	c, err := NewTimestamp(name, label, f.class)
	if err != nil {
		return nil, err
	}
	if err := c.copyFrom(&f.Base); err != nil {
		return nil, err
	}
	return c, nil
}

// ChoiceField holds the code of a value of a choice category. The category is
// referenced, not owned.
type ChoiceField struct {
	Base
	category choice.Domain
}

// NewChoice creates a field restricted to the values of category
func NewChoice(name, label string, category choice.Domain, class IndexClass) (*ChoiceField, error) {
	if category == nil {
		return nil, derrors.NewInvalidArgument("choice field "+name, "category is nil").WithField(name)
	}
	primary, err := storage.NewText("", category.Base().KeyLength())
	if err != nil {
		return nil, err
	}
	f := &ChoiceField{category: category}
	if err := f.init(KindChoice, name, label, class, primary); err != nil {
		return nil, err
	}
	return f, nil
}

// Category returns the referenced choice category
func (f *ChoiceField) Category() choice.Domain { return f.category }

// HostType returns the generated type of the category
func (f *ChoiceField) HostType() string {
	return ustrings.ToPascalCase(f.category.Base().Name())
}

// CellExtractor matches the cell against the codes and labels of the category
func (f *ChoiceField) CellExtractor() (*CellExtractor, error) {
	return &CellExtractor{Field: f.Name(), Parser: "choice", Category: f.category.Base().Name()}, nil
}

// Copy returns an independent duplicate referencing the same category
func (f *ChoiceField) Copy(name, label string) (Field, error) {
	name, label = copyIdentity(&f.Base, name, label)
	c, err := NewChoice(name, label, f.category, f.class)
	if err != nil {
		return nil, err
	}
	if err := c.copyFrom(&f.Base); err != nil {
		return nil, err
	}
	return c, nil
}

// LargeBinaryField holds an opaque document. It is never indexed, searched or
// imported from a spreadsheet.
type LargeBinaryField struct {
	Base
}

// NewLargeBinary creates a large binary field
func NewLargeBinary(name, label string) (*LargeBinaryField, error) {
	primary, err := storage.NewLargeBinary("")
	if err != nil {
		return nil, err
	}
	f := &LargeBinaryField{}
	if err := f.init(KindLargeBinary, name, label, IndexNone, primary); err != nil {
		return nil, err
	}
	return f, nil
}

// CompositeIndexValue always fails: binary content cannot be part of an index
func (f *LargeBinaryField) CompositeIndexValue() (*storage.StoredValue, error) {
	return nil, derrors.NewCompositeIndexUnsupported(KindLargeBinary.String(), f.Name())
}

// CellExtractor always fails: binary content has no cell representation
func (f *LargeBinaryField) CellExtractor() (*CellExtractor, error) {
	return nil, derrors.NewCellExtractionUnsupported(KindLargeBinary.String(), f.Name())
}

// Copy returns an independent duplicate of the field
func (f *LargeBinaryField) Copy(name, label string) (Field, error) {
	name, label = copyIdentity(&f.Base, name, label)
	c, err := NewLargeBinary(name, label)
	if err != nil {
		return nil, err
	}
	if err := c.copyFrom(&f.Base); err != nil {
		return nil, err
	}
	return c, nil
}
