package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/element"
)

type owner string

func (o owner) Name() string { return string(o) }

func statusCategory(t *testing.T) *choice.Category {
	t.Helper()
	cat, err := choice.New("status", element.NewModule("sales"), 6, false)
	require.NoError(t, err)
	return cat
}

// allKinds returns one decorated field of every variant
func allKinds(t *testing.T) []Field {
	t.Helper()

	s, err := NewString("title", "Title", 80, IndexEasySearch)
	require.NoError(t, err)
	i, err := NewInteger("quantity", "Quantity", IndexRaw)
	require.NoError(t, err)
	d, err := NewDecimal("amount", "Amount", 12, 2, IndexSearchWithoutIndex)
	require.NoError(t, err)
	ts, err := NewTimestamp("due_date", "Due date", IndexNone)
	require.NoError(t, err)
	c, err := NewChoice("status", "Status", statusCategory(t), IndexListOfValuesWithIndex)
	require.NoError(t, err)
	lb, err := NewLargeBinary("scan", "Scan")
	require.NoError(t, err)

	fields := []Field{s, i, d, ts, c, lb}
	for n, f := range fields {
		require.NoError(t, f.SetPriority(n*100-250))
		f.SetInTitle(n%2 == 0)
		f.SetInBottomNotes(n%3 == 0)
		f.SetHiddenInEdit(n%2 == 1)
		require.NoError(t, f.AddTrigger("lines", "amount"))
	}
	require.NoError(t, s.SetGenericName("label"))
	return fields
}

// attributes captures every non-identity attribute of a field
func attributes(f Field) map[string]interface{} {
	values := make([]string, 0)
	for _, v := range f.StoredValues() {
		values = append(values, v.String())
	}
	attrs := map[string]interface{}{
		"kind":     f.Kind(),
		"host":     f.HostType(),
		"priority": f.Priority(),
		"title":    f.InTitle(),
		"notes":    f.InBottomNotes(),
		"hidden":   f.HiddenInEdit(),
		"class":    f.IndexClass(),
		"values":   values,
		"indexed":  f.Index() != nil,
		"triggers": f.Triggers(),
	}
	if w := f.SearchWidget(); w != nil {
		attrs["widget"] = w.Kind
	}
	switch v := f.(type) {
	case *StringField:
		attrs["length"] = v.Length()
	case *DecimalField:
		attrs["precision"] = v.Precision()
		attrs["scale"] = v.Scale()
	case *ChoiceField:
		attrs["category"] = v.Category()
	}
	return attrs
}

func TestCopyFidelity(t *testing.T) {
	for _, f := range allKinds(t) {
		f := f
		t.Run(f.Kind().String(), func(t *testing.T) {
			t.Run("keeps identity when empty", func(t *testing.T) {
				c, err := f.Copy("", "")
				require.NoError(t, err)

				assert.Equal(t, attributes(f), attributes(c))
				assert.Equal(t, f.Name(), c.Name())
				assert.Equal(t, f.Label(), c.Label())
				assert.Equal(t, f.GenericName(), c.GenericName())
			})

			t.Run("overrides name and label only", func(t *testing.T) {
				c, err := f.Copy("x", "Y")
				require.NoError(t, err)

				assert.Equal(t, attributes(f), attributes(c))
				assert.Equal(t, "x", c.Name())
				assert.Equal(t, "Y", c.Label())
			})

			t.Run("is independent", func(t *testing.T) {
				c, err := f.Copy("copy", "")
				require.NoError(t, err)

				for i, v := range c.StoredValues() {
					assert.NotSame(t, f.StoredValues()[i], v)
					assert.Equal(t, "copy", v.Owner().Name())
				}
				assert.Nil(t, c.Owner())

				require.NoError(t, c.SetPriority(999))
				require.NoError(t, c.AddTrigger("other"))
				assert.NotEqual(t, 999, f.Priority())
				assert.Len(t, f.Triggers(), 1)
			})
		})
	}
}

func TestCopyRejectsIllegalName(t *testing.T) {
	s, err := NewString("title", "Title", 80, IndexNone)
	require.NoError(t, err)

	_, err = s.Copy("Not Legal", "")
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidName))
}

func TestPriorityRange(t *testing.T) {
	f, err := NewInteger("quantity", "Quantity", IndexNone)
	require.NoError(t, err)

	tests := []struct {
		priority int
		wantErr  bool
	}{
		{MinPriority, false},
		{MaxPriority, false},
		{0, false},
		{MinPriority - 1, true},
		{MaxPriority + 1, true},
	}

	for _, tt := range tests {
		err := f.SetPriority(tt.priority)
		if tt.wantErr {
			require.Error(t, err)
			assert.True(t, derrors.IsCode(err, derrors.ErrPriorityOutOfRange))
			assert.Contains(t, err.Error(), "quantity")
		} else {
			require.NoError(t, err)
			assert.Equal(t, tt.priority, f.Priority())
		}
	}
	assert.Equal(t, 0, f.Priority(), "rejected priority must not be applied")
}

func TestIndexClassImplications(t *testing.T) {
	tests := []struct {
		class   IndexClass
		index   bool
		widget  bool
		cleaned bool
	}{
		{IndexNone, false, false, false},
		{IndexRaw, true, true, false},
		{IndexEasySearch, true, true, true},
		{IndexSearchWithoutIndex, false, true, false},
		{IndexListOfValuesWithIndex, true, true, false},
		{IndexListOfValuesWithoutIndex, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			assert.Equal(t, tt.index, tt.class.CreatesIndex())
			assert.Equal(t, tt.widget, tt.class.AddsSearchWidget())
			assert.Equal(t, tt.cleaned, tt.class.AddsCleanedValue())

			parsed, ok := ParseIndexClass(tt.class.String())
			require.True(t, ok)
			assert.Equal(t, tt.class, parsed)
		})
	}

	_, ok := ParseIndexClass("fulltext")
	assert.False(t, ok)
}

func TestEasySearchAddsCleanedValue(t *testing.T) {
	f, err := NewString("title", "Title", 80, IndexEasySearch)
	require.NoError(t, err)

	values := f.StoredValues()
	require.Len(t, values, 2)
	assert.Same(t, f.Primary(), values[0])
	assert.Equal(t, "cleaned", values[1].Suffix())
	assert.Equal(t, 80, values[1].Length())
	assert.Equal(t, "title_cleaned", values[1].ColumnName(f.Name()))

	require.NotNil(t, f.Index())
	assert.Equal(t, []string{"cleaned"}, []string{f.Index().Values()[0].Suffix()})

	w := f.SearchWidget()
	require.NotNil(t, w)
	assert.Equal(t, WidgetText, w.Kind)
	assert.True(t, w.Indexed)
}

func TestIndexClassAllowedPerKind(t *testing.T) {
	_, err := NewInteger("quantity", "Quantity", IndexEasySearch)
	require.Error(t, err)
	assert.True(t, derrors.IsCode(err, derrors.ErrIndexClassNotAllowed))

	_, err = NewChoice("status", "Status", statusCategory(t), IndexRaw)
	assert.True(t, derrors.IsCode(err, derrors.ErrIndexClassNotAllowed))

	assert.Equal(t, []IndexClass{IndexNone}, AllowedClasses(KindLargeBinary))
}

func TestCompositeIndexContribution(t *testing.T) {
	for _, f := range allKinds(t) {
		v, err := f.CompositeIndexValue()
		if f.Kind() == KindLargeBinary {
			require.Error(t, err)
			assert.True(t, derrors.IsCode(err, derrors.ErrCompositeIndexUnsupported))
			assert.Contains(t, err.Error(), "scan")
			assert.Nil(t, v)
			continue
		}
		require.NoError(t, err)
		assert.Same(t, f.Primary(), v)
	}
}

func TestCellExtraction(t *testing.T) {
	parsers := map[Kind]string{
		KindString:    "text",
		KindInteger:   "integer",
		KindDecimal:   "decimal",
		KindTimestamp: "timestamp",
		KindChoice:    "choice",
	}
	for _, f := range allKinds(t) {
		x, err := f.CellExtractor()
		if f.Kind() == KindLargeBinary {
			assert.True(t, derrors.IsCode(err, derrors.ErrCellExtractionUnsupported))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, parsers[f.Kind()], x.Parser)
		assert.Equal(t, f.Name(), x.Field)
	}
}

func TestRenameUpdatesIndexAndOwnership(t *testing.T) {
	f, err := NewInteger("quantity", "Quantity", IndexRaw)
	require.NoError(t, err)

	require.NoError(t, f.SetName("qty"))
	assert.Equal(t, "qty", f.Index().Name())
	assert.Equal(t, "qty", f.Primary().Owner().Name())

	err = f.SetName("9lives")
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidName))
	assert.Equal(t, "qty", f.Name())
}

func TestFieldOwnership(t *testing.T) {
	f, err := NewTimestamp("due_date", "Due date", IndexNone)
	require.NoError(t, err)

	require.NoError(t, f.SetOwner(owner("named")))
	err = f.SetOwner(owner("numbered"))
	assert.True(t, derrors.IsCode(err, derrors.ErrAlreadyOwned))
	assert.Equal(t, "named", f.Owner().Name())
}

func TestChoiceFieldHostType(t *testing.T) {
	f, err := NewChoice("status", "Status", statusCategory(t), IndexNone)
	require.NoError(t, err)

	assert.Equal(t, "Status", f.HostType())
	assert.Equal(t, 6, f.Primary().Length())

	_, err = NewChoice("status", "Status", nil, IndexNone)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidArgument))
}

func TestTriggers(t *testing.T) {
	f, err := NewDecimal("total", "Total", 14, 2, IndexNone)
	require.NoError(t, err)

	require.NoError(t, f.AddTrigger("lines", "amount"))
	assert.Equal(t, "lines.amount", f.Triggers()[0].String())

	assert.True(t, derrors.IsCode(f.AddTrigger(), derrors.ErrInvalidArgument))
	assert.True(t, derrors.IsCode(f.AddTrigger("Lines"), derrors.ErrInvalidName))
	assert.Len(t, f.Triggers(), 1)
}

func TestScalarFaultsNameField(t *testing.T) {
	_, err := NewString("title", "Title", 0, IndexNone)
	require.Error(t, err)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidScalar))
	assert.Contains(t, err.Error(), "title")
}
