package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
)

func TestStoredValueMapping(t *testing.T) {
	text, err := NewText("", 64)
	require.NoError(t, err)
	integer, err := NewInteger("")
	require.NoError(t, err)
	dec, err := NewDecimal("", 12, 2)
	require.NoError(t, err)
	ts, err := NewTimestamp("")
	require.NoError(t, err)
	bin, err := NewLargeBinary("content")
	require.NoError(t, err)
	ref, err := NewEntityRef("id", "invoice_line")
	require.NoError(t, err)

	tests := []struct {
		value    *StoredValue
		kind     Kind
		hostType string
		sqlType  string
		str      string
	}{
		{text, KindText, "string", "VARCHAR(64)", "text(64)"},
		{integer, KindInteger, "int64", "BIGINT", "integer"},
		{dec, KindDecimal, "*big.Rat", "NUMERIC(12,2)", "decimal(12,2)"},
		{ts, KindTimestamp, "time.Time", "TIMESTAMP WITH TIME ZONE", "timestamp"},
		{bin, KindLargeBinary, "[]byte", "BYTEA", "largebinary content"},
		{ref, KindEntityRef, "InvoiceLineID", "UUID", "entityref(invoice_line) id"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.hostType, tt.value.HostType())
			assert.Equal(t, tt.sqlType, tt.value.SQLType())
			assert.Equal(t, tt.str, tt.value.String())
		})
	}
}

func TestStoredValueScalars(t *testing.T) {
	_, err := NewText("", 0)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidScalar))

	_, err = NewDecimal("", 0, 0)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidScalar))

	_, err = NewDecimal("", 4, 5)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidScalar))

	_, err = NewText("Bad", 10)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidName))

	_, err = NewEntityRef("id", "Invoice")
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidName))
}

type owner string

func (o owner) Name() string { return string(o) }

func TestStoredValueOwnership(t *testing.T) {
	v, err := NewText("cleaned", 64)
	require.NoError(t, err)

	require.NoError(t, v.Bind(owner("name")))
	assert.Equal(t, "name", v.Owner().Name())

	err = v.Bind(owner("other"))
	require.Error(t, err)
	assert.True(t, derrors.IsCode(err, derrors.ErrAlreadyOwned))
	assert.Equal(t, "name", v.Owner().Name())

	assert.True(t, derrors.IsCode(v.Clone().Bind(nil), derrors.ErrInvalidArgument))

	c := v.Clone()
	assert.Nil(t, c.Owner())
	assert.True(t, c.Equal(v))
	assert.NotSame(t, c, v)
	require.NoError(t, c.Bind(owner("other")))
}

func TestColumnName(t *testing.T) {
	v, _ := NewText("cleaned", 64)
	assert.Equal(t, "name_cleaned", v.ColumnName("name"))
	assert.Equal(t, "cleaned", v.ColumnName(""))

	p, _ := NewText("", 64)
	assert.Equal(t, "name", p.ColumnName("name"))
}

func TestIndex(t *testing.T) {
	a, _ := NewText("", 10)
	b, _ := NewInteger("")

	idx, err := NewIndex("byname", true, a, b)
	require.NoError(t, err)
	assert.True(t, idx.Composite())
	assert.True(t, idx.Unique())
	assert.Equal(t, []*StoredValue{a, b}, idx.Values())

	_, err = NewIndex("empty", false)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidArgument))

	_, err = NewIndex("withnil", false, a, nil)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidArgument))

	_, err = NewIndex("By Name", false, a)
	assert.True(t, derrors.IsCode(err, derrors.ErrInvalidName))
}
