package errors

import (
	"fmt"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeUniqueness(t *testing.T) {
	codes := make(map[ErrorCode]bool)
	all := []ErrorCode{
		ErrDoubleAttach, ErrUnregisteredValue, ErrMissingBidirectional, ErrInvalidName,
		ErrDuplicateName, ErrAlreadyOwned, ErrNotAttached, ErrForeignSibling,
		ErrMissingDefault, ErrInvalidArgument,
		ErrCodeTooLong, ErrPseudoNumber, ErrPriorityOutOfRange, ErrInvalidScalar,
		ErrIndexClassNotAllowed,
		ErrCompositeIndexUnsupported, ErrCellExtractionUnsupported,
		ErrUnresolvedEntity, ErrUnresolvedFacet, ErrUnresolvedCategory,
		ErrFacetClassMismatch, ErrUnresolvedModule,
		ErrWrongPhase, ErrAlreadyFinalized,
	}
	for _, code := range all {
		if codes[code] {
			t.Errorf("duplicate error code %s", code)
		}
		codes[code] = true
	}
}

func TestErrorCodeRanges(t *testing.T) {
	tests := []struct {
		err      *DesignError
		prefix   string
		category ErrorCategory
	}{
		{NewDoubleAttach("named", "invoice", "order"), "STR", CategoryStructural},
		{NewCodeTooLong("status", "TOOLONG", 3), "DOM", CategoryDomain},
		{NewCompositeIndexUnsupported("largebinary", "scan"), "UNS", CategoryUnsupported},
		{NewUnresolvedEntity("custmer", []string{"customer"}), "REF", CategoryReference},
		{NewWrongPhase("add field", "linking", "constructing"), "PHS", CategoryPhase},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.True(t, strings.HasPrefix(string(tt.err.Code), tt.prefix))
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, SeverityFatal, tt.err.Severity)
		})
	}
}

func TestFormatCompactLocalizesFault(t *testing.T) {
	err := NewPriorityOutOfRange("title", 1500, -1000, 1000).WithEntity("invoice")

	msg := err.Error()
	assert.Contains(t, msg, "invoice.title")
	assert.Contains(t, msg, "1500")
	assert.Contains(t, msg, "[DOM202]")
}

func TestFormatErrorIncludesLimits(t *testing.T) {
	err := NewCodeTooLong("status", "ARCHIVED", 3)

	out := err.Format()
	assert.Contains(t, out, "Domain fault [DOM200]")
	assert.Contains(t, out, "Expected: at most 3 characters")
	assert.Contains(t, out, "Actual:   8")
}

func TestDidYouMean(t *testing.T) {
	err := NewUnresolvedFacet("invoice", "nmed", []string{"named"})
	assert.Equal(t, "Did you mean: named?", err.Suggestion)

	err = NewUnresolvedFacet("invoice", "zzz", nil)
	assert.Empty(t, err.Suggestion)
}

func TestLocate(t *testing.T) {
	t.Run("fills missing location", func(t *testing.T) {
		err := Locate(NewCompositeIndexUnsupported("largebinary", "scan"), "invoice", "stored")

		var de *DesignError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "invoice", de.Entity)
		assert.Equal(t, "stored", de.Facet)
	})

	t.Run("keeps existing location", func(t *testing.T) {
		err := Locate(NewDoubleAttach("named", "invoice", "order"), "other", "other")

		var de *DesignError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "invoice", de.Entity)
		assert.Equal(t, "named", de.Facet)
	})

	t.Run("passes other errors through", func(t *testing.T) {
		plain := fmt.Errorf("plain")
		assert.Same(t, plain, Locate(plain, "invoice", "named"))
	})
}

func TestIsCodeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("linking invoice: %w", NewAlreadyFinalized("named"))

	assert.True(t, IsCode(wrapped, ErrAlreadyFinalized))
	assert.False(t, IsCode(wrapped, ErrDoubleAttach))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrDoubleAttach))
}

func TestToJSON(t *testing.T) {
	out, err := NewUnregisteredValue("status", "GONE", "define transition").ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "STR101", decoded["code"])
	assert.Equal(t, "GONE", decoded["value"])
	assert.Equal(t, "structural", decoded["category"])
}

func TestLocateField(t *testing.T) {
	err := LocateField(NewInvalidScalar("text stored value", "length", 0), "title")

	var de *DesignError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "title", de.Field)
	assert.Contains(t, err.Error(), "title")
}
