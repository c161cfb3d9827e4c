package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/emit"
	"github.com/conduit-lang/modeler/internal/design/facet"
	"github.com/conduit-lang/modeler/internal/design/field"
	"github.com/conduit-lang/modeler/internal/design/project"
)

const invoicing = `
entities:
  - name: invoice
    module: sales
    label: Invoice
    fields:
      - name: amount
        kind: decimal
        label: Amount
        precision: 12
        scale: 2
        index: raw
        priority: 10
      - name: status
        kind: choice
        label: Status
        category: paymentstatus
        index: list_of_values_with_index
        triggers: [customer.name]
    facets:
      - class: uniqueidentified
      - class: numbered
      - class: linkedtoparent
        parent: customer
      - class: lifecycle
        category: invoicestate
---
modules:
  - path: sales
categories:
  - name: paymentstatus
    module: sales
    key_length: 4
    values:
      - {code: open, label: Open}
      - {code: paid, label: Paid}
`

const customers = `
entities:
  - name: customer
    module: sales
    facets:
      - class: uniqueidentified
      - class: named
        length: 80
      - class: audit
        depends_on: [uniqueidentified, invoice.numbered]
        generics:
          OWNER: invoice.uniqueidentified
        choices:
          KIND: paymentstatus
        rules:
          - name: checkcredit
            description: Credit limit is checked on save
        fields:
          - name: auditedat
            kind: timestamp
            label: Audited at
categories:
  - name: invoicestate
    kind: transition
    module: sales
    key_length: 8
    values:
      - {code: DRAFT, label: Draft}
      - {code: INWORK, label: In work}
      - {code: SENT, label: Sent}
      - {code: CLOSED, label: Closed}
    transitions:
      DRAFT: [INWORK]
      INWORK: [DRAFT, SENT]
      SENT: [CLOSED]
    default: DRAFT
    default_working: INWORK
    default_final: CLOSED
    finals: [SENT]
`

const mutual = `
entities:
  - name: left
    facets:
      - {class: audit, depends_on: [right.audit]}
  - name: right
    facets:
      - {class: audit, depends_on: [left.audit]}
`

func load(t *testing.T, sources ...string) *Loader {
	t.Helper()
	l := New()
	for i, src := range sources {
		require.NoError(t, l.Load(filepath.Join("design", string(rune('a'+i))+".yml"), []byte(src)))
	}
	return l
}

func TestForwardReferencesAcrossSources(t *testing.T) {
	// invoice is declared before customer, and its categories after it
	l := load(t, invoicing, customers)
	assert.Equal(t, []string{"design/a.yml", "design/b.yml"}, l.Sources())

	d, err := l.Build()
	require.NoError(t, err)

	invoice, ok := d.Entity("invoice")
	require.True(t, ok)
	assert.Equal(t, "Invoice", invoice.Label())
	assert.Equal(t, "sales", invoice.Module().Path())

	f, ok := invoice.FacetByName("customerlink")
	require.True(t, ok)
	link := f.(*facet.LinkedToParent)
	assert.Equal(t, "customer", link.ParentEntity().Name())

	f, ok = invoice.FacetByName(facet.ClassLifecycle)
	require.True(t, ok)
	lifecycle := f.(*facet.Lifecycle)
	state := lifecycle.Category()
	assert.True(t, lifecycle.CanChange(state.Value("DRAFT"), state.Value("INWORK")))
	assert.False(t, lifecycle.CanChange(state.Value("DRAFT"), state.Value("SENT")))
	assert.True(t, state.IsFinal(state.Value("CLOSED")))
	assert.True(t, state.IsFinal(state.Value("SENT")))
	assert.Equal(t, "INWORK", state.DefaultWorking().Code())

	amount, ok := invoice.FieldByName("amount")
	require.True(t, ok)
	assert.Equal(t, field.KindDecimal, amount.Kind())
	assert.Equal(t, 10, amount.Priority())
	assert.Equal(t, field.IndexRaw, amount.IndexClass())

	status, ok := invoice.FieldByName("status")
	require.True(t, ok)
	require.Len(t, status.Triggers(), 1)
	assert.Equal(t, "customer.name", status.Triggers()[0].String())

	customer, ok := d.Entity("customer")
	require.True(t, ok)
	f, ok = customer.FacetByName("audit")
	require.True(t, ok)
	audit := f.Shared()
	assert.Len(t, audit.ResolvedDependencies(), 2)
	owner, ok := audit.Generic("OWNER")
	require.True(t, ok)
	assert.Equal(t, "invoice", owner.Target().Name())
	assert.Equal(t, facet.ClassUniqueIdentified, owner.TargetFacet().Name())
	kind, ok := audit.ChoiceGeneric("KIND")
	require.True(t, ok)
	assert.Equal(t, "paymentstatus", kind.Base().Name())
	assert.Len(t, audit.Rules(), 1)

	named, ok := customer.FieldByName("name")
	require.True(t, ok)
	assert.Equal(t, 80, named.(*field.StringField).Length())
}

func TestReverseOrderSameResult(t *testing.T) {
	forward, err := load(t, invoicing, customers).Build()
	require.NoError(t, err)
	reverse, err := load(t, invoicing, customers).Build(project.WithReverseOrder(true))
	require.NoError(t, err)

	assert.Equal(t, forward.Stats(), reverse.Stats())
	assert.Equal(t, forward.Graph().Analyze().TopologicalOrder, reverse.Graph().Analyze().TopologicalOrder)
	assert.Equal(t, outline(t, forward), outline(t, reverse))
}

func outline(t *testing.T, d *project.Design) string {
	t.Helper()
	var buf bytes.Buffer
	sink := emit.NewWriterSink(&buf)
	require.NoError(t, emit.Outline(d, sink))
	require.NoError(t, sink.Close())
	return buf.String()
}

func TestCrossEntityCycleIsLegal(t *testing.T) {
	d, err := load(t, mutual).Build()
	require.NoError(t, err)
	assert.Equal(t, 1, d.Stats().Cycles)
}

func TestDuplicateEntityAcrossSources(t *testing.T) {
	d, err := load(t, invoicing, customers, invoicing).Build()
	assert.Nil(t, d)
	assert.True(t, derrors.IsCode(err, derrors.ErrDuplicateName))
	assert.Contains(t, err.Error(), "design/c.yml")
}

func TestDeclarationFaults(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   derrors.ErrorCode
		hint   string
	}{
		{
			name: "unknown category",
			source: `
categories:
  - {name: color, key_length: 4}
entities:
  - name: shirt
    fields:
      - {name: tint, kind: choice, category: colour}
`,
			code: derrors.ErrUnresolvedCategory,
			hint: "color",
		},
		{
			name: "unknown module",
			source: `
modules:
  - path: sales
entities:
  - {name: shirt, module: sale}
`,
			code: derrors.ErrUnresolvedModule,
			hint: "sales",
		},
		{
			name: "unknown entity",
			source: `
entities:
  - name: shirt
    facets:
      - class: uniqueidentified
      - {class: linkedtoparent, parent: shrt}
`,
			code: derrors.ErrUnresolvedEntity,
			hint: "shirt",
		},
		{
			name: "index class not allowed",
			source: `
entities:
  - name: shirt
    fields:
      - {name: size, kind: integer, index: easy_search}
`,
			code: derrors.ErrIndexClassNotAllowed,
		},
		{
			name: "default working without round trip",
			source: `
categories:
  - name: state
    kind: transition
    key_length: 8
    values: [{code: DRAFT, label: Draft}, {code: INWORK, label: In work}]
    transitions: {DRAFT: [INWORK]}
    default: DRAFT
    default_working: INWORK
`,
			code: derrors.ErrMissingBidirectional,
		},
		{
			name: "transition of unregistered value",
			source: `
categories:
  - name: state
    kind: transition
    key_length: 8
    values: [{code: DRAFT, label: Draft}]
    transitions: {DRAFT: [GONE]}
`,
			code: derrors.ErrUnregisteredValue,
		},
		{
			name: "pseudo number",
			source: `
categories:
  - name: rating
    key_length: 2
    pseudo_number: true
    values: [{code: "1", label: "42"}, {code: "2", label: forty-two}]
`,
			code: derrors.ErrPseudoNumber,
		},
		{
			name: "lifecycle over plain category",
			source: `
categories:
  - {name: color, key_length: 4}
entities:
  - name: shirt
    facets:
      - class: uniqueidentified
      - {class: lifecycle, category: color}
`,
			code: derrors.ErrInvalidArgument,
		},
		{
			name: "transitions on plain category",
			source: `
categories:
  - {name: color, key_length: 4, default: red}
`,
			code: derrors.ErrInvalidArgument,
		},
		{
			name: "priority out of range",
			source: `
entities:
  - name: shirt
    fields:
      - {name: size, kind: integer, priority: 1001}
`,
			code: derrors.ErrPriorityOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.source).Build()
			require.Error(t, err)
			assert.True(t, derrors.IsCode(err, tt.code), "got %v", err)

			var de *derrors.DesignError
			require.ErrorAs(t, err, &de)
			if tt.hint != "" {
				assert.Contains(t, de.Suggestion, tt.hint)
			}
			assert.Contains(t, err.Error(), "design/a.yml")
		})
	}
}

func TestUnknownKeysRejected(t *testing.T) {
	l := New()
	err := l.Load("bad.yml", []byte("entities:\n  - name: shirt\n    colour: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")
	assert.Empty(t, l.Sources())
}

func TestDefaultModule(t *testing.T) {
	l := New(WithDefaultModule("shop"))
	require.NoError(t, l.Load("a.yml", []byte("entities:\n  - name: shirt\n")))
	d, err := l.Build()
	require.NoError(t, err)

	shirt, ok := d.Entity("shirt")
	require.True(t, ok)
	assert.Equal(t, "shop", shirt.Module().Path())
}

func TestAuthorizeAll(t *testing.T) {
	l := load(t, `
categories:
  - name: state
    kind: transition
    key_length: 8
    values: [{code: A, label: A}, {code: B, label: B}]
    authorize_all: true
`)
	d, err := l.Build()
	require.NoError(t, err)

	c, ok := d.Category("state")
	require.True(t, ok)
	state := c.(*choice.TransitionCategory)
	assert.True(t, state.IsTransitionLegal(state.Value("A"), state.Value("B")))
	assert.False(t, state.HasTransition(state.Value("A"), state.Value("B")))
}

func TestLoadGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(customers), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(invoicing), 0644))

	l := New()
	require.NoError(t, l.LoadGlob(filepath.Join(dir, "*.yml")))
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yml")}, l.Sources())

	_, err := l.Build()
	require.NoError(t, err)

	err = New().LoadGlob(filepath.Join(dir, "*.yaml"))
	assert.Error(t, err)
}
