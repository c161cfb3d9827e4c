package emit

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/entity"
	"github.com/conduit-lang/modeler/internal/design/facet"
	"github.com/conduit-lang/modeler/internal/design/field"
	"github.com/conduit-lang/modeler/internal/design/project"
	"github.com/conduit-lang/modeler/internal/design/storage"
)

// Document is the JSON export of a resolved design
type Document struct {
	BuildID string           `json:"build_id"`
	Modules []ModuleDocument `json:"modules"`
}

// ModuleDocument lists the categories and entities of one module
type ModuleDocument struct {
	Path       string             `json:"path"`
	Categories []CategoryDocument `json:"categories,omitempty"`
	Entities   []EntityDocument   `json:"entities,omitempty"`
}

// CategoryDocument describes a choice category
type CategoryDocument struct {
	Name          string               `json:"name"`
	Kind          string               `json:"kind"`
	KeyLength     int                  `json:"key_length"`
	Values        []ValueDocument      `json:"values"`
	Transitions   []TransitionDocument `json:"transitions,omitempty"`
	AllAuthorized bool                 `json:"all_transitions_authorized,omitempty"`
}

// ValueDocument describes a choice value and its lifecycle roles
type ValueDocument struct {
	Code         string `json:"code"`
	Label        string `json:"label"`
	PseudoNumber *int   `json:"pseudo_number,omitempty"`
	Default      bool   `json:"default,omitempty"`
	Working      bool   `json:"default_working,omitempty"`
	Final        bool   `json:"final,omitempty"`
	DefaultFinal bool   `json:"default_final,omitempty"`
}

// TransitionDocument is one authorized edge
type TransitionDocument struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// EntityDocument describes an entity with its own fields and facets
type EntityDocument struct {
	Name   string          `json:"name"`
	Label  string          `json:"label"`
	Fields []FieldDocument `json:"fields,omitempty"`
	Facets []FacetDocument `json:"facets"`
}

// FieldDocument describes a field and the columns storing it
type FieldDocument struct {
	Name     string           `json:"name"`
	Kind     string           `json:"kind"`
	Label    string           `json:"label"`
	Index    string           `json:"index,omitempty"`
	Priority int              `json:"priority,omitempty"`
	Columns  []ColumnDocument `json:"columns"`
}

// ColumnDocument is one stored value
type ColumnDocument struct {
	Name     string `json:"name"`
	SQLType  string `json:"sql_type"`
	HostType string `json:"host_type"`
}

// FacetDocument describes a facet instance
type FacetDocument struct {
	Name      string           `json:"name"`
	Class     string           `json:"class"`
	Fields    []FieldDocument  `json:"fields,omitempty"`
	Columns   []ColumnDocument `json:"columns,omitempty"`
	Methods   []string         `json:"methods,omitempty"`
	DependsOn []string         `json:"depends_on,omitempty"`
}

// NewDocument builds the export of d. Entities keep resolution order.
func NewDocument(d *project.Design) *Document {
	doc := &Document{BuildID: d.BuildID(), Modules: []ModuleDocument{}}
	order := d.EntityOrder()

	for _, m := range d.Modules() {
		md := ModuleDocument{Path: m.Path()}
		for _, c := range d.Categories() {
			if c.Base().Module().Same(m) {
				md.Categories = append(md.Categories, categoryDocument(c))
			}
		}
		for _, e := range order {
			if e.Module().Same(m) {
				md.Entities = append(md.Entities, entityDocument(d, e))
			}
		}
		if len(md.Categories) > 0 || len(md.Entities) > 0 {
			doc.Modules = append(doc.Modules, md)
		}
	}
	return doc
}

// JSON prints the design as an indented JSON document
func JSON(d *project.Design, sink Sink) error {
	data, err := json.MarshalIndent(NewDocument(d), "", "  ")
	if err != nil {
		return err
	}
	p := &printer{sink: sink}
	for _, line := range strings.Split(string(data), "\n") {
		p.line(0, "%s", line)
	}
	return p.err
}

func categoryDocument(c choice.Domain) CategoryDocument {
	base := c.Base()
	cd := CategoryDocument{
		Name:      base.Name(),
		Kind:      c.Kind().String(),
		KeyLength: base.KeyLength(),
		Values:    make([]ValueDocument, 0, len(base.Values())),
	}

	tc, _ := c.(*choice.TransitionCategory)
	for _, v := range base.Values() {
		vd := ValueDocument{Code: v.Code(), Label: v.Label()}
		if n, ok := v.PseudoNumber(); ok && base.IsPseudoNumber() {
			vd.PseudoNumber = &n
		}
		if tc != nil {
			vd.Default = tc.Default() == v
			vd.Working = tc.DefaultWorking() == v
			vd.Final = tc.IsFinal(v)
			vd.DefaultFinal = tc.DefaultFinal() == v
		}
		cd.Values = append(cd.Values, vd)
	}
	if tc != nil {
		cd.AllAuthorized = tc.AllTransitionsAuthorized()
		for _, e := range tc.Edges() {
			cd.Transitions = append(cd.Transitions, TransitionDocument{From: e.From.Code(), To: e.To.Code()})
		}
	}
	return cd
}

func entityDocument(d *project.Design, e *entity.Entity) EntityDocument {
	ed := EntityDocument{Name: e.Name(), Label: e.Label(), Facets: []FacetDocument{}}
	for _, f := range e.Fields() {
		if f.Owner() == element.Named(e) {
			ed.Fields = append(ed.Fields, fieldDocument(f))
		}
	}
	for _, f := range e.Facets() {
		ed.Facets = append(ed.Facets, facetDocument(d, f))
	}
	return ed
}

func fieldDocument(f field.Field) FieldDocument {
	fd := FieldDocument{
		Name:     f.Name(),
		Kind:     f.Kind().String(),
		Label:    f.Label(),
		Priority: f.Priority(),
		Columns:  columns(f.StoredValues(), f.Name()),
	}
	if f.IndexClass() != field.IndexNone {
		fd.Index = f.IndexClass().String()
	}
	return fd
}

func facetDocument(d *project.Design, f facet.Facet) FacetDocument {
	prop := f.Shared()
	fd := FacetDocument{Name: prop.Name(), Class: prop.ClassName()}
	for _, fld := range prop.Fields() {
		fd.Fields = append(fd.Fields, fieldDocument(fld))
	}
	if values := prop.StoredValues(); len(values) > 0 {
		fd.Columns = columns(values, "")
	}
	for _, m := range prop.Methods() {
		fd.Methods = append(fd.Methods, signature(m))
	}
	if id, ok := d.FacetID(f); ok {
		g := d.Graph()
		for _, dep := range g.Dependencies(id) {
			fd.DependsOn = append(fd.DependsOn, g.Label(dep))
		}
	}
	return fd
}

func columns(values []*storage.StoredValue, base string) []ColumnDocument {
	out := make([]ColumnDocument, 0, len(values))
	for _, v := range values {
		out = append(out, ColumnDocument{Name: v.ColumnName(base), SQLType: v.SQLType(), HostType: v.HostType()})
	}
	return out
}
