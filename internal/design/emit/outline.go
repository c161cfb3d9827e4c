package emit

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/entity"
	"github.com/conduit-lang/modeler/internal/design/facet"
	"github.com/conduit-lang/modeler/internal/design/field"
	"github.com/conduit-lang/modeler/internal/design/project"
	"github.com/conduit-lang/modeler/internal/design/storage"
)

// Outline prints a human-readable description of the design grouped by module.
// Entities appear in resolution order, dependencies first.
func Outline(d *project.Design, sink Sink) error {
	p := &printer{sink: sink}
	order := d.EntityOrder()

	for _, m := range d.Modules() {
		var categories []choice.Domain
		for _, c := range d.Categories() {
			if c.Base().Module().Same(m) {
				categories = append(categories, c)
			}
		}
		var entities []*entity.Entity
		for _, e := range order {
			if e.Module().Same(m) {
				entities = append(entities, e)
			}
		}
		if len(categories) == 0 && len(entities) == 0 {
			continue
		}

		p.line(0, "module %s", m.Path())
		for _, c := range categories {
			outlineCategory(p, c)
		}
		for _, e := range entities {
			outlineEntity(p, d, e)
		}
	}
	return p.err
}

func outlineCategory(p *printer, c choice.Domain) {
	base := c.Base()
	p.line(1, "category %s (%s, key %d)", base.Name(), c.Kind(), base.KeyLength())

	tc, _ := c.(*choice.TransitionCategory)
	for _, v := range base.Values() {
		var marks []string
		if n, ok := v.PseudoNumber(); ok && base.IsPseudoNumber() {
			marks = append(marks, fmt.Sprintf("#%d", n))
		}
		if tc != nil {
			marks = append(marks, stateMarks(tc, v)...)
		}
		p.line(2, "%s %q%s", v.Code(), v.Label(), bracket(marks))
	}
	if tc == nil {
		return
	}
	if tc.AllTransitionsAuthorized() {
		p.line(2, "all transitions authorized")
	}
	for _, edge := range tc.Edges() {
		p.line(2, "%s -> %s", edge.From.Code(), edge.To.Code())
	}
}

func stateMarks(tc *choice.TransitionCategory, v *choice.Value) []string {
	var marks []string
	if tc.Default() == v {
		marks = append(marks, "default")
	}
	if tc.DefaultWorking() == v {
		marks = append(marks, "working")
	}
	if tc.DefaultFinal() == v {
		marks = append(marks, "default final")
	} else if tc.IsFinal(v) {
		marks = append(marks, "final")
	}
	return marks
}

func outlineEntity(p *printer, d *project.Design, e *entity.Entity) {
	p.line(1, "entity %s %q", e.Name(), e.Label())
	for _, f := range e.Fields() {
		if f.Owner() == element.Named(e) {
			outlineField(p, f, 2)
		}
	}
	for _, f := range e.Facets() {
		outlineFacet(p, d, f)
	}
}

func outlineField(p *printer, f field.Field, indent int) {
	var marks []string
	if f.IndexClass() != field.IndexNone {
		marks = append(marks, "index "+f.IndexClass().String())
	}
	if f.Priority() != 0 {
		marks = append(marks, fmt.Sprintf("priority %d", f.Priority()))
	}
	if f.InTitle() {
		marks = append(marks, "title")
	}
	if f.InBottomNotes() {
		marks = append(marks, "bottom notes")
	}
	if f.HiddenInEdit() {
		marks = append(marks, "hidden")
	}
	for _, t := range f.Triggers() {
		marks = append(marks, "on "+t.String())
	}
	p.line(indent, "field %s %s %q%s", f.Name(), f.Kind(), f.Label(), bracket(marks))
	for _, v := range f.StoredValues() {
		outlineValue(p, v, f.Name(), indent+1)
	}
	if w := f.SearchWidget(); w != nil {
		p.line(indent+1, "search %s", w.Kind)
	}
}

func outlineValue(p *printer, v *storage.StoredValue, base string, indent int) {
	p.line(indent, "column %s %s (%s)", v.ColumnName(base), v.SQLType(), v.HostType())
}

func outlineFacet(p *printer, d *project.Design, f facet.Facet) {
	prop := f.Shared()
	if prop.Name() == prop.ClassName() {
		p.line(2, "facet %s", prop.Name())
	} else {
		p.line(2, "facet %s (%s)", prop.Name(), prop.ClassName())
	}

	for _, fld := range prop.Fields() {
		outlineField(p, fld, 3)
	}
	for _, v := range prop.StoredValues() {
		outlineValue(p, v, "", 3)
	}
	for _, idx := range prop.Indexes() {
		cols := make([]string, 0, len(idx.Values()))
		for _, v := range idx.Values() {
			cols = append(cols, v.ColumnName(""))
		}
		unique := ""
		if idx.Unique() {
			unique = " unique"
		}
		p.line(3, "index %s%s (%s)", idx.Name(), unique, strings.Join(cols, ", "))
	}
	for _, m := range prop.Methods() {
		p.line(3, "method %s", signature(m))
	}
	for _, r := range prop.Rules() {
		p.line(3, "rule %s: %s", r.Name, r.Description)
	}
	for _, g := range prop.Generics() {
		target := g.Entity
		if g.Facet != "" {
			target += "." + g.Facet
		}
		p.line(3, "generic %s = %s", g.Key, target)
	}
	for _, key := range prop.ChoiceKeys() {
		c, _ := prop.ChoiceGeneric(key)
		p.line(3, "generic %s = category %s", key, c.Base().Name())
	}
	if id, ok := d.FacetID(f); ok {
		g := d.Graph()
		for _, dep := range g.Dependencies(id) {
			p.line(3, "depends on %s", g.Label(dep))
		}
	}
}

func signature(m *facet.DataAccessMethod) string {
	args := make([]string, 0, len(m.Inputs()))
	for _, a := range m.SignatureArguments() {
		args = append(args, argument(a))
	}
	s := fmt.Sprintf("%s(%s)", m.Name(), strings.Join(args, ", "))
	if out := m.Output(); out != nil {
		s += " " + argument(out)
	}

	var marks []string
	if m.IsCallableWithoutInstance() {
		marks = append(marks, "static")
	} else {
		marks = append(marks, "on "+m.ImplicitReceiver().Name)
	}
	if m.IsMassive() {
		marks = append(marks, "massive")
	}
	if m.AcceptsQueryCondition() {
		marks = append(marks, "query")
	}
	if m.NeedsPropertyExtractor() {
		marks = append(marks, "extractor")
	}
	return s + bracket(marks)
}

func argument(a *facet.Argument) string {
	t := a.Kind.String()
	switch a.Kind {
	case facet.ArgEntityRef, facet.ArgObject:
		t += "<" + a.Entity + ">"
	case facet.ArgChoice:
		t += "<" + a.Category + ">"
	}
	if a.Array {
		t = "[]" + t
	}
	return a.Name + " " + t
}

func bracket(marks []string) string {
	if len(marks) == 0 {
		return ""
	}
	return " [" + strings.Join(marks, ", ") + "]"
}
