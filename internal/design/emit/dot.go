package emit

import (
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/project"
)

// TransitionGraph prints the state machine of a transition category in
// Graphviz DOT. The default state is bold, final states are double circles.
func TransitionGraph(c *choice.TransitionCategory, sink Sink) error {
	p := &printer{sink: sink}
	p.line(0, "digraph %s {", quote(c.Name()))
	p.line(1, "rankdir=LR;")
	p.line(1, "node [shape=circle];")

	for _, v := range c.Values() {
		attrs := "label=" + quote(v.Label())
		if c.IsFinal(v) {
			attrs += ", shape=doublecircle"
		}
		if c.Default() == v {
			attrs += ", style=bold"
		}
		p.line(1, "%s [%s];", quote(v.Code()), attrs)
	}
	for _, e := range c.Edges() {
		p.line(1, "%s -> %s;", quote(e.From.Code()), quote(e.To.Code()))
	}
	if c.AllTransitionsAuthorized() {
		p.line(1, "label=%s;", quote("all transitions authorized"))
	}
	p.line(0, "}")
	return p.err
}

// DependencyGraph prints the facet dependency graph in Graphviz DOT, one
// cluster per entity
func DependencyGraph(d *project.Design, sink Sink) error {
	p := &printer{sink: sink}
	g := d.Graph()
	p.line(0, "digraph design {")
	p.line(1, "node [shape=box];")

	for i, e := range d.Entities() {
		p.line(1, "subgraph cluster_%d {", i)
		p.line(2, "label=%s;", quote(e.Name()))
		for _, f := range e.Facets() {
			if id, ok := d.FacetID(f); ok {
				p.line(2, "%s [label=%s];", quote(g.Label(id)), quote(f.Name()))
			}
		}
		p.line(1, "}")
	}
	for node := 0; node < g.Len(); node++ {
		id := project.FacetID(node)
		for _, dep := range g.Dependencies(id) {
			p.line(1, "%s -> %s;", quote(g.Label(id)), quote(g.Label(dep)))
		}
	}
	p.line(0, "}")
	return p.err
}

// quote renders a DOT string literal
func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			out = append(out, '\\', s[i])
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, s[i])
		}
	}
	return string(append(out, '"'))
}
