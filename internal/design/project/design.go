package project

import (
	"sort"

	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/entity"
	"github.com/conduit-lang/modeler/internal/design/facet"
)

// slot is an arena cell holding one facet and the handle of its entity
type slot struct {
	entity EntityID
	facet  facet.Facet
}

// Design is a resolved model. It is read-only: emitters query it through accessors.
type Design struct {
	buildID    string
	modules    []*element.Module
	categories []choice.Domain
	entities   []*entity.Entity
	byEntity   map[string]EntityID
	slots      []slot
	byFacet    map[facet.Facet]FacetID
	graph      *Graph
}

func newDesign(buildID string, b *Builder) *Design {
	d := &Design{
		buildID:    buildID,
		modules:    append([]*element.Module(nil), b.modules...),
		categories: append([]choice.Domain(nil), b.categories...),
		entities:   append([]*entity.Entity(nil), b.entities...),
		byEntity:   make(map[string]EntityID, len(b.entities)),
		byFacet:    make(map[facet.Facet]FacetID),
	}
	for i, e := range d.entities {
		d.byEntity[e.Name()] = EntityID(i)
		for _, f := range e.Facets() {
			d.byFacet[f] = FacetID(len(d.slots))
			d.slots = append(d.slots, slot{entity: EntityID(i), facet: f})
		}
	}

	labels := make([]string, len(d.slots))
	for i, s := range d.slots {
		labels[i] = d.entities[s.entity].Name() + "." + s.facet.Name()
	}
	d.graph = newGraph(labels)
	for i, s := range d.slots {
		for _, dep := range s.facet.Shared().ResolvedDependencies() {
			if to, ok := d.byFacet[dep]; ok {
				d.graph.addEdge(FacetID(i), to)
			}
		}
	}
	return d
}

// BuildID returns the identifier of the link run that produced the design
func (d *Design) BuildID() string { return d.buildID }

// Modules returns the declared modules in declaration order
func (d *Design) Modules() []*element.Module { return append([]*element.Module(nil), d.modules...) }

// Categories returns the choice categories in declaration order
func (d *Design) Categories() []choice.Domain {
	return append([]choice.Domain(nil), d.categories...)
}

// Category returns the category called name
func (d *Design) Category(name string) (choice.Domain, bool) {
	for _, c := range d.categories {
		if c.Base().Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Entities returns the entities in registration order
func (d *Design) Entities() []*entity.Entity { return append([]*entity.Entity(nil), d.entities...) }

// Entity returns the entity called name
func (d *Design) Entity(name string) (*entity.Entity, bool) {
	id, ok := d.byEntity[name]
	if !ok {
		return nil, false
	}
	return d.entities[id], true
}

// EntityByID returns the entity behind a handle
func (d *Design) EntityByID(id EntityID) *entity.Entity { return d.entities[id] }

// EntitiesOf returns the entities authored by module
func (d *Design) EntitiesOf(m *element.Module) []*entity.Entity {
	var out []*entity.Entity
	for _, e := range d.entities {
		if e.Module().Same(m) {
			out = append(out, e)
		}
	}
	return out
}

// Facet returns the facet behind a handle
func (d *Design) Facet(id FacetID) facet.Facet { return d.slots[id].facet }

// FacetOwner returns the handle of the entity a facet is attached to
func (d *Design) FacetOwner(id FacetID) EntityID { return d.slots[id].entity }

// FacetID returns the handle of f
func (d *Design) FacetID(f facet.Facet) (FacetID, bool) {
	id, ok := d.byFacet[f]
	return id, ok
}

// Graph returns the facet dependency graph
func (d *Design) Graph() *Graph { return d.graph }

// EntityOrder returns the entities with the entities their facets depend on
// first. Declaration order breaks ties; a cycle is broken at the entity
// declared first.
func (d *Design) EntityOrder() []*entity.Entity {
	n := len(d.entities)
	needs := make([]map[EntityID]bool, n)
	for i := range needs {
		needs[i] = make(map[EntityID]bool)
	}
	for node := 0; node < d.graph.Len(); node++ {
		owner := d.slots[node].entity
		for _, dep := range d.graph.Dependencies(FacetID(node)) {
			if other := d.slots[dep].entity; other != owner {
				needs[owner][other] = true
			}
		}
	}

	done := make([]bool, n)
	out := make([]*entity.Entity, 0, n)
	for len(out) < n {
		next := -1
		for i := 0; i < n && next < 0; i++ {
			if done[i] {
				continue
			}
			ready := true
			for dep := range needs[i] {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				next = i
			}
		}
		if next < 0 {
			for i := 0; i < n; i++ {
				if !done[i] {
					next = i
					break
				}
			}
		}
		done[next] = true
		out = append(out, d.entities[next])
	}
	return out
}

// Stats summarizes the size of a design
type Stats struct {
	Modules              int
	Categories           int
	TransitionCategories int
	ChoiceValues         int
	Entities             int
	Facets               int
	Fields               int
	StoredValues         int
	Indexes              int
	Methods              int
	Dependencies         int
	Cycles               int
	FacetsByClass        map[string]int
}

// Classes returns the facet classes in sorted order
func (s Stats) Classes() []string {
	classes := make([]string, 0, len(s.FacetsByClass))
	for c := range s.FacetsByClass {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// Stats counts the elements of the design
func (d *Design) Stats() Stats {
	s := Stats{
		Modules:       len(d.modules),
		Categories:    len(d.categories),
		Entities:      len(d.entities),
		Facets:        len(d.slots),
		Dependencies:  d.graph.EdgeCount(),
		Cycles:        len(d.graph.DetectCycles()),
		FacetsByClass: make(map[string]int),
	}
	for _, c := range d.categories {
		if c.Kind() == choice.KindTransition {
			s.TransitionCategories++
		}
		s.ChoiceValues += len(c.Base().Values())
	}
	for _, e := range d.entities {
		for _, f := range e.Fields() {
			s.Fields++
			s.StoredValues += len(f.StoredValues())
			if f.Index() != nil {
				s.Indexes++
			}
		}
	}
	for _, sl := range d.slots {
		p := sl.facet.Shared()
		s.FacetsByClass[p.ClassName()]++
		s.StoredValues += len(p.StoredValues())
		s.Indexes += len(p.Indexes())
		s.Methods += len(p.Methods())
	}
	return s
}
