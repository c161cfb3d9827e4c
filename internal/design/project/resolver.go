package project

import (
	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/facet"
	ustrings "github.com/conduit-lang/modeler/internal/util/strings"
)

// resolver is handed to final settings. It only exists while the builder is linking.
type resolver struct {
	builder *Builder
}

var _ facet.Resolver = (*resolver)(nil)

func (r *resolver) Entity(name string) (facet.Aggregate, error) {
	e, ok := r.builder.Entity(name)
	if !ok {
		return nil, derrors.NewUnresolvedEntity(name, ustrings.FindSimilar(name, r.entityNames(), nil))
	}
	return e, nil
}

func (r *resolver) Facet(entity, name string) (facet.Facet, error) {
	e, ok := r.builder.Entity(entity)
	if !ok {
		return nil, derrors.NewUnresolvedEntity(entity, ustrings.FindSimilar(entity, r.entityNames(), nil))
	}
	f, ok := e.FacetByName(name)
	if !ok {
		names := make([]string, 0)
		for _, existing := range e.Facets() {
			names = append(names, existing.Name())
		}
		return nil, derrors.NewUnresolvedFacet(entity, name, ustrings.FindSimilar(name, names, nil))
	}
	return f, nil
}

func (r *resolver) Category(name string) (choice.Domain, error) {
	c, ok := r.builder.Category(name)
	if !ok {
		names := make([]string, 0, len(r.builder.categories))
		for _, existing := range r.builder.categories {
			names = append(names, existing.Base().Name())
		}
		return nil, derrors.NewUnresolvedCategory(name, ustrings.FindSimilar(name, names, nil))
	}
	return c, nil
}

func (r *resolver) entityNames() []string {
	names := make([]string, 0, len(r.builder.entities))
	for _, e := range r.builder.entities {
		names = append(names, e.Name())
	}
	return names
}
