// Package project links a whole design. A Builder accumulates modules,
// choice categories and entities declared in any order; Finalize attaches
// nothing new but runs every facet's final settings, builds the dependency
// graph over arena handles, and returns the resolved Design or the first fault.
package project

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/entity"
)

// EntityID is the arena handle of an entity
type EntityID int

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger, zap.NewNop() by default
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithReverseOrder visits entities and facets in reverse registration order
// during final settings
func WithReverseOrder(reverse bool) Option {
	return func(b *Builder) { b.reverse = reverse }
}

// Builder collects the declarations of one design.
type Builder struct {
	logger  *zap.Logger
	reverse bool
	phase   element.Phase

	modules    []*element.Module
	byModule   map[string]int
	categories []choice.Domain
	entities   []*entity.Entity
}

// NewBuilder creates an empty builder in the Constructing phase
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger:   zap.NewNop(),
		phase:    element.Constructing,
		byModule: make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Phase returns the build phase of the design
func (b *Builder) Phase() element.Phase { return b.phase }

// Module returns the module with the given path, declaring it on first use
func (b *Builder) Module(path string) (*element.Module, error) {
	if i, ok := b.byModule[path]; ok {
		return b.modules[i], nil
	}
	if err := b.phase.Require("declare module "+path, element.Constructing); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, derrors.NewInvalidArgument("declare module", "path is empty")
	}
	m := element.NewModule(path)
	b.byModule[path] = len(b.modules)
	b.modules = append(b.modules, m)
	return m, nil
}

// AddCategory registers a choice category under its name
func (b *Builder) AddCategory(c choice.Domain) error {
	if c == nil {
		return derrors.NewInvalidArgument("add category", "category is nil")
	}
	name := c.Base().Name()
	if err := b.phase.Require("add category "+name, element.Constructing); err != nil {
		return err
	}
	if _, ok := b.Category(name); ok {
		return derrors.NewDuplicateName("category", name, "design")
	}
	b.categories = append(b.categories, c)
	c.Base().OnRename(func(name string) error {
		if _, ok := b.Category(name); ok {
			return derrors.NewDuplicateName("category", name, "design")
		}
		return nil
	})
	b.logger.Debug("category registered", zap.String("category", name), zap.Stringer("kind", c.Kind()))
	return nil
}

// Category returns the category registered under name
func (b *Builder) Category(name string) (choice.Domain, bool) {
	for _, c := range b.categories {
		if c.Base().Name() == name {
			return c, true
		}
	}
	return nil, false
}

// AddEntity registers an entity and returns its handle. Entities may reference
// entities registered later.
func (b *Builder) AddEntity(e *entity.Entity) (EntityID, error) {
	if e == nil {
		return -1, derrors.NewInvalidArgument("add entity", "entity is nil")
	}
	if err := b.phase.Require("add entity "+e.Name(), element.Constructing); err != nil {
		return -1, err
	}
	if _, ok := b.Entity(e.Name()); ok {
		return -1, derrors.NewDuplicateName("entity", e.Name(), "design").WithEntity(e.Name())
	}
	id := EntityID(len(b.entities))
	b.entities = append(b.entities, e)
	e.OnRename(func(name string) error {
		if _, ok := b.Entity(name); ok {
			return derrors.NewDuplicateName("entity", name, "design").WithEntity(name)
		}
		return nil
	})
	b.logger.Debug("entity registered", zap.String("entity", e.Name()), zap.Int("handle", int(id)))
	return id, nil
}

// Entity returns the entity registered under name
func (b *Builder) Entity(name string) (*entity.Entity, bool) {
	for _, e := range b.entities {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

// Finalize links the design. It returns the resolved design, or the first
// fault and no design. A builder is finalized at most once.
func (b *Builder) Finalize() (*Design, error) {
	if err := b.phase.Require("finalize design", element.Constructing); err != nil {
		return nil, err
	}
	buildID := uuid.New().String()
	log := b.logger.With(zap.String("build_id", buildID))

	b.phase = element.Linking
	for _, c := range b.categories {
		c.Base().Seal()
	}
	log.Info("linking design",
		zap.Int("modules", len(b.modules)),
		zap.Int("categories", len(b.categories)),
		zap.Int("entities", len(b.entities)),
		zap.Bool("reverse_order", b.reverse),
	)

	for _, e := range b.entities {
		if err := e.StartLinking(); err != nil {
			return nil, b.fail(log, err)
		}
	}

	r := &resolver{builder: b}
	for _, id := range b.visitOrder() {
		e := b.entities[id]
		if err := e.FinalSettings(r, b.reverse); err != nil {
			return nil, b.fail(log, err)
		}
		log.Debug("entity resolved", zap.String("entity", e.Name()), zap.Int("facets", len(e.Facets())))
	}

	d := newDesign(buildID, b)
	for _, cycle := range d.graph.Analyze().CircularDeps {
		log.Warn("facet dependency cycle", zap.Strings("cycle", cycle))
	}

	b.phase = element.Resolved
	log.Info("design resolved",
		zap.Int("facets", d.graph.Len()),
		zap.Int("dependencies", d.graph.EdgeCount()),
	)
	return d, nil
}

func (b *Builder) visitOrder() []EntityID {
	order := make([]EntityID, len(b.entities))
	for i := range b.entities {
		if b.reverse {
			order[i] = EntityID(len(b.entities) - 1 - i)
		} else {
			order[i] = EntityID(i)
		}
	}
	return order
}

func (b *Builder) fail(log *zap.Logger, err error) error {
	log.Error("link failed", zap.Error(err))
	return err
}
