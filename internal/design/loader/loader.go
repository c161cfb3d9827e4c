// Package loader reads design declarations from YAML and feeds them to a
// project.Builder. Modules, categories and entities may be declared in any
// file and any order; entities may reference entities declared later.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/entity"
	"github.com/conduit-lang/modeler/internal/design/facet"
	"github.com/conduit-lang/modeler/internal/design/field"
	"github.com/conduit-lang/modeler/internal/design/project"
	ustrings "github.com/conduit-lang/modeler/internal/util/strings"
)

// DefaultModule is the module of declarations that name none
const DefaultModule = "main"

const (
	defaultNameLength   = 64
	defaultNumberLength = 16
)

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the logger, zap.NewNop() by default
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithDefaultModule sets the module of declarations that name none
func WithDefaultModule(path string) Option {
	return func(l *Loader) {
		if path != "" {
			l.defaultModule = path
		}
	}
}

// Loader accumulates declarations from any number of sources.
type Loader struct {
	logger        *zap.Logger
	defaultModule string

	sources    []string
	modules    []moduleDecl
	categories []categoryDecl
	entities   []entityDecl
}

// New creates an empty loader
func New(opts ...Option) *Loader {
	l := &Loader{logger: zap.NewNop(), defaultModule: DefaultModule}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Sources returns the names of the loaded sources in load order
func (l *Loader) Sources() []string { return append([]string(nil), l.sources...) }

// LoadGlob loads every file matching the patterns. Files are loaded in
// lexical order; a pattern matching nothing is an error.
func (l *Loader) LoadGlob(patterns ...string) error {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid design pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no design files match %q", pattern)
		}
		sort.Strings(matches)
		for _, path := range matches {
			if err := l.LoadFile(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadFile loads the declarations of one YAML file
func (l *Loader) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read design file: %w", err)
	}
	return l.Load(path, data)
}

// Load decodes a YAML stream of one or more documents. Unknown keys are rejected.
func (l *Loader) Load(source string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	docs := 0
	for {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("%s: failed to parse design: %w", source, err)
		}
		docs++
		l.modules = append(l.modules, doc.Modules...)
		for _, c := range doc.Categories {
			c.source = source
			l.categories = append(l.categories, c)
		}
		for _, e := range doc.Entities {
			e.source = source
			l.entities = append(l.entities, e)
		}
	}

	l.sources = append(l.sources, source)
	l.logger.Debug("design source loaded", zap.String("source", source), zap.Int("documents", docs))
	return nil
}

// Build populates a new builder and finalizes it
func (l *Loader) Build(opts ...project.Option) (*project.Design, error) {
	b := project.NewBuilder(append([]project.Option{project.WithLogger(l.logger)}, opts...)...)
	if err := l.Populate(b); err != nil {
		return nil, err
	}
	d, err := b.Finalize()
	if err != nil {
		return nil, l.locateSource(err)
	}
	return d, nil
}

// locateSource prefixes a link fault with the file declaring its entity
func (l *Loader) locateSource(err error) error {
	var de *derrors.DesignError
	if !errors.As(err, &de) || de.Entity == "" {
		return err
	}
	for _, e := range l.entities {
		if e.Name == de.Entity {
			return fmt.Errorf("%s: %w", e.source, err)
		}
	}
	return err
}

// Populate declares every loaded module, category and entity on b. Categories
// are declared before entities whatever their position in the sources.
func (l *Loader) Populate(b *project.Builder) error {
	declared := map[string]bool{l.defaultModule: true}
	if _, err := b.Module(l.defaultModule); err != nil {
		return err
	}
	for _, m := range l.modules {
		if _, err := b.Module(m.Path); err != nil {
			return err
		}
		declared[m.Path] = true
	}

	p := &populator{loader: l, builder: b, declared: declared}
	for _, c := range l.categories {
		if err := p.category(c); err != nil {
			return fmt.Errorf("%s: %w", c.source, err)
		}
	}
	for _, e := range l.entities {
		if err := p.entity(e); err != nil {
			return fmt.Errorf("%s: %w", e.source, err)
		}
	}

	l.logger.Info("design declared",
		zap.Strings("sources", l.sources),
		zap.Int("categories", len(l.categories)),
		zap.Int("entities", len(l.entities)),
	)
	return nil
}

type populator struct {
	loader   *Loader
	builder  *project.Builder
	declared map[string]bool
}

func (p *populator) module(path string) (*element.Module, error) {
	if path == "" {
		path = p.loader.defaultModule
	}
	if !p.declared[path] {
		names := make([]string, 0, len(p.declared))
		for name := range p.declared {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, derrors.NewUnresolvedModule(path, ustrings.FindSimilar(path, names, nil))
	}
	return p.builder.Module(path)
}

func (p *populator) category(decl categoryDecl) error {
	m, err := p.module(decl.Module)
	if err != nil {
		return err
	}

	switch decl.Kind {
	case "", choice.KindPlain.String():
		if err := transitionOnly(decl); err != nil {
			return err
		}
		c, err := choice.New(decl.Name, m, decl.KeyLength, decl.PseudoNumber)
		if err != nil {
			return err
		}
		if err := addValues(c, decl.Values); err != nil {
			return err
		}
		return p.builder.AddCategory(c)
	case choice.KindTransition.String():
		c, err := choice.NewTransition(decl.Name, m, decl.KeyLength, decl.PseudoNumber)
		if err != nil {
			return err
		}
		if err := addValues(c.Category, decl.Values); err != nil {
			return err
		}
		if err := configureTransitions(c, decl); err != nil {
			return err
		}
		return p.builder.AddCategory(c)
	default:
		return derrors.NewInvalidArgument("declare category "+decl.Name,
			fmt.Sprintf("unknown kind %q", decl.Kind)).
			WithExpected("plain or transition")
	}
}

func transitionOnly(decl categoryDecl) error {
	if len(decl.Transitions) > 0 || decl.Default != "" || decl.DefaultWorking != "" ||
		decl.DefaultFinal != "" || len(decl.Finals) > 0 || decl.AuthorizeAll {
		return derrors.NewInvalidArgument("declare category "+decl.Name,
			"transitions and defaults require kind: transition")
	}
	return nil
}

func addValues(c *choice.Category, decls []valueDecl) error {
	for _, v := range decls {
		value := choice.NewValue(v.Code, v.Label, v.Tooltip)
		if v.PseudoNumber != nil {
			value = value.WithPseudoNumber(*v.PseudoNumber)
		}
		if err := c.AddValue(value); err != nil {
			return err
		}
	}
	return nil
}

// configureTransitions applies edges first so the default working value can
// check its round trip to the default.
func configureTransitions(c *choice.TransitionCategory, decl categoryDecl) error {
	lookup := func(code string) (*choice.Value, error) {
		v := c.Value(code)
		if v == nil {
			return nil, derrors.NewUnregisteredValue(c.Name(), code, "configure transitions")
		}
		return v, nil
	}

	froms := make([]string, 0, len(decl.Transitions))
	for from := range decl.Transitions {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, code := range froms {
		from, err := lookup(code)
		if err != nil {
			return err
		}
		for _, target := range decl.Transitions[code] {
			to, err := lookup(target)
			if err != nil {
				return err
			}
			if err := c.DefineTransition(from, to); err != nil {
				return err
			}
		}
	}

	steps := []struct {
		code string
		set  func(*choice.Value) error
	}{
		{decl.Default, c.SetDefault},
		{decl.DefaultWorking, c.SetDefaultWorking},
		{decl.DefaultFinal, c.SetDefaultFinal},
	}
	for _, step := range steps {
		if step.code == "" {
			continue
		}
		v, err := lookup(step.code)
		if err != nil {
			return err
		}
		if err := step.set(v); err != nil {
			return err
		}
	}
	for _, code := range decl.Finals {
		v, err := lookup(code)
		if err != nil {
			return err
		}
		if err := c.MarkFinal(v); err != nil {
			return err
		}
	}
	if decl.AuthorizeAll {
		return c.AuthorizeAllTransitions()
	}
	return nil
}

func (p *populator) entity(decl entityDecl) error {
	m, err := p.module(decl.Module)
	if err != nil {
		return derrors.Locate(err, decl.Name, "")
	}
	e, err := entity.New(decl.Name, m)
	if err != nil {
		return err
	}
	if decl.Label != "" {
		e.SetLabel(decl.Label)
	}

	for _, fd := range decl.Fields {
		f, err := p.field(fd)
		if err != nil {
			return derrors.Locate(err, decl.Name, "")
		}
		if err := e.AddField(f); err != nil {
			return err
		}
	}
	for _, fd := range decl.Facets {
		f, err := p.facet(fd)
		if err != nil {
			return derrors.Locate(err, decl.Name, instanceName(fd, fd.Class))
		}
		if err := e.AddFacet(f); err != nil {
			return err
		}
	}

	_, err = p.builder.AddEntity(e)
	return err
}

func (p *populator) field(decl fieldDecl) (field.Field, error) {
	class := field.IndexNone
	if decl.Index != "" {
		c, ok := field.ParseIndexClass(decl.Index)
		if !ok {
			return nil, derrors.NewInvalidArgument("declare field "+decl.Name,
				fmt.Sprintf("unknown index class %q", decl.Index)).WithField(decl.Name)
		}
		class = c
	}

	var (
		f   field.Field
		err error
	)
	switch decl.Kind {
	case field.KindString.String():
		f, err = field.NewString(decl.Name, decl.Label, decl.Length, class)
	case field.KindInteger.String():
		f, err = field.NewInteger(decl.Name, decl.Label, class)
	case field.KindDecimal.String():
		f, err = field.NewDecimal(decl.Name, decl.Label, decl.Precision, decl.Scale, class)
	case field.KindTimestamp.String():
		f, err = field.NewTimestamp(decl.Name, decl.Label, class)
	case field.KindChoice.String():
		var c choice.Domain
		c, err = p.categoryByName(decl.Category)
		if err == nil {
			f, err = field.NewChoice(decl.Name, decl.Label, c, class)
		}
	case field.KindLargeBinary.String():
		if class != field.IndexNone {
			return nil, derrors.NewIndexClassNotAllowed(decl.Name, decl.Kind, class.String(), []string{field.IndexNone.String()})
		}
		f, err = field.NewLargeBinary(decl.Name, decl.Label)
	default:
		return nil, derrors.NewInvalidArgument("declare field "+decl.Name,
			fmt.Sprintf("unknown kind %q", decl.Kind)).WithField(decl.Name).
			WithSuggestion("Use one of: string, integer, decimal, timestamp, choice, largebinary")
	}
	if err != nil {
		return nil, derrors.LocateField(err, decl.Name)
	}

	if decl.Priority != 0 {
		if err := f.SetPriority(decl.Priority); err != nil {
			return nil, err
		}
	}
	f.SetInTitle(decl.InTitle)
	f.SetInBottomNotes(decl.InBottomNotes)
	f.SetHiddenInEdit(decl.HiddenInEdit)
	for _, trigger := range decl.Triggers {
		if err := f.AddTrigger(strings.Split(trigger, ".")...); err != nil {
			return nil, derrors.LocateField(err, decl.Name)
		}
	}
	return f, nil
}

func (p *populator) categoryByName(name string) (choice.Domain, error) {
	c, ok := p.builder.Category(name)
	if ok {
		return c, nil
	}
	names := make([]string, 0, len(p.loader.categories))
	for _, decl := range p.loader.categories {
		names = append(names, decl.Name)
	}
	return nil, derrors.NewUnresolvedCategory(name, ustrings.FindSimilar(name, names, nil))
}

func (p *populator) facet(decl facetDecl) (facet.Facet, error) {
	switch decl.Class {
	case facet.ClassStoredObject:
		return facet.NewStoredObject()
	case facet.ClassUniqueIdentified:
		return facet.NewUniqueIdentified()
	case facet.ClassNamed:
		return facet.NewNamed(lengthOr(decl.Length, defaultNameLength))
	case facet.ClassNumbered:
		return facet.NewNumbered(lengthOr(decl.Length, defaultNumberLength))
	case facet.ClassLinkedToParent:
		return facet.NewLinkedToParent(instanceName(decl, decl.Parent+"link"), decl.Parent)
	case facet.ClassLinkObject:
		return facet.NewLinkObject(instanceName(decl, facet.ClassLinkObject), decl.Left, decl.Right)
	case facet.ClassLifecycle:
		c, err := p.categoryByName(decl.Category)
		if err != nil {
			return nil, err
		}
		tc, ok := c.(*choice.TransitionCategory)
		if !ok {
			return nil, derrors.NewInvalidArgument("declare lifecycle",
				"category "+decl.Category+" is not a transition category").
				WithExpected(choice.KindTransition.String()).
				WithActual(c.Kind().String())
		}
		return facet.NewLifecycle(tc)
	default:
		return p.declaredFacet(decl)
	}
}

func lengthOr(length, fallback int) int {
	if length == 0 {
		return fallback
	}
	return length
}

func instanceName(decl facetDecl, fallback string) string {
	if decl.Name != "" {
		return decl.Name
	}
	return fallback
}

// declaredFacet builds a facet of a class this package does not know from its
// fields, rules, generics and dependencies.
func (p *populator) declaredFacet(decl facetDecl) (facet.Facet, error) {
	if decl.Class == "" {
		return nil, derrors.NewInvalidArgument("declare facet", "class is empty")
	}
	f, err := facet.New(decl.Class, instanceName(decl, decl.Class))
	if err != nil {
		return nil, err
	}
	for _, fd := range decl.Fields {
		fld, err := p.field(fd)
		if err != nil {
			return nil, err
		}
		if err := f.AddField(fld); err != nil {
			return nil, err
		}
	}
	for _, r := range decl.Rules {
		if err := f.AddRule(facet.BusinessRule{Name: r.Name, Description: r.Description}); err != nil {
			return nil, err
		}
	}
	for _, dep := range decl.DependsOn {
		entityName, facetName := splitRef(dep)
		if err := f.AddDependency(facet.Ref{Entity: entityName, Facet: facetName}); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(decl.Generics) {
		entityName, facetName := splitGeneric(decl.Generics[key])
		if _, err := f.AddGeneric(key, entityName, facetName); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(decl.Choices) {
		if err := f.AddChoiceRef(key, decl.Choices[key]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// splitRef reads "facet" or "entity.facet"
func splitRef(ref string) (string, string) {
	if i := strings.LastIndex(ref, "."); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

// splitGeneric reads "entity" or "entity.facet"
func splitGeneric(ref string) (string, string) {
	if i := strings.Index(ref, "."); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
