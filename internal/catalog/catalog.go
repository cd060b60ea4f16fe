// Package catalog holds every classified file of a site generation run,
// addressed by coordinates, together with the components and versions they
// belong to.
package catalog

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	caterrors "git.home.luguber.info/inful/docatlas/internal/catalog/errors"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/outpath"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// Options control how out and pub descriptors are computed.
type Options struct {
	HTMLExtensionStyle outpath.HTMLExtensionStyle
	SiteURL            string
}

// Query filters files by source fields; empty fields match anything.
type Query struct {
	Component string
	Version   string
	Module    string
	Family    resourceid.Family
	Relative  string
	Basename  string
}

// Reader is the read-only view of a frozen catalog.
type Reader interface {
	GetByID(c resourceid.Coordinates) *File
	GetByPath(component, version, path string) *File
	FindBy(q Query) []*File
	GetComponent(name string) *Component
	GetComponents() []*Component
	GetFiles() []*File
	AliasTarget(alias *File) *File
	Options() Options
}

type pathKey struct {
	component, version, path string
}

// Catalog is the mutable content catalog. Populate it sequentially, then
// Freeze it before handing it to rendering stages.
type Catalog struct {
	opts       Options
	files      []*File
	byKey      map[string]*File
	byPath     map[pathKey]*File
	components map[string]*Component
	frozen     bool
}

// New creates an empty catalog.
func New(opts Options) *Catalog {
	if opts.HTMLExtensionStyle == "" {
		opts.HTMLExtensionStyle = outpath.StyleDefault
	}
	return &Catalog{
		opts:       opts,
		byKey:      make(map[string]*File),
		byPath:     make(map[pathKey]*File),
		components: make(map[string]*Component),
	}
}

// Options returns the options the catalog was created with.
func (c *Catalog) Options() Options { return c.opts }

// Freeze makes the catalog read-only and returns its read view.
func (c *Catalog) Freeze() Reader {
	c.frozen = true
	return c
}

// Frozen reports whether Freeze has been called.
func (c *Catalog) Frozen() bool { return c.frozen }

func (c *Catalog) checkMutable(op string) error {
	if !c.frozen {
		return nil
	}
	return ferrors.WrapError(caterrors.ErrCatalogFrozen, ferrors.CategoryInternal, op+" after freeze").
		WithContext("operation", op).
		Build()
}

// AddFile stores f under its coordinate key, computing out and pub when they
// are not set. Components and versions are created on first use.
func (c *Catalog) AddFile(f *File) (*File, error) {
	if err := c.checkMutable("add file"); err != nil {
		return nil, err
	}
	if err := f.Src.Validate(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid file coordinates").
			WithPath(f.Path).
			Build()
	}

	key := f.Src.Key()
	if existing, ok := c.byKey[key]; ok {
		return nil, ferrors.WrapError(caterrors.ErrDuplicateResource, ferrors.CategoryAlreadyExists,
			fmt.Sprintf("%s is provided by both %s and %s", f.Src.String(), existing.Path, f.Path)).
			WithKey(key).
			WithPath(f.Path).
			Fatal().
			Build()
	}

	f.Src.fillDerived()
	if f.Out == nil {
		f.Out = outpath.ResolveOut(f.Src.outSource(), c.opts.HTMLExtensionStyle)
	}
	if f.Pub == nil {
		f.Pub = outpath.ResolvePub(f.Src.outSource(), f.Out, c.opts.HTMLExtensionStyle, c.opts.SiteURL)
	}

	if f.Src.Family != resourceid.FamilyAlias {
		c.ensureVersion(f.Src.Component, f.Src.Version)
		if f.Path != "" {
			c.byPath[pathKey{f.Src.Component, f.Src.Version, f.Path}] = f
		}
	}
	c.byKey[key] = f
	c.files = append(c.files, f)
	return f, nil
}

// GetByID returns the file at exactly the given coordinates, or nil.
func (c *Catalog) GetByID(coords resourceid.Coordinates) *File {
	return c.byKey[coords.Key()]
}

// GetByPath returns the file with the given physical path in a component version, or nil.
func (c *Catalog) GetByPath(component, version, path string) *File {
	return c.byPath[pathKey{component, version, path}]
}

// FindBy returns all files matching q in insertion order.
func (c *Catalog) FindBy(q Query) []*File {
	var out []*File
	for _, f := range c.files {
		if q.matches(&f.Src) {
			out = append(out, f)
		}
	}
	return out
}

func (q Query) matches(s *Src) bool {
	return match(q.Component, s.Component) &&
		match(q.Version, s.Version) &&
		match(q.Module, s.Module) &&
		match(string(q.Family), string(s.Family)) &&
		match(q.Relative, s.Relative) &&
		match(q.Basename, s.Basename)
}

func match(want, got string) bool {
	return want == "" || want == got
}

// GetFiles returns every file in insertion order.
func (c *Catalog) GetFiles() []*File {
	return slices.Clone(c.files)
}

// GetComponent returns the named component or nil.
func (c *Catalog) GetComponent(name string) *Component {
	return c.components[name]
}

// GetComponents returns all components sorted by name.
func (c *Catalog) GetComponents() []*Component {
	comps := slices.Collect(maps.Values(c.components))
	slices.SortFunc(comps, func(a, b *Component) int { return cmp.Compare(a.Name, b.Name) })
	return comps
}

// AliasTarget returns the file an alias points at, or nil.
func (c *Catalog) AliasTarget(alias *File) *File {
	if alias == nil || alias.Rel == "" {
		return nil
	}
	return c.byKey[alias.Rel]
}

func (c *Catalog) ensureVersion(name, version string) *ComponentVersion {
	comp, ok := c.components[name]
	if !ok {
		comp = &Component{Name: name}
		c.components[name] = comp
	}
	if cv := comp.Version(version); cv != nil {
		return cv
	}
	cv := &ComponentVersion{Version: version, Title: name, URL: c.syntheticStartURL(name, version)}
	comp.insert(cv)
	return cv
}
