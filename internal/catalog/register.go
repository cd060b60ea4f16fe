package catalog

import (
	"fmt"

	caterrors "git.home.luguber.info/inful/docatlas/internal/catalog/errors"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/outpath"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

const indexPage = "index" + resourceid.DefaultPageExtension

// AddComponentVersion registers a version of a component with its title and
// start page. A version created implicitly by AddFile is upgraded in place;
// registering the same version twice is an error. An explicit startPage
// must resolve to a page in the catalog.
func (c *Catalog) AddComponentVersion(name, version, title, startPage string) (*ComponentVersion, error) {
	if err := c.checkMutable("add component version"); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ferrors.WrapError(caterrors.ErrMissingComponentName, ferrors.CategoryConfig, "component descriptor has no name").
			WithContext("version", version).
			Fatal().
			Build()
	}
	if version == "" {
		return nil, ferrors.WrapError(caterrors.ErrMissingComponentVersion, ferrors.CategoryConfig, "component descriptor has no version").
			WithContext("component", name).
			Fatal().
			Build()
	}

	cv := c.ensureVersion(name, version)
	if cv.registered {
		return nil, ferrors.WrapError(caterrors.ErrDuplicateComponentVersion, ferrors.CategoryAlreadyExists,
			fmt.Sprintf("version %s of component %s is registered twice", version, name)).
			WithContext("component", name).
			WithContext("version", version).
			Fatal().
			Build()
	}

	start, err := c.componentStartPage(name, version, startPage)
	if err != nil {
		return nil, err
	}

	cv.registered = true
	cv.Title = title
	if cv.Title == "" {
		cv.Title = name
	}
	if start != nil {
		cv.URL = start.URL()
		cv.StartPage = start.Key()
	} else {
		cv.URL = c.syntheticStartURL(name, version)
		cv.StartPage = ""
	}
	return cv, nil
}

// componentStartPage returns the explicit start page, the ROOT index page,
// or nil when neither exists and a synthetic URL is used.
func (c *Catalog) componentStartPage(name, version, spec string) (*File, error) {
	ctx := &resourceid.Coordinates{Component: name, Version: version, Module: resourceid.RootModule}
	if spec == "" {
		return c.GetByID(resourceid.Coordinates{
			Component: name,
			Version:   version,
			Module:    resourceid.RootModule,
			Family:    resourceid.FamilyPage,
			Relative:  indexPage,
		}), nil
	}
	return c.lookupPage(spec, ctx)
}

// lookupPage resolves a start page spec; every miss is ErrStartPageNotFound.
func (c *Catalog) lookupPage(spec string, ctx *resourceid.Coordinates) (*File, error) {
	notFound := func(cause error) error {
		b := ferrors.WrapError(caterrors.ErrStartPageNotFound, ferrors.CategoryNotFound, fmt.Sprintf("start page %q not found", spec)).
			WithSpec(spec).
			Fatal()
		if cause != nil {
			b = b.WithContext("cause", cause.Error())
		}
		return b.Build()
	}

	id, err := resourceid.Parse(spec, ctx, resourceid.WithPermittedFamilies(resourceid.FamilyPage))
	if err != nil {
		return nil, notFound(err)
	}
	if id.Family == resourceid.FamilyNone || id.Component == "" {
		return nil, notFound(nil)
	}
	coords := id.Coordinates
	if coords.Version == "" {
		comp := c.components[coords.Component]
		if comp == nil || comp.Latest() == nil {
			return nil, notFound(nil)
		}
		coords.Version = comp.Latest().Version
		if ctx != nil && coords.Component == ctx.Component {
			coords.Version = ctx.Version
		}
	}
	if coords.Module == "" {
		coords.Module = resourceid.RootModule
	}

	f := c.GetByID(coords)
	if f == nil {
		return nil, notFound(nil)
	}
	return f, nil
}

func (c *Catalog) syntheticStartURL(name, version string) string {
	src := outpath.Source{
		Coordinates: resourceid.Coordinates{
			Component: name,
			Version:   version,
			Module:    resourceid.RootModule,
			Family:    resourceid.FamilyPage,
			Relative:  indexPage,
		},
		MediaType: "text/asciidoc",
	}
	pub := outpath.ResolvePub(src, outpath.ResolveOut(src, c.opts.HTMLExtensionStyle), c.opts.HTMLExtensionStyle, c.opts.SiteURL)
	return pub.URL
}

// RegisterPageAlias registers spec as an alias of target. Spec is read
// as a page ID in the context of target; a missing version means the
// latest version of the named component.
func (c *Catalog) RegisterPageAlias(spec string, target *File) (*File, error) {
	if err := c.checkMutable("register page alias"); err != nil {
		return nil, err
	}

	ctx := target.Src.Coordinates
	id, err := resourceid.Parse(spec, &ctx, resourceid.WithPermittedFamilies(resourceid.FamilyPage))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategorySyntax, fmt.Sprintf("invalid page ID %q in page-aliases of %s", spec, target.Path)).
			WithSpec(spec).
			Build()
	}
	if id.Family == resourceid.FamilyNone {
		return nil, ferrors.WrapError(resourceid.ErrInvalidSyntax, ferrors.CategorySyntax, fmt.Sprintf("page alias %q must name a page", spec)).
			WithSpec(spec).
			Build()
	}

	coords := id.Coordinates
	if coords.Version == "" {
		comp := c.components[coords.Component]
		if comp == nil || comp.Latest() == nil {
			return nil, ferrors.WrapError(caterrors.ErrUnknownAliasComponent, ferrors.CategoryCatalog,
				fmt.Sprintf("page alias %q names unknown component %s and no version", spec, coords.Component)).
				WithSpec(spec).
				WithContext("target", target.Src.String()).
				Fatal().
				Build()
		}
		coords.Version = comp.Latest().Version
	}

	if coords == target.Src.Coordinates {
		return nil, ferrors.WrapError(caterrors.ErrSelfReferencingAlias, ferrors.CategoryCatalog,
			fmt.Sprintf("page alias %q of %s refers to the page itself", spec, target.Src.String())).
			WithSpec(spec).
			Fatal().
			Build()
	}
	if existing := c.GetByID(coords); existing != nil {
		return nil, ferrors.WrapError(caterrors.ErrAliasConflict, ferrors.CategoryCatalog,
			fmt.Sprintf("page alias %q of %s collides with page %s", spec, target.Src.String(), existing.Path)).
			WithSpec(spec).
			Fatal().
			Build()
	}

	aliasCoords := coords.WithFamily(resourceid.FamilyAlias)
	if existing := c.GetByID(aliasCoords); existing != nil {
		other := c.AliasTarget(existing)
		otherName := existing.Rel
		if other != nil {
			otherName = other.Src.String()
		}
		return nil, ferrors.WrapError(caterrors.ErrDuplicateAlias, ferrors.CategoryCatalog,
			fmt.Sprintf("page alias %q of %s is already an alias of %s", spec, target.Src.String(), otherName)).
			WithSpec(spec).
			Fatal().
			Build()
	}

	return c.addAlias(aliasCoords, target)
}

// RegisterSiteStartPage resolves spec to a page and registers an alias for
// it at the site root.
func (c *Catalog) RegisterSiteStartPage(spec string) (*File, error) {
	if err := c.checkMutable("register site start page"); err != nil {
		return nil, err
	}
	target, err := c.lookupPage(spec, nil)
	if err != nil {
		return nil, err
	}
	return c.addAlias(resourceid.Coordinates{Family: resourceid.FamilyAlias, Relative: indexPage}, target)
}

func (c *Catalog) addAlias(coords resourceid.Coordinates, target *File) (*File, error) {
	alias := &File{
		Path:   target.Path,
		Src:    Src{Coordinates: coords, MediaType: target.Src.MediaType},
		Rel:    target.Key(),
		Origin: target.Origin,
	}
	return c.AddFile(alias)
}
