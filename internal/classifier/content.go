package classifier

import (
	"fmt"

	"git.home.luguber.info/inful/docatlas/internal/aggregate"
	"git.home.luguber.info/inful/docatlas/internal/catalog"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/frontmatter"
	"git.home.luguber.info/inful/docatlas/internal/outpath"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// SiteOptions are the site settings that shape the catalog.
type SiteOptions struct {
	HTMLExtensionStyle outpath.HTMLExtensionStyle
	SiteURL            string
	// StartPage is the page ID served at the site root, if any.
	StartPage string

	// OnClassified and OnDropped observe every aggregated file.
	OnClassified func(f *catalog.File)
	OnDropped    func(path string)
}

// ClassifyContent builds a catalog from aggregated groups. Files of all
// groups are classified and added before any version is registered, so a
// start page may name a version aggregated later.
// Page aliases are registered once every version is known, followed by the
// site start page.
func ClassifyContent(groups []aggregate.Group, site SiteOptions) (*catalog.Catalog, error) {
	cat := catalog.New(catalog.Options{HTMLExtensionStyle: site.HTMLExtensionStyle, SiteURL: site.SiteURL})

	var pages []*catalog.File
	for _, g := range groups {
		for _, vf := range g.Files {
			f, err := classifyFile(cat, g, vf)
			if err != nil {
				return nil, err
			}
			if f == nil {
				if site.OnDropped != nil {
					site.OnDropped(vf.Path)
				}
				continue
			}
			if site.OnClassified != nil {
				site.OnClassified(f)
			}
			if f.Src.Family == resourceid.FamilyPage {
				pages = append(pages, f)
			}
		}
	}

	for _, g := range groups {
		if _, err := cat.AddComponentVersion(g.Name, g.Version, g.Title, g.StartPage); err != nil {
			return nil, err
		}
	}

	for _, page := range pages {
		for _, spec := range frontmatter.SplitList(page.Attributes[frontmatter.AliasesAttribute]) {
			if _, err := cat.RegisterPageAlias(spec, page); err != nil {
				return nil, err
			}
		}
	}

	if site.StartPage != "" {
		if _, err := cat.RegisterSiteStartPage(site.StartPage); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// classifyFile adds vf to cat. It returns nil for files outside the content structure.
func classifyFile(cat *catalog.Catalog, g aggregate.Group, vf aggregate.VirtualFile) (*catalog.File, error) {
	c, ok := Classify(vf.Path, g.Nav)
	if !ok {
		return nil, nil
	}

	f := &catalog.File{
		Path:     vf.Path,
		Contents: vf.Contents,
		Src: catalog.Src{
			Coordinates: resourceid.Coordinates{
				Component: g.Name,
				Version:   g.Version,
				Module:    c.Module,
				Family:    c.Family,
				Relative:  c.Relative,
			},
			MediaType:      c.MediaType,
			ModuleRootPath: c.ModuleRootPath,
		},
		Origin: vf.Origin.String(),
	}
	if c.NavIndex >= 0 {
		f.Nav = &catalog.Nav{Index: c.NavIndex}
	}
	if c.Family == resourceid.FamilyPage {
		page, err := frontmatter.PageAttributes(c.MediaType, vf.Contents)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryValidation, fmt.Sprintf("invalid page header in %s", vf.Path)).
				WithContext("component", g.Name).
				WithContext("version", g.Version).
				WithContext("origin", f.Origin).
				Fatal().
				Build()
		}
		f.Attributes = page.Attributes
		if page.Title != "" {
			f.Attributes[frontmatter.TitleAttribute] = page.Title
		}
	}
	return cat.AddFile(f)
}
