// Package classifier maps aggregated file paths to resource coordinates and
// populates the content catalog from component version groups.
package classifier

import (
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

const (
	modulesDir     = "modules"
	pagesDir       = "pages"
	partialsDir    = "_partials"
	assetsDir      = "assets"
	imagesDir      = "images"
	attachmentsDir = "attachments"
	examplesDir    = "examples"
	attributesFile = "_attributes.adoc"
)

// Classification is the part of a file's coordinates that follows from its
// path. Component and version come from the group the file belongs to.
type Classification struct {
	Module         string
	Family         resourceid.Family
	Relative       string
	MediaType      string
	ModuleRootPath string
	// NavIndex is the position of a navigation file in the nav list, or -1.
	NavIndex int
}

// Classify returns the classification of the file at p, a path relative to
// the component root, or false when the file is not part of the content
// structure. nav is the ordered navigation file list of the component.
func Classify(p string, nav []string) (*Classification, bool) {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	segs := strings.Split(p, "/")
	mediaType := MediaType(p)

	if i := slices.Index(nav, p); i >= 0 {
		c := &Classification{
			Module:         resourceid.RootModule,
			Family:         resourceid.FamilyNavigation,
			Relative:       p,
			MediaType:      mediaType,
			ModuleRootPath: ".",
			NavIndex:       i,
		}
		if len(segs) > 2 && segs[0] == modulesDir {
			c.Module = segs[1]
			c.Relative = strings.Join(segs[2:], "/")
			c.ModuleRootPath = moduleRootPath(len(segs) - 3)
		}
		return c, true
	}

	if len(segs) < 4 || segs[0] != modulesDir || segs[1] == "" {
		return nil, false
	}
	base := segs[len(segs)-1]
	if strings.HasPrefix(base, ".") || path.Ext(base) == "" {
		return nil, false
	}

	c := &Classification{
		Module:         segs[1],
		MediaType:      mediaType,
		ModuleRootPath: moduleRootPath(len(segs) - 3),
		NavIndex:       -1,
	}
	switch {
	case segs[2] == pagesDir && segs[3] == partialsDir:
		if len(segs) < 5 {
			return nil, false
		}
		c.Family = resourceid.FamilyPartial
		c.Relative = strings.Join(segs[4:], "/")
	case segs[2] == pagesDir:
		if base == attributesFile || !IsPageMarkup(mediaType) {
			return nil, false
		}
		c.Family = resourceid.FamilyPage
		c.Relative = strings.Join(segs[3:], "/")
	case segs[2] == assetsDir && len(segs) > 4 && segs[3] == imagesDir:
		c.Family = resourceid.FamilyImage
		c.Relative = strings.Join(segs[4:], "/")
	case segs[2] == assetsDir && len(segs) > 4 && segs[3] == attachmentsDir:
		c.Family = resourceid.FamilyAttachment
		c.Relative = strings.Join(segs[4:], "/")
	case segs[2] == examplesDir:
		c.Family = resourceid.FamilyExample
		c.Relative = strings.Join(segs[3:], "/")
	default:
		return nil, false
	}
	return c, true
}

// moduleRootPath climbs depth directories.
func moduleRootPath(depth int) string {
	if depth <= 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth), "/")
}
