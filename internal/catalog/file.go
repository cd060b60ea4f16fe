package catalog

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/docatlas/internal/outpath"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// Src is the source descriptor of a file: its coordinates plus fields
// derived from the relative path.
type Src struct {
	resourceid.Coordinates
	Basename  string
	Stem      string
	Extname   string
	MediaType string
	// ModuleRootPath leads from the file's source directory back to its module directory.
	ModuleRootPath string
}

// Nav carries the position of a navigation file in its component's nav list.
type Nav struct {
	Index int
}

// File is a virtual file in the catalog.
type File struct {
	// Path is the physical path as aggregated. Aliases share their target's path.
	Path     string
	Contents []byte
	Src      Src
	Out      *outpath.Out
	Pub      *outpath.Pub
	Nav      *Nav
	// Rel is the catalog key of an alias's target.
	Rel string
	// Attributes are page attributes taken from the document header.
	Attributes map[string]string
	// Origin names the content source the file came from.
	Origin string
}

// Key returns the catalog key of f.
func (f *File) Key() string {
	return f.Src.Key()
}

// Title returns the document title, falling back to the stem.
func (f *File) Title() string {
	if t := f.Attributes["doctitle"]; t != "" {
		return t
	}
	return f.Src.Stem
}

// URL returns the published URL of f, or "" when it is not published.
func (f *File) URL() string {
	if f.Pub == nil {
		return ""
	}
	return f.Pub.URL
}

func (s *Src) fillDerived() {
	if s.Basename == "" {
		s.Basename = path.Base(s.Relative)
	}
	if s.Extname == "" {
		s.Extname = path.Ext(s.Basename)
	}
	if s.Stem == "" {
		s.Stem = strings.TrimSuffix(s.Basename, s.Extname)
	}
	if s.ModuleRootPath == "" {
		depth := familyRootDepth[s.Family]
		if dir := path.Dir(s.Relative); dir != "." {
			depth += strings.Count(dir, "/") + 1
		}
		s.ModuleRootPath = "."
		if depth > 0 {
			s.ModuleRootPath = strings.TrimSuffix(strings.Repeat("../", depth), "/")
		}
	}
}

// familyRootDepth is the number of directories between a module directory
// and the root of each family (pages, pages/_partials, assets/images, ...).
var familyRootDepth = map[resourceid.Family]int{
	resourceid.FamilyPage:       1,
	resourceid.FamilyAlias:      1,
	resourceid.FamilyPartial:    2,
	resourceid.FamilyImage:      2,
	resourceid.FamilyAttachment: 2,
	resourceid.FamilyExample:    1,
}

func (s Src) outSource() outpath.Source {
	return outpath.Source{Coordinates: s.Coordinates, MediaType: s.MediaType}
}
