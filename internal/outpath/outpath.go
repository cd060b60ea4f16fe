// Package outpath computes where catalog files are written and the URLs
// they are published under, and the relative URLs between published files.
package outpath

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

const (
	// masterVersion contributes no path segment.
	masterVersion = "master"

	imagesSegment      = "_images"
	attachmentsSegment = "_attachments"

	htmlExtension = ".html"
	indexBasename = "index.html"
	indexStem     = "index"
)

// Source is what the resolver needs to know about a file.
type Source struct {
	resourceid.Coordinates
	MediaType string
}

// Out describes the physical output location of a file, relative to the site root.
type Out struct {
	Path           string
	Dirname        string
	Basename       string
	ModuleRootPath string
	RootPath       string
}

// Pub describes the published location of a file.
type Pub struct {
	URL            string
	AbsoluteURL    string
	ModuleRootPath string
	RootPath       string
}

// IsMarkup reports whether a media type is converted to HTML.
func IsMarkup(mediaType string) bool {
	return mediaType == "text/asciidoc" || mediaType == "text/markdown"
}

// publishedDir returns the directory part of relative with every segment
// that starts with an underscore removed.
func publishedDir(relative string) string {
	dir := path.Dir(relative)
	if dir == "." {
		return ""
	}
	kept := make([]string, 0, strings.Count(dir, "/")+1)
	for _, seg := range strings.Split(dir, "/") {
		if !strings.HasPrefix(seg, "_") {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "/")
}

// modulePath is component/version/module with the master version and the
// ROOT module contributing no segment.
func modulePath(c resourceid.Coordinates) string {
	version := c.Version
	if version == masterVersion {
		version = ""
	}
	module := c.Module
	if module == resourceid.RootModule {
		module = ""
	}
	return path.Join(c.Component, version, module)
}

// ResolveOut computes the output descriptor of src. It returns nil for
// families that are not written to the site.
func ResolveOut(src Source, style HTMLExtensionStyle) *Out {
	if !src.Family.Published() {
		return nil
	}

	basename := path.Base(src.Relative)
	stem := strings.TrimSuffix(basename, path.Ext(basename))
	familySegment := ""
	indexifySegment := ""

	switch src.Family {
	case resourceid.FamilyPage, resourceid.FamilyAlias:
		if style == StyleIndexify && stem != indexStem {
			basename = indexBasename
			indexifySegment = stem
		} else {
			basename = stem + htmlExtension
		}
	case resourceid.FamilyImage:
		familySegment = imagesSegment
	case resourceid.FamilyAttachment:
		familySegment = attachmentsSegment
	}
	if src.Family != resourceid.FamilyPage && src.Family != resourceid.FamilyAlias && IsMarkup(src.MediaType) {
		basename = stem + htmlExtension
	}

	modPath := modulePath(src.Coordinates)
	dirname := cleanDir(path.Join(modPath, familySegment, publishedDir(src.Relative), indexifySegment))
	return &Out{
		Path:           path.Join(dirname, basename),
		Dirname:        dirname,
		Basename:       basename,
		ModuleRootPath: Relative(dirname, modPath),
		RootPath:       Relative(dirname, ""),
	}
}

// ResolvePub computes the publication descriptor of src. Navigation files
// get the directory URL of their module; other families need an out.
func ResolvePub(src Source, out *Out, style HTMLExtensionStyle, siteURL string) *Pub {
	pub := &Pub{}
	var url string

	switch {
	case src.Family == resourceid.FamilyNavigation:
		dir := modulePath(src.Coordinates)
		url = "/" + dir + "/"
		if dir == "" {
			url = "/"
		}
		pub.ModuleRootPath = "."
		pub.RootPath = Relative(dir, "")
	case out == nil:
		return nil
	case src.Family == resourceid.FamilyPage || src.Family == resourceid.FamilyAlias:
		url = "/" + pageURLPath(out.Path, style)
	default:
		url = "/" + out.Path
	}

	if out != nil {
		pub.ModuleRootPath = out.ModuleRootPath
		pub.RootPath = out.RootPath
	}
	pub.URL = strings.ReplaceAll(url, " ", "%20")
	if siteURL != "" {
		pub.AbsoluteURL = strings.TrimSuffix(siteURL, "/") + pub.URL
	}
	return pub
}

func pageURLPath(outPath string, style HTMLExtensionStyle) string {
	dir, last := path.Split(outPath)
	switch style {
	case StyleDrop:
		if last == indexBasename {
			last = ""
		} else {
			last = strings.TrimSuffix(last, htmlExtension)
		}
	case StyleIndexify:
		last = ""
	}
	return dir + last
}

func cleanDir(dir string) string {
	if dir == "." {
		return ""
	}
	return dir
}
