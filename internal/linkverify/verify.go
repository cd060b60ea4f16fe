package linkverify

import (
	"bytes"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
	"git.home.luguber.info/inful/docatlas/internal/util/sets"
)

// BrokenLink is a site-relative link without a published target.
type BrokenLink struct {
	// Page is the catalog key of the page holding the link.
	Page     string
	PageURL  string
	PagePath string
	Origin   string
	Link     Link
	// Target is the site path the link resolves to.
	Target string
}

// Verify checks every internal link of the published pages in files.
// Pages whose contents cannot be parsed are skipped with a warning.
func Verify(files []*catalog.File, siteURL string) []BrokenLink {
	published := publishedPaths(files)
	sitePath := ""
	if u, err := url.Parse(siteURL); err == nil {
		sitePath = strings.TrimSuffix(u.Path, "/")
	}

	var broken []BrokenLink
	for _, f := range files {
		if f.Src.Family != resourceid.FamilyPage || f.Out == nil || f.Pub == nil {
			continue
		}
		links, err := ExtractLinks(bytes.NewReader(f.Contents), siteURL)
		if err != nil {
			slog.Warn("Skipping link check of unparsable page", logfields.Path(f.Path), logfields.Error(err))
			continue
		}
		for _, l := range links {
			if !l.Checkable() {
				continue
			}
			target, ok := targetPath(f.Pub.URL, l.URL, sitePath)
			if !ok || isPublished(published, target) {
				continue
			}
			broken = append(broken, BrokenLink{
				Page:     f.Key(),
				PageURL:  f.Pub.URL,
				PagePath: f.Path,
				Origin:   f.Origin,
				Link:     l,
				Target:   target,
			})
		}
	}
	return broken
}

// isPublished matches p exactly, as a directory index, or without its .html extension.
func isPublished(set sets.Set[string], p string) bool {
	if strings.HasSuffix(p, "/") {
		return set.HasAny(p, p+"index.html")
	}
	return set.HasAny(p, p+".html", p+"/index.html")
}

func publishedPaths(files []*catalog.File) sets.Set[string] {
	set := sets.New[string]()
	for _, f := range files {
		if f.Out == nil || f.Pub == nil {
			continue
		}
		set.Add("/" + f.Out.Path)
		if p, err := url.PathUnescape(f.Pub.URL); err == nil {
			set.Add(p)
		}
	}
	return set
}

// targetPath resolves link against the page URL and returns the unescaped
// site path it names. Absolute links on the site host are made
// site-relative by removing sitePath.
func targetPath(pageURL, link, sitePath string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	if ref.IsAbs() {
		p := ref.Path
		if sitePath != "" {
			trimmed, ok := strings.CutPrefix(p, sitePath)
			if !ok {
				return "", false
			}
			p = trimmed
		}
		ref = &url.URL{Path: p, RawQuery: ref.RawQuery}
	}
	resolved := base.ResolveReference(ref)
	p := resolved.Path
	if p == "" {
		return "", false
	}
	if strings.HasSuffix(resolved.Path, "/") || p == "/" {
		return p, true
	}
	return path.Clean(p), true
}
