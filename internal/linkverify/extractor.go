// Package linkverify checks the links of published HTML pages against the
// set of URLs the site publishes.
package linkverify

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
)

// Scope says where a link points.
type Scope int

const (
	// ScopeSite links name a resource on the site: relative, root-relative
	// or absolute on the site host.
	ScopeSite Scope = iota
	// ScopeFragment links stay on the current page.
	ScopeFragment
	// ScopeScheme links use a non-navigational scheme such as mailto: or data:.
	ScopeScheme
	// ScopeExternal links point at another host.
	ScopeExternal
)

// Link is one URL-valued attribute found in a page.
type Link struct {
	URL   string
	Text  string // anchor text, image alt or link rel
	Tag   string
	Attr  string
	Scope Scope
	Index int // element ordinal in document order, starting at 1
}

// Checkable reports whether the link can be checked against published URLs.
func (l Link) Checkable() bool {
	return l.Scope == ScopeSite && l.URL != ""
}

var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"video":  "src",
	"audio":  "src",
	"source": "src",
}

var inertSchemes = []string{"mailto:", "tel:", "javascript:", "data:"}

// ExtractLinks returns the links of an HTML document in document order.
// Absolute links on the host of siteURL are ScopeSite.
func ExtractLinks(r io.Reader, siteURL string) ([]Link, error) {
	site, err := url.Parse(siteURL)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid site URL").
			WithContext("site_url", siteURL).
			Build()
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "parse HTML").Build()
	}

	var links []Link
	index := 0
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		index++
		attr, ok := linkAttrs[n.Data]
		if !ok {
			continue
		}
		val, ok := attrValue(n, attr)
		if !ok || val == "" {
			continue
		}
		links = append(links, Link{
			URL:   val,
			Text:  describe(n),
			Tag:   n.Data,
			Attr:  attr,
			Scope: scopeOf(val, site.Host),
			Index: index,
		})
	}
	return links, nil
}

func scopeOf(raw, siteHost string) Scope {
	if strings.HasPrefix(raw, "#") {
		return ScopeFragment
	}
	lower := strings.ToLower(raw)
	for _, s := range inertSchemes {
		if strings.HasPrefix(lower, s) {
			return ScopeScheme
		}
	}
	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return ScopeExternal
	case u.Host == "" && u.Scheme == "":
		return ScopeSite
	case siteHost != "" && u.Host == siteHost:
		return ScopeSite
	default:
		return ScopeExternal
	}
}

func describe(n *html.Node) string {
	switch n.Data {
	case "a":
		return text(n)
	case "img":
		alt, _ := attrValue(n, "alt")
		return alt
	case "link":
		rel, _ := attrValue(n, "rel")
		return rel
	}
	return ""
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// text joins the text nodes below n, collapsing runs of white space.
func text(n *html.Node) string {
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
