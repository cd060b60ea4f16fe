package convert

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
)

var xrefMacro = regexp.MustCompile(`xref:([^\s\[]+)\[([^\]]*)\]`)

// rewriteXrefs replaces AsciiDoc xref macros with link macros to the
// relative URL of their target.
func (c *Converter) rewriteXrefs(f *catalog.File, body []byte) []byte {
	return xrefMacro.ReplaceAllFunc(body, func(m []byte) []byte {
		sub := xrefMacro.FindSubmatch(m)
		spec, text := string(sub[1]), string(sub[2])
		url, target, ok := c.xrefURL(f, spec)
		if !ok {
			return []byte("link:#[" + linkText(spec) + ",role=xref unresolved]")
		}
		if text == "" {
			text = target.Title()
		}
		return []byte("link:" + url + "[" + linkText(text) + ",role=xref page]")
	})
}

// linkText quotes text that would otherwise be read as attributes.
func linkText(text string) string {
	if strings.ContainsAny(text, ",=\"") {
		return `"` + strings.ReplaceAll(text, `"`, `\"`) + `"`
	}
	return text
}
